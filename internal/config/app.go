package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// DefaultEnvFile is the dotenv file read by Load when present.
const DefaultEnvFile = ".env"

// AppConfig is the process configuration shared by every command.
type AppConfig struct {
	Addr      string   `env:"EMUHUD_ADDR" envDefault:"127.0.0.1:8787" validate:"required,hostname_port"`
	LogLevel  string   `env:"EMUHUD_LOG_LEVEL" envDefault:"info" validate:"required,log_level"`
	LogJSON   bool     `env:"EMUHUD_LOG_JSON" envDefault:"false"`
	QueueSize int      `env:"EMUHUD_QUEUE_SIZE" envDefault:"16" validate:"min=1,max=4096"`
	CodexPath string   `env:"EMUHUD_CODEX"`
	Themes    []string `env:"EMUHUD_THEMES" envSeparator:"," envDefault:"psiv,ff7,goldeneye" validate:"required,min=1,dive,theme_name"`

	// RedisURL enables mirroring frames to Redis when set.
	RedisURL string        `env:"EMUHUD_REDIS_URL" validate:"omitempty,url"`
	RedisTTL time.Duration `env:"EMUHUD_REDIS_TTL" envDefault:"0s"`
}

// Load resolves the configuration from an optional dotenv file and the
// process environment. Variables already set in the environment take
// precedence over the file; a missing file is not an error.
func Load(envFile string) (*AppConfig, error) {
	environ := environMap(os.Environ())

	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, emuerrors.NewParseError(envFile, 0, err)
		default:
			for key, value := range fileVars {
				if _, set := environ[key]; !set {
					environ[key] = value
				}
			}
		}
	}

	return LoadFrom(environ)
}

// LoadFrom resolves the configuration from an explicit variable set.
func LoadFrom(environ map[string]string) (*AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, emuerrors.NewValidationError("env", err.Error(), err)
	}

	for i, name := range cfg.Themes {
		cfg.Themes[i] = strings.TrimSpace(name)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validatorInstance().Struct(&cfg); err != nil {
		return nil, convertValidationError(err)
	}
	return &cfg, nil
}

func environMap(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}
