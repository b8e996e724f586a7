package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseCodex loads a codex file from disk, validates it, and returns the resulting codex.
func ParseCodex(path string) (*codex.Codex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, emuerrors.NewParseError(path, 0, err)
	}
	return parseCodex(path, data)
}

func parseCodex(path string, data []byte) (*codex.Codex, error) {
	var file CodexFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, emuerrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateCodexFile(&file); err != nil {
		return nil, err
	}

	return codex.New(file.Tables())
}

// ValidateCodexFile performs structural validation on a decoded codex file.
// Cross references (known character ids, unique names, known elements) are
// checked when the tables are indexed by codex.New.
func ValidateCodexFile(file *CodexFile) error {
	if file == nil {
		return emuerrors.NewValidationError("codex", "codex file is nil", nil)
	}
	return convertValidationError(validatorInstance().Struct(file))
}

// Tables converts the file representation into codex tables.
func (f *CodexFile) Tables() codex.Tables {
	tables := codex.Tables{
		Characters: make([]codex.Character, 0, len(f.Characters)),
		Combos:     make([]codex.Combo, 0, len(f.Combos)),
	}

	for _, ch := range f.Characters {
		tables.Characters = append(tables.Characters, codex.Character{
			ID:   codex.CharacterID(ch.ID),
			Name: ch.Name,
			Learns: codex.LearnSet{
				Techs:  ch.Techs,
				Skills: ch.Skills,
				Story:  ch.Story,
			},
		})
	}

	if len(f.Elements) > 0 {
		tables.Elements = make(map[string]codex.Element, len(f.Elements))
		for name, el := range f.Elements {
			tables.Elements[name] = codex.Element{Label: el.Label, Color: el.Color}
		}
	}

	for _, combo := range f.Combos {
		out := codex.Combo{
			Name:        combo.Name,
			Element:     combo.Element,
			Description: combo.Description,
			Components:  make([]codex.Component, 0, len(combo.Components)),
		}
		for _, comp := range combo.Components {
			chars := make([]codex.CharacterID, 0, len(comp.Chars))
			for _, id := range comp.Chars {
				chars = append(chars, codex.CharacterID(id))
			}
			out.Components = append(out.Components, codex.Component{
				Abilities:  splitAlternatives(comp.Ability),
				Characters: chars,
			})
		}
		tables.Combos = append(tables.Combos, out)
	}

	return tables
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
