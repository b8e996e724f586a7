// Package theme defines the contract every HUD theme satisfies and the
// registry the CLI and server use to discover them.
package theme

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// Theme turns snapshots into frames for one game.
//
// Implementations are not safe for concurrent use; a session serialises all
// calls onto a single goroutine.
type Theme interface {
	// Metadata returns the theme's identity and the snapshot keys it reads.
	Metadata() Metadata

	// Update applies one tick. A malformed snapshot leaves the previous
	// decoded state in place, sets the error status and returns a
	// *errors.DecodeError.
	Update(ctx context.Context, snap *snapshot.Snapshot) error

	// Fail records a tick whose envelope could not be decoded at all. The
	// decoded state is kept and the header shows the error.
	Fail(err error)

	// Close handles the game closing: all transient state is discarded.
	Close(ctx context.Context)

	// Frame returns the current view model.
	Frame() Frame
}

// Actor is implemented by themes that react to viewer input, such as
// expanding a card or collapsing a list.
type Actor interface {
	Act(ctx context.Context, action Action) error
}

// Action is a viewer interaction routed to a theme.
type Action struct {
	Name   string `json:"action" validate:"required"`
	Target string `json:"target,omitempty"`
}

// Metadata describes a theme.
type Metadata struct {
	Name        string   `json:"name"`
	Game        string   `json:"game"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Keys        []string `json:"keys"`
	Settings    []string `json:"settings,omitempty"`
	Actions     []string `json:"actions,omitempty"`
}

var (
	namePattern   = regexp.MustCompile(`^[a-z0-9_-]+$`)
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// Validate ensures metadata is well-formed.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("theme metadata requires a non-empty Name")
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("theme '%s' has invalid Name (expected lowercase letters, digits, '-' or '_')", m.Name)
	}
	if strings.TrimSpace(m.Game) == "" {
		return fmt.Errorf("theme '%s' metadata requires Game", m.Name)
	}
	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("theme '%s' has invalid Version '%s' (expected format: X.Y.Z)", m.Name, m.Version)
	}
	if len(m.Keys) == 0 {
		return fmt.Errorf("theme '%s' metadata must list at least one snapshot key", m.Name)
	}
	return nil
}

// Options carries the shared dependencies handed to a theme factory.
type Options struct {
	Codex  *codex.Codex
	Logger *logger.Logger
}

// Factory builds a fresh theme instance.
type Factory func(opts Options) (Theme, error)

// Tick decodes one raw bridge payload and applies it to t. An envelope that
// cannot be decoded is reported through Fail.
func Tick(ctx context.Context, t Theme, data string, initial bool) error {
	snap, err := snapshot.Decode(data)
	if err != nil {
		name := t.Metadata().Name
		var decodeErr *emuerrors.DecodeError
		if errors.As(err, &decodeErr) && decodeErr.Theme == "" {
			decodeErr.Theme = name
		}
		t.Fail(err)
		return err
	}
	snap.Initial = initial
	return t.Update(ctx, snap)
}
