// Package psiv is the Phantasy Star IV combo codex theme. It decodes the
// active party from memory and lists the combination attacks the party can
// perform now, and those it could unlock by levelling.
package psiv

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// Name is the registry key of the theme.
const Name = "psiv"

// Actions understood by Act.
const (
	ActionExpand       = "expand"
	ActionToggleLocked = "toggle-locked"
)

// Metadata describes the theme.
var Metadata = theme.Metadata{
	Name:        Name,
	Game:        "Phantasy Star IV",
	Version:     "1.0.0",
	Description: "Combo codex: combination attacks the active party can perform",
	Keys:        []string{"party_slots", "all_chars"},
	Settings:    []string{"show_locked", "show_party"},
	Actions:     []string{ActionExpand, ActionToggleLocked},
}

func init() {
	if err := theme.RegisterTheme(Metadata, New); err != nil {
		panic(err)
	}
}

// Settings are the viewer toggles carried in snapshots.
type Settings struct {
	ShowLocked bool `json:"showLocked"`
	ShowParty  bool `json:"showParty"`
}

// Theme holds the party state between ticks.
type Theme struct {
	codex  *codex.Codex
	log    *logger.Logger
	header theme.Header

	slots    Slots
	stats    map[codex.CharacterID]Stats
	settings Settings

	expanded        map[string]bool
	lockedCollapsed bool

	frame theme.Frame
}

// New builds a theme instance. The built-in codex is used when opts carries
// none.
func New(opts theme.Options) (theme.Theme, error) {
	return NewTheme(opts), nil
}

// NewTheme is New with the concrete type.
func NewTheme(opts theme.Options) *Theme {
	c := opts.Codex
	if c == nil {
		c = codex.PSIV()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	t := &Theme{
		codex:    c,
		log:      log.WithTheme(Name),
		header:   theme.NewHeader(),
		slots:    EmptySlots(),
		stats:    make(map[codex.CharacterID]Stats),
		settings: Settings{ShowLocked: true, ShowParty: true},
		expanded: make(map[string]bool),
	}
	t.render()
	return t
}

// Metadata implements theme.Theme.
func (t *Theme) Metadata() theme.Metadata { return Metadata }

// Update implements theme.Theme.
func (t *Theme) Update(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap.Settings.Present() {
		t.settings.ShowLocked = snap.Settings.Toggle("show_locked")
		t.settings.ShowParty = snap.Settings.Toggle("show_party")
	}
	t.header.Connected(snap.Connected)

	next, ok, err := decodeParty(snap.Values, t.codex)
	if err != nil {
		t.Fail(err)
		return err
	}

	if ok {
		t.accept(next)
	}
	t.render()
	return nil
}

// accept replaces the party state, ignoring a transient all-empty read that
// follows a populated party.
func (t *Theme) accept(next party) {
	if len(next.slots.Roster(t.codex)) == 0 && t.slots.Occupied() {
		t.log.Debug("ignoring empty party read")
		return
	}
	if next.slots != t.slots {
		t.log.WithFields(map[string]any{"slots": next.slots[:]}).Debug("party changed")
	}
	t.slots = next.slots
	t.stats = next.stats
}

// Fail implements theme.Theme.
func (t *Theme) Fail(err error) {
	t.header.Fail(err)
	t.render()
}

// Close implements theme.Theme.
func (t *Theme) Close(ctx context.Context) {
	t.header.Closed()
	t.slots = EmptySlots()
	t.stats = make(map[codex.CharacterID]Stats)
	t.render()
}

// Act implements theme.Actor. "expand" toggles the detail view of the combo
// named by Target; "toggle-locked" collapses or expands the locked list.
func (t *Theme) Act(ctx context.Context, action theme.Action) error {
	switch action.Name {
	case ActionExpand:
		if _, ok := t.codex.Combo(action.Target); !ok {
			return emuerrors.NewValidationError("target", fmt.Sprintf("unknown combo %q", action.Target), nil)
		}
		t.expanded[action.Target] = !t.expanded[action.Target]
	case ActionToggleLocked:
		t.lockedCollapsed = !t.lockedCollapsed
	default:
		return emuerrors.NewValidationError("action", fmt.Sprintf("unsupported action %q", action.Name), nil)
	}
	t.render()
	return nil
}

// Frame implements theme.Theme.
func (t *Theme) Frame() theme.Frame { return t.frame }

// View returns the typed body of the current frame.
func (t *Theme) View() View {
	v, _ := t.frame.Body.(View)
	return v
}

func (t *Theme) render() {
	view := t.buildView()
	f := theme.Frame{Theme: Name, Body: view, Sections: view.sections()}
	t.header.Stamp(&f)
	t.frame = f
}
