// Package goldeneye is the GoldenEye 007 mission briefing HUD: objectives for
// the selected difficulty, mission timer, health, armor and the held weapon.
package goldeneye

import (
	"context"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// Name is the registry key of the theme.
const Name = "goldeneye"

const (
	firstMission  = 33
	lastMission   = 52
	titleScreen   = 90
	maxObjectives = 10
	maxAmmoTypes  = 30
)

// Metadata describes the theme.
var Metadata = theme.Metadata{
	Name:        Name,
	Game:        "GoldenEye 007",
	Version:     "1.0.0",
	Description: "Mission briefing: objectives, timer, vitals and weapon",
	Keys: []string{
		"level_id", "difficulty", "mission_timer", "objectives", "health", "armor",
		"weapon_r", "weapon_l", "ammo_mag", "ammo_reserve",
	},
	Settings: []string{"show_weapon", "show_timer"},
}

func init() {
	if err := theme.RegisterTheme(Metadata, New); err != nil {
		panic(err)
	}
}

// Settings are the viewer toggles carried in snapshots.
type Settings struct {
	ShowWeapon bool `json:"showWeapon"`
	ShowTimer  bool `json:"showTimer"`
}

// state is the last decoded mission state.
type state struct {
	level      int
	difficulty int
	timer      int
	objectives []int32
	health     float64
	armor      float64
	weaponR    int
	weaponL    int
	ammoMag    int
	reserve    []uint32
}

func idle() state {
	return state{level: -1}
}

func (s state) inMission() bool {
	return s.level != titleScreen && s.level >= firstMission && s.level <= lastMission
}

// Theme holds the mission state between ticks.
type Theme struct {
	log      *logger.Logger
	header   theme.Header
	state    state
	settings Settings
	frame    theme.Frame
}

// New builds a theme instance.
func New(opts theme.Options) (theme.Theme, error) {
	return NewTheme(opts), nil
}

// NewTheme is New with the concrete type.
func NewTheme(opts theme.Options) *Theme {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	t := &Theme{
		log:      log.WithTheme(Name),
		header:   theme.NewHeader(),
		state:    idle(),
		settings: Settings{ShowWeapon: true, ShowTimer: true},
	}
	t.render()
	return t
}

// Metadata implements theme.Theme.
func (t *Theme) Metadata() theme.Metadata { return Metadata }

// Update implements theme.Theme.
func (t *Theme) Update(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap.Settings.Present() {
		t.settings = Settings{
			ShowWeapon: snap.Settings.Toggle("show_weapon"),
			ShowTimer:  snap.Settings.Toggle("show_timer"),
		}
	}
	t.header.Connected(snap.Connected)

	next, err := decodeState(snap.Values, t.state)
	if err != nil {
		t.Fail(err)
		return err
	}
	if next.level != t.state.level {
		t.log.WithFields(map[string]any{"level": next.level, "difficulty": next.difficulty}).Debug("level changed")
	}
	t.state = next
	t.render()
	return nil
}

// decodeState reads one tick. The objective and reserve arrays keep their
// previous contents when the tick does not carry them.
func decodeState(values snapshot.Values, prev state) (state, error) {
	s := state{
		level:      values.IntOr("level_id", -1),
		difficulty: values.IntOr("difficulty", Agent),
		timer:      values.IntOr("mission_timer", 0),
		objectives: prev.objectives,
		health:     values.FloatOr("health", 0),
		armor:      values.FloatOr("armor", 0),
		weaponR:    values.IntOr("weapon_r", 0),
		weaponL:    values.IntOr("weapon_l", 0),
		ammoMag:    values.IntOr("ammo_mag", 0),
		reserve:    prev.reserve,
	}

	objectives, ok, err := values.Blob("objectives")
	if err != nil {
		return state{}, tagged(err, "objectives")
	}
	if ok {
		s.objectives = objectives.I32Array(maxObjectives)
	}

	reserve, ok, err := values.Blob("ammo_reserve")
	if err != nil {
		return state{}, tagged(err, "ammo_reserve")
	}
	if ok {
		s.reserve = reserve.U32Array(maxAmmoTypes)
	}
	return s, nil
}

// Fail implements theme.Theme.
func (t *Theme) Fail(err error) {
	t.header.Fail(err)
	t.render()
}

// Close implements theme.Theme.
func (t *Theme) Close(ctx context.Context) {
	t.header.Closed()
	t.state = idle()
	t.render()
}

// Frame implements theme.Theme.
func (t *Theme) Frame() theme.Frame { return t.frame }

// View returns the typed body of the current frame.
func (t *Theme) View() View { return buildView(t.state, t.settings) }

func (t *Theme) render() {
	view := t.View()
	f := theme.Frame{Theme: Name, Body: view, Sections: view.sections()}
	t.header.Stamp(&f)
	t.frame = f
}

func tagged(err error, field string) error {
	if decodeErr, ok := err.(*emuerrors.DecodeError); ok {
		return emuerrors.NewDecodeError(Name, decodeErr.Field, decodeErr.Err)
	}
	return emuerrors.NewDecodeError(Name, field, err)
}
