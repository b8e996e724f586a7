// Package ff7 is the Final Fantasy VII sense HUD. Outside battle it shows the
// active party; in battle it shows every enemy with its static scene data:
// elemental affinities, status immunities, defences, steal item and rewards.
package ff7

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// Name is the registry key of the theme.
const Name = "ff7"

// Game modules reported in current_module.
const (
	moduleBattle = 2
	moduleWorld  = 3
)

// Metadata describes the theme.
var Metadata = theme.Metadata{
	Name:        Name,
	Game:        "Final Fantasy VII",
	Version:     "1.0.0",
	Description: "Sense HUD: party status in the field, enemy intel in battle",
	Keys: []string{
		"current_module", "party_formation", "character_save_data",
		"enemy1_data", "enemy2_data", "enemy3_data", "enemy4_data", "enemy5_data", "enemy6_data",
		"scene_enemy_data", "slot1_hp", "slot2_hp", "slot3_hp", "slot1_mp", "slot2_mp", "slot3_mp", "gil",
	},
}

func init() {
	if err := theme.RegisterTheme(Metadata, New); err != nil {
		panic(err)
	}
}

// Mode is the HUD's current layout.
type Mode string

const (
	ModeNone   Mode = "—"
	ModeField  Mode = "FIELD"
	ModeWorld  Mode = "WORLD"
	ModeBattle Mode = "BATTLE"
)

// tags are the static per-card annotations, computed once per layout.
type tags struct {
	elements Affinities
	immune   []string
}

// layout is the set of enemy slots the battle grid was built for.
type layout struct {
	slots      []int
	generation int
	tags       map[int]*tags
}

// Theme holds the battle layout between ticks.
type Theme struct {
	log    *logger.Logger
	header theme.Header
	layout layout
	view   View
	frame  theme.Frame
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
		log:    log.WithTheme(Name),
		header: theme.NewHeader(),
		view:   View{Mode: ModeNone, GilText: "0"},
	}
	t.render()
	return t
}

// Metadata implements theme.Theme.
func (t *Theme) Metadata() theme.Metadata { return Metadata }

// Update implements theme.Theme.
func (t *Theme) Update(ctx context.Context, snap *snapshot.Snapshot) error {
	t.header.Connected(snap.Connected)
	values := snap.Values

	var actors [MaxEnemies]*Actor
	valid := 0
	for i := range actors {
		r, ok, err := values.Blob(enemyKey(i + 1))
		if err != nil || !ok {
			continue
		}
		actor, present := DecodeActor(r)
		if !present {
			continue
		}
		actors[i] = &actor
		if actor.Valid() {
			valid++
		}
	}

	module, hasModule := values.Int("current_module")
	inBattle := (hasModule && module == moduleBattle) || valid > 0

	var (
		view View
		err  error
	)
	if inBattle {
		view, err = t.battle(values, actors)
	} else {
		view, err = t.field(values, hasModule && module == moduleWorld)
	}
	if err != nil {
		t.Fail(err)
		return err
	}

	gil := values.IntOr("gil", 0)
	view.Gil = gil
	view.GilText = group(gil)
	t.view = view
	t.render()
	return nil
}

func (t *Theme) battle(values snapshot.Values, actors [MaxEnemies]*Actor) (View, error) {
	var types []*EnemyType
	scene, ok, err := values.Blob("scene_enemy_data")
	if err != nil {
		return View{}, tagged(err, "scene_enemy_data")
	}
	if ok {
		types = DecodeScene(scene)
	}

	active := make([]int, 0, MaxEnemies)
	for i, actor := range actors {
		if actor != nil {
			active = append(active, i+1)
		}
	}

	if !slices.Equal(active, t.layout.slots) {
		t.layout = layout{
			slots:      active,
			generation: t.layout.generation + 1,
			tags:       make(map[int]*tags, len(active)),
		}
		t.log.WithFields(map[string]any{"slots": active}).Debug("battle layout rebuilt")
	}

	view := View{Mode: ModeBattle, Layout: t.layout.generation, Enemies: make([]Enemy, 0, len(active))}
	for _, slot := range active {
		actor := *actors[slot-1]
		typ := TypeFor(actor, types)
		if typ != nil && t.layout.tags[slot] == nil {
			t.layout.tags[slot] = &tags{elements: typ.Elements, immune: typ.Immunities()}
		}
		view.Enemies = append(view.Enemies, enemyCard(slot, actor, typ, t.layout.tags[slot]))
	}
	return view, nil
}

func (t *Theme) field(values snapshot.Values, world bool) (View, error) {
	t.clearBattle()

	view := View{Mode: ModeField, Layout: t.layout.generation}
	if world {
		view.Mode = ModeWorld
	}

	formation, _, err := values.Blob("party_formation")
	if err != nil {
		return View{}, tagged(err, "party_formation")
	}
	save, hasSave, err := values.Blob("character_save_data")
	if err != nil {
		return View{}, tagged(err, "character_save_data")
	}

	for i := 0; i < PartySlots; i++ {
		idx := int(formation.U8Or(i, emptyFormation))
		if idx == emptyFormation || idx >= len(characterNames) {
			continue
		}

		var sc SaveChar
		if hasSave {
			sc = DecodeSaveChar(save, idx)
		}
		hp := values.IntOr(fmt.Sprintf("slot%d_hp", i+1), 0)
		if hp == 0 {
			hp = sc.HP
		}
		mp := values.IntOr(fmt.Sprintf("slot%d_mp", i+1), 0)
		if mp == 0 {
			mp = sc.MP
		}
		view.Party = append(view.Party, member(i+1, characterNames[idx], sc.Level, hp, sc.MaxHP, mp, sc.MaxMP))
	}
	return view, nil
}

func (t *Theme) clearBattle() {
	if len(t.layout.slots) == 0 && t.layout.tags == nil {
		return
	}
	t.layout = layout{generation: t.layout.generation + 1}
}

// Fail implements theme.Theme.
func (t *Theme) Fail(err error) {
	t.header.Fail(err)
	t.render()
}

// Close implements theme.Theme.
func (t *Theme) Close(ctx context.Context) {
	t.header.Closed()
	t.clearBattle()
	t.view = View{Mode: ModeNone, Layout: t.layout.generation, Gil: t.view.Gil, GilText: t.view.GilText}
	t.render()
}

// Frame implements theme.Theme.
func (t *Theme) Frame() theme.Frame { return t.frame }

// View returns the typed body of the current frame.
func (t *Theme) View() View { return t.view }

func (t *Theme) render() {
	f := theme.Frame{Theme: Name, Body: t.view, Sections: t.view.sections()}
	t.header.Stamp(&f)
	t.frame = f
}

func enemyKey(slot int) string {
	return fmt.Sprintf("enemy%d_data", slot)
}

func tagged(err error, field string) error {
	if decodeErr, ok := err.(*emuerrors.DecodeError); ok {
		return emuerrors.NewDecodeError(Name, decodeErr.Field, decodeErr.Err)
	}
	return emuerrors.NewDecodeError(Name, field, err)
}
