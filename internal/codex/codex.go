// Package codex models party members, their learnable abilities and the
// multi-character combination attacks built from them, and decides which
// combinations a party can currently perform.
package codex

import (
	"fmt"
	"sort"

	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// CharacterID identifies a party member. IDs are small integers assigned by
// the game.
type CharacterID uint8

// EmptySlot marks an unused party slot in memory.
const EmptySlot CharacterID = 0xFF

// Category is how a character acquires an ability. It only affects how the
// requirement is displayed, never whether a combo matches.
type Category string

const (
	CategoryTech  Category = "tech"
	CategorySkill Category = "skill"
	CategoryStory Category = "story"
)

// categoryOrder is the merge order for known abilities and the lookup order
// for learn levels.
var categoryOrder = []Category{CategoryTech, CategorySkill, CategoryStory}

// LearnSet maps ability names to the level at which they are acquired, per
// acquisition category. Story abilities are gated by story events; their level
// is an approximate threshold.
type LearnSet struct {
	Techs  map[string]int
	Skills map[string]int
	Story  map[string]int
}

func (s LearnSet) category(c Category) map[string]int {
	switch c {
	case CategoryTech:
		return s.Techs
	case CategorySkill:
		return s.Skills
	case CategoryStory:
		return s.Story
	default:
		return nil
	}
}

// Character is a static roster entry.
type Character struct {
	ID     CharacterID
	Name   string
	Learns LearnSet
}

// Element is the display palette entry for a combo element.
type Element struct {
	Label string
	Color string
}

// Tables is the raw material of a Codex.
type Tables struct {
	Characters []Character
	Combos     []Combo
	Elements   map[string]Element
}

// Codex is the immutable table of characters and combos for one game.
type Codex struct {
	characters map[CharacterID]Character
	ids        []CharacterID
	combos     []Combo
	elements   map[string]Element
}

// New validates and indexes the supplied tables. Combos keep their declared
// order.
func New(t Tables) (*Codex, error) {
	characters, combos := t.Characters, t.Combos
	c := &Codex{
		characters: make(map[CharacterID]Character, len(characters)),
		ids:        make([]CharacterID, 0, len(characters)),
		combos:     make([]Combo, 0, len(combos)),
		elements:   make(map[string]Element, len(t.Elements)),
	}
	for name, el := range t.Elements {
		c.elements[name] = el
	}

	for i, ch := range characters {
		if ch.ID == EmptySlot {
			return nil, emuerrors.NewValidationError(fmt.Sprintf("characters[%d].id", i), "id 255 is reserved for empty slots", nil)
		}
		if _, exists := c.characters[ch.ID]; exists {
			return nil, emuerrors.NewValidationError(fmt.Sprintf("characters[%d].id", i), fmt.Sprintf("duplicate character id %d", ch.ID), nil)
		}
		for _, cat := range categoryOrder {
			for ability, level := range ch.Learns.category(cat) {
				if level < 0 {
					return nil, emuerrors.NewValidationError(
						fmt.Sprintf("characters[%d].%s.%s", i, cat, ability),
						fmt.Sprintf("learn level %d is negative", level), nil)
				}
			}
		}
		c.characters[ch.ID] = ch
		c.ids = append(c.ids, ch.ID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })

	names := make(map[string]struct{}, len(combos))
	for i, combo := range combos {
		if _, exists := names[combo.Name]; exists {
			return nil, emuerrors.NewValidationError(fmt.Sprintf("combos[%d].name", i), fmt.Sprintf("duplicate combo %q", combo.Name), nil)
		}
		names[combo.Name] = struct{}{}

		if len(c.elements) > 0 {
			if _, ok := c.elements[combo.Element]; !ok {
				return nil, emuerrors.NewValidationError(fmt.Sprintf("combos[%d].element", i), fmt.Sprintf("unknown element %q", combo.Element), nil)
			}
		}
		if len(combo.Components) == 0 {
			return nil, emuerrors.NewValidationError(fmt.Sprintf("combos[%d].components", i), "combo has no components", nil)
		}
		for j, comp := range combo.Components {
			field := fmt.Sprintf("combos[%d].components[%d]", i, j)
			if len(comp.Abilities) == 0 {
				return nil, emuerrors.NewValidationError(field+".ability", "component has no ability alternatives", nil)
			}
			if len(comp.Characters) == 0 {
				return nil, emuerrors.NewValidationError(field+".chars", "component has no eligible characters", nil)
			}
			for _, id := range comp.Characters {
				if _, ok := c.characters[id]; !ok {
					return nil, emuerrors.NewValidationError(field+".chars", fmt.Sprintf("references unknown character %d", id), nil)
				}
			}
		}
		c.combos = append(c.combos, combo.clone())
	}

	return c, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(t Tables) *Codex {
	c, err := New(t)
	if err != nil {
		panic(err)
	}
	return c
}

// Combos returns the combo table in declared order.
func (c *Codex) Combos() []Combo {
	out := make([]Combo, len(c.combos))
	copy(out, c.combos)
	return out
}

// Combo looks up a combo by name.
func (c *Codex) Combo(name string) (Combo, bool) {
	for _, combo := range c.combos {
		if combo.Name == name {
			return combo, true
		}
	}
	return Combo{}, false
}

// Element returns the palette entry for name, falling back to the physical
// palette and then to a neutral grey.
func (c *Codex) Element(name string) Element {
	if el, ok := c.elements[name]; ok {
		return el
	}
	if el, ok := c.elements["physical"]; ok {
		return el
	}
	return Element{Label: name, Color: "#c8dce8"}
}

// Characters returns the roster ids in ascending order.
func (c *Codex) Characters() []CharacterID {
	out := make([]CharacterID, len(c.ids))
	copy(out, c.ids)
	return out
}

// Known reports whether id is part of the roster.
func (c *Codex) Known(id CharacterID) bool {
	_, ok := c.characters[id]
	return ok
}

// Name returns the display name for id, or "???" when unknown.
func (c *Codex) Name(id CharacterID) string {
	if ch, ok := c.characters[id]; ok && ch.Name != "" {
		return ch.Name
	}
	return "???"
}

// KnownAbilities returns every ability id has acquired by level, mapped to
// its acquisition level. Categories are merged tech, skill, story; a name
// present in more than one category takes the later category's level.
func (c *Codex) KnownAbilities(id CharacterID, level int) map[string]int {
	known := make(map[string]int)
	ch, ok := c.characters[id]
	if !ok {
		return known
	}
	for _, cat := range categoryOrder {
		for ability, learnLevel := range ch.Learns.category(cat) {
			if level >= learnLevel {
				known[ability] = learnLevel
			}
		}
	}
	return known
}

// LearnLevel returns the level at which id acquires ability, searching tech,
// skill, then story.
func (c *Codex) LearnLevel(id CharacterID, ability string) (int, bool) {
	ch, ok := c.characters[id]
	if !ok {
		return 0, false
	}
	for _, cat := range categoryOrder {
		if level, found := ch.Learns.category(cat)[ability]; found {
			return level, true
		}
	}
	return 0, false
}

// IsStory reports whether id acquires ability through a story event.
func (c *Codex) IsStory(id CharacterID, ability string) bool {
	ch, ok := c.characters[id]
	if !ok {
		return false
	}
	_, found := ch.Learns.Story[ability]
	return found
}

// PartyAbilities resolves the known abilities of every party member from
// their current levels. Members without a level entry are treated as level 0.
func (c *Codex) PartyAbilities(party []CharacterID, levels map[CharacterID]int) map[CharacterID]map[string]int {
	out := make(map[CharacterID]map[string]int, len(party))
	for _, id := range party {
		out[id] = c.KnownAbilities(id, levels[id])
	}
	return out
}
