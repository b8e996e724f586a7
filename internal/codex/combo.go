package codex

import "slices"

// Component is one slot of a combo: any of the ability alternatives, cast by
// any of the eligible characters.
type Component struct {
	Abilities  []string
	Characters []CharacterID
}

// Eligible reports whether id may fill this component.
func (c Component) Eligible(id CharacterID) bool {
	return slices.Contains(c.Characters, id)
}

// Combo is a multi-character combination attack.
type Combo struct {
	Name        string
	Element     string
	Description string
	Components  []Component
}

func (c Combo) clone() Combo {
	out := c
	out.Components = make([]Component, len(c.Components))
	for i, comp := range c.Components {
		out.Components[i] = Component{
			Abilities:  slices.Clone(comp.Abilities),
			Characters: slices.Clone(comp.Characters),
		}
	}
	return out
}
