package codex

import "slices"

// Slot is one component of a found assignment.
type Slot struct {
	Character  CharacterID `json:"character"`
	Ability    string      `json:"ability"`
	LearnLevel int         `json:"learnLevel"`
}

// ReasonKind distinguishes why a component could not be filled.
type ReasonKind string

const (
	// ReasonLevel means an eligible party member learns the ability later.
	ReasonLevel ReasonKind = "level"
	// ReasonRoster means no eligible character is in the party.
	ReasonRoster ReasonKind = "roster"
)

// Reason explains one unfillable component.
type Reason struct {
	Kind       ReasonKind    `json:"kind"`
	Character  CharacterID   `json:"character"`
	Ability    string        `json:"ability"`
	Level      int           `json:"level,omitempty"`
	Story      bool          `json:"story,omitempty"`
	Characters []CharacterID `json:"characters,omitempty"`
}

// Result is the outcome of evaluating one combo.
type Result struct {
	Available  bool     `json:"available"`
	Assignment []Slot   `json:"assignment,omitempty"`
	Missing    []Reason `json:"missing,omitempty"`
}

// RosterGated reports whether any missing component needs a character who is
// not in the party.
func (r Result) RosterGated() bool {
	for _, m := range r.Missing {
		if m.Kind == ReasonRoster {
			return true
		}
	}
	return false
}

// Evaluate decides whether combo can be performed by distinct members of
// party given their known abilities.
//
// For each component the candidates are the party members, in party order,
// that are eligible and know one of the alternatives; each candidate takes the
// first alternative it knows. Components are filled in declared order by
// backtracking and the first complete assignment wins.
//
// When no assignment exists, only components with no candidate at all are
// explained. A component that has candidates but loses every one of them to
// an earlier component produces no reason.
func (c *Codex) Evaluate(combo Combo, party []CharacterID, known map[CharacterID]map[string]int) Result {
	candidates := make([][]Slot, len(combo.Components))
	for i, comp := range combo.Components {
		for _, id := range party {
			if !comp.Eligible(id) {
				continue
			}
			abilities, ok := known[id]
			if !ok {
				continue
			}
			for _, alt := range comp.Abilities {
				if level, found := abilities[alt]; found {
					candidates[i] = append(candidates[i], Slot{Character: id, Ability: alt, LearnLevel: level})
					break
				}
			}
		}
	}

	assignment := make([]Slot, len(combo.Components))
	used := make(map[CharacterID]bool, len(party))

	var solve func(idx int) bool
	solve = func(idx int) bool {
		if idx == len(candidates) {
			return true
		}
		for _, cand := range candidates[idx] {
			if used[cand.Character] {
				continue
			}
			assignment[idx] = cand
			used[cand.Character] = true
			if solve(idx + 1) {
				return true
			}
			delete(used, cand.Character)
		}
		return false
	}

	if solve(0) {
		return Result{Available: true, Assignment: assignment}
	}

	var missing []Reason
	for i, comp := range combo.Components {
		if len(candidates[i]) > 0 {
			continue
		}
		missing = append(missing, c.explain(comp, party))
	}
	return Result{Missing: missing}
}

// explain finds the cheapest way to unlock comp within the current party.
func (c *Codex) explain(comp Component, party []CharacterID) Reason {
	var best *Reason
	for _, id := range comp.Characters {
		if !slices.Contains(party, id) {
			continue
		}
		for _, alt := range comp.Abilities {
			level, ok := c.LearnLevel(id, alt)
			if !ok {
				continue
			}
			if best == nil || level < best.Level {
				best = &Reason{
					Kind:      ReasonLevel,
					Character: id,
					Ability:   alt,
					Level:     level,
					Story:     c.IsStory(id, alt),
				}
			}
		}
	}
	if best != nil {
		return *best
	}
	return Reason{
		Kind:       ReasonRoster,
		Ability:    comp.Abilities[0],
		Characters: slices.Clone(comp.Characters),
	}
}
