package codex

// Entry pairs a combo with its evaluation.
type Entry struct {
	Combo  Combo
	Result Result
}

// Partition splits the combo table by availability. Both lists keep table
// order.
type Partition struct {
	Available []Entry
	Locked    []Entry
}

// EvaluateAll evaluates every combo in the table against party.
func (c *Codex) EvaluateAll(party []CharacterID, known map[CharacterID]map[string]int) Partition {
	var p Partition
	for _, combo := range c.combos {
		result := c.Evaluate(combo, party, known)
		if result.Available {
			p.Available = append(p.Available, Entry{Combo: combo, Result: result})
		} else {
			p.Locked = append(p.Locked, Entry{Combo: combo, Result: result})
		}
	}
	return p
}

// Reachable returns the locked entries that the current party could unlock by
// levelling, dropping those that need an absent character.
func (p Partition) Reachable() []Entry {
	var out []Entry
	for _, e := range p.Locked {
		if !e.Result.RosterGated() {
			out = append(out, e)
		}
	}
	return out
}
