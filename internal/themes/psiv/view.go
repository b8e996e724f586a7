package psiv

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

const (
	msgWaiting = "Waiting for party data…"
	msgNone    = "No combos available with current party"
)

// HPBand classifies a health ratio for colouring.
type HPBand string

const (
	HPFull HPBand = "full"
	HPMid  HPBand = "mid"
	HPLow  HPBand = "low"
)

var toneBands = map[theme.Tone]HPBand{
	theme.ToneGood: HPFull,
	theme.ToneWarn: HPMid,
	theme.ToneBad:  HPLow,
}

// BandFor returns the band for a ratio in [0, 1], following
// theme.HealthTone.
func BandFor(ratio float64) HPBand {
	return toneBands[theme.HealthTone(ratio)]
}

// Member is one party slot in the view.
type Member struct {
	ID        codex.CharacterID `json:"id"`
	Name      string            `json:"name"`
	Level     int               `json:"level"`
	HPText    string            `json:"hpText"`
	TPText    string            `json:"tpText"`
	HPPercent int               `json:"hpPercent"`
	TPPercent int               `json:"tpPercent"`
	HPBand    HPBand            `json:"hpBand"`
	HPTone    theme.Tone        `json:"hpTone"`
}

// Card is one combo in the view.
type Card struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Element     string   `json:"element"`
	Label       string   `json:"label"`
	Color       string   `json:"color"`
	Available   bool     `json:"available"`
	Summary     string   `json:"summary,omitempty"`
	Missing     string   `json:"missing,omitempty"`
	Expanded    bool     `json:"expanded"`
	Details     []string `json:"details,omitempty"`
	Description string   `json:"description,omitempty"`
}

// View is the typed frame body.
type View struct {
	Settings        Settings `json:"settings"`
	Party           []Member `json:"party"`
	Available       []Card   `json:"available"`
	Locked          []Card   `json:"locked"`
	LockedCollapsed bool     `json:"lockedCollapsed"`
	EmptyMessage    string   `json:"emptyMessage,omitempty"`
}

func (t *Theme) buildView() View {
	roster := t.slots.Roster(t.codex)
	levels := make(map[codex.CharacterID]int, len(roster))
	for _, id := range roster {
		levels[id] = t.stats[id].Level
	}
	partition := t.codex.EvaluateAll(roster, t.codex.PartyAbilities(roster, levels))

	view := View{
		Settings:        t.settings,
		Party:           make([]Member, 0, len(roster)),
		Available:       make([]Card, 0, len(partition.Available)),
		LockedCollapsed: t.lockedCollapsed,
	}

	for _, id := range roster {
		view.Party = append(view.Party, t.member(id))
	}

	for _, entry := range partition.Available {
		view.Available = append(view.Available, t.card(entry))
	}
	if len(view.Available) == 0 {
		view.EmptyMessage = msgNone
		if len(roster) == 0 {
			view.EmptyMessage = msgWaiting
		}
	}

	reachable := partition.Reachable()
	view.Locked = make([]Card, 0, len(reachable))
	for _, entry := range reachable {
		view.Locked = append(view.Locked, t.card(entry))
	}
	return view
}

func (t *Theme) member(id codex.CharacterID) Member {
	m := Member{
		ID:     id,
		Name:   strings.ToUpper(t.codex.Name(id)),
		HPText: "?",
		TPText: "?",
		HPBand: HPLow,
		HPTone: theme.ToneBad,
	}
	stats, ok := t.stats[id]
	if !ok {
		return m
	}

	m.Level = stats.Level
	m.HPText = fmt.Sprintf("%d/%d", stats.HP, stats.MaxHP)
	m.TPText = fmt.Sprintf("%d/%d", stats.TP, stats.MaxTP)
	var hpRatio float64
	if stats.MaxHP > 0 {
		hpRatio = float64(stats.HP) / float64(stats.MaxHP)
		m.HPPercent = int(math.Round(hpRatio * 100))
	}
	if stats.MaxTP > 0 {
		m.TPPercent = int(math.Round(float64(stats.TP) / float64(stats.MaxTP) * 100))
	}
	m.HPTone = theme.HealthTone(hpRatio)
	m.HPBand = BandFor(hpRatio)
	return m
}

func (t *Theme) card(entry codex.Entry) Card {
	combo, result := entry.Combo, entry.Result
	el := t.codex.Element(combo.Element)
	c := Card{
		Name:      combo.Name,
		Title:     strings.ToUpper(combo.Name),
		Element:   combo.Element,
		Label:     el.Label,
		Color:     el.Color,
		Available: result.Available,
		Expanded:  t.expanded[combo.Name],
	}

	if result.Available {
		parts := make([]string, 0, len(result.Assignment))
		for _, slot := range result.Assignment {
			parts = append(parts, fmt.Sprintf("%s (%s)", slot.Ability, t.codex.Name(slot.Character)))
		}
		c.Summary = strings.Join(parts, " + ")
	} else if len(result.Missing) > 0 {
		parts := make([]string, 0, len(result.Missing))
		for _, reason := range result.Missing {
			parts = append(parts, t.missing(reason))
		}
		c.Missing = "Needs: " + strings.Join(parts, ", ")
	}

	if c.Expanded {
		c.Details = t.details(combo, result)
		c.Description = combo.Description
	}
	return c
}

func (t *Theme) missing(reason codex.Reason) string {
	if reason.Kind == codex.ReasonLevel {
		prefix := ""
		if reason.Story {
			prefix = "~"
		}
		return fmt.Sprintf("%s (%s %sLv%d)", reason.Ability, t.codex.Name(reason.Character), prefix, reason.Level)
	}
	return fmt.Sprintf("Needs %s in party", t.names(reason.Characters))
}

func (t *Theme) details(combo codex.Combo, result codex.Result) []string {
	lines := make([]string, 0, len(combo.Components))
	for i, comp := range combo.Components {
		if result.Available && i < len(result.Assignment) {
			slot := result.Assignment[i]
			level, _ := t.codex.LearnLevel(slot.Character, slot.Ability)
			suffix := fmt.Sprintf(" (learned Lv%d)", level)
			if t.codex.IsStory(slot.Character, slot.Ability) {
				suffix = fmt.Sprintf(" (story ~Lv%d)", level)
			}
			lines = append(lines, fmt.Sprintf("▸ %s → %s%s", slot.Ability, t.codex.Name(slot.Character), suffix))
			continue
		}

		variants := ""
		if len(comp.Abilities) > 1 {
			variants = " (+variants)"
		}
		lines = append(lines, fmt.Sprintf("▸ %s%s → %s", comp.Abilities[0], variants, t.names(comp.Characters)))
	}
	return lines
}

func (t *Theme) names(ids []codex.CharacterID) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, t.codex.Name(id))
	}
	return strings.Join(names, "/")
}

func (v View) sections() []theme.Section {
	var sections []theme.Section

	if v.Settings.ShowParty {
		party := theme.Section{Title: "PARTY", Lines: make([]theme.Line, 0, len(v.Party))}
		for _, m := range v.Party {
			party.Lines = append(party.Lines, theme.Line{
				Text: fmt.Sprintf("%-5s Lv%-3d HP %-9s TP %s", m.Name, m.Level, m.HPText, m.TPText),
				Tone: m.HPTone,
			})
		}
		sections = append(sections, party)
	}

	available := theme.Section{Title: "AVAILABLE", Badge: fmt.Sprint(len(v.Available))}
	if v.EmptyMessage != "" {
		available.Lines = append(available.Lines, theme.Line{Text: v.EmptyMessage, Tone: theme.ToneDim})
	}
	for _, c := range v.Available {
		available.Lines = append(available.Lines, c.lines()...)
	}
	sections = append(sections, available)

	if v.Settings.ShowLocked {
		locked := theme.Section{Title: "LOCKED", Badge: fmt.Sprint(len(v.Locked))}
		if !v.LockedCollapsed {
			for _, c := range v.Locked {
				locked.Lines = append(locked.Lines, c.lines()...)
			}
		}
		sections = append(sections, locked)
	}

	return sections
}

func (c Card) lines() []theme.Line {
	lines := []theme.Line{{Text: fmt.Sprintf("%s [%s]", c.Title, c.Label), Color: c.Color, Tone: theme.ToneAccent}}
	if c.Summary != "" {
		lines = append(lines, theme.Line{Text: "  " + c.Summary})
	}
	if c.Missing != "" {
		lines = append(lines, theme.Line{Text: "  " + c.Missing, Tone: theme.ToneWarn})
	}
	for _, d := range c.Details {
		lines = append(lines, theme.Line{Text: "    " + d, Tone: theme.ToneDim})
	}
	if c.Description != "" {
		lines = append(lines, theme.Line{Text: "    " + c.Description, Tone: theme.ToneDim})
	}
	return lines
}
