package ff7

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

const none = "—"

// Gauge is a current/max pair with its display text.
type Gauge struct {
	Current int     `json:"current"`
	Max     int     `json:"max"`
	Text    string  `json:"text"`
	Ratio   float64 `json:"ratio"`
}

func gauge(cur, max int) Gauge {
	g := Gauge{Current: cur, Max: max, Text: group(cur) + " / " + group(max)}
	if max > 0 {
		g.Ratio = float64(cur) / float64(max)
	}
	return g
}

// Member is one party card.
type Member struct {
	Slot  int    `json:"slot"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	HP    Gauge  `json:"hp"`
	MP    Gauge  `json:"mp"`
}

func member(slot int, name string, level, hp, maxHP, mp, maxMP int) Member {
	return Member{Slot: slot, Name: name, Level: level, HP: gauge(hp, maxHP), MP: gauge(mp, maxMP)}
}

// Enemy is one battle card. The static fields are filled only when the
// scene record for the actor is known.
type Enemy struct {
	Slot       int         `json:"slot"`
	Name       string      `json:"name"`
	Level      int         `json:"level"`
	HP         Gauge       `json:"hp"`
	MP         Gauge       `json:"mp"`
	Known      bool        `json:"known"`
	Attack     int         `json:"attack,omitempty"`
	Defense    int         `json:"defense,omitempty"`
	MagAttack  int         `json:"magAttack,omitempty"`
	MagDefense int         `json:"magDefense,omitempty"`
	Steal      string      `json:"steal"`
	Exp        int         `json:"exp,omitempty"`
	Gil        int         `json:"gil,omitempty"`
	AP         int         `json:"ap,omitempty"`
	Elements   *Affinities `json:"elements,omitempty"`
	Immune     []string    `json:"immune,omitempty"`
}

func enemyCard(slot int, a Actor, typ *EnemyType, static *tags) Enemy {
	e := Enemy{
		Slot:  slot,
		Name:  fmt.Sprintf("Enemy %d", slot),
		Level: a.Level,
		HP:    gauge(a.HP, a.MaxHP),
		MP:    gauge(a.MP, a.MaxMP),
		Steal: none,
	}
	if typ != nil {
		e.Known = true
		e.Name = typ.Name
		e.Attack, e.Defense = typ.Attack, typ.Defense
		e.MagAttack, e.MagDefense = typ.MagAttack, typ.MagDefense
		e.Steal = typ.StealName()
		e.Exp, e.Gil, e.AP = typ.Exp, typ.Gil, typ.AP
	}
	if static != nil {
		if !static.elements.Empty() {
			elements := static.elements
			e.Elements = &elements
		}
		e.Immune = static.immune
	}
	return e
}

// View is the typed body of an FF7 frame. Layout changes whenever the battle
// grid is rebuilt.
type View struct {
	Mode    Mode     `json:"mode"`
	Layout  int      `json:"layout"`
	Gil     int      `json:"gil"`
	GilText string   `json:"gilText"`
	Party   []Member `json:"party,omitempty"`
	Enemies []Enemy  `json:"enemies,omitempty"`
}

func (v View) sections() []theme.Section {
	sections := []theme.Section{{Title: string(v.Mode), Badge: "Gil " + v.GilText, Lines: []theme.Line{}}}

	if v.Mode == ModeBattle {
		for _, e := range v.Enemies {
			sections = append(sections, enemySection(e))
		}
		return sections
	}

	if len(v.Party) > 0 {
		lines := make([]theme.Line, 0, len(v.Party)*2)
		for _, m := range v.Party {
			lines = append(lines,
				theme.Line{Text: fmt.Sprintf("%s  Lv.%d", m.Name, m.Level), Tone: theme.ToneAccent},
				theme.Line{Text: "HP " + m.HP.Text, Tone: theme.HealthTone(m.HP.Ratio)},
				theme.Line{Text: "MP " + m.MP.Text},
			)
		}
		sections = append(sections, theme.Section{Title: "PARTY", Lines: lines})
	}
	return sections
}

func enemySection(e Enemy) theme.Section {
	lines := []theme.Line{
		{Text: "HP " + e.HP.Text, Tone: theme.HealthTone(e.HP.Ratio)},
		{Text: "MP " + e.MP.Text},
	}
	if e.Elements != nil {
		lines = append(lines, theme.Line{Text: affinityText(*e.Elements), Tone: theme.ToneWarn})
	}
	if len(e.Immune) > 0 {
		lines = append(lines, theme.Line{Text: "Immune: " + strings.Join(e.Immune, ", "), Tone: theme.ToneDim})
	}
	lines = append(lines,
		theme.Line{Text: statText(e)},
		theme.Line{Text: "Steal: " + e.Steal},
		theme.Line{Text: rewardText(e), Tone: theme.ToneDim},
	)
	return theme.Section{Title: e.Name, Badge: fmt.Sprintf("Lv.%d", e.Level), Lines: lines}
}

func affinityText(a Affinities) string {
	var parts []string
	add := func(label string, names []string) {
		if len(names) > 0 {
			parts = append(parts, label+": "+strings.Join(names, ", "))
		}
	}
	add("Weak", a.Weak)
	add("Half", a.Half)
	add("Null", a.Null)
	add("Absorb", a.Absorb)
	add("Death", a.Death)
	return strings.Join(parts, "  ")
}

func statText(e Enemy) string {
	if !e.Known {
		return fmt.Sprintf("ATK %s  DEF %s  MAT %s  MDF %s", none, none, none, none)
	}
	return fmt.Sprintf("ATK %d  DEF %d  MAT %d  MDF %d", e.Attack, e.Defense, e.MagAttack, e.MagDefense)
}

func rewardText(e Enemy) string {
	if !e.Known {
		return fmt.Sprintf("EXP %s  Gil %s  AP %s", none, none, none)
	}
	return fmt.Sprintf("EXP %s  Gil %s  AP %s", group(e.Exp), group(e.Gil), group(e.AP))
}

var printer = message.NewPrinter(language.English)

// group formats n with comma thousands separators.
func group(n int) string {
	return printer.Sprintf("%d", n)
}
