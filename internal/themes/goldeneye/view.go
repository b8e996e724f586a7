package goldeneye

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

const (
	idleTitle      = "GOLDENEYE 007"
	waitingMessage = "Waiting for mission…"
	ticksPerSecond = 60
)

// ObjectiveStatus is the in-game completion state of an objective.
type ObjectiveStatus string

const (
	ObjectiveIncomplete ObjectiveStatus = "incomplete"
	ObjectiveComplete   ObjectiveStatus = "complete"
	ObjectiveFailed     ObjectiveStatus = "failed"
)

func objectiveStatus(raw int32) ObjectiveStatus {
	switch raw {
	case 1:
		return ObjectiveComplete
	case 2:
		return ObjectiveFailed
	default:
		return ObjectiveIncomplete
	}
}

func (s ObjectiveStatus) icon() string {
	switch s {
	case ObjectiveComplete:
		return "✓"
	case ObjectiveFailed:
		return "✗"
	default:
		return "○"
	}
}

func (s ObjectiveStatus) tone() theme.Tone {
	switch s {
	case ObjectiveComplete:
		return theme.ToneGood
	case ObjectiveFailed:
		return theme.ToneBad
	default:
		return theme.ToneNormal
	}
}

// ObjectiveLine is one objective applicable at the current difficulty.
type ObjectiveLine struct {
	Text   string          `json:"text"`
	Status ObjectiveStatus `json:"status"`
}

// Bar is a percentage gauge.
type Bar struct {
	Percent float64 `json:"percent"`
	Text    string  `json:"text"`
}

// bar converts a 0..1 game fraction into a clamped percentage with one
// decimal for the width and a whole number for the label.
func bar(fraction float64) Bar {
	pct := math.Max(0, math.Min(fraction*100, 100))
	return Bar{
		Percent: math.Round(pct*10) / 10,
		Text:    fmt.Sprintf("%d%%", int(math.Round(pct))),
	}
}

// Weapon is the right-hand weapon panel.
type Weapon struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Ammo string `json:"ammo,omitempty"`
	Dual string `json:"dual,omitempty"`
}

// View is the typed body of a GoldenEye frame. Only Title is set outside a
// mission.
type View struct {
	InMission  bool            `json:"inMission"`
	Title      string          `json:"title"`
	Difficulty string          `json:"difficulty,omitempty"`
	Timer      string          `json:"timer,omitempty"`
	Health     *Bar            `json:"health,omitempty"`
	Armor      *Bar            `json:"armor,omitempty"`
	Objectives []ObjectiveLine `json:"objectives,omitempty"`
	Weapon     *Weapon         `json:"weapon,omitempty"`
	Settings   Settings        `json:"settings"`
}

func buildView(s state, settings Settings) View {
	v := View{Title: idleTitle, Settings: settings}
	if !s.inMission() {
		return v
	}

	v.InMission = true
	mission, known := missions[s.level]
	if known {
		v.Title = cases.Upper(language.English).String(mission.Name)
	} else {
		v.Title = fmt.Sprintf("LEVEL %d", s.level)
	}
	v.Difficulty = difficultyName(s.difficulty)
	if settings.ShowTimer {
		v.Timer = FormatTimer(s.timer)
	}

	health := bar(s.health)
	v.Health = &health
	if s.armor > 0 {
		armor := bar(s.armor)
		v.Armor = &armor
	}

	if known {
		for i, o := range mission.Objectives {
			if o.Difficulty > s.difficulty {
				continue
			}
			var raw int32
			if i < len(s.objectives) {
				raw = s.objectives[i]
			}
			v.Objectives = append(v.Objectives, ObjectiveLine{Text: o.Text, Status: objectiveStatus(raw)})
		}
	}

	if settings.ShowWeapon && s.weaponR != 0 {
		v.Weapon = weaponPanel(s)
	}
	return v
}

func difficultyName(d int) string {
	if d >= 0 && d < len(difficultyNames) {
		return difficultyNames[d]
	}
	return difficultyNames[Agent]
}

// FormatTimer renders 60 Hz ticks as MM:SS.
func FormatTimer(ticks int) string {
	total := max(ticks, 0) / ticksPerSecond
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func weaponName(id int) string {
	if name, ok := weapons[id]; ok {
		return name
	}
	return fmt.Sprintf("Weapon #%d", id)
}

func weaponPanel(s state) *Weapon {
	w := &Weapon{ID: s.weaponR, Name: weaponName(s.weaponR)}

	ammoType, hasType := ammoTypeForWeapon[s.weaponR]
	inReserve := hasType && ammoType < len(s.reserve)
	switch {
	case !noMagazine[s.weaponR]:
		var reserve uint32
		if inReserve {
			reserve = s.reserve[ammoType]
		}
		w.Ammo = fmt.Sprintf("%d / %d", s.ammoMag, reserve)
	case inReserve:
		w.Ammo = fmt.Sprintf("x%d", s.reserve[ammoType])
	}

	switch {
	case s.weaponL > 0 && s.weaponL != s.weaponR:
		w.Dual = "+ " + weaponName(s.weaponL) + " (L)"
	case s.weaponL > 0:
		w.Dual = "Dual wielding"
	}
	return w
}

func (v View) sections() []theme.Section {
	if !v.InMission {
		return []theme.Section{{
			Title: v.Title,
			Lines: []theme.Line{{Text: waitingMessage, Tone: theme.ToneDim}},
		}}
	}

	header := theme.Section{Title: v.Title, Badge: v.Difficulty, Lines: []theme.Line{}}
	if v.Timer != "" {
		header.Lines = append(header.Lines, theme.Line{Text: v.Timer, Tone: theme.ToneAccent})
	}

	vitals := theme.Section{Title: "VITALS", Lines: []theme.Line{
		{Text: "Health " + v.Health.Text, Tone: theme.HealthTone(v.Health.Percent / 100)},
	}}
	if v.Armor != nil {
		vitals.Lines = append(vitals.Lines, theme.Line{Text: "Armor " + v.Armor.Text, Tone: theme.ToneAccent})
	}

	objectives := theme.Section{Title: "OBJECTIVES", Lines: make([]theme.Line, 0, len(v.Objectives))}
	for _, o := range v.Objectives {
		objectives.Lines = append(objectives.Lines, theme.Line{Text: o.Status.icon() + " " + o.Text, Tone: o.Status.tone()})
	}

	sections := []theme.Section{header, vitals, objectives}
	if v.Weapon != nil {
		weapon := theme.Section{Title: "WEAPON", Badge: v.Weapon.Ammo, Lines: []theme.Line{{Text: v.Weapon.Name}}}
		if v.Weapon.Dual != "" {
			weapon.Lines = append(weapon.Lines, theme.Line{Text: v.Weapon.Dual, Tone: theme.ToneDim})
		}
		sections = append(sections, weapon)
	}
	return sections
}
