package codex

// Phantasy Star IV roster ids as stored in the party slot table.
const (
	Chaz CharacterID = iota
	Alys
	Hahn
	Rune
	Gryz
	Rika
	Demi
	Wren
	Raja
	Kyra
	Seth
)

// MaxPSIVCharacter is the highest valid roster id; larger slot values are
// ignored.
const MaxPSIVCharacter = Seth

// PSIVTables returns the built-in Phantasy Star IV tables. Only abilities that
// take part in a combo are listed. Story abilities use an approximate level
// threshold for the event that grants them.
func PSIVTables() Tables {
	return Tables{
		Characters: []Character{
			{ID: Chaz, Name: "Chaz", Learns: LearnSet{
				Techs:  map[string]int{"Tsu": 4, "Zan": 12, "Gizan": 23, "Nazan": 37},
				Skills: map[string]int{"Crosscut": 6, "Airslash": 13, "Rayblade": 27},
				Story:  map[string]int{"Megid": 38},
			}},
			{ID: Alys, Name: "Alys", Learns: LearnSet{
				Techs:  map[string]int{"Foi": 1, "Zan": 8, "Gifoi": 14, "Gizan": 18, "Nafoi": 22, "Nazan": 27},
				Skills: map[string]int{"Death": 13},
			}},
			{ID: Hahn, Name: "Hahn", Learns: LearnSet{
				Techs:  map[string]int{"Wat": 3, "Zan": 9, "Giwat": 16, "Gizan": 21, "Nawat": 28, "Nazan": 37},
				Skills: map[string]int{"Astral": 29},
				Story:  map[string]int{"SaVol": 33},
			}},
			{ID: Rune, Name: "Rune", Learns: LearnSet{
				Techs: map[string]int{
					"Foi": 1, "Wat": 1, "Gra": 1, "Giwat": 18, "Gifoi": 19,
					"Gigra": 23, "Nafoi": 25, "Nawat": 26, "Nagra": 30,
				},
				Skills: map[string]int{
					"Flaeli": 1, "Hewn": 1, "Diem": 24, "Tandle": 27,
					"Efess": 29, "Negatis": 32, "Legeon": 35,
				},
			}},
			{ID: Gryz, Name: "Gryz"},
			{ID: Rika, Name: "Rika", Learns: LearnSet{
				Techs:  map[string]int{"Deban": 14},
				Skills: map[string]int{"Illusion": 1},
			}},
			{ID: Demi, Name: "Demi", Learns: LearnSet{
				Story: map[string]int{"Phonomezer": 24},
			}},
			{ID: Wren, Name: "Wren", Learns: LearnSet{
				Story: map[string]int{"Hijammer": 28, "Burst Rockets": 32, "Positron Bolt": 36},
			}},
			{ID: Raja, Name: "Raja", Learns: LearnSet{
				Skills: map[string]int{"Holy Word": 1},
			}},
			{ID: Kyra, Name: "Kyra", Learns: LearnSet{
				Techs:  map[string]int{"Foi": 1, "Gifoi": 1, "Gra": 1, "Gigra": 30, "Nafoi": 33, "Nagra": 40},
				Skills: map[string]int{"Flaeli": 1, "Hewn": 1, "Tandle": 39},
			}},
			{ID: Seth, Name: "Seth", Learns: LearnSet{
				Skills: map[string]int{"Death": 1},
			}},
		},
		Combos: psivCombos(),
		Elements: map[string]Element{
			"fire":      {Label: "fire", Color: "#ff6a00"},
			"ice":       {Label: "ice", Color: "#00d4ff"},
			"lightning": {Label: "lightning", Color: "#ffe040"},
			"holy":      {Label: "holy", Color: "#ffd700"},
			"dark":      {Label: "dark", Color: "#a040ff"},
			"physical":  {Label: "physical", Color: "#c8dce8"},
			"multi":     {Label: "multi", Color: "#00d4ff"},
		},
	}
}

// PSIV returns the built-in Phantasy Star IV codex.
func PSIV() *Codex {
	return MustNew(PSIVTables())
}

func comp(abilities []string, chars ...CharacterID) Component {
	return Component{Abilities: abilities, Characters: chars}
}

func psivCombos() []Combo {
	var (
		fireTier  = []string{"Foi", "Gifoi", "Nafoi", "Flaeli"}
		windTier  = []string{"Zan", "Gizan", "Nazan", "Hewn"}
		waterTier = []string{"Wat", "Giwat", "Nawat"}
	)
	return []Combo{
		{
			Name: "Fire Storm", Element: "fire",
			Description: "Wind feeds flames into an inferno.",
			Components: []Component{
				comp(fireTier, Alys, Rune, Kyra),
				comp(windTier, Chaz, Alys, Hahn, Rune, Kyra),
			},
		},
		{
			Name: "Blizzard", Element: "ice",
			Description: "Wind whips water into a freezing storm.",
			Components: []Component{
				comp(waterTier, Hahn, Rune),
				comp(windTier, Chaz, Alys, Hahn, Rune, Kyra),
			},
		},
		{
			Name: "Tri-Blaster", Element: "multi",
			Description: "Fire, wind, and water collide. Base-tier only.",
			Components: []Component{
				comp([]string{"Foi"}, Alys, Rune, Kyra),
				comp([]string{"Tsu"}, Chaz),
				comp([]string{"Wat"}, Hahn, Rune),
			},
		},
		{
			Name: "Conduct Thunder", Element: "lightning",
			Description: "Electrified water conducts massive lightning.",
			Components: []Component{
				comp(waterTier, Hahn, Rune),
				comp([]string{"Tandle"}, Rune, Kyra),
			},
		},
		{
			Name: "Circuit Break", Element: "lightning",
			Description: "Hijammer channels Tandle's lightning.",
			Components: []Component{
				comp([]string{"Hijammer"}, Wren),
				comp([]string{"Tandle"}, Rune, Kyra),
			},
		},
		{
			Name: "Shooting Star", Element: "fire",
			Description: "Rockets ignite into a barrage of fire.",
			Components: []Component{
				comp([]string{"Burst Rockets"}, Wren),
				comp(fireTier, Alys, Rune, Kyra),
			},
		},
		{
			Name: "Silent Wave", Element: "physical",
			Description: "Sound disruption silences all enemies.",
			Components: []Component{
				comp([]string{"Phonomezer"}, Demi),
				comp([]string{"Airslash"}, Chaz),
			},
		},
		{
			Name: "Grand Cross", Element: "holy",
			Description: "Holy light channeled through steel. One of the strongest combos.",
			Components: []Component{
				comp([]string{"Efess"}, Rune),
				comp([]string{"Crosscut"}, Chaz),
			},
		},
		{
			Name: "Paladin Blow", Element: "holy",
			Description: "Astral power focused through a light blade.",
			Components: []Component{
				comp([]string{"Astral"}, Hahn),
				comp([]string{"Rayblade"}, Chaz),
			},
		},
		{
			Name: "Purify Light", Element: "holy",
			Description: "Sacred radiance purges darkness.",
			Components: []Component{
				comp([]string{"Holy Word"}, Raja),
				comp([]string{"Efess"}, Rune),
			},
		},
		{
			Name: "Lethal Image", Element: "dark",
			Description: "A deadly illusion. Instant kill.",
			Components: []Component{
				comp([]string{"Death"}, Alys),
				comp([]string{"Illusion"}, Rika),
			},
		},
		{
			Name: "Holocaust", Element: "dark",
			Description: "Soul separation followed by death.",
			Components: []Component{
				comp([]string{"SaVol"}, Hahn),
				comp([]string{"Diem"}, Rune),
			},
		},
		{
			Name: "Black Hole", Element: "dark",
			Description: "Gravity collapsed into a void.",
			Components: []Component{
				comp([]string{"Negatis"}, Rune),
				comp([]string{"Gra", "Gigra", "Nagra"}, Rune, Kyra),
			},
		},
		{
			Name: "Destruction", Element: "multi",
			Description: "The ultimate combo. Four participants required.",
			Components: []Component{
				comp([]string{"Deban"}, Rika),
				comp([]string{"Megid"}, Chaz),
				comp([]string{"Legeon"}, Rune),
				comp([]string{"Positron Bolt"}, Wren),
			},
		},
	}
}
