package config

// CodexFile is the on-disk YAML representation of a combo codex.
type CodexFile struct {
	Version    string                  `yaml:"version" validate:"omitempty,semver"`
	Characters []CharacterEntry        `yaml:"characters" validate:"required,min=1,dive"`
	Elements   map[string]ElementEntry `yaml:"elements" validate:"omitempty,dive,keys,element_name,endkeys"`
	Combos     []ComboEntry            `yaml:"combos" validate:"required,min=1,dive"`
}

// CharacterEntry lists a character and the levels at which it learns each
// combo-relevant ability.
type CharacterEntry struct {
	ID     int            `yaml:"id" validate:"min=0,max=254"`
	Name   string         `yaml:"name" validate:"required"`
	Techs  map[string]int `yaml:"techs" validate:"omitempty,dive,keys,required,endkeys,min=0"`
	Skills map[string]int `yaml:"skills" validate:"omitempty,dive,keys,required,endkeys,min=0"`
	Story  map[string]int `yaml:"story" validate:"omitempty,dive,keys,required,endkeys,min=0"`
}

// ElementEntry is the display palette for one element.
type ElementEntry struct {
	Label string `yaml:"label" validate:"required"`
	Color string `yaml:"color" validate:"required,hexcolor"`
}

// ComboEntry describes one combination attack.
type ComboEntry struct {
	Name        string           `yaml:"name" validate:"required"`
	Element     string           `yaml:"element" validate:"required,element_name"`
	Description string           `yaml:"description"`
	Components  []ComponentEntry `yaml:"components" validate:"required,min=1,max=8,dive"`
}

// ComponentEntry is one slot of a combo. Ability holds pipe-separated
// alternatives in preference order, for example "Foi|Gifoi|Nafoi".
type ComponentEntry struct {
	Ability string `yaml:"ability" validate:"required,ability_alternatives"`
	Chars   []int  `yaml:"chars" validate:"required,min=1,dive,min=0,max=254"`
}
