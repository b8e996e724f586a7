package ff7

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/emuhud/internal/binread"
)

const (
	// MaxEnemies is the number of battle actor slots exported by the bridge.
	MaxEnemies = 6
	// PartySlots is the size of the active formation.
	PartySlots = 3

	saveBlockSize  = 0x84
	sceneRecord    = 0xB8
	sceneRecords   = 3
	sceneNameBytes = 32
	elementSlots   = 8
	maxValidHP     = 1_000_000
	maxValidLevel  = 99
	emptyFormation = 0xFF
	noStealItem    = 0xFFFF
)

// SaveChar is the party member data kept in the save block.
type SaveChar struct {
	Level int
	HP    int
	MaxHP int
	MP    int
	MaxMP int
}

// DecodeSaveChar reads the save block of character idx. Max HP and MP fall
// back to their base values when the boosted fields are zero.
func DecodeSaveChar(r binread.Reader, idx int) SaveChar {
	off := idx * saveBlockSize
	maxHP := r.U16LE(off + 0x38)
	maxMP := r.U16LE(off + 0x3A)
	if maxHP == 0 {
		maxHP = r.U16LE(off + 0x2E)
	}
	if maxMP == 0 {
		maxMP = r.U16LE(off + 0x32)
	}
	return SaveChar{
		Level: int(r.U8(off + 0x01)),
		HP:    int(r.U16LE(off + 0x2C)),
		MaxHP: int(maxHP),
		MP:    int(r.U16LE(off + 0x30)),
		MaxMP: int(maxMP),
	}
}

// Affinities groups a scene record's element names by rate class.
type Affinities struct {
	Death  []string `json:"death,omitempty"`
	Weak   []string `json:"weak,omitempty"`
	Half   []string `json:"half,omitempty"`
	Null   []string `json:"null,omitempty"`
	Absorb []string `json:"absorb,omitempty"`
}

// Empty reports whether no element has a notable rate.
func (a Affinities) Empty() bool {
	return len(a.Death)+len(a.Weak)+len(a.Half)+len(a.Null)+len(a.Absorb) == 0
}

// EnemyType is one static enemy record from the loaded scene.
type EnemyType struct {
	Name       string
	Level      int
	Attack     int
	Defense    int
	MagAttack  int
	MagDefense int
	Elements   Affinities
	StatusMask uint32
	Steal      uint16
	MP         int
	AP         int
	HP         int
	Exp        int
	Gil        int
}

// Immunities lists the statuses the enemy cannot receive.
func (e EnemyType) Immunities() []string {
	var out []string
	for _, flag := range statusFlags {
		if e.StatusMask&flag.mask == 0 {
			out = append(out, flag.name)
		}
	}
	return out
}

// StealName resolves the steal item, or "—" when there is none.
func (e EnemyType) StealName() string {
	if e.Steal == noStealItem || e.Steal == 0 {
		return "—"
	}
	if name, ok := items[e.Steal]; ok {
		return name
	}
	return fmt.Sprintf("Item #%d", e.Steal)
}

// DecodeText reads FF7-encoded text: each byte is the character minus 0x20,
// terminated by 0xFF.
func DecodeText(r binread.Reader, off, maxLen int) string {
	var b strings.Builder
	for i := 0; i < maxLen; i++ {
		c := r.U8Or(off+i, 0xFF)
		if c == 0xFF {
			break
		}
		b.WriteRune(rune(c) + 0x20)
	}
	return strings.TrimSpace(b.String())
}

func decodeAffinities(r binread.Reader, off int) Affinities {
	var a Affinities
	for i := 0; i < elementSlots; i++ {
		idx := int(r.U8(off + 0x28 + i))
		if idx >= len(elementNames) {
			continue
		}
		name := elementNames[idx]
		switch r.U8(off + 0x30 + i) {
		case rateDeath:
			a.Death = append(a.Death, name)
		case rateAbsorb:
			a.Absorb = append(a.Absorb, name)
		case rateNull:
			a.Null = append(a.Null, name)
		case rateHalf:
			a.Half = append(a.Half, name)
		case rateWeak:
			a.Weak = append(a.Weak, name)
		}
	}
	return a
}

// DecodeScene reads up to three enemy type records. A record whose name is
// empty is kept as nil so that indices still line up with actor scene ids.
func DecodeScene(r binread.Reader) []*EnemyType {
	var types []*EnemyType
	for i := 0; i < sceneRecords; i++ {
		off := i * sceneRecord
		if !r.Fits(off, sceneRecord) {
			break
		}
		name := DecodeText(r, off, sceneNameBytes)
		if name == "" {
			types = append(types, nil)
			continue
		}
		types = append(types, &EnemyType{
			Name:       name,
			Level:      int(r.U8(off + 0x20)),
			Attack:     int(r.U8(off + 0x24)),
			Defense:    int(r.U8(off+0x25)) * 2,
			MagAttack:  int(r.U8(off + 0x26)),
			MagDefense: int(r.U8(off+0x27)) * 2,
			Elements:   decodeAffinities(r, off),
			StatusMask: r.U32LE(off + 0xB0),
			Steal:      r.U16LE(off + 0x90),
			MP:         int(r.U16LE(off + 0x9C)),
			AP:         int(r.U16LE(off + 0x9E)),
			HP:         int(r.U32LE(off + 0xA4)),
			Exp:        int(r.U32LE(off + 0xA8)),
			Gil:        int(r.U32LE(off + 0xAC)),
		})
	}
	return types
}

// Actor is the runtime state of one enemy in battle.
type Actor struct {
	SceneType int
	Level     int
	MP        int
	MaxMP     int
	HP        int
	MaxHP     int
}

// DecodeActor reads a 104-byte battle actor. ok is false for an empty slot.
func DecodeActor(r binread.Reader) (Actor, bool) {
	maxHP := r.U32LE(0x30)
	if maxHP == 0 {
		return Actor{}, false
	}
	return Actor{
		SceneType: int(r.U8(0x08)),
		Level:     int(r.U8(0x09)),
		MP:        int(r.U16LE(0x28)),
		MaxMP:     int(r.U16LE(0x2A)),
		HP:        int(r.U32LE(0x2C)),
		MaxHP:     int(maxHP),
	}, true
}

// Valid reports whether the actor looks like a live enemy rather than stale
// or uninitialised memory.
func (a Actor) Valid() bool {
	return a.MaxHP > 0 && a.MaxHP < maxValidHP && a.Level <= maxValidLevel
}

// TypeFor picks the scene record for the actor, falling back to the first
// record when the id is out of range.
func TypeFor(a Actor, types []*EnemyType) *EnemyType {
	if len(types) == 0 {
		return nil
	}
	if a.SceneType < len(types) {
		return types[a.SceneType]
	}
	return types[0]
}
