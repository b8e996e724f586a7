package psiv

import (
	"github.com/alexisbeaulieu97/emuhud/internal/binread"
	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// PartySize is the number of party slots kept in memory.
const PartySize = 5

// Character blocks are 0x80 bytes, one per roster id. The Genesis core hands
// over a word-swapped buffer, so 16-bit fields read little-endian.
const (
	blockSize  = 0x80
	offLevel   = 0x00
	offHP      = 0x06
	offMaxHP   = 0x08
	offTP      = 0x0A
	offMaxTP   = 0x0C
	blockBytes = 0x0E
)

// Stats is the decoded portion of a character block.
type Stats struct {
	Level int `json:"level"`
	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
	TP    int `json:"tp"`
	MaxTP int `json:"maxTp"`
}

// Slots is the raw party slot table; EmptySlot marks an unused slot.
type Slots [PartySize]codex.CharacterID

// EmptySlots is a party with no members.
func EmptySlots() Slots {
	var s Slots
	for i := range s {
		s[i] = codex.EmptySlot
	}
	return s
}

// Occupied reports whether any slot holds something other than the empty
// marker, including ids outside the roster.
func (s Slots) Occupied() bool {
	for _, id := range s {
		if id != codex.EmptySlot {
			return true
		}
	}
	return false
}

// Roster returns the active members in slot order. Empty slots, ids the codex
// does not know and repeated ids are skipped.
func (s Slots) Roster(c *codex.Codex) []codex.CharacterID {
	roster := make([]codex.CharacterID, 0, PartySize)
	seen := make(map[codex.CharacterID]bool, PartySize)
	for _, id := range s {
		if id == codex.EmptySlot || !c.Known(id) || seen[id] {
			continue
		}
		seen[id] = true
		roster = append(roster, id)
	}
	return roster
}

// DecodeSlots reads the party slot table, padding a short blob with empty
// slots.
func DecodeSlots(r binread.Reader) Slots {
	var s Slots
	for i := range s {
		s[i] = codex.CharacterID(r.U8Or(i, uint8(codex.EmptySlot)))
	}
	return s
}

// DecodeStats reads the character block for id. ok is false when the block
// does not fit in the buffer.
func DecodeStats(r binread.Reader, id codex.CharacterID) (Stats, bool) {
	off := int(id) * blockSize
	if !r.Fits(off, blockBytes) {
		return Stats{}, false
	}
	return Stats{
		Level: int(r.U8(off + offLevel)),
		HP:    int(r.U16LE(off + offHP)),
		MaxHP: int(r.U16LE(off + offMaxHP)),
		TP:    int(r.U16LE(off + offTP)),
		MaxTP: int(r.U16LE(off + offMaxTP)),
	}, true
}

// party is one decoded tick of party state.
type party struct {
	slots Slots
	stats map[codex.CharacterID]Stats
}

// decodeParty reads party_slots and all_chars. ok is false when either blob
// is absent, in which case the previous state stands.
func decodeParty(values snapshot.Values, c *codex.Codex) (party, bool, error) {
	slotBlob, ok, err := values.Blob("party_slots")
	if err != nil {
		return party{}, false, tagged(err, "party_slots")
	}
	if !ok {
		return party{}, false, nil
	}

	charBlob, ok, err := values.Blob("all_chars")
	if err != nil {
		return party{}, false, tagged(err, "all_chars")
	}
	if !ok {
		return party{}, false, nil
	}

	p := party{slots: DecodeSlots(slotBlob), stats: make(map[codex.CharacterID]Stats)}
	for _, id := range p.slots.Roster(c) {
		if stats, fits := DecodeStats(charBlob, id); fits {
			p.stats[id] = stats
		}
	}
	return p, true, nil
}

func tagged(err error, field string) error {
	if decodeErr, ok := err.(*emuerrors.DecodeError); ok {
		return emuerrors.NewDecodeError(Name, decodeErr.Field, decodeErr.Err)
	}
	return emuerrors.NewDecodeError(Name, field, err)
}
