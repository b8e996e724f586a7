package psiv

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/emuhud/internal/binread"
	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

func charBlob(stats map[codex.CharacterID]Stats) []byte {
	buf := make([]byte, 11*blockSize)
	for id, s := range stats {
		off := int(id) * blockSize
		buf[off+offLevel] = byte(s.Level)
		binary.LittleEndian.PutUint16(buf[off+offHP:], uint16(s.HP))
		binary.LittleEndian.PutUint16(buf[off+offMaxHP:], uint16(s.MaxHP))
		binary.LittleEndian.PutUint16(buf[off+offTP:], uint16(s.TP))
		binary.LittleEndian.PutUint16(buf[off+offMaxTP:], uint16(s.MaxTP))
	}
	return buf
}

func partySnapshot(slots []byte, stats map[codex.CharacterID]Stats) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Connected: true,
		Values: snapshot.NewValues(map[string]any{
			"party_slots": snapshot.Blob(slots),
			"all_chars":   snapshot.Blob(charBlob(stats)),
		}),
	}
}

func lvl(level int) Stats {
	return Stats{Level: level, HP: 100, MaxHP: 100, TP: 10, MaxTP: 20}
}

func cardNames(cards []Card) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.Name)
	}
	return names
}

func findCard(t *testing.T, cards []Card, name string) Card {
	t.Helper()
	for _, c := range cards {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("card %q not found in %v", name, cardNames(cards))
	return Card{}
}

func TestDecodeStatsIsByteExact(t *testing.T) {
	t.Parallel()

	want := Stats{Level: 37, HP: 0x1234, MaxHP: 0xBEEF, TP: 7, MaxTP: 0x0100}
	blob := charBlob(map[codex.CharacterID]Stats{codex.Rune: want})

	got, ok := DecodeStats(binread.New(blob), codex.Rune)
	require.True(t, ok)
	assert.Equal(t, want, got)

	off := int(codex.Rune) * blockSize
	assert.Equal(t, byte(0x34), blob[off+offHP])
	assert.Equal(t, byte(0x12), blob[off+offHP+1])
}

func TestDecodeStatsRejectsShortBlock(t *testing.T) {
	t.Parallel()

	blob := make([]byte, int(codex.Alys)*blockSize+blockBytes-1)
	_, ok := DecodeStats(binread.New(blob), codex.Alys)
	assert.False(t, ok)

	_, ok = DecodeStats(binread.New(blob), codex.Chaz)
	assert.True(t, ok)
}

func TestDecodeSlotsPadsShortBlob(t *testing.T) {
	t.Parallel()

	slots := DecodeSlots(binread.New([]byte{2, 1}))
	assert.Equal(t, Slots{codex.Hahn, codex.Alys, codex.EmptySlot, codex.EmptySlot, codex.EmptySlot}, slots)
}

func TestRosterSkipsEmptyUnknownAndRepeatedIDs(t *testing.T) {
	t.Parallel()

	slots := Slots{codex.Rune, codex.EmptySlot, 42, codex.Rune, codex.Chaz}
	assert.Equal(t, []codex.CharacterID{codex.Rune, codex.Chaz}, slots.Roster(codex.PSIV()))
	assert.True(t, Slots{42, codex.EmptySlot, codex.EmptySlot, codex.EmptySlot, codex.EmptySlot}.Occupied())
	assert.False(t, EmptySlots().Occupied())
}

func TestInitialFrameWaitsForParty(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	frame := th.Frame()
	assert.Equal(t, Name, frame.Theme)
	assert.Equal(t, theme.StatusOffline, frame.Status)

	view := th.View()
	assert.Empty(t, view.Available)
	assert.Empty(t, view.Locked)
	assert.Equal(t, "Waiting for party data…", view.EmptyMessage)
}

func TestUpdateListsAvailableCombos(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	snap := partySnapshot([]byte{byte(codex.Alys), byte(codex.Hahn), 0xFF, 0xFF, 0xFF}, map[codex.CharacterID]Stats{
		codex.Alys: lvl(20),
		codex.Hahn: {Level: 30, HP: 100, MaxHP: 200, TP: 5, MaxTP: 40},
	})

	require.NoError(t, th.Update(context.Background(), snap))

	frame := th.Frame()
	assert.Equal(t, theme.StatusConnected, frame.Status)
	assert.Equal(t, "Connected", frame.StatusText)

	view := th.View()
	require.Len(t, view.Party, 2)
	assert.Equal(t, "ALYS", view.Party[0].Name)
	assert.Equal(t, Member{
		ID: codex.Hahn, Name: "HAHN", Level: 30,
		HPText: "100/200", TPText: "5/40", HPPercent: 50, TPPercent: 13, HPBand: HPMid, HPTone: theme.ToneWarn,
	}, view.Party[1])

	assert.Equal(t, []string{"Fire Storm", "Blizzard"}, cardNames(view.Available))
	blizzard := findCard(t, view.Available, "Blizzard")
	assert.Equal(t, "Wat (Hahn) + Zan (Alys)", blizzard.Summary)
	assert.Equal(t, "BLIZZARD", blizzard.Title)
	assert.Equal(t, "#00d4ff", blizzard.Color)
	assert.Equal(t, "Foi (Alys) + Zan (Hahn)", findCard(t, view.Available, "Fire Storm").Summary)
	assert.Empty(t, view.EmptyMessage)
}

func TestLockedCardsExplainLevelRequirements(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	snap := partySnapshot([]byte{byte(codex.Hahn), byte(codex.Rune)}, map[codex.CharacterID]Stats{
		codex.Hahn: lvl(20),
		codex.Rune: lvl(20),
	})
	require.NoError(t, th.Update(context.Background(), snap))

	view := th.View()
	holocaust := findCard(t, view.Locked, "Holocaust")
	assert.Equal(t, "Needs: SaVol (Hahn ~Lv33), Diem (Rune Lv24)", holocaust.Missing)
	assert.False(t, holocaust.Available)

	for _, c := range view.Locked {
		assert.NotContains(t, c.Missing, "in party", c.Name)
	}
	assert.NotContains(t, cardNames(view.Locked), "Paladin Blow")
}

func TestLockedCardsWithOnlyLevelGaps(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Hahn)}, map[codex.CharacterID]Stats{
		codex.Hahn: lvl(2),
	})))

	view := th.View()
	assert.Equal(t, "No combos available with current party", view.EmptyMessage)
	blizzard := findCard(t, view.Locked, "Blizzard")
	assert.Equal(t, "Needs: Wat (Hahn Lv3), Zan (Hahn Lv9)", blizzard.Missing)
}

func TestMissingBlobKeepsPreviousParty(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Alys)}, map[codex.CharacterID]Stats{
		codex.Alys: lvl(10),
	})))

	require.NoError(t, th.Update(context.Background(), &snapshot.Snapshot{
		Connected: true,
		Values:    snapshot.NewValues(map[string]any{"party_slots": snapshot.Blob([]byte{byte(codex.Hahn)})}),
	}))

	view := th.View()
	require.Len(t, view.Party, 1)
	assert.Equal(t, "ALYS", view.Party[0].Name)
}

func TestEmptyPartyAfterPopulatedIsIgnored(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Alys)}, map[codex.CharacterID]Stats{
		codex.Alys: lvl(10),
	})))
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, nil)))

	require.Len(t, th.View().Party, 1)
}

func TestSettingsHideSections(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	snap := partySnapshot([]byte{byte(codex.Alys)}, map[codex.CharacterID]Stats{codex.Alys: lvl(10)})
	snap.Settings = snapshot.NewSettings(map[string]any{"show_locked": "false", "show_party": "true"})
	require.NoError(t, th.Update(context.Background(), snap))

	view := th.View()
	assert.False(t, view.Settings.ShowLocked)
	assert.True(t, view.Settings.ShowParty)

	titles := make([]string, 0)
	for _, s := range th.Frame().Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"PARTY", "AVAILABLE"}, titles)

	// A snapshot without settings keeps the previous toggles.
	snap.Settings = snapshot.Settings{}
	require.NoError(t, th.Update(context.Background(), snap))
	assert.False(t, th.View().Settings.ShowLocked)
}

func TestMalformedBlobSetsErrorAndKeepsState(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Alys)}, map[codex.CharacterID]Stats{
		codex.Alys: lvl(10),
	})))

	err := th.Update(context.Background(), &snapshot.Snapshot{
		Connected: true,
		Values: snapshot.NewValues(map[string]any{
			"party_slots": "@@@@",
			"all_chars":   snapshot.Blob(charBlob(nil)),
		}),
	})

	var decodeErr *emuerrors.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, Name, decodeErr.Theme)
	assert.Equal(t, "party_slots", decodeErr.Field)

	frame := th.Frame()
	assert.Equal(t, theme.StatusError, frame.Status)
	assert.Contains(t, frame.StatusText, "Error: ")
	require.Len(t, th.View().Party, 1)
}

func TestCloseResetsParty(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Alys)}, map[codex.CharacterID]Stats{
		codex.Alys: lvl(10),
	})))

	th.Close(context.Background())

	frame := th.Frame()
	assert.Equal(t, theme.StatusClosed, frame.Status)
	assert.Equal(t, "Game closed", frame.StatusText)
	assert.Empty(t, th.View().Party)
	assert.Equal(t, "Waiting for party data…", th.View().EmptyMessage)

	// After a close, an empty party is accepted as the real state.
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{0xFF}, nil)))
	assert.Empty(t, th.View().Party)
}

func TestExpandShowsDetails(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Wren), byte(codex.Rune)}, map[codex.CharacterID]Stats{
		codex.Wren: lvl(33),
		codex.Rune: lvl(20),
	})))

	require.NoError(t, th.Act(context.Background(), theme.Action{Name: ActionExpand, Target: "Shooting Star"}))
	require.NoError(t, th.Act(context.Background(), theme.Action{Name: ActionExpand, Target: "Circuit Break"}))

	view := th.View()
	star := findCard(t, view.Available, "Shooting Star")
	require.True(t, star.Expanded)
	assert.Equal(t, []string{
		"▸ Burst Rockets → Wren (story ~Lv32)",
		"▸ Foi → Rune (learned Lv1)",
	}, star.Details)
	assert.Equal(t, "Rockets ignite into a barrage of fire.", star.Description)

	circuit := findCard(t, view.Locked, "Circuit Break")
	assert.Equal(t, []string{
		"▸ Hijammer → Wren",
		"▸ Tandle → Rune/Kyra",
	}, circuit.Details)

	require.NoError(t, th.Act(context.Background(), theme.Action{Name: ActionExpand, Target: "Shooting Star"}))
	assert.False(t, findCard(t, th.View().Available, "Shooting Star").Expanded)
	assert.Empty(t, findCard(t, th.View().Available, "Shooting Star").Details)
}

func TestExpandVariantsLine(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Hahn)}, map[codex.CharacterID]Stats{
		codex.Hahn: lvl(1),
	})))
	require.NoError(t, th.Act(context.Background(), theme.Action{Name: ActionExpand, Target: "Blizzard"}))

	blizzard := findCard(t, th.View().Locked, "Blizzard")
	assert.Equal(t, []string{
		"▸ Wat (+variants) → Hahn/Rune",
		"▸ Zan (+variants) → Chaz/Alys/Hahn/Rune/Kyra",
	}, blizzard.Details)
}

func TestActRejectsUnknownInput(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	var validationErr *emuerrors.ValidationError

	err := th.Act(context.Background(), theme.Action{Name: ActionExpand, Target: "Nope"})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "target", validationErr.Field)

	err = th.Act(context.Background(), theme.Action{Name: "dance"})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "action", validationErr.Field)
}

func TestToggleLockedCollapsesSection(t *testing.T) {
	t.Parallel()

	th := NewTheme(theme.Options{})
	require.NoError(t, th.Update(context.Background(), partySnapshot([]byte{byte(codex.Hahn)}, map[codex.CharacterID]Stats{
		codex.Hahn: lvl(2),
	})))
	require.NoError(t, th.Act(context.Background(), theme.Action{Name: ActionToggleLocked}))

	var locked theme.Section
	for _, s := range th.Frame().Sections {
		if s.Title == "LOCKED" {
			locked = s
		}
	}
	assert.Equal(t, "LOCKED", locked.Title)
	assert.NotEqual(t, "0", locked.Badge)
	assert.Empty(t, locked.Lines)
	assert.True(t, th.View().LockedCollapsed)
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HPFull, BandFor(0.51))
	assert.Equal(t, HPMid, BandFor(0.5))
	assert.Equal(t, HPMid, BandFor(0.26))
	assert.Equal(t, HPLow, BandFor(0.25))
	assert.Equal(t, HPLow, BandFor(0))

	for _, ratio := range []float64{0, 0.25, 0.26, 0.5, 0.51, 1} {
		assert.Equal(t, toneBands[theme.HealthTone(ratio)], BandFor(ratio), ratio)
	}
}

func TestPartyLineToneFollowsHealthTone(t *testing.T) {
	t.Parallel()

	view := View{
		Settings: Settings{ShowParty: true},
		Party: []Member{
			{Name: "ALYS", HPBand: HPFull, HPTone: theme.HealthTone(0.9)},
			{Name: "HAHN", HPBand: HPLow, HPTone: theme.HealthTone(0.1)},
		},
	}
	party := view.sections()[0]
	require.Equal(t, "PARTY", party.Title)
	assert.Equal(t, theme.ToneGood, party.Lines[0].Tone)
	assert.Equal(t, theme.ToneBad, party.Lines[1].Tone)
}

func TestRegisteredInDefaultRegistry(t *testing.T) {
	t.Parallel()

	meta, ok := theme.Default().Metadata(Name)
	require.True(t, ok)
	assert.Equal(t, Metadata, meta)
}
