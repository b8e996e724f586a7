package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/emuhud/internal/codex"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

type combosOptions struct {
	party      string
	levels     string
	jsonOutput bool
	reachable  bool
}

func newCombosCmd(flags *rootFlags) *cobra.Command {
	opts := &combosOptions{}

	cmd := &cobra.Command{
		Use:   "combos",
		Short: "Evaluate combo availability for a party",
		Example: "  emuhud combos --party alys,hahn --levels 20,30\n" +
			"  emuhud combos --party 0,1,2 --levels 15,15,15 --json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadAppContext(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runCombos(cmd, opts, app.Codex)
		},
	}

	cmd.Flags().StringVar(&opts.party, "party", "", "Comma-separated party members by id or name")
	cmd.Flags().StringVar(&opts.levels, "levels", "", "Comma-separated levels, one per party member")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.reachable, "reachable", false, "Show only locked combos the party can unlock by levelling")

	return cmd
}

func runCombos(cmd *cobra.Command, opts *combosOptions, cx *codex.Codex) error {
	party, err := parseParty(cx, opts.party)
	if err != nil {
		return err
	}
	levels, err := parseLevels(opts.levels, len(party))
	if err != nil {
		return err
	}

	byID := make(map[codex.CharacterID]int, len(party))
	for i, id := range party {
		byID[id] = levels[i]
	}
	partition := cx.EvaluateAll(party, cx.PartyAbilities(party, byID))
	if opts.reachable {
		partition = codex.Partition{Locked: partition.Reachable()}
	}

	if opts.jsonOutput {
		return renderCombosJSON(cmd, cx, party, levels, partition)
	}
	return renderCombosTable(cmd, cx, partition)
}

// parseParty accepts roster ids or case-insensitive names. Unknown members
// are rejected here, unlike snapshot rosters where they are skipped.
func parseParty(cx *codex.Codex, raw string) ([]codex.CharacterID, error) {
	var party []codex.CharacterID
	for _, field := range splitList(raw) {
		id, ok := lookupCharacter(cx, field)
		if !ok {
			return nil, emuerrors.NewValidationError("party", fmt.Sprintf("unknown character %q", field), nil)
		}
		for _, existing := range party {
			if existing == id {
				return nil, emuerrors.NewValidationError("party", fmt.Sprintf("%s listed twice", cx.Name(id)), nil)
			}
		}
		party = append(party, id)
	}
	return party, nil
}

func lookupCharacter(cx *codex.Codex, field string) (codex.CharacterID, bool) {
	if n, err := strconv.Atoi(field); err == nil {
		if n < 0 || n >= int(codex.EmptySlot) || !cx.Known(codex.CharacterID(n)) {
			return 0, false
		}
		return codex.CharacterID(n), true
	}
	for _, id := range cx.Characters() {
		if strings.EqualFold(cx.Name(id), field) {
			return id, true
		}
	}
	return 0, false
}

func parseLevels(raw string, want int) ([]int, error) {
	fields := splitList(raw)
	if len(fields) != want {
		return nil, emuerrors.NewValidationError("levels", fmt.Sprintf("expected %d levels, got %d", want, len(fields)), nil)
	}
	levels := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, emuerrors.NewValidationError("levels", fmt.Sprintf("invalid level %q", field), err)
		}
		levels[i] = n
	}
	return levels, nil
}

func splitList(raw string) []string {
	var out []string
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}

func renderCombosTable(cmd *cobra.Command, cx *codex.Codex, p codex.Partition) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "STATUS\tCOMBO\tELEMENT\tDETAIL")
	for _, e := range p.Available {
		fmt.Fprintf(writer, "available\t%s\t%s\t%s\n", e.Combo.Name, cx.Element(e.Combo.Element).Label, assignmentText(cx, e.Result.Assignment))
	}
	for _, e := range p.Locked {
		fmt.Fprintf(writer, "locked\t%s\t%s\t%s\n", e.Combo.Name, cx.Element(e.Combo.Element).Label, missingText(cx, e.Result.Missing))
	}
	return writer.Flush()
}

func assignmentText(cx *codex.Codex, slots []codex.Slot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, fmt.Sprintf("%s→%s", cx.Name(s.Character), s.Ability))
	}
	return strings.Join(parts, ", ")
}

func missingText(cx *codex.Codex, reasons []codex.Reason) string {
	if len(reasons) == 0 {
		return "members already committed"
	}
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r.Kind == codex.ReasonLevel {
			story := ""
			if r.Story {
				story = "~"
			}
			parts = append(parts, fmt.Sprintf("%s (%s %sLv%d)", r.Ability, cx.Name(r.Character), story, r.Level))
			continue
		}
		names := make([]string, 0, len(r.Characters))
		for _, id := range r.Characters {
			names = append(names, cx.Name(id))
		}
		parts = append(parts, fmt.Sprintf("%s needs %s", r.Ability, strings.Join(names, "/")))
	}
	return strings.Join(parts, "; ")
}

type combosJSONMember struct {
	ID    codex.CharacterID `json:"id"`
	Name  string            `json:"name"`
	Level int               `json:"level"`
}

type combosJSONEntry struct {
	Name    string `json:"name"`
	Element string `json:"element"`
	codex.Result
}

type combosJSONPayload struct {
	Party     []combosJSONMember `json:"party"`
	Available []combosJSONEntry  `json:"available"`
	Locked    []combosJSONEntry  `json:"locked"`
}

func renderCombosJSON(cmd *cobra.Command, cx *codex.Codex, party []codex.CharacterID, levels []int, p codex.Partition) error {
	payload := combosJSONPayload{
		Party:     make([]combosJSONMember, len(party)),
		Available: entriesJSON(p.Available),
		Locked:    entriesJSON(p.Locked),
	}
	for i, id := range party {
		payload.Party[i] = combosJSONMember{ID: id, Name: cx.Name(id), Level: levels[i]}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func entriesJSON(entries []codex.Entry) []combosJSONEntry {
	out := make([]combosJSONEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, combosJSONEntry{Name: e.Combo.Name, Element: e.Combo.Element, Result: e.Result})
	}
	return out
}
