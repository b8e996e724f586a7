package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/emuhud/internal/server"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

// schemaTargets are the wire types a bridge or overlay author needs.
var schemaTargets = map[string]any{
	"update":  &server.UpdateRequest{},
	"action":  &theme.Action{},
	"message": &server.Message{},
	"frame":   &theme.Frame{},
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "schema [update|action|message|frame]",
		Short:     "Print the JSON schema of the HTTP and WebSocket payloads",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: schemaNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, args)
		},
	}

	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	var out any
	if len(args) == 1 {
		if _, ok := schemaTargets[args[0]]; !ok {
			return fmt.Errorf("unknown schema %q (expected one of %s)", args[0], strings.Join(schemaNames(), ", "))
		}
		out = buildSchema(args[0])
	} else {
		all := make(map[string]*jsonschema.Schema, len(schemaTargets))
		for _, name := range schemaNames() {
			all[name] = buildSchema(name)
		}
		out = all
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func schemaNames() []string {
	names := make([]string, 0, len(schemaTargets))
	for name := range schemaTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildSchema(name string) *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(schemaTargets[name])
	schema.Title = "emuhud " + name
	return schema
}
