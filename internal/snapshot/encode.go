package snapshot

import (
	"encoding/base64"
	"encoding/json"
)

// Payload mirrors the envelope sent by the bridge. It is what Encode
// serialises and what the schema command documents.
type Payload struct {
	IsConnected bool           `json:"isConnected" jsonschema:"description=Whether the emulator bridge is attached to a running game"`
	Values      map[string]any `json:"values,omitempty" jsonschema:"description=Named memory values; binary blobs are base64 strings"`
	Settings    map[string]any `json:"settings,omitempty" jsonschema:"description=Display toggles; the string false disables a section"`
}

// Encode serialises p the way the bridge does: base64 of the JSON document.
func Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Blob base64-encodes a memory blob for use as a value.
func Blob(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
