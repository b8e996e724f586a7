// Package snapshot is the typed boundary for the per-tick state bag pushed by
// the emulator bridge.
//
// The bridge sends base64 of a JSON document shaped like
//
//	{"isConnected": true, "values": {...}, "settings": {...}}
//
// Values are looked up by name through typed accessors; a missing key or a
// value of the wrong JSON type resolves to the documented default instead of
// failing the tick.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/alexisbeaulieu97/emuhud/internal/binread"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// Snapshot is one decoded update tick.
type Snapshot struct {
	Connected bool
	Initial   bool
	Values    Values
	Settings  Settings
}

type envelope struct {
	IsConnected bool                       `json:"isConnected"`
	Values      map[string]json.RawMessage `json:"values"`
	Settings    map[string]json.RawMessage `json:"settings"`
}

// Decode parses a base64-encoded snapshot envelope.
func Decode(data string) (*Snapshot, error) {
	raw, err := binread.DecodeBase64(data)
	if err != nil {
		return nil, emuerrors.NewDecodeError("", "snapshot", fmt.Errorf("invalid base64: %w", err))
	}
	return DecodeJSON(raw)
}

// DecodeJSON parses an already base64-decoded snapshot envelope.
func DecodeJSON(raw []byte) (*Snapshot, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&env); err != nil {
		return nil, emuerrors.NewDecodeError("", "snapshot", fmt.Errorf("invalid json: %w", err))
	}

	snap := &Snapshot{
		Connected: env.IsConnected,
		Values:    Values{raw: env.Values},
		Settings:  Settings{raw: env.Settings, present: env.Settings != nil},
	}
	if snap.Values.raw == nil {
		snap.Values.raw = map[string]json.RawMessage{}
	}
	return snap, nil
}

// Values is the named value bag of a snapshot.
type Values struct {
	raw map[string]json.RawMessage
}

// NewValues builds a Values bag from Go values. Intended for tests and for
// callers that assemble snapshots programmatically.
func NewValues(fields map[string]any) Values {
	raw := make(map[string]json.RawMessage, len(fields))
	for key, value := range fields {
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		raw[key] = encoded
	}
	return Values{raw: raw}
}

// Has reports whether key is present and not null.
func (v Values) Has(key string) bool {
	msg, ok := v.raw[key]
	return ok && !isNull(msg)
}

// String returns a string value.
func (v Values) String(key string) (string, bool) {
	msg, ok := v.raw[key]
	if !ok || isNull(msg) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return "", false
	}
	return s, true
}

// Blob decodes a base64 string value. ok is false when the key is missing,
// null or empty; err is set when the value is present but not valid base64.
func (v Values) Blob(key string) (r binread.Reader, ok bool, err error) {
	s, present := v.String(key)
	if !present || s == "" {
		return binread.Reader{}, false, nil
	}
	r, err = binread.Decode(s)
	if err != nil {
		return binread.Reader{}, false, emuerrors.NewDecodeError("", key, err)
	}
	return r, true, nil
}

// Float returns a numeric value.
func (v Values) Float(key string) (float64, bool) {
	msg, ok := v.raw[key]
	if !ok || isNull(msg) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(msg, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOr returns a numeric value or def.
func (v Values) FloatOr(key string, def float64) float64 {
	if f, ok := v.Float(key); ok {
		return f
	}
	return def
}

// Int returns a numeric value truncated toward zero.
func (v Values) Int(key string) (int, bool) {
	f, ok := v.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// IntOr returns a numeric value truncated toward zero, or def.
func (v Values) IntOr(key string, def int) int {
	if n, ok := v.Int(key); ok {
		return n
	}
	return def
}

// Settings holds the named display toggles sent alongside values.
type Settings struct {
	raw     map[string]json.RawMessage
	present bool
}

// NewSettings builds a Settings object from Go values.
func NewSettings(fields map[string]any) Settings {
	return Settings{raw: NewValues(fields).raw, present: true}
}

// Present reports whether the snapshot carried a settings object at all.
// Themes keep their previous toggles when it did not.
func (s Settings) Present() bool {
	return s.present
}

// Toggle resolves a loosely typed boolean. The string "false" and the JSON
// boolean false are false; a missing key and any other value are true.
func (s Settings) Toggle(key string) bool {
	msg, ok := s.raw[key]
	if !ok || isNull(msg) {
		return true
	}
	var str string
	if err := json.Unmarshal(msg, &str); err == nil {
		return str != "false"
	}
	var b bool
	if err := json.Unmarshal(msg, &b); err == nil {
		return b
	}
	return true
}

func isNull(msg json.RawMessage) bool {
	return len(bytes.TrimSpace(msg)) == 0 || bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}
