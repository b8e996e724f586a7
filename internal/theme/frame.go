package theme

import (
	"errors"
	"reflect"

	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// Status is the connection state shown in a frame header.
type Status string

const (
	StatusOffline   Status = "offline"
	StatusConnected Status = "connected"
	StatusError     Status = "error"
	StatusClosed    Status = "closed"
)

// Tone is a rendering hint for a line. Renderers map tones to colours.
type Tone string

const (
	ToneNormal Tone = ""
	ToneAccent Tone = "accent"
	ToneGood   Tone = "good"
	ToneWarn   Tone = "warn"
	ToneBad    Tone = "bad"
	ToneDim    Tone = "dim"
)

// Line is one row of text in a section.
type Line struct {
	Text  string `json:"text"`
	Tone  Tone   `json:"tone,omitempty"`
	Color string `json:"color,omitempty"`
}

// Section is a titled group of lines.
type Section struct {
	Title string `json:"title"`
	Badge string `json:"badge,omitempty"`
	Lines []Line `json:"lines"`
}

// Frame is the view model a theme publishes after each tick. Body carries the
// theme's typed view for structured consumers; Sections is the same content
// flattened for text renderers.
type Frame struct {
	Theme      string    `json:"theme"`
	Status     Status    `json:"status"`
	StatusText string    `json:"statusText"`
	Body       any       `json:"body,omitempty"`
	Sections   []Section `json:"sections,omitempty"`
}

// Equal reports whether two frames render identically.
func (f Frame) Equal(other Frame) bool {
	return reflect.DeepEqual(f, other)
}

// Header is the connection status shared by every theme.
type Header struct {
	Status Status
	Text   string
}

// NewHeader returns the header of a theme that has not received a tick yet.
func NewHeader() Header {
	return Header{Status: StatusOffline, Text: "Offline"}
}

// Connected updates the header from a snapshot's connection flag.
func (h *Header) Connected(connected bool) {
	if connected {
		h.Status, h.Text = StatusConnected, "Connected"
		return
	}
	h.Status, h.Text = StatusOffline, "Offline"
}

// Fail shows err in the header. Decode errors are shown without their
// theme prefix.
func (h *Header) Fail(err error) {
	msg := err.Error()
	var decodeErr *emuerrors.DecodeError
	if errors.As(err, &decodeErr) && decodeErr.Err != nil {
		msg = decodeErr.Err.Error()
	}
	h.Status, h.Text = StatusError, "Error: "+msg
}

// Closed marks the game as closed.
func (h *Header) Closed() {
	h.Status, h.Text = StatusClosed, "Game closed"
}

// Stamp copies the header into f.
func (h Header) Stamp(f *Frame) {
	f.Status = h.Status
	f.StatusText = h.Text
}

// HealthTone maps a health ratio to good above one half, warn above one
// quarter and bad otherwise.
func HealthTone(ratio float64) Tone {
	switch {
	case ratio > 0.5:
		return ToneGood
	case ratio > 0.25:
		return ToneWarn
	default:
		return ToneBad
	}
}
