package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("codex.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "codex.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "codex.yaml:12")
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("codex.yaml", 0, stdErrors.New("no such file"))
	require.Equal(t, "parse error: codex.yaml: no such file", err.Error())
}

func TestValidationErrorCarriesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("combos[1].components[0].chars", "references unknown character 42", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "combos[1].components[0].chars", validationErr.Field)
	require.Contains(t, validationErr.Message, "unknown character")
}

func TestDecodeErrorIncludesThemeAndField(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("illegal base64 data at input byte 3")
	err := NewDecodeError("psiv", "party_slots", underlying)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "psiv", decodeErr.Theme)
	require.Equal(t, "party_slots", decodeErr.Field)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "decode error [psiv] party_slots: illegal base64 data at input byte 3", err.Error())
}

func TestDecodeErrorWithoutField(t *testing.T) {
	t.Parallel()

	err := NewDecodeError("ff7", "", stdErrors.New("boom"))
	require.Equal(t, "decode error [ff7]: boom", err.Error())
}

func TestThemeErrorIncludesThemeName(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("not registered")
	err := NewThemeError("snes", underlying)

	var themeErr *ThemeError
	require.ErrorAs(t, err, &themeErr)
	require.Equal(t, "snes", themeErr.Theme)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var validationErr *ValidationError
	var decodeErr *DecodeError
	var themeErr *ThemeError

	require.Empty(t, parseErr.Error())
	require.Empty(t, validationErr.Error())
	require.Empty(t, decodeErr.Error())
	require.Empty(t, themeErr.Error())
	require.Nil(t, decodeErr.Unwrap())
}
