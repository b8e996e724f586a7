package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

func TestGetValidator(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	// Should return the same instance (singleton)
	if v1 != v2 {
		t.Error("GetValidator should return the same instance (singleton pattern)")
	}
}

func TestAbilityAlternativesValidation(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"single", "Foi", true},
		{"several", "Foi|Gifoi|Nafoi", true},
		{"spaces around names", "Foi | Gifoi", true},
		{"name with space", "Burst Rockets", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"double pipe", "Foi||Gifoi", false},
		{"trailing pipe", "Foi|", false},
		{"leading pipe", "|Foi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, "ability_alternatives")
			if (err == nil) != tt.expected {
				t.Errorf("ability_alternatives(%q) = %v, want valid=%v", tt.value, err, tt.expected)
			}
		})
	}
}

func TestThemeAndElementNames(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		tag      string
		value    string
		expected bool
	}{
		{"theme_name", "psiv", true},
		{"theme_name", "gold-eye_2", true},
		{"theme_name", "PSIV", false},
		{"theme_name", "ff 7", false},
		{"element_name", "lightning", true},
		{"element_name", "9fire", false},
		{"element_name", "Fire", false},
		{"log_level", "debug", true},
		{"log_level", "WARN", true},
		{"log_level", "trace", false},
		{"semver", "1.0.0", true},
		{"semver", "1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.value, func(t *testing.T) {
			err := v.Var(tt.value, tt.tag)
			if (err == nil) != tt.expected {
				t.Errorf("%s(%q) = %v, want valid=%v", tt.tag, tt.value, err, tt.expected)
			}
		})
	}
}

func TestSplitAlternatives(t *testing.T) {
	got := splitAlternatives(" Wat | Giwat|Nawat ")
	want := []string{"Wat", "Giwat", "Nawat"}
	if len(got) != len(want) {
		t.Fatalf("splitAlternatives length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAlternatives[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitAlternatives("") != nil {
		t.Error("splitAlternatives of empty string should be nil")
	}
}

func TestValidateStructReportsFieldPath(t *testing.T) {
	type request struct {
		Data string `validate:"required,base64"`
	}

	require.NoError(t, ValidateStruct(request{Data: "aGk="}))

	err := ValidateStruct(request{Data: "???"})
	var validationErr *emuerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "data", validationErr.Field)
}
