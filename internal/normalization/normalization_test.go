package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceStringSlice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"bare string", "Analgesic", []string{"Analgesic"}},
		{"json array", `["Analgesic","Antibiotic"]`, []string{"Analgesic", "Antibiotic"}},
		{"comma list", "Analgesic, Antibiotic", []string{"Analgesic", "Antibiotic"}},
		{"comma list with blanks", "Analgesic, , Antibiotic,", []string{"Analgesic", "Antibiotic"}},
		{"malformed json falls back", `["Analgesic"`, []string{`["Analgesic"`}},
		{"whitespace only", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceStringSlice(tt.raw))
		})
	}
}

func TestParseInputString(t *testing.T) {
	assert.Equal(t, "active", ParseInputString("  Active "))
	assert.Equal(t, "", ParseInputString("   "))
}

func TestTrimInputKeepsCasing(t *testing.T) {
	assert.Equal(t, "Anti-Littering Ordinance", TrimInput("  Anti-Littering Ordinance "))
	assert.Equal(t, "ORD-2024-15", TrimInput("ORD-2024-15"))
	assert.Equal(t, "", TrimInput("   "))
}
