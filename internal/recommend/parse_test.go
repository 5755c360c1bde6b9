package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title", "Heat", "Heat"},
		{"numbered dot", "1. Heat", "Heat"},
		{"numbered paren", "2) Collateral", "Collateral"},
		{"numbered dash", "3 - Se7en", "Se7en"},
		{"bullet", "- Drive", "Drive"},
		{"unicode bullet", "• Ronin", "Ronin"},
		{"surrounding whitespace", "  The Insider  ", "The Insider"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTitle(tt.input))
		})
	}
}

func TestParseTitles(t *testing.T) {
	raw := `1. Heat
2. Collateral
3. heat
4. Se7en

5. OK
6. Thief`

	titles := ParseTitles(raw, 10)
	assert.Equal(t, []string{"Heat", "Collateral", "Se7en", "Thief"}, titles)
}

func TestParseTitlesCap(t *testing.T) {
	raw := "Heat\nCollateral\nSe7en\nThief\nRonin"

	titles := ParseTitles(raw, 3)
	assert.Equal(t, []string{"Heat", "Collateral", "Se7en"}, titles)
}

func TestParseTitlesEmptyOutput(t *testing.T) {
	assert.Empty(t, ParseTitles("", 10))
	assert.Empty(t, ParseTitles("\n\n  \n", 10))
}

func TestParseTitlesUnicodeDedupe(t *testing.T) {
	// Composed and decomposed forms of the same title collapse to one entry.
	raw := "Amélie\nAmélie"

	titles := ParseTitles(raw, 10)
	assert.Equal(t, []string{"Amélie"}, titles)
}
