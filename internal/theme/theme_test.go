package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		hex  string
		want HSL
	}{
		{"#3366CC", HSL{H: 220, S: 60, L: 50}},
		{"3366CC", HSL{H: 220, S: 60, L: 50}},
		{"#FFFFFF", HSL{H: 0, S: 0, L: 100}},
		{"#000000", HSL{H: 0, S: 0, L: 0}},
		{"#FF0000", HSL{H: 0, S: 100, L: 50}},
		{"#00FF00", HSL{H: 120, S: 100, L: 50}},
		{"#0000FF", HSL{H: 240, S: 100, L: 50}},
	}
	for _, tt := range tests {
		got, err := HexToHSL(tt.hex)
		require.NoError(t, err, tt.hex)
		assert.Equal(t, tt.want, got, tt.hex)
	}
}

func TestHexToHSLInvalid(t *testing.T) {
	for _, hex := range []string{"", "#FFF", "#GGGGGG", "#12345", "#1234567"} {
		_, err := HexToHSL(hex)
		assert.Error(t, err, hex)
	}
}

func TestDerive(t *testing.T) {
	palette, err := Derive("#3366CC")
	require.NoError(t, err)

	assert.Equal(t, HSL{H: 220, S: 60, L: 50}, palette.Accent)
	assert.Equal(t, HSL{H: 220, S: 60, L: 40}, palette.Chrome)
	assert.Equal(t, HSL{H: 220, S: 60, L: 35}, palette.Background)
}

func TestDeriveIsPure(t *testing.T) {
	first, err := Derive("#8A2BE2")
	require.NoError(t, err)
	second, err := Derive("#8A2BE2")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeriveLightnessOrdering(t *testing.T) {
	// Background is always the darkest surface, never lighter than
	// chrome, never lighter than the accent. Lightness never goes
	// negative for dark accents.
	for _, hex := range []string{"#3366CC", "#112233", "#FFFFFF", "#050505", "#FFD700"} {
		p, err := Derive(hex)
		require.NoError(t, err, hex)
		assert.GreaterOrEqual(t, p.Accent.L, p.Chrome.L, hex)
		assert.GreaterOrEqual(t, p.Chrome.L, p.Background.L, hex)
		assert.GreaterOrEqual(t, p.Background.L, 0, hex)
		assert.Equal(t, p.Accent.H, p.Background.H, hex)
		assert.Equal(t, p.Accent.S, p.Background.S, hex)
	}
}

func TestHSLString(t *testing.T) {
	assert.Equal(t, "hsl(220, 60%, 50%)", HSL{H: 220, S: 60, L: 50}.String())
}
