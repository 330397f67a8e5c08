package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmericanOdds(t *testing.T) {
	t.Run("valid lines", func(t *testing.T) {
		cases := map[string]int64{
			"+145":  145,
			"145":   145,
			"-110":  -110,
			" +200": 200,
			"-100":  -100,
		}
		for input, expected := range cases {
			value, err := ParseAmericanOdds(input)
			require.NoError(t, err, "input %q", input)
			assert.Equal(t, expected, value, "input %q", input)
		}
	})

	t.Run("invalid lines", func(t *testing.T) {
		for _, input := range []string{"", "0", "+0", "abc", "+1.5", "++145", "+-145", "+"} {
			_, err := ParseAmericanOdds(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestComputeWinnings_PositiveOdds(t *testing.T) {
	maxWin := decimal.NewFromInt(1000)

	// $50 at +145 pays $72.50
	winnings := ComputeWinnings(decimal.NewFromInt(50), 145, maxWin)
	assert.True(t, winnings.Equal(decimal.RequireFromString("72.50")), "got %s", winnings)
}

func TestComputeWinnings_NegativeOdds(t *testing.T) {
	maxWin := decimal.NewFromInt(1000)

	// $110 at -110 pays $100
	winnings := ComputeWinnings(decimal.NewFromInt(110), -110, maxWin)
	assert.True(t, winnings.Equal(decimal.NewFromInt(100)), "got %s", winnings)

	// Repeating decimal rounds to the cent: $100 at -110 pays $90.91
	winnings = ComputeWinnings(decimal.NewFromInt(100), -110, maxWin)
	assert.True(t, winnings.Equal(decimal.RequireFromString("90.91")), "got %s", winnings)
}

func TestComputeWinnings_Cap(t *testing.T) {
	maxWin := decimal.NewFromInt(1000)

	// $500 at +300 would pay $1500, capped at the max win
	winnings := ComputeWinnings(decimal.NewFromInt(500), 300, maxWin)
	assert.True(t, winnings.Equal(maxWin), "got %s", winnings)

	// Exactly at the cap is not reduced
	winnings = ComputeWinnings(decimal.NewFromInt(1000), 100, maxWin)
	assert.True(t, winnings.Equal(maxWin), "got %s", winnings)
}
