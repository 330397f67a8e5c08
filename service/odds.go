package service

import (
	"strconv"
	"strings"

	"sweeps/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmericanOdds parses a signed American odds string such as "+145"
// or "-110". Zero is not a valid line.
func ParseAmericanOdds(odds string) (int64, error) {
	trimmed := strings.TrimSpace(odds)
	if strings.HasPrefix(trimmed, "+") {
		trimmed = trimmed[1:]
		// ParseInt tolerates its own leading sign, so "++145" and
		// "+-145" would otherwise slip through
		if trimmed == "" || trimmed[0] < '0' || trimmed[0] > '9' {
			return 0, models.NewValidationError("invalid American odds %q", odds)
		}
	}
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, models.NewValidationError("invalid American odds %q", odds)
	}
	if value == 0 {
		return 0, models.NewValidationError("invalid American odds %q", odds)
	}
	return value, nil
}

// ComputeWinnings converts stake and American odds into gross winnings,
// capped at maxWin. Positive odds pay stake*odds/100; negative odds pay
// stake*100/|odds|. The cap applies before any fee deduction.
func ComputeWinnings(stake decimal.Decimal, odds int64, maxWin decimal.Decimal) decimal.Decimal {
	var winnings decimal.Decimal
	if odds > 0 {
		winnings = stake.Mul(decimal.NewFromInt(odds)).Div(hundred)
	} else {
		winnings = stake.Mul(hundred).Div(decimal.NewFromInt(-odds))
	}
	winnings = winnings.Round(2)
	if winnings.GreaterThan(maxWin) {
		return maxWin
	}
	return winnings
}
