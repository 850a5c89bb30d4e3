// Package models defines data structures for stock-manager
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// symbolPattern matches a normalized ticker symbol: 1-5 uppercase letters.
var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// NormalizeSymbol trims and uppercases a raw symbol and validates it.
// Returns ErrInvalidSymbol (wrapped) for anything that is not 1-5 letters.
func NormalizeSymbol(raw string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolPattern.MatchString(sym) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, raw)
	}
	return sym, nil
}

// Quote is the most recently fetched price for a symbol. One record per
// symbol; a refresh replaces the prior record rather than appending.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// SymbolMatch is a single symbol search result from the quote provider.
type SymbolMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
