// Package symbolsearch provides symbol autocomplete over the quote provider.
package symbolsearch

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/eliz121/stock-manager/internal/common"
	"github.com/eliz121/stock-manager/internal/interfaces"
	"github.com/eliz121/stock-manager/internal/models"
)

// MinTermLength is the shortest term that triggers a provider search.
const MinTermLength = 2

// DefaultLimit caps the number of matches returned per search.
const DefaultLimit = 10

// Service implements SymbolSearchService.
type Service struct {
	provider interfaces.QuoteProvider
	logger   *common.Logger
}

// NewService creates a new symbol search service.
func NewService(provider interfaces.QuoteProvider, logger *common.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// Search returns candidate symbols for a free-text term. Terms shorter than
// MinTermLength yield an empty result without a provider call.
func (s *Service) Search(ctx context.Context, term string) ([]*models.SymbolMatch, error) {
	term = strings.ToUpper(strings.TrimSpace(term))
	if utf8.RuneCountInString(term) < MinTermLength {
		return []*models.SymbolMatch{}, nil
	}

	matches, err := s.provider.SearchSymbols(ctx, term, DefaultLimit)
	if err != nil {
		s.logger.Warn().Err(err).Str("term", term).Msg("Symbol search failed")
		return nil, err
	}

	return matches, nil
}

// Ensure Service implements SymbolSearchService
var _ interfaces.SymbolSearchService = (*Service)(nil)
