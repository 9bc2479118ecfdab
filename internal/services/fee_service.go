package services

import (
	"context"
	"fmt"

	"kyatbook/internal/core"
	"kyatbook/internal/observability"
	"kyatbook/internal/storage"
)

// FeeService manages the fee bracket table.
type FeeService struct {
	storage *storage.Repository
}

func NewFeeService(storage *storage.Repository) *FeeService {
	return &FeeService{storage: storage}
}

// ListBrackets returns all brackets ordered by lower bound.
func (s *FeeService) ListBrackets(ctx context.Context) ([]core.FeeBracket, error) {
	return s.storage.ListFeeBrackets(ctx)
}

// ReplaceBrackets validates and saves a complete replacement bracket set.
func (s *FeeService) ReplaceBrackets(ctx context.Context, brackets []core.FeeBracket) ([]core.FeeBracket, error) {
	if err := core.ValidateBrackets(brackets); err != nil {
		return nil, err
	}
	saved, err := s.storage.ReplaceFeeBrackets(ctx, brackets)
	if err != nil {
		return nil, fmt.Errorf("replace fee brackets: %w", err)
	}
	return saved, nil
}

// BracketForAmount resolves which bracket an amount falls into.
func (s *FeeService) BracketForAmount(ctx context.Context, amount int64) (core.FeeBracket, error) {
	brackets, err := s.storage.ListFeeBrackets(ctx)
	if err != nil {
		return core.FeeBracket{}, fmt.Errorf("load fee brackets: %w", err)
	}
	bracket, err := core.ResolveBracket(brackets, amount)
	if err != nil {
		observability.FeeResolutions.WithLabelValues("miss").Inc()
		return core.FeeBracket{}, err
	}
	observability.FeeResolutions.WithLabelValues("hit").Inc()
	return bracket, nil
}
