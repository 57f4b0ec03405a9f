// Package provider selects among historical-data sources by priority.
// Sources advertise a tier at construction time; callers take the most
// preferred source that reports itself operational.
package provider

import (
	"context"
	"errors"
	"sort"

	"github.com/dyike/quotebridge/internal/model"
)

// Priority tiers. Lower is more preferred. A source elevates itself to
// PriorityPrimary only when it verified its upstream handle at
// construction; everything else stays at the fallback tier.
const (
	PriorityPrimary  = 0
	PriorityFallback = 2
)

// Provider is a historical quote source.
type Provider interface {
	Name() string
	Priority() int
	Available() bool
	FetchHistorical(ctx context.Context, symbol, startDate, endDate string) ([]model.QuoteRecord, error)
}

// Registry holds providers sorted by priority.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
	sort.SliceStable(r.providers, func(i, j int) bool {
		return r.providers[i].Priority() < r.providers[j].Priority()
	})
}

// Pick returns the most preferred available provider.
func (r *Registry) Pick() (Provider, error) {
	for _, p := range r.providers {
		if p.Available() {
			return p, nil
		}
	}
	return nil, errors.New("no data source available")
}

// FetchHistorical tries providers in priority order until one succeeds.
func (r *Registry) FetchHistorical(ctx context.Context, symbol, startDate, endDate string) ([]model.QuoteRecord, error) {
	var lastErr error
	for _, p := range r.providers {
		if !p.Available() {
			continue
		}
		records, err := p.FetchHistorical(ctx, symbol, startDate, endDate)
		if err == nil {
			return records, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no data source available")
	}
	return nil, lastErr
}
