package longbridge

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dyike/quotebridge/config"
	"github.com/dyike/quotebridge/internal/fetch"
	"github.com/dyike/quotebridge/internal/model"
	"github.com/dyike/quotebridge/internal/provider"
	"github.com/dyike/quotebridge/internal/ratelimit"
	"github.com/dyike/quotebridge/internal/symbols"
)

// The upstream quote endpoint accepts at most 500 symbols per call.
const quoteBatchSize = 500

// Fetcher orchestrates rate limiting, retries and normalization around
// the Longport quote API. It implements provider.Provider.
type Fetcher struct {
	api      quoteAPI
	limiter  *ratelimit.Limiter
	retry    *fetch.RetryConfig
	priority int
	missing  []string
}

// NewFetcher builds a fetcher sharing the given limiter. When the three
// credentials are complete and the SDK context comes up, the fetcher
// advertises the primary priority tier; otherwise it stays at the
// fallback tier and every dependent call fails fast with a ConfigError.
func NewFetcher(cfg *config.Config, limiter *ratelimit.Limiter) *Fetcher {
	f := &Fetcher{
		limiter:  limiter,
		retry:    fetch.DefaultRetryConfig(),
		priority: provider.PriorityFallback,
	}

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		log.Printf("[longbridge] credentials incomplete (need %s), source unavailable", strings.Join(missing, ", "))
		f.missing = missing
		return f
	}

	client, err := NewClient(cfg)
	if err != nil {
		log.Printf("[longbridge] API init failed: %v", err)
		return f
	}

	f.api = client
	f.priority = provider.PriorityPrimary
	log.Printf("[longbridge] API initialized, source elevated to priority %d", f.priority)
	return f
}

func (f *Fetcher) Name() string { return "longbridge" }

// Priority is fixed at construction: primary when the handle
// initialized with complete credentials, fallback otherwise.
func (f *Fetcher) Priority() int { return f.priority }

func (f *Fetcher) Available() bool { return f.api != nil }

// FetchHistorical fetches daily candles for [startDate, endDate], maps
// them into the standard column set sorted ascending by date, and
// derives percent-change from the previous close rounded to 2 places.
// The earliest record's percent-change is nil.
func (f *Fetcher) FetchHistorical(ctx context.Context, symbol, startDate, endDate string) ([]model.QuoteRecord, error) {
	if f.api == nil {
		return nil, &fetch.ConfigError{Missing: f.missing}
	}

	sym := symbols.Normalize(symbol)
	start, err := symbols.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := symbols.ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	var candles []Candle
	op := fmt.Sprintf("fetch history %s", sym)
	err = fetch.WithRetry(op, f.retry, func() error {
		// One permit per attempt so retries stay inside the quota.
		f.limiter.Acquire()
		var ferr error
		candles, ferr = f.api.HistoryCandles(ctx, sym, start, end)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	records := make([]model.QuoteRecord, 0, len(candles))
	for _, c := range candles {
		records = append(records, model.QuoteRecord{
			Date:   c.Time.Format("2006-01-02"),
			Open:   f64(c.Open),
			High:   f64(c.High),
			Low:    f64(c.Low),
			Close:  f64(c.Close),
			Volume: c.Volume,
			Amount: f64(c.Turnover),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	for i := 1; i < len(records); i++ {
		records[i].PctChg = model.PctChange(records[i].Close, records[i-1].Close)
	}
	return records, nil
}

// FetchRealtimeBatch fetches realtime snapshots for mainland symbols
// only, batching at 500 per call. A nil map (and nil error) means no
// qualifying symbols or an unavailable handle.
func (f *Fetcher) FetchRealtimeBatch(ctx context.Context, syms []string) (map[string]model.RealtimeQuote, error) {
	if f.api == nil {
		log.Printf("[longbridge] API not initialized, skipping realtime quotes")
		return nil, nil
	}

	var mainland []string
	for _, s := range syms {
		if n := symbols.Normalize(s); symbols.IsMainland(n) {
			mainland = append(mainland, n)
		}
	}
	if len(mainland) == 0 {
		log.Printf("[longbridge] no mainland symbols to quote")
		return nil, nil
	}

	result := make(map[string]model.RealtimeQuote, len(mainland))
	for i := 0; i < len(mainland); i += quoteBatchSize {
		batch := mainland[i:min(i+quoteBatchSize, len(mainland))]

		var quotes []RawQuote
		err := fetch.WithRetry("fetch realtime quotes", f.retry, func() error {
			f.limiter.Acquire()
			var ferr error
			quotes, ferr = f.api.Quotes(ctx, batch)
			return ferr
		})
		if err != nil {
			return nil, err
		}

		for _, q := range quotes {
			result[q.Symbol] = normalizeQuote(q)
		}
	}
	return result, nil
}

// FetchRealtimeWithIndicators fetches realtime snapshots with the
// extended indicator set in one batched call. Missing upstream fields
// map to zero.
func (f *Fetcher) FetchRealtimeWithIndicators(ctx context.Context, syms []string) (map[string]model.RealtimeQuote, error) {
	if f.api == nil {
		log.Printf("[longbridge] API not initialized, skipping indicator quotes")
		return nil, nil
	}

	normalized := make([]string, 0, len(syms))
	for _, s := range syms {
		normalized = append(normalized, symbols.Normalize(s))
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	var indexes []RawIndex
	err := fetch.WithRetry("fetch calc indexes", f.retry, func() error {
		f.limiter.Acquire()
		var ferr error
		indexes, ferr = f.api.CalcIndexes(ctx, normalized)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	result := make(map[string]model.RealtimeQuote, len(indexes))
	for _, q := range indexes {
		result[q.Symbol] = model.RealtimeQuote{
			Symbol:            q.Symbol,
			LastDone:          f64(q.LastDone),
			Volume:            q.Volume,
			Turnover:          f64(q.Turnover),
			PctChg:            f64(q.ChangeRate),
			ChangeAmount:      f64(q.ChangeVal),
			Amplitude:         f64(q.Amplitude),
			TurnoverRate:      f64(q.TurnoverRate),
			VolumeRatio:       f64(q.VolumeRatio),
			TotalMarketValue:  f64(q.TotalMarketValue),
			CapitalFlow:       f64(q.CapitalFlow),
			PeTtm:             f64(q.PeTtmRatio),
			Pb:                f64(q.PbRatio),
			DividendYield:     f64(q.DividendRatioTtm),
			FiveDayChange:     f64(q.FiveDayChange),
			TenDayChange:      f64(q.TenDayChange),
			HalfYearChange:    f64(q.HalfYearChange),
			FiveMinutesChange: f64(q.FiveMinutesChange),
		}
	}
	return result, nil
}

// ListWatchlist resolves a watchlist group by name (preferred) or id
// (pass a negative id to skip) and returns its member symbols. With
// neither supplied the first group is used.
func (f *Fetcher) ListWatchlist(ctx context.Context, groupName string, groupID int64) ([]string, error) {
	if f.api == nil {
		return nil, &fetch.ConfigError{Missing: f.missing}
	}

	var groups []WatchGroup
	err := fetch.WithRetry("fetch watchlist groups", f.retry, func() error {
		f.limiter.Acquire()
		var ferr error
		groups, ferr = f.api.WatchedGroups(ctx)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, &fetch.FetchError{Op: "fetch watchlist groups", Err: fmt.Errorf("account has no watchlist groups")}
	}

	var target *WatchGroup
	switch {
	case groupName != "":
		for i := range groups {
			if groups[i].Name == groupName {
				target = &groups[i]
				break
			}
		}
		if target == nil {
			names := make([]string, 0, len(groups))
			for _, g := range groups {
				names = append(names, g.Name)
			}
			return nil, &fetch.FetchError{
				Op:  "resolve watchlist group",
				Err: fmt.Errorf("group %q not found, available: %s", groupName, strings.Join(names, ", ")),
			}
		}
	case groupID >= 0:
		for i := range groups {
			if groups[i].ID == groupID {
				target = &groups[i]
				break
			}
		}
		if target == nil {
			return nil, &fetch.FetchError{
				Op:  "resolve watchlist group",
				Err: fmt.Errorf("group id %d not found", groupID),
			}
		}
	default:
		target = &groups[0]
		log.Printf("[longbridge] no group specified, using %q (id %d)", target.Name, target.ID)
	}

	if len(target.Symbols) == 0 {
		return nil, &fetch.FetchError{
			Op:  "resolve watchlist group",
			Err: fmt.Errorf("group %q has no members", target.Name),
		}
	}
	log.Printf("[longbridge] watchlist group %q has %d symbols", target.Name, len(target.Symbols))
	return target.Symbols, nil
}

// normalizeQuote derives percent-change, change-amount and amplitude
// from a raw snapshot, guarding against a zero previous close.
func normalizeQuote(q RawQuote) model.RealtimeQuote {
	last := f64(q.LastDone)
	prev := f64(q.PrevClose)
	high := f64(q.High)
	low := f64(q.Low)

	var pct, amplitude float64
	if prev > 0 {
		pct = round2((last - prev) / prev * 100)
		amplitude = round2((high - low) / prev * 100)
	}

	return model.RealtimeQuote{
		Symbol:       q.Symbol,
		LastDone:     last,
		PrevClose:    prev,
		Open:         f64(q.Open),
		High:         high,
		Low:          low,
		Volume:       q.Volume,
		Turnover:     f64(q.Turnover),
		PctChg:       pct,
		ChangeAmount: round2(last - prev),
		Amplitude:    amplitude,
	}
}

func round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}

func f64(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
