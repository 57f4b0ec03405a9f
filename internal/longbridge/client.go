// Package longbridge fetches historical and realtime quotes from the
// Longport OpenAPI under the upstream rate quota.
package longbridge

import (
	"context"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/dyike/quotebridge/config"
)

// Candle is one daily OHLCV observation as returned upstream.
type Candle struct {
	Time     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   int64
	Turnover decimal.Decimal
}

// RawQuote is an upstream realtime snapshot before normalization.
type RawQuote struct {
	Symbol    string
	LastDone  decimal.Decimal
	PrevClose decimal.Decimal
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Volume    int64
	Turnover  decimal.Decimal
}

// RawIndex is an upstream calculated-indicator snapshot. Fields the
// upstream omits come back as zero decimals.
type RawIndex struct {
	Symbol            string
	LastDone          decimal.Decimal
	ChangeVal         decimal.Decimal
	ChangeRate        decimal.Decimal
	Volume            int64
	Turnover          decimal.Decimal
	TurnoverRate      decimal.Decimal
	VolumeRatio       decimal.Decimal
	Amplitude         decimal.Decimal
	TotalMarketValue  decimal.Decimal
	CapitalFlow       decimal.Decimal
	PeTtmRatio        decimal.Decimal
	PbRatio           decimal.Decimal
	DividendRatioTtm  decimal.Decimal
	FiveDayChange     decimal.Decimal
	TenDayChange      decimal.Decimal
	HalfYearChange    decimal.Decimal
	FiveMinutesChange decimal.Decimal
}

// WatchGroup is a watchlist group on the upstream account.
type WatchGroup struct {
	ID      int64
	Name    string
	Symbols []string
}

// quoteAPI is the slice of the Longport SDK the fetcher needs. Tests
// substitute a stub.
type quoteAPI interface {
	HistoryCandles(ctx context.Context, symbol string, start, end time.Time) ([]Candle, error)
	Quotes(ctx context.Context, symbols []string) ([]RawQuote, error)
	CalcIndexes(ctx context.Context, symbols []string) ([]RawIndex, error)
	WatchedGroups(ctx context.Context) ([]WatchGroup, error)
}

// Client wraps the Longport quote context.
type Client struct {
	quoteCtx *quote.QuoteContext
}

// NewClient builds the SDK quote context from the three credentials.
func NewClient(cfg *config.Config) (*Client, error) {
	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}
	quoteCtx, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}
	return &Client{quoteCtx: quoteCtx}, nil
}

// Close releases the quote context connection.
func (c *Client) Close() {
	if c.quoteCtx != nil {
		c.quoteCtx.Close()
	}
}

// HistoryCandles fetches daily candlesticks with no price adjustment.
func (c *Client) HistoryCandles(ctx context.Context, symbol string, start, end time.Time) ([]Candle, error) {
	sticks, err := c.quoteCtx.HistoryCandlesticksByDate(ctx, symbol, quote.PeriodDay, quote.AdjustTypeNo, &start, &end)
	if err != nil {
		return nil, err
	}
	candles := make([]Candle, 0, len(sticks))
	for _, stick := range sticks {
		candles = append(candles, Candle{
			Time:     time.Unix(stick.Timestamp, 0),
			Open:     dec(stick.Open),
			High:     dec(stick.High),
			Low:      dec(stick.Low),
			Close:    dec(stick.Close),
			Volume:   stick.Volume,
			Turnover: dec(stick.Turnover),
		})
	}
	return candles, nil
}

// Quotes fetches realtime snapshots for up to 500 symbols per call.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]RawQuote, error) {
	resp, err := c.quoteCtx.Quote(ctx, symbols)
	if err != nil {
		return nil, err
	}
	quotes := make([]RawQuote, 0, len(resp))
	for _, q := range resp {
		quotes = append(quotes, RawQuote{
			Symbol:    q.Symbol,
			LastDone:  dec(q.LastDone),
			PrevClose: dec(q.PrevClose),
			Open:      dec(q.Open),
			High:      dec(q.High),
			Low:       dec(q.Low),
			Volume:    q.Volume,
			Turnover:  dec(q.Turnover),
		})
	}
	return quotes, nil
}

// calcIndexes is the extended indicator set requested in one batched
// call.
var calcIndexes = []quote.CalcIndex{
	quote.CalcIndexLastDone,
	quote.CalcIndexChangeVal,
	quote.CalcIndexChangeRate,
	quote.CalcIndexVolume,
	quote.CalcIndexTurnover,
	quote.CalcIndexTurnoverRate,
	quote.CalcIndexVolumeRatio,
	quote.CalcIndexAmplitude,
	quote.CalcIndexTotalMarketValue,
	quote.CalcIndexCapitalFlow,
	quote.CalcIndexPeTTMRatio,
	quote.CalcIndexPbRatio,
	quote.CalcIndexDividendRatioTTM,
	quote.CalcIndexFiveDayChangeRate,
	quote.CalcIndexTenDayChangeRate,
	quote.CalcIndexHalfYearChangeRate,
	quote.CalcIndexFiveMinutesChangeRate,
}

// CalcIndexes fetches realtime quotes plus calculated indicators.
func (c *Client) CalcIndexes(ctx context.Context, symbols []string) ([]RawIndex, error) {
	resp, err := c.quoteCtx.CalcIndex(ctx, symbols, calcIndexes)
	if err != nil {
		return nil, err
	}
	indexes := make([]RawIndex, 0, len(resp))
	for _, q := range resp {
		indexes = append(indexes, RawIndex{
			Symbol:            q.Symbol,
			LastDone:          dec(q.LastDone),
			ChangeVal:         dec(q.ChangeVal),
			ChangeRate:        dec(q.ChangeRate),
			Volume:            q.Volume,
			Turnover:          dec(q.Turnover),
			TurnoverRate:      dec(q.TurnoverRate),
			VolumeRatio:       dec(q.VolumeRatio),
			Amplitude:         dec(q.Amplitude),
			TotalMarketValue:  dec(q.TotalMarketValue),
			CapitalFlow:       dec(q.CapitalFlow),
			PeTtmRatio:        dec(q.PeTtmRatio),
			PbRatio:           dec(q.PbRatio),
			DividendRatioTtm:  dec(q.DividendRatioTtm),
			FiveDayChange:     dec(q.FiveDayChangeRate),
			TenDayChange:      dec(q.TenDayChangeRate),
			HalfYearChange:    dec(q.HalfYearChangeRate),
			FiveMinutesChange: dec(q.FiveMinutesChangeRate),
		})
	}
	return indexes, nil
}

// WatchedGroups enumerates the watchlist groups on the account.
func (c *Client) WatchedGroups(ctx context.Context) ([]WatchGroup, error) {
	resp, err := c.quoteCtx.WatchedGroups(ctx)
	if err != nil {
		return nil, err
	}
	groups := make([]WatchGroup, 0, len(resp))
	for _, g := range resp {
		group := WatchGroup{ID: g.Id, Name: g.Name}
		// The SDK field is spelled "Securites" upstream.
		for _, sec := range g.Securites {
			group.Symbols = append(group.Symbols, sec.Symbol)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func dec(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}
