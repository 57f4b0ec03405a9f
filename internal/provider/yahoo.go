package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/dyike/quotebridge/internal/fetch"
	"github.com/dyike/quotebridge/internal/model"
	"github.com/dyike/quotebridge/internal/symbols"
)

// Yahoo is the default-tier fallback source. It needs no credentials,
// so it is always available but never preferred over an initialized
// Longbridge fetcher.
type Yahoo struct {
	retry *fetch.RetryConfig
}

func NewYahoo() *Yahoo {
	return &Yahoo{retry: fetch.DefaultRetryConfig()}
}

func (y *Yahoo) Name() string    { return "yahoo" }
func (y *Yahoo) Priority() int   { return PriorityFallback }
func (y *Yahoo) Available() bool { return true }

// FetchHistorical fetches daily bars and maps them into the standard
// column set with the same shift-and-divide percent-change rule as the
// primary source. Yahoo reports no per-day turnover, so Amount stays
// zero.
func (y *Yahoo) FetchHistorical(ctx context.Context, symbol, startDate, endDate string) ([]model.QuoteRecord, error) {
	start, err := symbols.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := symbols.ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	var records []model.QuoteRecord
	err = fetch.WithRetry(fmt.Sprintf("yahoo history %s", symbol), y.retry, func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}
		iter := chart.Get(params)

		records = records[:0]
		for iter.Next() {
			bar := iter.Bar()
			open, _ := bar.Open.Float64()
			high, _ := bar.High.Float64()
			low, _ := bar.Low.Float64()
			closePrice, _ := bar.Close.Float64()
			records = append(records, model.QuoteRecord{
				Date:   time.Unix(int64(bar.Timestamp), 0).Format("2006-01-02"),
				Open:   open,
				High:   high,
				Low:    low,
				Close:  closePrice,
				Volume: int64(bar.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("get historical data for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(records); i++ {
		records[i].PctChg = model.PctChange(records[i].Close, records[i-1].Close)
	}
	return records, nil
}
