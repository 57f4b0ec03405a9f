// Package model holds the normalized data shapes shared by every data
// source: daily quote records, realtime snapshots and scraped sector rows.
package model

// StandardColumns is the ordered column set every normalized historical
// series must conform to. Downstream consumers index by these names, so
// the order and spelling are fixed.
var StandardColumns = []string{"date", "open", "high", "low", "close", "volume", "amount", "pct_chg"}

// QuoteRecord is one trading-day observation. PctChg is nil for the
// earliest record of a series; records are never mutated once emitted.
type QuoteRecord struct {
	Date   string   `json:"date"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume int64    `json:"volume"`
	Amount float64  `json:"amount"`
	PctChg *float64 `json:"pct_chg"`
}

// RealtimeQuote is a snapshot keyed by normalized symbol. PctChg and
// Amplitude are zero when the previous close is zero or absent. The
// indicator fields past Amplitude are only populated by the
// calc-indexes pathway and default to zero elsewhere.
type RealtimeQuote struct {
	Symbol       string  `json:"symbol"`
	LastDone     float64 `json:"last_done"`
	PrevClose    float64 `json:"prev_close"`
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Volume       int64   `json:"volume"`
	Turnover     float64 `json:"turnover"`
	PctChg       float64 `json:"pct_chg"`
	ChangeAmount float64 `json:"change_amount"`
	Amplitude    float64 `json:"amplitude"`

	TurnoverRate      float64 `json:"turnover_rate"`
	VolumeRatio       float64 `json:"volume_ratio"`
	TotalMarketValue  float64 `json:"total_market_value"`
	CapitalFlow       float64 `json:"capital_flow"`
	PeTtm             float64 `json:"pe_ttm"`
	Pb                float64 `json:"pb"`
	DividendYield     float64 `json:"dividend_yield"`
	FiveDayChange     float64 `json:"five_day_chg"`
	TenDayChange      float64 `json:"ten_day_chg"`
	HalfYearChange    float64 `json:"half_year_chg"`
	FiveMinutesChange float64 `json:"five_min_chg"`
}

// SectorRow is one industry-sector snapshot scraped from the board
// listing. AdvanceDecline is the "advancers/decliners" pair as shown on
// the page, e.g. "45/12". Name is the uniqueness key within one scrape.
type SectorRow struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	PctChg         float64 `json:"pct_chg"`
	ChangeAmount   float64 `json:"change_amount"`
	Turnover       float64 `json:"turnover"`
	AdvanceDecline string  `json:"advance_decline"`
	Leader         string  `json:"leader"`
	LeaderPctChg   float64 `json:"leader_pct_chg"`
}
