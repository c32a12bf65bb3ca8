package models

import "time"

// FearGreed is the Alternative.me composite sentiment score.
type FearGreed struct {
	Value          int    `json:"value"`
	Classification string `json:"classification"`
}

// AltQuote is one row of the altcoin performance snapshot (top caps ex BTC/ETH).
type AltQuote struct {
	Rank       int      `json:"rank"`
	Symbol     string   `json:"symbol"`
	Name       string   `json:"name"`
	PriceUSD   float64  `json:"price_usd"`
	Change24h  *float64 `json:"change_24h,omitempty"`
	Change7d   *float64 `json:"change_7d,omitempty"`
	Change30d  *float64 `json:"change_30d,omitempty"`
	MarketCapB float64  `json:"market_cap_b"`
}

// MetricSnapshot is the timestamped record produced by one refresh cycle.
// Immutable once created; the next cycle replaces it.
type MetricSnapshot struct {
	Timestamp    time.Time  `json:"timestamp"`
	BTCDominance float64    `json:"btc_dominance"`
	EthBtcRatio  float64    `json:"eth_btc_ratio"`
	FearGreed    *FearGreed `json:"fear_greed,omitempty"`
	BTCPriceUSD  float64    `json:"btc_price_usd"`
	ETHPriceUSD  float64    `json:"eth_price_usd"`
	Alts         []AltQuote `json:"alts,omitempty"`
}

// SnapshotView is a snapshot plus serving metadata for the API layer.
type SnapshotView struct {
	Snapshot *MetricSnapshot `json:"snapshot"`
	Stale    bool            `json:"stale"`
	AgeSec   float64         `json:"age_sec"`
}
