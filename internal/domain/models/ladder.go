package models

// LadderStep is one rung of the profit-taking ladder.
type LadderStep struct {
	Step        int     `json:"step"`
	TargetPrice float64 `json:"target_price"`
	GainPct     float64 `json:"gain_pct"`
	SellPct     float64 `json:"sell_pct"`
}

// LadderPlan is the full profit-taking ladder for one entry price.
type LadderPlan struct {
	Entry   float64      `json:"entry"`
	StepPct float64      `json:"step_pct"`
	SellPct float64      `json:"sell_pct"`
	Steps   []LadderStep `json:"steps"`
}

// TrailingStop is the suggested stop price trailing the current price.
type TrailingStop struct {
	Price    float64 `json:"price"`
	TrailPct float64 `json:"trail_pct"`
	Stop     float64 `json:"stop"`
}

// ChartWidget is an embeddable chart URL for the presentation layer.
type ChartWidget struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	URL    string `json:"url"`
}
