package models

import "time"

// SignalState is the discrete classification derived from one snapshot.
type SignalState string

const (
	StateAccumulate SignalState = "ACCUMULATE" // dominance below the low band
	StateHold       SignalState = "HOLD"       // dominance between the bands
	StateRotate     SignalState = "ROTATE"     // dominance above the high band
	StateExit       SignalState = "EXIT"       // above the high band with greed confirmation
)

// Thresholds are the static band boundaries the evaluator compares against.
// Loaded once at startup, read-only thereafter.
type Thresholds struct {
	DominanceHigh  float64 `json:"dominance_high"`
	DominanceLow   float64 `json:"dominance_low"`
	EthBtcBreakout float64 `json:"ethbtc_breakout"`
	GreedHigh      int     `json:"greed_high"`
}

// Evaluation is the evaluator output for one snapshot. Recomputed every
// refresh; no transition history is kept.
type Evaluation struct {
	Timestamp time.Time   `json:"timestamp"`
	State     SignalState `json:"state"`
	Breakout  bool        `json:"breakout"`

	// Confluence flags mirroring the dashboard's signal panel.
	DomBelowHigh  bool `json:"dom_below_high"`
	DomBelowLow   bool `json:"dom_below_low"`
	GreedHigh     bool `json:"greed_high"`
	RotateToAlts  bool `json:"rotate_to_alts"`
	ProfitMode    bool `json:"profit_mode"`
	FullExitWatch bool `json:"full_exit_watch"`

	Thresholds Thresholds `json:"thresholds"`
}
