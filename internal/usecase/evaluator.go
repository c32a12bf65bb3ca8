package usecase

import (
	"CycleWatch/internal/domain/models"
)

// Evaluate classifies a snapshot against static thresholds. Pure and
// deterministic: identical inputs always produce identical output, and no
// state survives between calls.
//
// The dominance band is the primary signal and takes precedence over the
// ETH/BTC breakout flag:
//
//	dominance < low            -> ACCUMULATE
//	low <= dominance <= high   -> HOLD
//	dominance > high           -> ROTATE, or EXIT when greed confirms
func Evaluate(snap *models.MetricSnapshot, th models.Thresholds) models.Evaluation {
	breakout := snap.EthBtcRatio >= th.EthBtcBreakout
	greedHigh := snap.FearGreed != nil && snap.FearGreed.Value >= th.GreedHigh
	domBelowHigh := snap.BTCDominance < th.DominanceHigh
	domBelowLow := snap.BTCDominance < th.DominanceLow

	var state models.SignalState
	switch {
	case snap.BTCDominance > th.DominanceHigh:
		state = models.StateRotate
		if greedHigh {
			state = models.StateExit
		}
	case domBelowLow:
		state = models.StateAccumulate
	default:
		state = models.StateHold
	}

	return models.Evaluation{
		Timestamp:     snap.Timestamp,
		State:         state,
		Breakout:      breakout,
		DomBelowHigh:  domBelowHigh,
		DomBelowLow:   domBelowLow,
		GreedHigh:     greedHigh,
		RotateToAlts:  domBelowHigh && breakout,
		ProfitMode:    domBelowLow || greedHigh,
		FullExitWatch: domBelowLow && greedHigh,
		Thresholds:    th,
	}
}
