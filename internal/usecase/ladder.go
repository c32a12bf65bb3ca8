package usecase

import (
	"math"

	"CycleWatch/internal/domain/models"
)

// BuildLadder produces the profit-taking plan for one entry price: rung i
// targets entry*(1+stepPct/100)^i and sells a fixed sellPct of the position.
// A non-positive entry yields an empty plan.
func BuildLadder(entry, stepPct, sellPct float64, maxSteps int) models.LadderPlan {
	plan := models.LadderPlan{Entry: entry, StepPct: stepPct, SellPct: sellPct}
	if entry <= 0 {
		return plan
	}

	plan.Steps = make([]models.LadderStep, 0, maxSteps)
	for i := 1; i <= maxSteps; i++ {
		target := entry * math.Pow(1+stepPct/100, float64(i))
		plan.Steps = append(plan.Steps, models.LadderStep{
			Step:        i,
			TargetPrice: round2(target),
			GainPct:     round2((target/entry - 1) * 100),
			SellPct:     sellPct,
		})
	}
	return plan
}

// BuildTrailingStop suggests a stop price trailing trailPct below the
// current price. A non-positive price yields a zero stop.
func BuildTrailingStop(price, trailPct float64) models.TrailingStop {
	ts := models.TrailingStop{Price: price, TrailPct: trailPct}
	if price > 0 {
		ts.Stop = round2(price * (1 - trailPct/100))
	}
	return ts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
