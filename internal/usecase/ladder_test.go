package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLadderCompoundsTargets(t *testing.T) {
	plan := BuildLadder(40000, 10, 10, 8)
	require.Len(t, plan.Steps, 8)

	assert.Equal(t, 44000.0, plan.Steps[0].TargetPrice)
	assert.Equal(t, 48400.0, plan.Steps[1].TargetPrice)
	assert.Equal(t, 53240.0, plan.Steps[2].TargetPrice)

	assert.Equal(t, 10.0, plan.Steps[0].GainPct)
	assert.Equal(t, 21.0, plan.Steps[1].GainPct)
	assert.Equal(t, 33.1, plan.Steps[2].GainPct)

	for i, step := range plan.Steps {
		assert.Equal(t, i+1, step.Step)
		assert.Equal(t, 10.0, step.SellPct)
	}
}

func TestBuildLadderEmptyForBadEntry(t *testing.T) {
	assert.Empty(t, BuildLadder(0, 10, 10, 8).Steps)
	assert.Empty(t, BuildLadder(-100, 10, 10, 8).Steps)
}

func TestBuildTrailingStop(t *testing.T) {
	ts := BuildTrailingStop(65000, 20)
	assert.Equal(t, 52000.0, ts.Stop)

	ts = BuildTrailingStop(2000, 20)
	assert.Equal(t, 1600.0, ts.Stop)

	ts = BuildTrailingStop(0, 20)
	assert.Equal(t, 0.0, ts.Stop)
}
