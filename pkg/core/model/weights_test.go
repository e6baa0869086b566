package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeight_ContractTable(t *testing.T) {
	// The weight table is part of the external contract
	assert.Equal(t, 5.0, Weight(1))
	assert.Equal(t, 4.0, Weight(2))
	assert.Equal(t, 3.0, Weight(3))
	assert.Equal(t, 2.0, Weight(4))
	assert.Equal(t, 1.0, Weight(5))
}

func TestWeight_OutsideTableIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Weight(0))
	assert.Equal(t, 0.0, Weight(-1))
	assert.Equal(t, 0.0, Weight(6))
	assert.Equal(t, 0.0, Weight(100))
}

func TestHardFillReward_SteppedTable(t *testing.T) {
	assert.Equal(t, 500.0, HardFillReward(1))
	assert.Equal(t, 300.0, HardFillReward(2))
	assert.Equal(t, 200.0, HardFillReward(3))
	assert.Equal(t, 100.0, HardFillReward(4))
	assert.Equal(t, 50.0, HardFillReward(5))

	// Unranked still carries a token reward so hard-fill prefers filling
	// over leaving seats empty
	assert.Equal(t, 1.0, HardFillReward(0))
	assert.Equal(t, 1.0, HardFillReward(7))
}

func TestScalePoints_HalfPointsStayInteger(t *testing.T) {
	assert.Equal(t, 0, ScalePoints(0))
	assert.Equal(t, 5, ScalePoints(0.5))
	assert.Equal(t, 15, ScalePoints(1.5))
	assert.Equal(t, 25, ScalePoints(2.5))
	assert.Equal(t, 60, ScalePoints(6))
}

func TestEffectiveBounds(t *testing.T) {
	settings := Settings{MinPoints: 4, MaxOver: 1.5}

	fresh := Volunteer{Name: "fresh"}
	assert.Equal(t, 4.0, settings.EffectiveMin(fresh))
	assert.Equal(t, 5.5, settings.EffectiveMax(fresh))

	credited := Volunteer{Name: "credited", PreAssignedPoints: 1.5}
	assert.Equal(t, 2.5, settings.EffectiveMin(credited))
	assert.Equal(t, 4.0, settings.EffectiveMax(credited))

	// Credit beyond the floor clamps to zero rather than going negative
	over := Volunteer{Name: "over", PreAssignedPoints: 10}
	assert.Equal(t, 0.0, settings.EffectiveMin(over))
	assert.Equal(t, 1.5, settings.EffectiveMax(over))
}

func TestRelaxationLadder_ContractLevels(t *testing.T) {
	ladder := RelaxationLadder()

	assert.Len(t, ladder, 3)
	assert.Equal(t, RelaxationFull, ladder[0].Level)
	assert.Equal(t, RelaxationPoints, ladder[1].Level)
	assert.Equal(t, RelaxationMinimal, ladder[2].Level)

	assert.Equal(t, 0.5, ladder[1].MinPointsMultiplier)
	assert.Equal(t, 1.5, ladder[1].MaxShiftsMultiplier)
	assert.Equal(t, 1.5, ladder[1].MaxPointsMultiplier)

	assert.Equal(t, 0.0, ladder[2].MinPointsMultiplier)
	assert.Equal(t, 2.0, ladder[2].MaxShiftsMultiplier)
	assert.Equal(t, 2.0, ladder[2].MaxPointsMultiplier)
}
