package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestRecommendLadderTargets(t *testing.T) {
	// Margin high enough that capacity never binds.
	margin := d(1000)

	tests := []struct {
		age      int
		expected int64
	}{
		{0, 0},
		{44, 0},
		{45, 50},
		{74, 50},
		{75, 80},
		{89, 80},
		{90, 120},
		{120, 150},
		{149, 150},
		{150, 200},
		{400, 200},
	}

	for _, tt := range tests {
		got := Recommend(tt.age, margin, false)
		assert.True(t, got.Equal(d(tt.expected)), "age %d: got %s, want %d", tt.age, got, tt.expected)
	}
}

func TestRecommendMonotonicInAge(t *testing.T) {
	margin := d(250)
	prev := decimal.Zero
	for age := 0; age <= 500; age += 5 {
		got := Recommend(age, margin, false)
		assert.True(t, got.GreaterThanOrEqual(prev), "age %d: %s < %s", age, got, prev)
		prev = got
	}
}

func TestRecommendCapProperty(t *testing.T) {
	for _, age := range []int{50, 80, 100, 130, 200, 366, 500} {
		for _, margin := range []int64{-50, 0, 30, 47, 60, 125, 300} {
			got := Recommend(age, d(margin), false)
			buffer := Buffer(age)
			capacity := decimal.Max(decimal.Zero, d(margin).Sub(buffer))
			assert.True(t, got.LessThanOrEqual(capacity),
				"age %d margin %d: %s exceeds capacity %s", age, margin, got, capacity)
			assert.False(t, got.IsNegative())
		}
	}
}

func TestRecommendAlwaysMultipleOfTen(t *testing.T) {
	ten := d(10)
	for _, age := range []int{0, 45, 75, 90, 120, 150, 366} {
		for _, margin := range []int64{0, 5, 47, 63, 88, 111, 254, 1000} {
			got := Recommend(age, d(margin), false)
			assert.True(t, got.Mod(ten).IsZero(), "age %d margin %d: %s", age, margin, got)
		}
	}
}

func TestRecommendRestrictedAlwaysZero(t *testing.T) {
	for _, age := range []int{0, 100, 400} {
		assert.True(t, Recommend(age, d(500), true).IsZero())
	}
}

func TestRecommendScenarioYoungStock(t *testing.T) {
	// Age 50, margin 300: target 50, buffer 50, capacity 250 -> 50.
	got := Recommend(50, d(300), false)
	assert.True(t, got.Equal(d(50)), "got %s", got)
}

func TestRecommendScenarioClearance(t *testing.T) {
	// Age 400, margin 40: target 200, buffer waived, capacity 40 -> 40.
	got := Recommend(400, d(40), false)
	assert.True(t, got.Equal(d(40)), "got %s", got)
}

func TestRecommendBufferBindsBeforeClearance(t *testing.T) {
	// Age 100, margin 40: capacity would be negative; no markdown.
	got := Recommend(100, d(40), false)
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestBuffer(t *testing.T) {
	assert.True(t, Buffer(100).Equal(d(50)))
	assert.True(t, Buffer(365).Equal(d(50)))
	assert.True(t, Buffer(366).IsZero())
}
