package rational

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReducesAndNormalizes(t *testing.T) {
	r, err := New(10, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), r.Num)
	assert.Equal(t, int64(10), r.Denom)

	r, err = New(3, -4)
	assert.NoError(t, err)
	assert.Equal(t, int64(-3), r.Num)
	assert.Equal(t, int64(4), r.Denom)

	_, err = New(1, 0)
	assert.ErrorIs(t, err, ErrZeroDenominator)
}

func TestAddIsExact(t *testing.T) {
	tests := []struct {
		name      string
		terms     [][2]int64
		wantNum   int64
		wantDenom int64
	}{
		{"state plus local", [][2]int64{{10, 100}, {5, 100}}, 3, 20},
		{"non terminating binary", [][2]int64{{1, 8}, {1, 4}}, 3, 8},
		{"thirds", [][2]int64{{1, 3}, {1, 3}, {1, 3}}, 1, 1},
		{"empty sum", nil, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Zero()
			for _, term := range tt.terms {
				r, err := New(term[0], term[1])
				assert.NoError(t, err)
				sum = sum.Add(r)
			}
			assert.Equal(t, tt.wantNum, sum.Num)
			assert.Equal(t, tt.wantDenom, sum.Denom)
		})
	}
}

func TestDecimalRoundsHalfUp(t *testing.T) {
	r, _ := New(3, 8)
	assert.Equal(t, "0.375", r.Decimal(3).StringFixed(3))
	assert.Equal(t, "0.38", r.Decimal(2).StringFixed(2))

	r, _ = New(15, 100)
	assert.Equal(t, "0.15", r.Decimal(2).StringFixed(2))

	// 1/800 = 0.00125; half-up at 4 places gives 0.0013.
	r, _ = New(1, 800)
	assert.Equal(t, "0.0013", r.Decimal(4).StringFixed(4))
}

func TestPercent(t *testing.T) {
	r, _ := New(3, 8)
	assert.Equal(t, "37.50", r.Percent(2).StringFixed(2))

	r, _ = New(15, 100)
	assert.Equal(t, "15.00", r.Percent(2).StringFixed(2))
}

func TestString(t *testing.T) {
	r, _ := New(3, 8)
	assert.Equal(t, "3/8", r.String())
	assert.Equal(t, "0/1", Rat{}.String())
}
