package gauge

import (
	"testing"

	"github.com/rileyhilliard/powerdash/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBank_Ranges(t *testing.T) {
	b := NewBank(DefaultRanges(), 0)

	tests := []struct {
		q       Quantity
		wantMax float64
	}{
		{Voltage, 500},
		{Current, 100},
		{Power, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.q.String(), func(t *testing.T) {
			for phase := 1; phase <= Phases; phase++ {
				g, err := b.Gauge(tt.q, phase)
				require.NoError(t, err)
				assert.Equal(t, 0.0, g.Min())
				assert.Equal(t, tt.wantMax, g.Max())
				assert.Equal(t, DefaultTicks, g.Ticks())
			}
		})
	}
}

func TestBank_GaugeBounds(t *testing.T) {
	b := NewBank(DefaultRanges(), 0)

	_, err := b.Gauge(Voltage, 0)
	assert.Error(t, err)
	_, err = b.Gauge(Power, 4)
	assert.Error(t, err)
	_, err = b.Gauge(Quantity(7), 1)
	assert.Error(t, err)
}

func TestBank_ApplyAndTick(t *testing.T) {
	b := NewBank(DefaultRanges(), 4)
	b.Apply(telemetry.Reading{
		V1: 230, V2: 231, V3: 600,
		C1: 10, C2: 20, C3: 30,
		P1: 1000, P2: 2000, P3: 3000,
	})
	assert.False(t, b.Settled())

	moves := 0
	for b.Tick() {
		moves++
		require.LessOrEqual(t, moves, 4)
	}
	assert.Equal(t, 4, moves)
	assert.True(t, b.Settled())

	v3, err := b.Gauge(Voltage, 3)
	require.NoError(t, err)
	assert.Equal(t, 500.0, v3.Current(), "clamped to full scale")
	assert.Equal(t, High, v3.Bucket())

	c2, err := b.Gauge(Current, 2)
	require.NoError(t, err)
	assert.Equal(t, 20.0, c2.Current())
	assert.Equal(t, Low, c2.Bucket())

	row := b.Row(Power)
	assert.Equal(t, 3000.0, row[2].Current())
	assert.Equal(t, Medium, row[2].Bucket())
}

func TestBank_TickWhenSettled(t *testing.T) {
	b := NewBank(DefaultRanges(), 0)
	assert.False(t, b.Tick())
	assert.True(t, b.Settled())
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "Voltage", Voltage.String())
	assert.Equal(t, "A", Current.Unit())
	assert.Equal(t, "W", Power.Unit())
}
