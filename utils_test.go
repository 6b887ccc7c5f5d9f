package hdfschema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEqualExactIntegers(t *testing.T) {
	// Adjacent int64 values that collapse to the same float64.
	assert.False(t, valueEqual(int64(9007199254740993), int64(9007199254740992)))
	assert.True(t, valueEqual(int64(9007199254740993), int64(9007199254740993)))

	// Signedness and width of the Go type do not matter, only the
	// integer value.
	assert.True(t, valueEqual(uint64(5), int64(5)))
	assert.True(t, valueEqual(int32(-7), int64(-7)))
	assert.False(t, valueEqual(int64(-1), uint64(math.MaxUint64)))
	assert.True(t, valueEqual(int64(math.MinInt64), int64(math.MinInt64)))
	assert.True(t, valueEqual(uint64(math.MaxUint64), uint64(math.MaxUint64)))

	// Mixed integer/float pairs still compare by value.
	assert.True(t, valueEqual(int64(1), 1.0))
	assert.True(t, valueEqual(2.0, int64(2)))
	assert.False(t, valueEqual(int64(1), 1.5))

	// NaN equals nothing.
	assert.False(t, valueEqual(nanValue(), nanValue()))
	assert.False(t, valueEqual(nanValue(), int64(0)))

	// Non-numeric values are unaffected.
	assert.True(t, valueEqual("mV", "mV"))
	assert.False(t, valueEqual("mV", "V"))
	assert.True(t, valueEqual(true, true))
	assert.False(t, valueEqual(true, int64(1)))
}

func TestDecodeConstantValue(t *testing.T) {
	tests := []struct {
		name string
		data string
		want any
	}{
		{"integer beyond 2^53", "9007199254740993", int64(9007199254740993)},
		{"uint64 beyond int64", "18446744073709551615", uint64(math.MaxUint64)},
		{"negative integer", "-42", int64(-42)},
		{"fraction", "1.5", 1.5},
		{"exponent form", "1e3", 1000.0},
		{"string", `"label"`, "label"},
		{"array keeps integers", "[1, 9007199254740993, 2.5]",
			[]any{int64(1), int64(9007199254740993), 2.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeConstantValue([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
