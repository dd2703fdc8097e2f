package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null(), false},
		{"false bool", NewBool(false), false},
		{"true bool", NewBool(true), true},
		{"zero int", NewInt64(0), false},
		{"nonzero int", NewInt64(1), true},
		{"zero double", NewDouble(0), false},
		{"empty string", NewString(""), false},
		{"nonempty string", NewString("x"), true},
		{"empty vector is truthy", NewVector(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Truthy())
		})
	}
}

func TestNumericEqual_crossKindTower(t *testing.T) {
	assert.True(t, valuesEqual(NewInt64(2), NewDouble(2.0)))
	assert.True(t, valuesEqual(NewInt64(2), NewUInt64(2)))
	assert.False(t, valuesEqual(NewInt64(-1), NewUInt64(1)))
}

func TestWidestNumericKind(t *testing.T) {
	assert.Equal(t, KindDouble, widestNumericKind(KindInt64, KindDouble))
	assert.Equal(t, KindUInt64, widestNumericKind(KindInt64, KindUInt64))
	assert.Equal(t, KindInt64, widestNumericKind(KindInt64, KindInt64))
}

func TestNewSet_dedupesPreservingFirstSeenOrder(t *testing.T) {
	s := NewSet([]Value{NewInt64(1), NewInt64(2), NewInt64(1), NewInt64(3)})
	require := assert.New(t)
	require.Len(s.Elements(), 3)
	require.Equal(int64(1), s.Elements()[0].Int64())
	require.Equal(int64(2), s.Elements()[1].Int64())
	require.Equal(int64(3), s.Elements()[2].Int64())
}

func TestNewMap_duplicateKeyOverwritesValueKeepsOrder(t *testing.T) {
	m := NewMap([]DictPair{
		{Key: NewString("a"), Val: NewInt64(1)},
		{Key: NewString("b"), Val: NewInt64(2)},
		{Key: NewString("a"), Val: NewInt64(99)},
	})

	pairs := m.Pairs()
	assert.Len(t, pairs, 2)
	assert.Equal(t, "a", pairs[0].Key.Text())
	assert.Equal(t, int64(99), pairs[0].Val.Int64())
}
