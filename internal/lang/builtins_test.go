package lang

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"true", NewBool(true), "true"},
		{"int", NewInt64(42), "42"},
		{"uint", NewUInt64(42), "42"},
		{"double", NewDouble(1.5), "1.5"},
		{"string", NewString("hi"), "hi"},
		{"tuple", NewTuple([]Value{NewInt64(1), NewInt64(2)}), "(1, 2)"},
		{"vector", NewVector([]Value{NewInt64(1), NewInt64(2)}), "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.v))
		})
	}
}

func TestPrint_spaceJoinsAndNewlineTerminates(t *testing.T) {
	var out bytes.Buffer
	err := Print(&out, NewInt64(1), NewString("x"), NewBool(true))
	require.NoError(t, err)
	assert.Equal(t, "1 x true\n", out.String())
}
