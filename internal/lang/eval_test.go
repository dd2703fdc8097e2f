package lang

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRun(t *testing.T, src string) string {
	t.Helper()
	entry, err := Parse(src)
	require.NoError(t, err)

	var out bytes.Buffer
	in := NewInterpreter(&out)
	_, err = in.Execute(entry)
	require.NoError(t, err)
	return out.String()
}

func TestSubscript_vectorByPosition(t *testing.T) {
	out := mustRun(t, `package main; v = [10, 20, 30]; print(v[1]);`)
	assert.Equal(t, "20\n", out)
}

func TestSubscript_vectorOutOfRangeIsRuntimeError(t *testing.T) {
	entry, err := Parse(`package main; v = [1]; print(v[5]);`)
	require.NoError(t, err)

	var out bytes.Buffer
	in := NewInterpreter(&out)
	_, err = in.Execute(entry)
	require.Error(t, err)

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
}

func TestSubscript_mapByKey(t *testing.T) {
	out := mustRun(t, `package main; m = {"a": 1, "b": 2}; print(m["b"]);`)
	assert.Equal(t, "2\n", out)
}

func TestSet_literalDedupesByValueEquality(t *testing.T) {
	out := mustRun(t, `package main; print({1, 2, 1, 3});`)
	assert.Equal(t, "<<?1, 2, 3?>>\n", out)
}

func TestRangeFor_vectorIteratesByElement(t *testing.T) {
	out := mustRun(t, `
package main;
for (x in [1, 2, 3]) {
	print(x);
}
`)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestRangeFor_mapIteratesByKeyAndValue(t *testing.T) {
	out := mustRun(t, `
package main;
for (k, v in {"a": 1, "b": 2}) {
	print(k, v);
}
`)
	assert.Equal(t, "a 1\nb 2\n", out)
}

func TestBreakAndContinue(t *testing.T) {
	out := mustRun(t, `
package main;
for (x in [1, 2, 3, 4, 5]) {
	if (x == 3) {
		break;
	}
	if (x == 2) {
		continue;
	}
	print(x);
}
`)
	assert.Equal(t, "1\n", out)
}

func TestAugAssign_appliesBinOpAndReassigns(t *testing.T) {
	out := mustRun(t, `
package main;
x = 10;
x += 5;
print(x);
x -= 3;
print(x);
`)
	assert.Equal(t, "15\n12\n", out)
}

func TestNot_uniformAcrossKinds(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`package main; print(not true);`, "false\n"},
		{`package main; print(not null);`, "true\n"},
		{`package main; print(not "");`, "true\n"},
		{`package main; print(not "x");`, "false\n"},
		{`package main; print(not 0);`, "true\n"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mustRun(t, tt.src))
	}
}
