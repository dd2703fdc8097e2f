package glint_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dekarrin/glint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, glint.Value) {
	t.Helper()
	entry, err := glint.ParseToAST(src)
	require.NoError(t, err)

	var out bytes.Buffer
	v, err := glint.Execute(&out, entry)
	require.NoError(t, err)
	return out.String(), v
}

func TestExecute_arithmeticAndPrint(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		output string
	}{
		{
			name:   "int addition",
			src:    "package main; print(1 + 2);",
			output: "3\n",
		},
		{
			name:   "string concat",
			src:    `package main; print("foo" + "bar");`,
			output: "foobar\n",
		},
		{
			name:   "pow always doubles",
			src:    "package main; print(2 ** 3);",
			output: "8\n",
		},
		{
			name:   "mixed int/double widens to double",
			src:    "package main; print(1 + 2.5);",
			output: "3.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := run(t, tt.src)
			assert.Equal(t, tt.output, out)
		})
	}
}

func TestExecute_divisionByZeroIsRuntimeError(t *testing.T) {
	entry, err := glint.ParseToAST("package main; print(1 / 0);")
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = glint.Execute(&out, entry)
	require.Error(t, err)

	var re *glint.RuntimeError
	require.ErrorAs(t, err, &re)
}

func TestExecute_functionCall(t *testing.T) {
	out, _ := run(t, `
package main;
def add(a, b) {
	return a + b;
}
print(add(2, 3));
`)
	assert.Equal(t, "5\n", out)
}

func TestExecute_ifElse(t *testing.T) {
	out, _ := run(t, `
package main;
x = 10;
if (x > 5) {
	print("big");
} else {
	print("small");
}
`)
	assert.Equal(t, "big\n", out)
}

func TestExecute_whileLoop(t *testing.T) {
	out, _ := run(t, `
package main;
i = 0;
while (i < 3) {
	print(i);
	i = i + 1;
}
`)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestExecute_lazyBindingReevaluatesOnEachLookup(t *testing.T) {
	out, _ := run(t, `
package main;
x = 1;
y := x + 1;
print(y);
x = 10;
print(y);
`)
	assert.Equal(t, "2\n11\n", out)
}

func TestParseToAST_syntaxErrorHasSourceContext(t *testing.T) {
	_, err := glint.ParseToAST("package main; x = ;")

	var pe *glint.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.FullMessage(), "^")
	assert.True(t, strings.HasPrefix(pe.FullMessage(), "package main; x = ;"))
}

func TestStringify_mapRendersInInsertionOrder(t *testing.T) {
	out, _ := run(t, `package main; print({"a": 1, "b": 2});`)
	assert.Equal(t, "{a: 1, b: 2}\n", out)
}
