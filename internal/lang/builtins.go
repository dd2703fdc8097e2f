package lang

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BuiltinFunction is a native function registerable by name, in the
// teacher's Function{Name, RequiredArgs, OptionalArgs, Call} shape
// (internal/tunascript/tunascript.go). print is handled inline in
// evalCall (it needs the interpreter's output writer, which a
// registry-style []Value -> Value signature has no room for), but this
// table is where any additional host-registered builtins would live.
type BuiltinFunction struct {
	Name         string
	RequiredArgs int
	OptionalArgs int
	Call         func(args []Value) (Value, error)
}

// Print implements the stringification rules of spec.md §6 and writes the
// rendered values, space-separated, followed by a newline — the single
// "emits a line" builtin side effect the language has.
func Print(w io.Writer, vs ...Value) error {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Stringify(v)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

// Stringify renders a single Value per spec.md §6's print rules.
func Stringify(v Value) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case KindUInt64:
		return strconv.FormatUint(v.UInt64(), 10)
	case KindDouble:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case KindName:
		return v.Text()
	case KindString:
		return v.Text()
	case KindDate:
		return formatDate(v.Date())
	case KindDateRange:
		return formatDate(v.DateBegin()) + "-" + formatDate(v.DateEnd())
	case KindTuple:
		return "(" + joinStringify(v.Elements()) + ")"
	case KindVector:
		return "[" + joinStringify(v.Elements()) + "]"
	case KindSet:
		return "<<?" + joinStringify(v.Elements()) + "?>>"
	case KindMap:
		return stringifyMap(v.Pairs())
	case KindCode:
		return "<code>"
	case KindLambda:
		return "<lambda>"
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.Closure().Name)
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}

func formatDate(d DateNode) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func joinStringify(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Stringify(v)
	}
	return strings.Join(parts, ", ")
}

// stringifyMap renders {k: v, k2: v2} in insertion order — the Open
// Question resolution in SPEC_FULL.md §9 (the reference's empty rendering
// is treated as a bug).
func stringifyMap(pairs []DictPair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = Stringify(p.Key) + ": " + Stringify(p.Val)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
