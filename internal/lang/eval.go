package lang

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dekarrin/glint/internal/util"
)

// Interpreter tree-walks a transformed AST. Grounded on the teacher's
// per-node-kind eval dispatch (internal/tunascript/operators.go) and its
// call-frame push/pop idiom around function invocation
// (internal/tunascript/invoke.go).
type Interpreter struct {
	env *Env
	out io.Writer
}

func NewInterpreter(out io.Writer) *Interpreter {
	return &Interpreter{env: NewEnv(), out: out}
}

// Execute evaluates a transformed Entry, per spec.md §4.3: stray
// break/continue/return signals that escape the root statement list are
// absorbed; the result is the escaped return value, or the value of the
// last statement, or Null.
func (in *Interpreter) Execute(entry *Entry) (Value, error) {
	last := Null()
	for _, stmt := range entry.Body.Statements {
		v, err := in.eval(stmt)
		if err == nil {
			last = v
			continue
		}
		if rs, ok := asReturnSignal(err); ok {
			return rs.Value, nil
		}
		if isBreakSignal(err) || isContinueSignal(err) {
			continue
		}
		return Null(), err
	}
	return last, nil
}

func (in *Interpreter) eval(n Node) (Value, error) {
	switch t := n.(type) {
	case *Entry:
		return in.Execute(t)

	case *NullNode:
		return Null(), nil
	case *EllipsisNode:
		// no dedicated Value kind for Ellipsis per spec.md §3's runtime
		// Value enumeration; it evaluates to Null like the other
		// zero-attribute literals.
		return Null(), nil
	case *PassNode:
		return Null(), nil
	case *BreakNode:
		return Value{}, breakSignal{}
	case *ContinueNode:
		return Value{}, continueSignal{}

	case *BoolNode:
		return NewBool(t.Value), nil
	case *Int64Node:
		return NewInt64(t.Value), nil
	case *UInt64Node:
		return NewUInt64(t.Value), nil
	case *DoubleNode:
		return NewDouble(t.Value), nil
	case *StringNode:
		return NewString(t.Value), nil
	case *QuotedStringNode:
		return NewString(t.Value), nil
	case *DateNode:
		return NewDate(*t), nil
	case *DateRangeNode:
		return NewDateRange(t.Begin, t.End), nil

	case *NameNode:
		return in.evalName(t.Name)

	case *TupleNode:
		vals, err := in.evalAll(t.Elements)
		if err != nil {
			return Null(), err
		}
		return NewTuple(vals), nil
	case *ListNode:
		vals, err := in.evalAll(t.Elements)
		if err != nil {
			return Null(), err
		}
		return NewVector(vals), nil
	case *SetNode:
		vals, err := in.evalAll(t.Elements)
		if err != nil {
			return Null(), err
		}
		return NewSet(vals), nil
	case *DictNode:
		pairs := make([]DictPair, len(t.Entries))
		for i, e := range t.Entries {
			k, err := in.eval(e.Key)
			if err != nil {
				return Null(), err
			}
			v, err := in.eval(e.Value)
			if err != nil {
				return Null(), err
			}
			pairs[i] = DictPair{Key: k, Val: v}
		}
		return NewMap(pairs), nil

	case *UnaryOpNode:
		return in.evalUnaryOp(t)
	case *BoolOpNode:
		return in.evalBoolOp(t)
	case *CompareOpNode:
		return in.evalCompareOp(t)
	case *BinOpNode:
		return in.evalBinOp(t)

	case *LambdaNode:
		return NewLambda(t.Params, t.Body), nil
	case *FunctionDefNode:
		fn := NewFunction(t.Name, t.Params, t.Body)
		in.env.Assign(t.Name, fn)
		return fn, nil
	case *ExternFunctionDeclNode:
		// declares an externally-provided callable; the core interpreter
		// has no host binding mechanism, so this is a no-op that merely
		// records intent (the name remains unbound until some embedder
		// registers it).
		return Null(), nil

	case *CallNode:
		return in.evalCall(t)
	case *SubscriptNode:
		return in.evalSubscript(t)

	case *AssignStatementNode:
		return in.evalAssign(t)
	case *LazyAssignStatementNode:
		in.env.Assign(t.Target, NewCode(t.Expr))
		return Null(), nil
	case *AugAssignStatementNode:
		return in.evalAugAssign(t)
	case *ReturnStatementNode:
		if t.Expr == nil {
			return Value{}, returnSignal{Value: Null()}
		}
		v, err := in.eval(t.Expr)
		if err != nil {
			return Null(), err
		}
		return Value{}, returnSignal{Value: v}

	case *IfStatementNode:
		cond, err := in.eval(t.Cond)
		if err != nil {
			return Null(), err
		}
		if cond.Truthy() {
			return in.eval(t.Body)
		}
		if t.Else != nil {
			return in.eval(t.Else)
		}
		return Null(), nil

	case *ForStatementNode:
		return in.evalFor(t)
	case *RangeBasedForStatementNode:
		return in.evalRangeFor(t)
	case *WhileStatementNode:
		return in.evalWhile(t)

	case *StatementListNode:
		return in.evalStatementList(t)

	case *PackageNameNode:
		return Null(), nil
	case *ImportPackageNode:
		return Null(), nil

	default:
		return Null(), NewRuntimeError("no evaluation rule for AST node of type %T", n)
	}
}

func (in *Interpreter) evalAll(ns []Node) ([]Value, error) {
	out := make([]Value, len(ns))
	for i, n := range ns {
		v, err := in.eval(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (in *Interpreter) evalStatementList(list *StatementListNode) (Value, error) {
	last := Null()
	for _, stmt := range list.Statements {
		v, err := in.eval(stmt)
		if err != nil {
			return Null(), err
		}
		last = v
	}
	return last, nil
}

// evalName implements spec.md §4.3's Name lookup: a hit that is itself a
// Code value is re-evaluated against the *current* environment every time
// (a thunk, never memoized); a miss returns a Name{value} sentinel rather
// than an error.
func (in *Interpreter) evalName(name string) (Value, error) {
	v, ok := in.env.Lookup(name)
	if !ok {
		return NewName(name), nil
	}
	if v.Kind == KindCode {
		return in.eval(v.Code())
	}
	return v, nil
}

func (in *Interpreter) evalUnaryOp(t *UnaryOpNode) (Value, error) {
	operand, err := in.eval(t.Operand)
	if err != nil {
		return Null(), err
	}
	switch t.Op {
	case UnaryNot:
		return NewBool(!operand.Truthy()), nil
	case UnaryPlus:
		if !operand.IsNumeric() {
			return Null(), NewRuntimeError("unary '+' requires a numeric operand, got %s", operand.Kind)
		}
		return operand, nil
	case UnaryMinus:
		switch operand.Kind {
		case KindInt64:
			return NewInt64(-operand.Int64()), nil
		case KindUInt64:
			return NewInt64(-int64(operand.UInt64())), nil
		case KindDouble:
			return NewDouble(-operand.Double()), nil
		default:
			return Null(), NewRuntimeError("unary '-' requires a numeric operand, got %s", operand.Kind)
		}
	default:
		return Null(), NewRuntimeError("unknown unary operator")
	}
}

// evalBoolOp implements short-circuit And/Or; the result is always a Bool,
// never the last operand evaluated.
func (in *Interpreter) evalBoolOp(t *BoolOpNode) (Value, error) {
	switch t.Op {
	case BoolAnd:
		for _, operand := range t.Operands {
			v, err := in.eval(operand)
			if err != nil {
				return Null(), err
			}
			if !v.Truthy() {
				return NewBool(false), nil
			}
		}
		return NewBool(true), nil
	case BoolOr:
		for _, operand := range t.Operands {
			v, err := in.eval(operand)
			if err != nil {
				return Null(), err
			}
			if v.Truthy() {
				return NewBool(true), nil
			}
		}
		return NewBool(false), nil
	default:
		return Null(), NewRuntimeError("unresolved BoolOp default operator reached the evaluator")
	}
}

// evalCompareOp implements chained comparison: first op(first,right1) must
// hold, then op(right1,right2), and so on; the result is false as soon as
// any link fails.
func (in *Interpreter) evalCompareOp(t *CompareOpNode) (Value, error) {
	left, err := in.eval(t.First)
	if err != nil {
		return Null(), err
	}
	for _, link := range t.Rest {
		right, err := in.eval(link.Operand)
		if err != nil {
			return Null(), err
		}
		ok, err := compareValues(link.Op, left, right)
		if err != nil {
			return Null(), err
		}
		if !ok {
			return NewBool(false), nil
		}
		left = right
	}
	return NewBool(true), nil
}

func compareValues(op CompareOpKind, left, right Value) (bool, error) {
	switch op {
	case CompareIn, CompareNotIn:
		member := membershipTest(left, right)
		if op == CompareNotIn {
			member = !member
		}
		return member, nil
	case CompareEQ:
		return valuesEqual(left, right), nil
	case CompareNEQ:
		return !valuesEqual(left, right), nil
	}

	if left.IsNumeric() && right.IsNumeric() {
		c := numericCompare(left, right)
		return applyOrdering(op, c)
	}
	if left.Kind == KindString && right.Kind == KindString {
		c := 0
		switch {
		case left.Text() < right.Text():
			c = -1
		case left.Text() > right.Text():
			c = 1
		}
		return applyOrdering(op, c)
	}
	return false, NewRuntimeError("cannot order %s against %s", left.Kind, right.Kind)
}

func applyOrdering(op CompareOpKind, c int) (bool, error) {
	switch op {
	case CompareLT:
		return c < 0, nil
	case CompareLTE:
		return c <= 0, nil
	case CompareGT:
		return c > 0, nil
	case CompareGTE:
		return c >= 0, nil
	default:
		return false, NewRuntimeError("unknown ordering comparison operator")
	}
}

// membershipTest implements In/NotIn: linear scan by equality for
// Tuple/Vector, by key for Set/Map.
func membershipTest(needle, haystack Value) bool {
	switch haystack.Kind {
	case KindTuple, KindVector, KindSet:
		for _, elem := range haystack.Elements() {
			if valuesEqual(needle, elem) {
				return true
			}
		}
		return false
	case KindMap:
		for _, pair := range haystack.Pairs() {
			if valuesEqual(needle, pair.Key) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// evalBinOp implements the numeric tower coercion and String '+'
// concatenation of spec.md §4.3.
func (in *Interpreter) evalBinOp(t *BinOpNode) (Value, error) {
	left, err := in.eval(t.Left)
	if err != nil {
		return Null(), err
	}
	right, err := in.eval(t.Right)
	if err != nil {
		return Null(), err
	}
	return applyBinOp(t.Op, left, right)
}

// applyBinOp is the Value-level core of evalBinOp, factored out so
// AugAssignStatement can reuse it without re-wrapping already-computed
// Values back into AST nodes.
func applyBinOp(op BinOpKind, left, right Value) (Value, error) {
	if op == BinAdd && left.Kind == KindString && right.Kind == KindString {
		return NewString(left.Text() + right.Text()), nil
	}

	if !left.IsNumeric() || !right.IsNumeric() {
		return Null(), nil
	}

	switch op {
	case BinTrueDiv:
		r := right.AsDouble()
		if r == 0 {
			return Null(), NewRuntimeError("division by zero")
		}
		return NewDouble(left.AsDouble() / r), nil
	case BinPow:
		return NewDouble(powFloat(left.AsDouble(), right.AsDouble())), nil
	case BinFloorDiv:
		ri := truncToInt64(right.AsDouble())
		if ri == 0 {
			return Null(), NewRuntimeError("division by zero")
		}
		li := truncToInt64(left.AsDouble())
		return NewInt64(li / ri), nil
	case BinMod:
		if left.Kind == KindDouble || right.Kind == KindDouble {
			r := right.AsDouble()
			if r == 0 {
				return Null(), NewRuntimeError("division by zero")
			}
			return NewDouble(ieeeRemainder(left.AsDouble(), r)), nil
		}
		ri := truncToInt64(right.AsDouble())
		if ri == 0 {
			return Null(), NewRuntimeError("division by zero")
		}
		li := truncToInt64(left.AsDouble())
		return NewInt64(li % ri), nil
	}

	kind := widestNumericKind(left.Kind, right.Kind)
	switch kind {
	case KindDouble:
		return NewDouble(applyArithFloat(op, left.AsDouble(), right.AsDouble())), nil
	case KindUInt64:
		lu, ru := toUInt64(left), toUInt64(right)
		return NewUInt64(applyArithUInt64(op, lu, ru)), nil
	default:
		li, ri := toInt64(left), toInt64(right)
		return NewInt64(applyArithInt64(op, li, ri)), nil
	}
}

func applyArithFloat(op BinOpKind, a, b float64) float64 {
	switch op {
	case BinAdd:
		return a + b
	case BinSub:
		return a - b
	case BinMult:
		return a * b
	default:
		return 0
	}
}

// applyArithInt64 performs Add/Sub/Mult natively in int64 so operands above
// 2^53 don't lose precision by round-tripping through float64.
func applyArithInt64(op BinOpKind, a, b int64) int64 {
	switch op {
	case BinAdd:
		return a + b
	case BinSub:
		return a - b
	case BinMult:
		return a * b
	default:
		return 0
	}
}

// applyArithUInt64 mirrors applyArithInt64 for the UInt64 tower; wraparound
// on underflow/overflow is Go's defined uint64 behavior rather than the
// implementation-defined result of converting an out-of-range float64.
func applyArithUInt64(op BinOpKind, a, b uint64) uint64 {
	switch op {
	case BinAdd:
		return a + b
	case BinSub:
		return a - b
	case BinMult:
		return a * b
	default:
		return 0
	}
}

func toInt64(v Value) int64 {
	switch v.Kind {
	case KindInt64:
		return v.Int64()
	case KindUInt64:
		return int64(v.UInt64())
	default:
		return int64(v.Double())
	}
}

func toUInt64(v Value) uint64 {
	switch v.Kind {
	case KindInt64:
		return uint64(v.Int64())
	case KindUInt64:
		return v.UInt64()
	default:
		return uint64(v.Double())
	}
}

func (in *Interpreter) evalAssign(t *AssignStatementNode) (Value, error) {
	v, err := in.eval(t.Expr)
	if err != nil {
		return Null(), err
	}
	in.env.Assign(t.Target, v)
	return v, nil
}

func (in *Interpreter) evalAugAssign(t *AugAssignStatementNode) (Value, error) {
	current, ok := in.env.Lookup(t.Target)
	if !ok {
		return Null(), NewRuntimeError("undefined name %q in augmented assignment", t.Target)
	}
	rhs, err := in.eval(t.Expr)
	if err != nil {
		return Null(), err
	}
	result, err := applyBinOp(t.Op, current, rhs)
	if err != nil {
		return Null(), err
	}
	in.env.Assign(t.Target, result)
	return result, nil
}

func (in *Interpreter) evalCall(t *CallNode) (Value, error) {
	if t.Callee == "print" {
		vals := make([]Value, 0, len(t.Args))
		for _, arg := range t.Args {
			expr, err := argExpr(arg)
			if err != nil {
				return Null(), err
			}
			v, err := in.eval(expr)
			if err != nil {
				return Null(), err
			}
			vals = append(vals, v)
		}
		if err := Print(in.out, vals...); err != nil {
			return Null(), WrapRuntimeError(err, "print failed")
		}
		return Null(), nil
	}

	callee, ok := in.env.Lookup(t.Callee)
	if !ok {
		return Null(), NewRuntimeError("call to undefined name %q", t.Callee)
	}
	if callee.Kind != KindLambda && callee.Kind != KindFunction {
		return Null(), NewRuntimeError("%q is not callable (kind %s)", t.Callee, callee.Kind)
	}
	closure := callee.Closure()

	positional := make([]Value, 0, len(t.Args))
	named := make(map[string]Value)
	for _, arg := range t.Args {
		switch a := arg.(type) {
		case *KeywordArgumentNode:
			v, err := in.eval(a.Expr)
			if err != nil {
				return Null(), err
			}
			named[a.Name] = v
		case *ArgumentNode:
			v, err := in.eval(a.Expr)
			if err != nil {
				return Null(), err
			}
			positional = append(positional, v)
		default:
			return Null(), NewRuntimeError("malformed call argument")
		}
	}

	if len(positional)+len(named) != len(closure.Params.Names) {
		return Null(), NewRuntimeError("call to %q expects %s, got %d",
			t.Callee, paramListText(closure.Params.Names), len(positional)+len(named))
	}

	in.env.PushFrame()
	posIdx := 0
	for _, name := range closure.Params.Names {
		if v, ok := named[name]; ok {
			in.env.BindLocal(name, v)
			continue
		}
		if posIdx >= len(positional) {
			in.env.PopFrame()
			return Null(), NewRuntimeError("call to %q is missing argument %q", t.Callee, name)
		}
		in.env.BindLocal(name, positional[posIdx])
		posIdx++
	}

	result, err := in.eval(closure.Body)
	in.env.PopFrame()
	if err != nil {
		if rs, ok := asReturnSignal(err); ok {
			return rs.Value, nil
		}
		return Null(), err
	}
	return result, nil
}

// paramListText renders a closure's parameter names for an arity-mismatch
// error, in the teacher's oxford-comma list style (internal/util.MakeTextList).
func paramListText(names []string) string {
	if len(names) == 0 {
		return "no arguments"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("argument(s) %s", util.MakeTextList(quoted))
}

func argExpr(arg Node) (Node, error) {
	switch a := arg.(type) {
	case *ArgumentNode:
		return a.Expr, nil
	case *KeywordArgumentNode:
		return a.Expr, nil
	default:
		return nil, NewRuntimeError("malformed call argument")
	}
}

// evalSubscript is not explicitly specified in spec.md §4.3's eval rule
// list; this implementation follows the obvious reading of the node's own
// shape (target name; index expression) against the ordered-sequence and
// keyed Value kinds: Tuple/Vector/Set index by position, Map by key.
func (in *Interpreter) evalSubscript(t *SubscriptNode) (Value, error) {
	target, ok := in.env.Lookup(t.Target)
	if !ok {
		return Null(), NewRuntimeError("subscript of undefined name %q", t.Target)
	}
	idx, err := in.eval(t.Index)
	if err != nil {
		return Null(), err
	}

	switch target.Kind {
	case KindTuple, KindVector, KindSet:
		if !idx.IsNumeric() {
			return Null(), NewRuntimeError("subscript index must be numeric, got %s", idx.Kind)
		}
		i := int(toInt64(idx))
		elems := target.Elements()
		if i < 0 || i >= len(elems) {
			return Null(), NewRuntimeError("subscript index %d out of range [0,%d)", i, len(elems))
		}
		return elems[i], nil
	case KindMap:
		for _, pair := range target.Pairs() {
			if valuesEqual(pair.Key, idx) {
				return pair.Val, nil
			}
		}
		return Null(), NewRuntimeError("key not found in map %q", t.Target)
	default:
		return Null(), NewRuntimeError("%q (kind %s) is not subscriptable", t.Target, target.Kind)
	}
}

func (in *Interpreter) evalFor(t *ForStatementNode) (Value, error) {
	if t.Init != nil {
		if _, err := in.eval(t.Init); err != nil {
			return Null(), err
		}
	}
	runElse := true
	for {
		if t.Cond != nil {
			cond, err := in.eval(t.Cond)
			if err != nil {
				return Null(), err
			}
			if !cond.Truthy() {
				break
			}
		}
		if _, err := in.eval(t.Body); err != nil {
			if isBreakSignal(err) {
				runElse = false
				break
			}
			if isContinueSignal(err) {
				// fall through to iter below
			} else {
				return Null(), err
			}
		}
		if t.Iter != nil {
			if _, err := in.eval(t.Iter); err != nil {
				return Null(), err
			}
		}
	}
	if runElse && t.Else != nil {
		return in.eval(t.Else)
	}
	return Null(), nil
}

func (in *Interpreter) evalWhile(t *WhileStatementNode) (Value, error) {
	runElse := true
	for {
		cond, err := in.eval(t.Cond)
		if err != nil {
			return Null(), err
		}
		if !cond.Truthy() {
			break
		}
		if _, err := in.eval(t.Body); err != nil {
			if isBreakSignal(err) {
				runElse = false
				break
			}
			if isContinueSignal(err) {
				continue
			}
			return Null(), err
		}
	}
	if runElse && t.Else != nil {
		return in.eval(t.Else)
	}
	return Null(), nil
}

// evalRangeFor implements the Open Question resolution recorded in
// SPEC_FULL.md §9: Tuple/Vector/Set iterate by element, Map by key,
// DateRange by whole day inclusive; a two-target form binds (key, value)
// for a Map.
func (in *Interpreter) evalRangeFor(t *RangeBasedForStatementNode) (Value, error) {
	iterable, err := in.eval(t.Iterable)
	if err != nil {
		return Null(), err
	}

	runElse := true
	runBody := func(bind func()) (brokeOrReturned bool, err error) {
		bind()
		if _, err := in.eval(t.Body); err != nil {
			if isBreakSignal(err) {
				runElse = false
				return true, nil
			}
			if isContinueSignal(err) {
				return false, nil
			}
			return true, err
		}
		return false, nil
	}

	switch iterable.Kind {
	case KindTuple, KindVector, KindSet:
		if len(t.Targets) != 1 {
			return Null(), NewRuntimeError("range-based for over a sequence needs exactly one loop target")
		}
		for _, elem := range iterable.Elements() {
			stop, err := runBody(func() { in.env.Assign(t.Targets[0], elem) })
			if err != nil {
				return Null(), err
			}
			if stop {
				break
			}
		}
	case KindMap:
		for _, pair := range iterable.Pairs() {
			var stop bool
			var err error
			if len(t.Targets) == 2 {
				stop, err = runBody(func() {
					in.env.Assign(t.Targets[0], pair.Key)
					in.env.Assign(t.Targets[1], pair.Val)
				})
			} else if len(t.Targets) == 1 {
				stop, err = runBody(func() { in.env.Assign(t.Targets[0], pair.Key) })
			} else {
				return Null(), NewRuntimeError("range-based for over a map needs one or two loop targets")
			}
			if err != nil {
				return Null(), err
			}
			if stop {
				break
			}
		}
	case KindDateRange:
		if len(t.Targets) != 1 {
			return Null(), NewRuntimeError("range-based for over a date range needs exactly one loop target")
		}
		for d := iterable.DateBegin(); !dateAfter(d, iterable.DateEnd()); d = nextDay(d) {
			cur := d
			stop, err := runBody(func() { in.env.Assign(t.Targets[0], NewDate(cur)) })
			if err != nil {
				return Null(), err
			}
			if stop {
				break
			}
		}
	default:
		return Null(), NewRuntimeError("cannot iterate over a %s value", iterable.Kind)
	}

	if runElse && t.Else != nil {
		return in.eval(t.Else)
	}
	return Null(), nil
}

func powFloat(a, b float64) float64      { return math.Pow(a, b) }
func truncToInt64(f float64) int64       { return int64(math.Trunc(f)) }
func ieeeRemainder(a, b float64) float64 { return math.Remainder(a, b) }

func toTime(d DateNode) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func dateAfter(a, b DateNode) bool {
	return toTime(a).After(toTime(b))
}

// nextDay advances a date by one calendar day using stdlib time's calendar
// normalization, which also resolves the lenient-validation literals this
// language accepts (e.g. 2022-02-30) to their real calendar date.
func nextDay(d DateNode) DateNode {
	t := toTime(d).AddDate(0, 0, 1)
	y, m, day := t.Date()
	return DateNode{Year: y, Month: int(m), Day: day}
}
