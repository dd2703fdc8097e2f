package lang

import "fmt"

// Kind tags a runtime Value. Unlike the AST's tagged union (one struct per
// node kind), Value is a single struct with a Kind discriminator and a
// handful of typed fields — grounded on the teacher's Value{v string, t
// ValueType} accessor idiom (Type()/Bool()/Num()/Str() in
// internal/tunascript/value.go), widened to a real numeric tower and the
// date/sequence/closure kinds this language needs.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindUInt64
	KindDouble
	KindName
	KindString
	KindDate
	KindDateRange
	KindCode
	KindLambda
	KindFunction
	KindTuple
	KindVector
	KindSet
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindDouble:
		return "Double"
	case KindName:
		return "Name"
	case KindString:
		return "String"
	case KindDate:
		return "Date"
	case KindDateRange:
		return "DateRange"
	case KindCode:
		return "Code"
	case KindLambda:
		return "Lambda"
	case KindFunction:
		return "Function"
	case KindTuple:
		return "Tuple"
	case KindVector:
		return "Vector"
	case KindSet:
		return "Set"
	case KindMap:
		return "Map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DictPair is one ordered key/value entry of a Map value.
type DictPair struct {
	Key Value
	Val Value
}

// Closure is the shared payload for Lambda and Function values: both
// retain live references into the AST (params + body) for as long as the
// closure itself is reachable, per spec.md §3's Lifecycle note.
type Closure struct {
	Name   string // empty for a Lambda
	Params ParamList
	Body   Node
}

// Value is the runtime tagged union. Zero value is Null.
type Value struct {
	Kind Kind

	i64 int64
	u64 uint64
	f64 float64
	b   bool
	s   string // String/Name/QuotedString text

	date      DateNode
	dateRange [2]DateNode // [begin, end]

	code    Node // unevaluated expression, for a Code (lazy-binding) value
	closure *Closure

	seq  []Value    // Tuple/Vector/Set elements, in order
	dict []DictPair // Map entries, in order
}

func Null() Value                    { return Value{Kind: KindNull} }
func NewBool(b bool) Value           { return Value{Kind: KindBool, b: b} }
func NewInt64(v int64) Value         { return Value{Kind: KindInt64, i64: v} }
func NewUInt64(v uint64) Value       { return Value{Kind: KindUInt64, u64: v} }
func NewDouble(v float64) Value      { return Value{Kind: KindDouble, f64: v} }
func NewName(name string) Value      { return Value{Kind: KindName, s: name} }
func NewString(s string) Value       { return Value{Kind: KindString, s: s} }
func NewDate(d DateNode) Value       { return Value{Kind: KindDate, date: d} }
func NewCode(expr Node) Value        { return Value{Kind: KindCode, code: expr} }
func NewTuple(elems []Value) Value   { return Value{Kind: KindTuple, seq: elems} }
func NewVector(elems []Value) Value  { return Value{Kind: KindVector, seq: elems} }

func NewDateRange(begin, end DateNode) Value {
	return Value{Kind: KindDateRange, dateRange: [2]DateNode{begin, end}}
}

func NewLambda(params ParamList, body Node) Value {
	return Value{Kind: KindLambda, closure: &Closure{Params: params, Body: body}}
}

func NewFunction(name string, params ParamList, body Node) Value {
	return Value{Kind: KindFunction, closure: &Closure{Name: name, Params: params, Body: body}}
}

// NewSet builds a Set value, deduplicating elements by Value equality while
// preserving first-seen order, per spec.md §4.3's "Set/Map deduplicate by
// value equality".
func NewSet(elems []Value) Value {
	var out []Value
	for _, e := range elems {
		dup := false
		for _, existing := range out {
			if valuesEqual(existing, e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return Value{Kind: KindSet, seq: out}
}

// NewMap builds a Map value, keeping first-seen order and overwriting the
// value on a duplicate key (dedup "by value equality" applied to the key).
func NewMap(pairs []DictPair) Value {
	var out []DictPair
	for _, p := range pairs {
		replaced := false
		for i := range out {
			if valuesEqual(out[i].Key, p.Key) {
				out[i].Val = p.Val
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return Value{Kind: KindMap, dict: out}
}

func (v Value) Bool() bool          { return v.b }
func (v Value) Int64() int64        { return v.i64 }
func (v Value) UInt64() uint64      { return v.u64 }
func (v Value) Double() float64     { return v.f64 }
func (v Value) Text() string        { return v.s }
func (v Value) Date() DateNode      { return v.date }
func (v Value) DateBegin() DateNode { return v.dateRange[0] }
func (v Value) DateEnd() DateNode   { return v.dateRange[1] }
func (v Value) Code() Node          { return v.code }
func (v Value) Closure() *Closure   { return v.closure }
func (v Value) Elements() []Value   { return v.seq }
func (v Value) Pairs() []DictPair   { return v.dict }

// IsNumeric reports whether v sits in the Int64/UInt64/Double tower.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindInt64, KindUInt64, KindDouble:
		return true
	default:
		return false
	}
}

// AsDouble widens any numeric Value to float64; it is only valid when
// IsNumeric is true.
func (v Value) AsDouble() float64 {
	switch v.Kind {
	case KindInt64:
		return float64(v.i64)
	case KindUInt64:
		return float64(v.u64)
	case KindDouble:
		return v.f64
	default:
		return 0
	}
}

// Truthy implements spec.md §4.3's truthiness table: Null and false are
// falsy; zero numbers are falsy; empty strings are falsy; everything else
// is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt64:
		return v.i64 != 0
	case KindUInt64:
		return v.u64 != 0
	case KindDouble:
		return v.f64 != 0
	case KindString, KindName:
		return v.s != ""
	default:
		return true
	}
}

// valuesEqual is the deep-equality relation used by CompareEQ/NEQ, by
// Set/Map dedup, and by In/NotIn membership tests against a Set/Map.
func valuesEqual(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return numericEqual(a, b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindName, KindString:
		return a.s == b.s
	case KindDate:
		return a.date == b.date
	case KindDateRange:
		return a.dateRange == b.dateRange
	case KindTuple, KindVector, KindSet:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !valuesEqual(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.dict) != len(b.dict) {
			return false
		}
		for i := range a.dict {
			if !valuesEqual(a.dict[i].Key, b.dict[i].Key) || !valuesEqual(a.dict[i].Val, b.dict[i].Val) {
				return false
			}
		}
		return true
	default:
		// Code/Lambda/Function have no meaningful equality beyond identity;
		// treat as always-false per spec.md §6's "unsupported ordering on
		// Code/Lambda/Function values" note.
		return false
	}
}

func numericEqual(a, b Value) bool {
	if a.Kind == KindDouble || b.Kind == KindDouble {
		return a.AsDouble() == b.AsDouble()
	}
	if a.Kind == KindInt64 && b.Kind == KindInt64 {
		return a.i64 == b.i64
	}
	if a.Kind == KindUInt64 && b.Kind == KindUInt64 {
		return a.u64 == b.u64
	}
	// one Int64, one UInt64: a negative Int64 can never equal a UInt64 (which
	// is never negative), so guard the sign before comparing in uint64.
	var i64 int64
	var u64 uint64
	if a.Kind == KindInt64 {
		i64, u64 = a.i64, b.u64
	} else {
		i64, u64 = b.i64, a.u64
	}
	if i64 < 0 {
		return false
	}
	return uint64(i64) == u64
}

// numericCompare returns -1/0/1 for a<b, a==b, a>b. Only valid when both
// values are numeric. Non-Double operands compare in their native integer
// representation so operands above 2^53 don't lose precision through a
// float64 round-trip.
func numericCompare(a, b Value) int {
	if a.Kind == KindDouble || b.Kind == KindDouble {
		x, y := a.AsDouble(), b.AsDouble()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	if a.Kind == KindInt64 && b.Kind == KindInt64 {
		return compareOrdered(a.i64, b.i64)
	}
	if a.Kind == KindUInt64 && b.Kind == KindUInt64 {
		return compareOrdered(a.u64, b.u64)
	}
	// mixed Int64/UInt64: a negative Int64 is always the smaller operand,
	// otherwise both fit in uint64 without loss.
	var i64 int64
	var u64 uint64
	var ltIfNeg int
	if a.Kind == KindInt64 {
		i64, u64, ltIfNeg = a.i64, b.u64, -1
	} else {
		i64, u64, ltIfNeg = b.i64, a.u64, 1
	}
	if i64 < 0 {
		return ltIfNeg
	}
	return compareOrdered(uint64(i64), u64)
}

func compareOrdered[T int64 | uint64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// widestNumericKind follows spec.md §4.3's tower: Int64 < UInt64 < Double,
// Double dominating.
func widestNumericKind(a, b Kind) Kind {
	if a == KindDouble || b == KindDouble {
		return KindDouble
	}
	if a == KindUInt64 || b == KindUInt64 {
		return KindUInt64
	}
	return KindInt64
}
