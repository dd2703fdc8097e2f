// Package lang implements the glint language core: the AST, the parser and
// its normalizing transformer, and the tree-walking interpreter.
package lang

import "fmt"

// Pos is a source position attached to a Node for diagnostics. It is never
// consulted by the evaluator.
type Pos struct {
	Line int
	Col  int
}

// Node is the tagged-union type for every AST node kind. Concrete node types
// implement it by embedding node, which gives them a Pos() accessor and marks
// them as part of the union.
type Node interface {
	Pos() Pos
	node()
}

type node struct {
	P Pos
}

func (n node) Pos() Pos { return n.P }
func (node) node()      {}

// ---- leaf / zero-attribute nodes ----

type NullNode struct{ node }
type EllipsisNode struct{ node }
type PassNode struct{ node }
type BreakNode struct{ node }
type ContinueNode struct{ node }

// ---- literals ----

type BoolNode struct {
	node
	Value bool
}

type Int64Node struct {
	node
	Value  int64
	Lexeme string
}

type UInt64Node struct {
	node
	Value  uint64
	Lexeme string
}

type DoubleNode struct {
	node
	Value  float64
	Lexeme string
}

// NameNode is an identifier reference. Identifier text may contain '.' and
// '_'.
type NameNode struct {
	node
	Name string
}

// StringNode is an unquoted symbolic string form produced by some grammar
// rules (e.g. a bare word that falls back to a string atom).
type StringNode struct {
	node
	Value string
}

// QuotedStringNode is a literal "..." string with escapes already resolved.
type QuotedStringNode struct {
	node
	Value string
}

// DateNode is a calendar date. Validity is checked at parse time: year in
// [1900,2100], month in [1,12], day in [1,31] (day-of-month length and leap
// years are deliberately not checked; see SPEC_FULL.md §9).
type DateNode struct {
	node
	Year, Month, Day int
}

type DateRangeNode struct {
	node
	Begin, End DateNode
}

// ---- sequences ----

type TupleNode struct {
	node
	Elements []Node
}

type ListNode struct {
	node
	Elements []Node
}

type SetNode struct {
	node
	Elements []Node
}

type DictEntry struct {
	Key   Node
	Value Node
}

type DictNode struct {
	node
	Entries []DictEntry
}

// ---- operators ----

type UnaryOpKind int

const (
	UnaryNot UnaryOpKind = iota
	UnaryPlus
	UnaryMinus
)

func (k UnaryOpKind) String() string {
	switch k {
	case UnaryNot:
		return "Not"
	case UnaryPlus:
		return "Plus"
	case UnaryMinus:
		return "Minus"
	default:
		return fmt.Sprintf("UnaryOpKind(%d)", int(k))
	}
}

type UnaryOpNode struct {
	node
	Op      UnaryOpKind
	Operand Node
}

type BoolOpKind int

const (
	// BoolOpDefault is the grammar's placeholder op, resolved to BoolAnd by
	// the transformer's third pass if it survives that long.
	BoolOpDefault BoolOpKind = iota
	BoolAnd
	BoolOr
)

func (k BoolOpKind) String() string {
	switch k {
	case BoolAnd:
		return "And"
	case BoolOr:
		return "Or"
	default:
		return "Default"
	}
}

type BoolOpNode struct {
	node
	Op       BoolOpKind
	Operands []Node
}

type CompareOpKind int

const (
	CompareEQ CompareOpKind = iota
	CompareNEQ
	CompareLT
	CompareLTE
	CompareGT
	CompareGTE
	CompareIn
	CompareNotIn
)

func (k CompareOpKind) String() string {
	switch k {
	case CompareEQ:
		return "=="
	case CompareNEQ:
		return "!="
	case CompareLT:
		return "<"
	case CompareLTE:
		return "<="
	case CompareGT:
		return ">"
	case CompareGTE:
		return ">="
	case CompareIn:
		return "in"
	case CompareNotIn:
		return "not in"
	default:
		return fmt.Sprintf("CompareOpKind(%d)", int(k))
	}
}

type CompareLink struct {
	Op      CompareOpKind
	Operand Node
}

type CompareOpNode struct {
	node
	First Node
	Rest  []CompareLink
}

type BinOpKind int

const (
	BinAdd BinOpKind = iota
	BinSub
	BinMult
	BinTrueDiv
	BinFloorDiv
	BinMod
	BinPow
)

func (k BinOpKind) String() string {
	switch k {
	case BinAdd:
		return "Add"
	case BinSub:
		return "Sub"
	case BinMult:
		return "Mult"
	case BinTrueDiv:
		return "TrueDiv"
	case BinFloorDiv:
		return "FloorDiv"
	case BinMod:
		return "Mod"
	case BinPow:
		return "Pow"
	default:
		return fmt.Sprintf("BinOpKind(%d)", int(k))
	}
}

type BinOpNode struct {
	node
	Left  Node
	Op    BinOpKind
	Right Node
}

// BinOpLink is one (operator, right-hand operand) pair in a
// BinOpIntermediateNode chain.
type BinOpLink struct {
	Op      BinOpKind
	Operand Node
}

// BinOpIntermediateNode is the transient, flat left-to-right chain the
// parser emits for a run of same-precedence binary operators. The
// normalizing transformer's fold pass must eliminate every one of these;
// none may survive into the tree the interpreter sees.
type BinOpIntermediateNode struct {
	node
	First Node
	Rest  []BinOpLink
}

// ---- calls / functions ----

type ArgumentNode struct {
	node
	Expr Node
}

type KeywordArgumentNode struct {
	node
	Name string
	Expr Node
}

type CallNode struct {
	node
	Callee string
	Args   []Node
}

type SubscriptNode struct {
	node
	Target string
	Index  Node
}

type ParamList struct {
	Names []string
}

type LambdaNode struct {
	node
	Params ParamList
	Body   Node
}

type FunctionDefNode struct {
	node
	Decorators []string
	Name       string
	Params     ParamList
	Body       Node
}

type ExternFunctionDeclNode struct {
	node
	Decorators []string
	Name       string
	Params     ParamList
	ReturnType string
}

// ---- statements ----

type AssignStatementNode struct {
	node
	Target string
	Expr   Node
}

type LazyAssignStatementNode struct {
	node
	Target string
	Expr   Node
}

type AugAssignStatementNode struct {
	node
	Target string
	Op     BinOpKind
	Expr   Node
}

type ReturnStatementNode struct {
	node
	Expr Node // nil if bare "return"
}

type IfStatementNode struct {
	node
	Cond Node
	Body Node
	Else Node // nil if no else-clause
}

type ForStatementNode struct {
	node
	Init Node // nil-able simple statement
	Cond Node // nil-able expression
	Iter Node // nil-able simple statement
	Body Node
	Else Node
}

type RangeBasedForStatementNode struct {
	node
	Targets  []string
	Iterable Node
	Body     Node
	Else     Node
}

type WhileStatementNode struct {
	node
	Cond Node
	Body Node
	Else Node
}

type StatementListNode struct {
	node
	Statements []Node
}

type PackageNameNode struct {
	node
	Path []string
}

type ImportPackageNode struct {
	node
	Path []string
}

// Entry is the unique program root. Every successful parse yields exactly
// one.
type Entry struct {
	node
	Package PackageNameNode
	Body    StatementListNode
}
