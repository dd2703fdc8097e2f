package lang

// Transform applies the normalizing transformer of spec.md §4.2 to a raw
// parse tree and returns the tree the interpreter actually walks. It is run
// unconditionally at the end of Parse; nothing downstream of Parse ever
// sees a BinOpIntermediateNode or an un-canonicalized CompareOp/BoolOp.
//
// The three passes run strictly in order, each a total (every node
// visited), idempotent, bottom-up rewrite:
//
//  1. fold      — every BinOpIntermediate(first, rest) left-folds into
//     nested BinOp nodes; none survive.
//  2. canon     — CompareOp(first, []) collapses to first; single-element
//     BoolOp/StatementList collapse to their sole child.
//  3. resolve   — any surviving BoolOp whose op is still the grammar
//     default becomes And.
func Transform(e *Entry) Node {
	var n Node = e
	n = passFold(n)
	n = passCanon(n)
	n = passResolveDefault(n)
	return n
}

// mapNode rebuilds n with every Node-typed child replaced by rec(child). It
// is shared across all three passes; only the post-processing each pass
// performs on the rebuilt node differs.
func mapNode(n Node, rec func(Node) Node) Node {
	if n == nil {
		return nil
	}
	switch t := n.(type) {
	case *Entry:
		stmts := make([]Node, len(t.Body.Statements))
		for i, s := range t.Body.Statements {
			stmts[i] = rec(s)
		}
		return &Entry{node: t.node, Package: t.Package, Body: StatementListNode{node: t.Body.node, Statements: stmts}}

	case *NullNode, *EllipsisNode, *PassNode, *BreakNode, *ContinueNode,
		*BoolNode, *Int64Node, *UInt64Node, *DoubleNode, *NameNode,
		*StringNode, *QuotedStringNode, *DateNode, *DateRangeNode,
		*PackageNameNode, *ImportPackageNode:
		return n

	case *TupleNode:
		return &TupleNode{node: t.node, Elements: mapNodes(t.Elements, rec)}
	case *ListNode:
		return &ListNode{node: t.node, Elements: mapNodes(t.Elements, rec)}
	case *SetNode:
		return &SetNode{node: t.node, Elements: mapNodes(t.Elements, rec)}
	case *DictNode:
		entries := make([]DictEntry, len(t.Entries))
		for i, e := range t.Entries {
			entries[i] = DictEntry{Key: rec(e.Key), Value: rec(e.Value)}
		}
		return &DictNode{node: t.node, Entries: entries}

	case *UnaryOpNode:
		return &UnaryOpNode{node: t.node, Op: t.Op, Operand: rec(t.Operand)}

	case *BoolOpNode:
		return &BoolOpNode{node: t.node, Op: t.Op, Operands: mapNodes(t.Operands, rec)}

	case *CompareOpNode:
		rest := make([]CompareLink, len(t.Rest))
		for i, l := range t.Rest {
			rest[i] = CompareLink{Op: l.Op, Operand: rec(l.Operand)}
		}
		return &CompareOpNode{node: t.node, First: rec(t.First), Rest: rest}

	case *BinOpNode:
		return &BinOpNode{node: t.node, Left: rec(t.Left), Op: t.Op, Right: rec(t.Right)}

	case *BinOpIntermediateNode:
		rest := make([]BinOpLink, len(t.Rest))
		for i, l := range t.Rest {
			rest[i] = BinOpLink{Op: l.Op, Operand: rec(l.Operand)}
		}
		return &BinOpIntermediateNode{node: t.node, First: rec(t.First), Rest: rest}

	case *ArgumentNode:
		return &ArgumentNode{node: t.node, Expr: rec(t.Expr)}
	case *KeywordArgumentNode:
		return &KeywordArgumentNode{node: t.node, Name: t.Name, Expr: rec(t.Expr)}
	case *CallNode:
		return &CallNode{node: t.node, Callee: t.Callee, Args: mapNodes(t.Args, rec)}
	case *SubscriptNode:
		return &SubscriptNode{node: t.node, Target: t.Target, Index: rec(t.Index)}

	case *LambdaNode:
		return &LambdaNode{node: t.node, Params: t.Params, Body: rec(t.Body)}
	case *FunctionDefNode:
		return &FunctionDefNode{node: t.node, Decorators: t.Decorators, Name: t.Name, Params: t.Params, Body: rec(t.Body)}
	case *ExternFunctionDeclNode:
		return n

	case *AssignStatementNode:
		return &AssignStatementNode{node: t.node, Target: t.Target, Expr: rec(t.Expr)}
	case *LazyAssignStatementNode:
		return &LazyAssignStatementNode{node: t.node, Target: t.Target, Expr: rec(t.Expr)}
	case *AugAssignStatementNode:
		return &AugAssignStatementNode{node: t.node, Target: t.Target, Op: t.Op, Expr: rec(t.Expr)}
	case *ReturnStatementNode:
		return &ReturnStatementNode{node: t.node, Expr: recMaybe(t.Expr, rec)}

	case *IfStatementNode:
		return &IfStatementNode{node: t.node, Cond: rec(t.Cond), Body: rec(t.Body), Else: recMaybe(t.Else, rec)}
	case *ForStatementNode:
		return &ForStatementNode{
			node: t.node,
			Init: recMaybe(t.Init, rec), Cond: recMaybe(t.Cond, rec), Iter: recMaybe(t.Iter, rec),
			Body: rec(t.Body), Else: recMaybe(t.Else, rec),
		}
	case *RangeBasedForStatementNode:
		return &RangeBasedForStatementNode{
			node: t.node, Targets: t.Targets, Iterable: rec(t.Iterable),
			Body: rec(t.Body), Else: recMaybe(t.Else, rec),
		}
	case *WhileStatementNode:
		return &WhileStatementNode{node: t.node, Cond: rec(t.Cond), Body: rec(t.Body), Else: recMaybe(t.Else, rec)}

	case *StatementListNode:
		return &StatementListNode{node: t.node, Statements: mapNodes(t.Statements, rec)}

	default:
		return n
	}
}

func mapNodes(ns []Node, rec func(Node) Node) []Node {
	if ns == nil {
		return nil
	}
	out := make([]Node, len(ns))
	for i, n := range ns {
		out[i] = rec(n)
	}
	return out
}

func recMaybe(n Node, rec func(Node) Node) Node {
	if n == nil {
		return nil
	}
	return rec(n)
}

// passFold eliminates every BinOpIntermediateNode, left-folding its chain
// into nested BinOpNodes (rule 11: all same-precedence runs, including
// exponentiation, fold left-to-right in this implementation).
func passFold(n Node) Node {
	n = mapNode(n, passFold)
	bi, ok := n.(*BinOpIntermediateNode)
	if !ok {
		return n
	}
	acc := bi.First
	for _, link := range bi.Rest {
		acc = &BinOpNode{node: bi.node, Left: acc, Op: link.Op, Right: link.Operand}
	}
	return acc
}

// passCanon collapses a CompareOp with no chained comparisons down to its
// first operand, and collapses single-element BoolOp/StatementList nodes
// down to their sole child.
func passCanon(n Node) Node {
	n = mapNode(n, passCanon)
	switch t := n.(type) {
	case *CompareOpNode:
		if len(t.Rest) == 0 {
			return t.First
		}
		return t
	case *BoolOpNode:
		if len(t.Operands) == 1 {
			return t.Operands[0]
		}
		return t
	case *StatementListNode:
		if len(t.Statements) == 1 {
			return t.Statements[0]
		}
		return t
	default:
		return n
	}
}

// passResolveDefault assigns And to any BoolOp whose op marker is still the
// grammar default. In practice the parser always tags a multi-operand
// BoolOp with a concrete And/Or the moment it matches a second operand, so
// this is a safety net for hand-built trees rather than something parser
// output actually needs — but it still runs, because Transform must hold
// as a general invariant-enforcing rewrite, not just a parser post-step.
func passResolveDefault(n Node) Node {
	n = mapNode(n, passResolveDefault)
	bo, ok := n.(*BoolOpNode)
	if !ok {
		return n
	}
	if len(bo.Operands) == 1 {
		return bo.Operands[0]
	}
	if bo.Op == BoolOpDefault {
		bo.Op = BoolAnd
	}
	return bo
}
