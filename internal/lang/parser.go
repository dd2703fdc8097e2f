package lang

import (
	"fmt"
	"strings"
)

// Parse builds the raw AST for src and applies the normalizing transformer,
// per spec.md §4.1/§4.2. This is the complete parse_to_ast(text) contract:
// a nil *Entry and non-nil *ParseError on failure.
func Parse(src string) (*Entry, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	entry, err := p.parseEntry()
	if err != nil {
		return nil, err
	}
	if p.cur().class != tkEOF {
		return nil, p.errorf("unexpected trailing input after program")
	}

	transformed := Transform(entry)
	out, ok := transformed.(*Entry)
	if !ok {
		return nil, &ParseError{Message: "normalizing transformer did not produce an Entry root"}
	}
	return out, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) at(offset int) token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) mark() int { return p.pos }

func (p *parser) reset(m int) { p.pos = m }

func (p *parser) check(c tokenClass) bool {
	return p.cur().class == c
}

func (p *parser) match(c tokenClass) (token, bool) {
	if p.check(c) {
		return p.advance(), true
	}
	return token{}, false
}

func (p *parser) expect(c tokenClass) (token, error) {
	if tok, ok := p.match(c); ok {
		return tok, nil
	}
	return token{}, p.errorf("expecting %s", c.human)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	t := p.cur()
	msg := fmt.Sprintf(format, args...)
	return &ParseError{Line: t.pos.Line, Col: t.pos.Col, Message: msg, fullLine: t.fullLine}
}

// ---- entry / statements ----

func (p *parser) parseEntry() (*Entry, error) {
	start := p.cur().pos
	if _, err := p.expect(tkPackage); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tkIdent)
	if err != nil {
		return nil, err
	}
	pkg := PackageNameNode{node: node{start}, Path: strings.Split(nameTok.lexeme, ".")}

	p.skipSemis()

	var stmts []Node
	for p.cur().class != tkEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipSemis()
	}

	return &Entry{
		node:    node{start},
		Package: pkg,
		Body:    StatementListNode{node: node{start}, Statements: stmts},
	}, nil
}

func (p *parser) skipSemis() {
	for p.cur().class == tkSemi {
		p.advance()
	}
}

func (p *parser) parseStatement() (Node, error) {
	if isCompoundStart(p.cur().class) {
		return p.parseCompoundStatement()
	}
	stmt, err := p.parseSimpleStatement()
	if err != nil {
		return nil, err
	}
	p.skipSemis()
	return stmt, nil
}

func isCompoundStart(c tokenClass) bool {
	switch c {
	case tkImport, tkDef, tkIf, tkFor, tkWhile, tkAt:
		return true
	default:
		return false
	}
}

func (p *parser) parseCompoundStatement() (Node, error) {
	switch p.cur().class {
	case tkImport:
		return p.parseImport()
	case tkAt, tkDef:
		return p.parseFunctionDef()
	case tkIf:
		return p.parseIf()
	case tkFor:
		return p.parseFor()
	case tkWhile:
		return p.parseWhile()
	default:
		return nil, p.errorf("expecting a compound statement")
	}
}

func (p *parser) parseImport() (Node, error) {
	start := p.advance().pos // "import"
	nameTok, err := p.expect(tkIdent)
	if err != nil {
		return nil, err
	}
	return &ImportPackageNode{node: node{start}, Path: strings.Split(nameTok.lexeme, ".")}, nil
}

func (p *parser) parseDecorators() ([]string, error) {
	var decorators []string
	for p.cur().class == tkAt {
		p.advance()
		nameTok, err := p.expect(tkIdent)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, nameTok.lexeme)
	}
	return decorators, nil
}

func (p *parser) parseFunctionDef() (Node, error) {
	start := p.cur().pos
	decorators, err := p.parseDecorators()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkDef); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tkIdent)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	if _, ok := p.match(tkArrow); ok {
		retTok, err := p.expect(tkIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tkSemi); err != nil {
			return nil, err
		}
		return &ExternFunctionDeclNode{
			node: node{start}, Decorators: decorators, Name: nameTok.lexeme,
			Params: params, ReturnType: retTok.lexeme,
		}, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionDefNode{node: node{start}, Decorators: decorators, Name: nameTok.lexeme, Params: params, Body: body}, nil
}

func (p *parser) parseParamList() (ParamList, error) {
	if _, err := p.expect(tkLParen); err != nil {
		return ParamList{}, err
	}
	var names []string
	for p.cur().class != tkRParen {
		nameTok, err := p.expect(tkIdent)
		if err != nil {
			return ParamList{}, err
		}
		names = append(names, nameTok.lexeme)
		if _, ok := p.match(tkComma); !ok {
			break
		}
	}
	if _, err := p.expect(tkRParen); err != nil {
		return ParamList{}, err
	}
	return ParamList{Names: names}, nil
}

// parseBlock parses either a brace-delimited statement list or, per
// spec.md §6 ("a single statement body is permitted"), one bare
// simple/compound statement. The result is always a StatementListNode; the
// normalizing transformer collapses single-statement lists.
func (p *parser) parseBlock() (Node, error) {
	start := p.cur().pos
	if _, ok := p.match(tkLBrace); ok {
		var stmts []Node
		p.skipSemis()
		for p.cur().class != tkRBrace {
			if p.cur().class == tkEOF {
				return nil, p.errorf("expecting '}'")
			}
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
			p.skipSemis()
		}
		if _, err := p.expect(tkRBrace); err != nil {
			return nil, err
		}
		return &StatementListNode{node: node{start}, Statements: stmts}, nil
	}

	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &StatementListNode{node: node{start}, Statements: []Node{stmt}}, nil
}

func (p *parser) parseIf() (Node, error) {
	start := p.advance().pos // "if"
	if _, err := p.expect(tkLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody Node
	if _, ok := p.match(tkElse); ok {
		if p.cur().class == tkIf {
			elseBody, err = p.parseIf()
		} else {
			elseBody, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	return &IfStatementNode{node: node{start}, Cond: cond, Body: body, Else: elseBody}, nil
}

func (p *parser) parseWhile() (Node, error) {
	start := p.advance().pos // "while"
	if _, err := p.expect(tkLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody Node
	if _, ok := p.match(tkElse); ok {
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &WhileStatementNode{node: node{start}, Cond: cond, Body: body, Else: elseBody}, nil
}

// parseFor disambiguates the classic C-style for from the range-based form
// by attempting the range-based header first (it's the only one with a
// bare "in" keyword right after the name list), backtracking on failure.
func (p *parser) parseFor() (Node, error) {
	start := p.advance().pos // "for"
	if _, err := p.expect(tkLParen); err != nil {
		return nil, err
	}

	if rfor, ok, err := p.tryParseRangeForHeader(start); err != nil {
		return nil, err
	} else if ok {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		rfor.Body = body
		if _, ok := p.match(tkElse); ok {
			elseBody, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			rfor.Else = elseBody
		}
		return rfor, nil
	}

	var init, cond, iter Node
	var err error
	if p.cur().class != tkSemi {
		init, err = p.parseSimpleStatementNoTerminator()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tkSemi); err != nil {
		return nil, err
	}
	if p.cur().class != tkSemi {
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tkSemi); err != nil {
		return nil, err
	}
	if p.cur().class != tkRParen {
		iter, err = p.parseSimpleStatementNoTerminator()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tkRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody Node
	if _, ok := p.match(tkElse); ok {
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ForStatementNode{node: node{start}, Init: init, Cond: cond, Iter: iter, Body: body, Else: elseBody}, nil
}

func (p *parser) tryParseRangeForHeader(start Pos) (*RangeBasedForStatementNode, bool, error) {
	m := p.mark()
	var targets []string

	nameTok, ok := p.match(tkIdent)
	if !ok {
		p.reset(m)
		return nil, false, nil
	}
	targets = append(targets, nameTok.lexeme)

	if _, ok := p.match(tkComma); ok {
		name2, ok := p.match(tkIdent)
		if !ok {
			p.reset(m)
			return nil, false, nil
		}
		targets = append(targets, name2.lexeme)
	}

	if _, ok := p.match(tkIn); !ok {
		p.reset(m)
		return nil, false, nil
	}

	iterable, err := p.parseExpression()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.expect(tkRParen); err != nil {
		return nil, false, err
	}

	return &RangeBasedForStatementNode{node: node{start}, Targets: targets, Iterable: iterable}, true, nil
}

// ---- simple statements ----

func (p *parser) parseSimpleStatement() (Node, error) {
	return p.parseSimpleStatementImpl(true)
}

// parseSimpleStatementNoTerminator is used for the for-loop init/iter
// clauses, which are simple statements not followed by the usual ';'
// eating (the surrounding for_stmt grammar owns the ';').
func (p *parser) parseSimpleStatementNoTerminator() (Node, error) {
	return p.parseSimpleStatementImpl(false)
}

func (p *parser) parseSimpleStatementImpl(eatTrailingSemis bool) (Node, error) {
	start := p.cur().pos

	switch p.cur().class {
	case tkReturn:
		p.advance()
		if atStatementEnd(p.cur().class) {
			return &ReturnStatementNode{node: node{start}}, nil
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ReturnStatementNode{node: node{start}, Expr: expr}, nil
	case tkPass:
		p.advance()
		return &PassNode{node{start}}, nil
	case tkBreak:
		p.advance()
		return &BreakNode{node{start}}, nil
	case tkContinue:
		p.advance()
		return &ContinueNode{node{start}}, nil
	case tkLBrace:
		return p.parseBlock()
	}

	if node, ok, err := p.tryParseAssignFamily(); err != nil {
		return nil, err
	} else if ok {
		return node, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func atStatementEnd(c tokenClass) bool {
	return c == tkSemi || c == tkRBrace || c == tkEOF
}

var augAssignOps = map[tokenClass]BinOpKind{
	tkPlusEq:     BinAdd,
	tkMinusEq:    BinSub,
	tkStarEq:     BinMult,
	tkSlashEq:    BinTrueDiv,
	tkFloorDivEq: BinFloorDiv,
	tkPercentEq:  BinMod,
	tkPowEq:      BinPow,
}

func (p *parser) tryParseAssignFamily() (Node, bool, error) {
	if p.cur().class != tkIdent {
		return nil, false, nil
	}
	start := p.cur().pos
	next := p.at(1).class

	switch {
	case next == tkAssign:
		nameTok := p.advance()
		p.advance() // '='
		expr, err := p.parseExpression()
		if err != nil {
			return nil, true, err
		}
		return &AssignStatementNode{node: node{start}, Target: nameTok.lexeme, Expr: expr}, true, nil
	case next == tkLazyAssign:
		nameTok := p.advance()
		p.advance() // ':='
		expr, err := p.parseExpression()
		if err != nil {
			return nil, true, err
		}
		return &LazyAssignStatementNode{node: node{start}, Target: nameTok.lexeme, Expr: expr}, true, nil
	}

	if op, ok := augAssignOps[next]; ok {
		nameTok := p.advance()
		p.advance() // the op token
		expr, err := p.parseExpression()
		if err != nil {
			return nil, true, err
		}
		return &AugAssignStatementNode{node: node{start}, Target: nameTok.lexeme, Op: op, Expr: expr}, true, nil
	}

	return nil, false, nil
}

// ---- expressions ----

func (p *parser) parseExpression() (Node, error) {
	if lam, ok, err := p.tryParseLambda(); err != nil {
		return nil, err
	} else if ok {
		return lam, nil
	}
	return p.parseBoolOr()
}

func (p *parser) tryParseLambda() (Node, bool, error) {
	if p.cur().class != tkLParen {
		return nil, false, nil
	}
	m := p.mark()
	start := p.cur().pos

	params, err := p.tryParseBareParamList()
	if err != nil {
		p.reset(m)
		return nil, false, nil
	}
	if _, ok := p.match(tkFatArrow); !ok {
		p.reset(m)
		return nil, false, nil
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, true, err
	}
	return &LambdaNode{node: node{start}, Params: params, Body: body}, true, nil
}

// tryParseBareParamList parses "(" id ("," id)* ")" without tolerating any
// other token, returning an error (never consuming on failure relative to
// the caller's saved mark) so the lambda lookahead can cleanly backtrack.
func (p *parser) tryParseBareParamList() (ParamList, error) {
	if _, err := p.expect(tkLParen); err != nil {
		return ParamList{}, err
	}
	var names []string
	for p.cur().class != tkRParen {
		nameTok, ok := p.match(tkIdent)
		if !ok {
			return ParamList{}, p.errorf("not a parameter list")
		}
		names = append(names, nameTok.lexeme)
		if _, ok := p.match(tkComma); !ok {
			break
		}
	}
	if _, err := p.expect(tkRParen); err != nil {
		return ParamList{}, err
	}
	return ParamList{Names: names}, nil
}

func (p *parser) parseBoolOr() (Node, error) {
	return p.parseBoolChain(BoolOr, "or", p.parseBoolAnd)
}

func (p *parser) parseBoolAnd() (Node, error) {
	return p.parseBoolChain(BoolAnd, "and", p.parseCompare)
}

// parseBoolChain implements bool_or/bool_and uniformly: keyword is matched
// as literal identifier text rather than a lexer keyword, because "and"/
// "or" are not in the spec's reserved-word set (spec.md §4.1).
func (p *parser) parseBoolChain(kind BoolOpKind, keyword string, next func() (Node, error)) (Node, error) {
	start := p.cur().pos
	first, err := next()
	if err != nil {
		return nil, err
	}
	operands := []Node{first}
	for p.cur().class == tkIdent && p.cur().lexeme == keyword {
		p.advance()
		operand, err := next()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	return &BoolOpNode{node: node{start}, Op: kind, Operands: operands}, nil
}

var compareOps = map[tokenClass]CompareOpKind{
	tkEq:  CompareEQ,
	tkNeq: CompareNEQ,
	tkLt:  CompareLT,
	tkLte: CompareLTE,
	tkGt:  CompareGT,
	tkGte: CompareGTE,
}

func (p *parser) parseCompare() (Node, error) {
	start := p.cur().pos
	first, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	var rest []CompareLink
	for {
		if op, ok := compareOps[p.cur().class]; ok {
			p.advance()
			operand, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			rest = append(rest, CompareLink{Op: op, Operand: operand})
			continue
		}
		if p.cur().class == tkIn {
			p.advance()
			operand, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			rest = append(rest, CompareLink{Op: CompareIn, Operand: operand})
			continue
		}
		if p.cur().class == tkNot && p.at(1).class == tkIn {
			p.advance()
			p.advance()
			operand, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			rest = append(rest, CompareLink{Op: CompareNotIn, Operand: operand})
			continue
		}
		break
	}
	return &CompareOpNode{node: node{start}, First: first, Rest: rest}, nil
}

func (p *parser) parseAdditive() (Node, error) {
	start := p.cur().pos
	first, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	var rest []BinOpLink
	for p.cur().class == tkPlus || p.cur().class == tkMinus {
		var op BinOpKind
		if p.cur().class == tkPlus {
			op = BinAdd
		} else {
			op = BinSub
		}
		p.advance()
		operand, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		rest = append(rest, BinOpLink{Op: op, Operand: operand})
	}
	return &BinOpIntermediateNode{node: node{start}, First: first, Rest: rest}, nil
}

var multiplicativeOps = map[tokenClass]BinOpKind{
	tkStar:     BinMult,
	tkSlash:    BinTrueDiv,
	tkFloorDiv: BinFloorDiv,
	tkPercent:  BinMod,
}

func (p *parser) parseMultiplicative() (Node, error) {
	start := p.cur().pos
	first, err := p.parseExponential()
	if err != nil {
		return nil, err
	}
	var rest []BinOpLink
	for {
		op, ok := multiplicativeOps[p.cur().class]
		if !ok {
			break
		}
		p.advance()
		operand, err := p.parseExponential()
		if err != nil {
			return nil, err
		}
		rest = append(rest, BinOpLink{Op: op, Operand: operand})
	}
	return &BinOpIntermediateNode{node: node{start}, First: first, Rest: rest}, nil
}

func (p *parser) parseExponential() (Node, error) {
	start := p.cur().pos
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	var rest []BinOpLink
	for p.cur().class == tkPow {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		rest = append(rest, BinOpLink{Op: BinPow, Operand: operand})
	}
	return &BinOpIntermediateNode{node: node{start}, First: first, Rest: rest}, nil
}

func (p *parser) parseUnary() (Node, error) {
	start := p.cur().pos
	switch p.cur().class {
	case tkNot:
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{node: node{start}, Op: UnaryNot, Operand: operand}, nil
	case tkPlus, tkMinus, tkBang:
		if p.cur().tightFollow {
			tok := p.advance()
			operand, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			var kind UnaryOpKind
			switch tok.class {
			case tkPlus:
				kind = UnaryPlus
			case tkMinus:
				kind = UnaryMinus
			default:
				kind = UnaryNot
			}
			return &UnaryOpNode{node: node{start}, Op: kind, Operand: operand}, nil
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	if p.cur().class == tkIdent {
		if p.at(1).class == tkLParen {
			return p.parseCall()
		}
		if p.at(1).class == tkLBracket {
			return p.parseSubscript()
		}
	}
	switch p.cur().class {
	case tkNot, tkBang:
		return p.parseUnary()
	case tkPlus, tkMinus:
		if p.cur().tightFollow {
			return p.parseUnary()
		}
	}
	return p.parseAtom()
}

func (p *parser) parseCall() (Node, error) {
	start := p.cur().pos
	callee := p.advance().lexeme // identifier
	p.advance()                 // '('
	var args []Node
	for p.cur().class != tkRParen {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if _, ok := p.match(tkComma); !ok {
			break
		}
	}
	if _, err := p.expect(tkRParen); err != nil {
		return nil, err
	}
	return &CallNode{node: node{start}, Callee: callee, Args: args}, nil
}

func (p *parser) parseArgument() (Node, error) {
	start := p.cur().pos
	if p.cur().class == tkIdent && p.at(1).class == tkAssign {
		nameTok := p.advance()
		p.advance() // '='
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &KeywordArgumentNode{node: node{start}, Name: nameTok.lexeme, Expr: expr}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ArgumentNode{node: node{start}, Expr: expr}, nil
}

func (p *parser) parseSubscript() (Node, error) {
	start := p.cur().pos
	target := p.advance().lexeme // identifier
	p.advance()                  // '['
	idx, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tkRBracket); err != nil {
		return nil, err
	}
	return &SubscriptNode{node: node{start}, Target: target, Index: idx}, nil
}

func (p *parser) parseAtom() (Node, error) {
	start := p.cur().pos
	t := p.cur()
	switch t.class {
	case tkDate:
		p.advance()
		return &t.dateVal, nil
	case tkDateRange:
		p.advance()
		return &DateRangeNode{node: node{start}, Begin: t.dateVal, End: t.dateEnd}, nil
	case tkIdent:
		p.advance()
		return &NameNode{node: node{start}, Name: t.lexeme}, nil
	case tkNull:
		p.advance()
		return &NullNode{node{start}}, nil
	case tkTrue:
		p.advance()
		return &BoolNode{node: node{start}, Value: true}, nil
	case tkFalse:
		p.advance()
		return &BoolNode{node: node{start}, Value: false}, nil
	case tkQuotedString:
		p.advance()
		return &QuotedStringNode{node: node{start}, Value: t.lexeme}, nil
	case tkInt:
		p.advance()
		return &Int64Node{node: node{start}, Value: t.intVal, Lexeme: t.lexeme}, nil
	case tkUInt:
		p.advance()
		return &UInt64Node{node: node{start}, Value: t.uintVal, Lexeme: t.lexeme}, nil
	case tkDouble:
		p.advance()
		return &DoubleNode{node: node{start}, Value: t.doubleVal, Lexeme: t.lexeme}, nil
	case tkEllipsis:
		p.advance()
		return &EllipsisNode{node{start}}, nil
	case tkLParen:
		return p.parseParenOrTuple()
	case tkLBracket:
		return p.parseList()
	case tkLBrace:
		return p.parseDictOrSet()
	default:
		return nil, p.errorf("expecting an expression")
	}
}

func (p *parser) parseParenOrTuple() (Node, error) {
	start := p.advance().pos // '('
	if _, ok := p.match(tkRParen); ok {
		return &TupleNode{node: node{start}}, nil
	}
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur().class != tkComma {
		if _, err := p.expect(tkRParen); err != nil {
			return nil, err
		}
		return first, nil // a parenthesized group is just the inner expression
	}
	elems := []Node{first}
	for {
		if _, ok := p.match(tkComma); !ok {
			break
		}
		if p.cur().class == tkRParen {
			break // trailing comma
		}
		next, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if _, err := p.expect(tkRParen); err != nil {
		return nil, err
	}
	return &TupleNode{node: node{start}, Elements: elems}, nil
}

func (p *parser) parseList() (Node, error) {
	start := p.advance().pos // '['
	var elems []Node
	for p.cur().class != tkRBracket {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, expr)
		if _, ok := p.match(tkComma); !ok {
			break
		}
	}
	if _, err := p.expect(tkRBracket); err != nil {
		return nil, err
	}
	return &ListNode{node: node{start}, Elements: elems}, nil
}

func (p *parser) parseDictOrSet() (Node, error) {
	start := p.advance().pos // '{'
	if _, ok := p.match(tkRBrace); ok {
		return &DictNode{node: node{start}}, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, ok := p.match(tkColon); ok {
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		entries := []DictEntry{{Key: first, Value: val}}
		for {
			if _, ok := p.match(tkComma); !ok {
				break
			}
			if p.cur().class == tkRBrace {
				break
			}
			k, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tkColon); err != nil {
				return nil, err
			}
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, DictEntry{Key: k, Value: v})
		}
		if _, err := p.expect(tkRBrace); err != nil {
			return nil, err
		}
		return &DictNode{node: node{start}, Entries: entries}, nil
	}

	elems := []Node{first}
	for {
		if _, ok := p.match(tkComma); !ok {
			break
		}
		if p.cur().class == tkRBrace {
			break
		}
		next, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if _, err := p.expect(tkRBrace); err != nil {
		return nil, err
	}
	return &SetNode{node: node{start}, Elements: elems}, nil
}
