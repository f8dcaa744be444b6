// parser.go — recursive-descent parser for the rslogo turtle language.
//
// OVERVIEW
// --------
// The parser consumes the token queue strictly left to right, with no
// backtracking: every token kind dispatches to exactly one production. Logo
// operators are prefix ("+ 3 4"), so there is no precedence climbing — each
// production simply recurses for its operands.
//
// The parser enforces the syntactic *shape* discipline: every expression is
// classified as numeric-, boolean- or word-shaped (see Node.NumericShape and
// friends in ast.go), and each construct rejects operands of the wrong
// shape. Identifier references are provisionally compatible with all three
// shapes; when two references later resolve to different runtime tags, the
// interpreter raises the type error the parser could not. That two-layer
// looseness is deliberate — tightening it here would reject programs the
// language accepts.
//
// Procedure handling is the one piece of state carried across statements:
//   - A definition (TO name params... body END) records its parameter-name
//     list in a side table and stores the body on the node. Redefinition
//     silently replaces the recorded parameters.
//   - A call site looks the parameter list up and parses exactly one
//     expression per parameter, synthesizing an assignment node for each.
//     Argument binding is thereby compiled into the call site; the
//     interpreter just evaluates the synthesized assignments before the
//     stored body. A call to a name with no recorded parameters is a parse
//     error.
//
// The side table survives across Parse calls so that an interactive session
// can define a procedure in one submission and call it in the next.
package rslogo

import (
	"fmt"
	"strconv"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parser turns token queues into AST statement lists. The zero value is not
// usable; construct with NewParser.
type Parser struct {
	// procParams records each defined procedure's parameter names, in
	// declaration order, for use by later call sites.
	procParams map[string][]string

	toks []Token
	i    int
}

// NewParser creates a parser with an empty procedure side table.
func NewParser() *Parser {
	return &Parser{procParams: make(map[string][]string)}
}

// Parse consumes the token queue and returns the program's statement list.
// Procedure signatures recorded by earlier Parse calls remain visible.
func (p *Parser) Parse(tokens []Token) ([]*Node, error) {
	p.toks = tokens
	p.i = 0

	var ast []*Node
	for !p.atEnd() {
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		ast = append(ast, n)
	}
	return ast, nil
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                                   PRIVATE
////////////////////////////////////////////////////////////////////////////////

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *Parser) atEnd() bool { return p.i >= len(p.toks) }

func (p *Parser) peek() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	return p.toks[p.i], true
}

// next pops the front token, or fails with ErrUnexpectedEnd.
func (p *Parser) next() (Token, error) {
	if p.atEnd() {
		return Token{}, &ParseError{Kind: ErrUnexpectedEnd, Msg: "unexpected end of input while parsing program"}
	}
	t := p.toks[p.i]
	p.i++
	return t, nil
}

// ───────────────────────────────── dispatch ────────────────────────────────

// expr parses the next construct, statement or expression alike. Logo does
// not distinguish the two positions grammatically; the interpreter decides
// what a standalone expression means.
func (p *Parser) expr() (*Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &ParseError{Kind: ErrUnexpectedEnd, Msg: "unexpected end of input while parsing program"}
	}

	switch tok.Kind {
	case ARITHOP, COMPOP, BOOLOP:
		return p.binaryOp()
	case QUERY:
		return p.query()
	case IDENTREF:
		return p.identRef()
	case NUM:
		return p.num()
	case IDENT:
		// A bare identifier with no governing construct is an unbound
		// word literal, not an error.
		return p.word()
	case MAKEOP:
		return p.makeOp()
	case ADDASSIGN:
		return p.addAssign()
	case DIRECTION:
		return p.move()
	case IFSTMNT:
		return p.ifStatement()
	case WHILESTMNT:
		return p.whileStatement()
	case PENSTATUS:
		return p.penStatus()
	case PENCOLOR:
		return p.penColor()
	case PENPOS:
		return p.penPos()
	case PROCSTART:
		return p.procedure()
	case PROCNAME:
		return p.procedureCall()
	default:
		// LBRACKET/RBRACKET/PROCEND with no construct governing them.
		return nil, &ParseError{
			Kind: ErrExtraArg,
			Line: tok.Line,
			Col:  tok.Col,
			Msg:  fmt.Sprintf("extra trailing argument %q does not belong to any statement", tok.Value),
		}
	}
}

// ─────────────────────────────── terminals ─────────────────────────────────

func (p *Parser) num() (*Node, error) {
	tok, _ := p.next()
	// The lexer already validated the literal as a float32.
	f, _ := strconv.ParseFloat(tok.Value, 32)
	return &Node{Tag: NNum, Num: float32(f), Line: tok.Line}, nil
}

func (p *Parser) identRef() (*Node, error) {
	tok, _ := p.next()
	return &Node{Tag: NIdentRef, Name: tok.Value, Line: tok.Line}, nil
}

func (p *Parser) word() (*Node, error) {
	tok, _ := p.next()
	return &Node{Tag: NWord, Name: tok.Value, Line: tok.Line}, nil
}

func (p *Parser) query() (*Node, error) {
	tok, _ := p.next()
	var q QueryKind
	switch tok.Value {
	case "XCOR":
		q = QueryX
	case "YCOR":
		q = QueryY
	case "HEADING":
		q = QueryHeading
	default:
		q = QueryColor
	}
	return &Node{Tag: NQuery, Query: q, Line: tok.Line}, nil
}

// ────────────────────────────── expressions ────────────────────────────────

func (p *Parser) binaryOp() (*Node, error) {
	op, _ := p.next()

	left, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: first argument to operator %q is invalid: %w", op.Line, op.Value, err)
	}
	right, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: second argument to operator %q is invalid: %w", op.Line, op.Value, err)
	}

	switch op.Kind {
	case ARITHOP:
		if !left.NumericShape() || !right.NumericShape() {
			return nil, &ParseError{
				Kind: ErrNonNumericExpr,
				Line: op.Line,
				Col:  op.Col,
				Msg:  fmt.Sprintf("expression passed to %q will not produce a float", op.Value),
			}
		}
		return &Node{Tag: NArith, Op: op.Value, Left: left, Right: right, Line: op.Line}, nil

	case COMPOP:
		if op.Value == "GT" || op.Value == "LT" {
			if !left.NumericShape() || !right.NumericShape() {
				return nil, &ParseError{
					Kind: ErrNonNumericExpr,
					Line: op.Line,
					Col:  op.Col,
					Msg:  fmt.Sprintf("arguments to %s must produce floats", op.Value),
				}
			}
		} else {
			// EQ/NE accept any shape as long as the operands can agree.
			// Identifier references are provisionally compatible with
			// every shape; the interpreter settles the real tags.
			agree := (left.NumericShape() && right.NumericShape()) ||
				(left.BooleanShape() && right.BooleanShape()) ||
				(left.WordShape() && right.WordShape())
			if !agree {
				return nil, &ParseError{
					Kind: ErrNonBooleanExpr,
					Line: op.Line,
					Col:  op.Col,
					Msg:  fmt.Sprintf("expression passed to %q will not produce a boolean", op.Value),
				}
			}
		}
		return &Node{Tag: NComp, Op: op.Value, Left: left, Right: right, Line: op.Line}, nil

	default: // BOOLOP
		if !left.BooleanShape() || !right.BooleanShape() {
			return nil, &ParseError{
				Kind: ErrNonBooleanExpr,
				Line: op.Line,
				Col:  op.Col,
				Msg:  fmt.Sprintf("expression passed to %q will not produce a boolean", op.Value),
			}
		}
		return &Node{Tag: NBool, Op: op.Value, Left: left, Right: right, Line: op.Line}, nil
	}
}

// ─────────────────────────────── statements ────────────────────────────────

func (p *Parser) makeOp() (*Node, error) {
	makeTok, _ := p.next()

	ident, err := p.next()
	if err != nil {
		return nil, err
	}
	if ident.Kind != IDENT {
		return nil, &ParseError{
			Kind: ErrIncorrectArgType,
			Line: ident.Line,
			Col:  ident.Col,
			Msg:  fmt.Sprintf("MAKE expected a variable name, received %q", ident.Value),
		}
	}

	expr, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: invalid MAKE statement: failed to parse expression bound to %q: %w",
			ident.Line, ident.Value, err)
	}
	if !expr.NumericShape() && !expr.BooleanShape() && !expr.WordShape() {
		return nil, &ParseError{
			Kind: ErrIncorrectArgType,
			Line: makeTok.Line,
			Col:  makeTok.Col,
			Msg:  fmt.Sprintf("expression bound to %q must produce a float, boolean or word", ident.Value),
		}
	}

	return &Node{Tag: NMake, Name: ident.Value, Expr: expr, Line: makeTok.Line}, nil
}

func (p *Parser) addAssign() (*Node, error) {
	kw, _ := p.next()

	target, err := p.next()
	if err != nil {
		return nil, err
	}
	if target.Kind != IDENT {
		return nil, &ParseError{
			Kind: ErrBadAssignTarget,
			Line: target.Line,
			Col:  target.Col,
			Msg:  fmt.Sprintf("ADDASSIGN expected a variable name, received %q", target.Value),
		}
	}

	expr, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: invalid ADDASSIGN statement: failed to parse expression added to %q: %w",
			kw.Line, target.Value, err)
	}
	if !expr.NumericShape() {
		return nil, &ParseError{
			Kind: ErrIncorrectArgType,
			Line: kw.Line,
			Col:  kw.Col,
			Msg:  fmt.Sprintf("value added to %q must produce a float", target.Value),
		}
	}

	return &Node{Tag: NAddAssign, Name: target.Value, Expr: expr, Line: kw.Line}, nil
}

func (p *Parser) move() (*Node, error) {
	dirTok, _ := p.next()

	dist, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: invalid %s statement: failed to parse distance: %w",
			dirTok.Line, dirTok.Value, err)
	}
	if !dist.NumericShape() {
		return nil, &ParseError{
			Kind: ErrIncorrectArgType,
			Line: dirTok.Line,
			Col:  dirTok.Col,
			Msg:  fmt.Sprintf("distance passed to %s must produce a float", dirTok.Value),
		}
	}

	var dir Direction
	switch dirTok.Value {
	case "FORWARD":
		dir = Forward
	case "BACK":
		dir = Back
	case "LEFT":
		dir = Left
	default:
		dir = Right
	}
	return &Node{Tag: NMove, Dir: dir, Expr: dist, Line: dirTok.Line}, nil
}

func (p *Parser) penStatus() (*Node, error) {
	tok, _ := p.next()
	return &Node{Tag: NPenStatus, PenDown: tok.Value == "PENDOWN", Line: tok.Line}, nil
}

func (p *Parser) penColor() (*Node, error) {
	kw, _ := p.next()

	expr, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: invalid SETPENCOLOR statement: %w", kw.Line, err)
	}
	if !expr.NumericShape() {
		return nil, &ParseError{
			Kind: ErrIncorrectArgType,
			Line: kw.Line,
			Col:  kw.Col,
			Msg:  "argument to SETPENCOLOR must produce a float",
		}
	}
	return &Node{Tag: NPenColor, Expr: expr, Line: kw.Line}, nil
}

func (p *Parser) penPos() (*Node, error) {
	kw, _ := p.next()

	expr, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: invalid %s statement: %w", kw.Line, kw.Value, err)
	}
	if !expr.NumericShape() {
		return nil, &ParseError{
			Kind: ErrIncorrectArgType,
			Line: kw.Line,
			Col:  kw.Col,
			Msg:  fmt.Sprintf("argument to %s must produce a float", kw.Value),
		}
	}

	var pos PenPosKind
	switch kw.Value {
	case "SETX":
		pos = SetX
	case "SETY":
		pos = SetY
	case "SETHEADING":
		pos = SetHeading
	default:
		pos = Turn
	}
	return &Node{Tag: NPenPos, Pos: pos, Expr: expr, Line: kw.Line}, nil
}

// ────────────────────────────── control flow ───────────────────────────────

func (p *Parser) ifStatement() (*Node, error) {
	kw, _ := p.next()

	cond, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: invalid IF statement condition: %w", kw.Line, err)
	}
	if !cond.BooleanShape() {
		return nil, &ParseError{
			Kind: ErrNonBooleanExpr,
			Line: kw.Line,
			Col:  kw.Col,
			Msg:  "IF condition must produce a boolean",
		}
	}

	body, err := p.bracketBody("IF", kw.Line, kw.Col)
	if err != nil {
		return nil, err
	}
	return &Node{Tag: NIf, Cond: cond, Body: body, Line: kw.Line}, nil
}

func (p *Parser) whileStatement() (*Node, error) {
	kw, _ := p.next()

	cond, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("[line %d]: invalid WHILE statement condition: %w", kw.Line, err)
	}
	if !cond.BooleanShape() {
		return nil, &ParseError{
			Kind: ErrNonBooleanExpr,
			Line: kw.Line,
			Col:  kw.Col,
			Msg:  "WHILE condition must produce a boolean",
		}
	}

	body, err := p.bracketBody("WHILE", kw.Line, kw.Col)
	if err != nil {
		return nil, err
	}
	return &Node{Tag: NWhile, Cond: cond, Body: body, Line: kw.Line}, nil
}

// bracketBody parses "[ statements... ]" for an IF or WHILE statement. The
// line and column locate the statement keyword for end-of-input reporting.
func (p *Parser) bracketBody(stmt string, line, col int) ([]*Node, error) {
	open, ok := p.peek()
	if !ok {
		return nil, &ParseError{
			Kind: ErrMissingBracket,
			Line: line,
			Col:  col,
			Msg:  fmt.Sprintf("%s statement is missing bracket: expected %q, reached end of input", stmt, "["),
		}
	}
	if open.Kind != LBRACKET {
		return nil, &ParseError{
			Kind: ErrMissingBracket,
			Line: open.Line,
			Col:  open.Col,
			Msg:  fmt.Sprintf("%s statement is missing bracket: expected %q, received %q", stmt, "[", open.Value),
		}
	}
	p.i++

	var body []*Node
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, &ParseError{
				Kind: ErrMissingBracket,
				Line: line,
				Col:  col,
				Msg:  fmt.Sprintf("%s statement is missing bracket: expected %q, reached end of input", stmt, "]"),
			}
		}
		if tok.Kind == RBRACKET {
			p.i++
			return body, nil
		}
		n, err := p.expr()
		if err != nil {
			return nil, fmt.Errorf("[line %d]: invalid expression in body of %s statement: %w", line, stmt, err)
		}
		body = append(body, n)
	}
}

// ─────────────────────────────── procedures ────────────────────────────────

func (p *Parser) procedure() (*Node, error) {
	kw, _ := p.next()

	nameTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if nameTok.Kind != PROCNAME {
		return nil, &ParseError{
			Kind: ErrBadProcName,
			Line: nameTok.Line,
			Col:  nameTok.Col,
			Msg:  fmt.Sprintf("invalid procedure name %q: procedure names must be alphabetic and must not collide with a keyword", nameTok.Value),
		}
	}

	// Zero or more IDENT tokens form the parameter list; the first
	// non-IDENT token starts the body.
	var params []string
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != IDENT {
			break
		}
		params = append(params, tok.Value)
		p.i++
	}

	// Record the signature before parsing the body so the procedure can
	// call itself. Redefinition silently replaces the recorded list.
	p.procParams[nameTok.Value] = params

	var body []*Node
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, &ParseError{
				Kind: ErrMissingProcEnd,
				Line: kw.Line,
				Col:  kw.Col,
				Msg:  fmt.Sprintf("procedure %s is missing its END terminator", nameTok.Value),
			}
		}
		if tok.Kind == PROCEND {
			p.i++
			break
		}
		n, err := p.expr()
		if err != nil {
			return nil, fmt.Errorf("[line %d]: invalid statement in body of procedure %s: %w", kw.Line, nameTok.Value, err)
		}
		body = append(body, n)
	}

	return &Node{Tag: NProc, Name: nameTok.Value, Body: body, Line: kw.Line}, nil
}

// procedureCall compiles argument binding into the call site: one parsed
// expression per declared parameter, each wrapped in a synthesized
// assignment node. The interpreter evaluates those assignments against the
// shared global environment before running the stored body.
func (p *Parser) procedureCall() (*Node, error) {
	nameTok, _ := p.next()

	params, ok := p.procParams[nameTok.Value]
	if !ok {
		return nil, &ParseError{
			Kind: ErrUnknownProc,
			Line: nameTok.Line,
			Col:  nameTok.Col,
			Msg:  fmt.Sprintf("referenced procedure %s does not exist", nameTok.Value),
		}
	}

	args := make([]*Node, 0, len(params))
	for i, param := range params {
		expr, err := p.expr()
		if err != nil {
			return nil, fmt.Errorf("[line %d]: argument %d of call to %s is invalid: %w",
				nameTok.Line, i+1, nameTok.Value, err)
		}
		args = append(args, &Node{Tag: NMake, Name: param, Expr: expr, Line: nameTok.Line})
	}

	return &Node{Tag: NProcCall, Name: nameTok.Value, Args: args, Line: nameTok.Line}, nil
}
