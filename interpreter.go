// interpreter.go — tree-walking evaluator for the rslogo turtle language.
//
// OVERVIEW
// --------
// The interpreter walks the statement list the parser produced, maintaining
// three pieces of state:
//
//   - the turtle: position, heading, pen color index and pen status. The
//     turtle starts at the canvas center, heading 0, color 7, pen up.
//   - the environment: ONE flat variable table (see runtime.go). Procedure
//     parameters bind into the same table, so procedures see and mutate
//     their caller's variables.
//   - the procedure table: name -> body. Bodies are the parser's []*Node
//     slices, stored by reference; a definition executed twice stores the
//     same backing array twice, never a copy.
//
// Execution is strictly sequential and the first error aborts the program.
// All type errors the parser's shape analysis could not rule out surface
// here as *RuntimeError values with the offending source line.
//
// Drawing is delegated: a pen-down move calls Canvas.DrawLine and adopts
// whatever endpoint the canvas reports, a pen-up move computes its endpoint
// with EndCoordinates. The turtle may travel beyond the canvas bounds; only
// drawn pixels are clipped, by the canvas.
package rslogo

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Interpreter evaluates parsed programs against a canvas.
type Interpreter struct {
	canvas Canvas
	env    *Env
	procs  map[string][]*Node

	x, y    float32
	heading float32
	color   int
	penDown bool
}

// NewInterpreter creates an interpreter whose turtle sits at the center of
// canvas with heading 0, pen up, pen color 7.
func NewInterpreter(canvas Canvas) *Interpreter {
	w, h := canvas.Size()
	return &Interpreter{
		canvas: canvas,
		env:    NewEnv(),
		procs:  make(map[string][]*Node),
		x:      float32(w) / 2,
		y:      float32(h) / 2,
		color:  7,
	}
}

// Run executes the statement list in order. The first failing statement
// aborts the run and its error is returned; state changes made by earlier
// statements persist, which is what lets an interactive session continue
// after an error.
func (in *Interpreter) Run(ast []*Node) error {
	for _, n := range ast {
		if err := in.exec(n); err != nil {
			return err
		}
	}
	return nil
}

// Position reports the turtle's current coordinates.
func (in *Interpreter) Position() (float32, float32) { return in.x, in.y }

// Heading reports the turtle's heading in degrees. Fractional turns
// accumulate; whole degrees are only required at the draw boundary.
func (in *Interpreter) Heading() float32 { return in.heading }

// PenColor reports the current pen color index.
func (in *Interpreter) PenColor() int { return in.color }

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                                   PRIVATE
////////////////////////////////////////////////////////////////////////////////

// ───────────────────────────── statement walk ──────────────────────────────

func (in *Interpreter) exec(n *Node) error {
	switch n.Tag {
	case NMake:
		return in.execMake(n)
	case NAddAssign:
		return in.execAddAssign(n)
	case NMove:
		return in.execMove(n)
	case NPenStatus:
		in.penDown = n.PenDown
		return nil
	case NPenColor:
		return in.execPenColor(n)
	case NPenPos:
		return in.execPenPos(n)
	case NIf:
		return in.execIf(n)
	case NWhile:
		return in.execWhile(n)
	case NProc:
		// Store the body by reference. Redefinition replaces the old body.
		in.procs[n.Name] = n.Body
		return nil
	case NProcCall:
		return in.execProcCall(n)
	case NWord:
		// A bare word at statement level binds the word to itself.
		in.env.Define(n.Name, Word(n.Name))
		return nil
	case NArith, NComp, NBool:
		// Standalone expressions are evaluated for their errors and the
		// result is discarded.
		_, err := in.evalValue(n)
		return err
	default:
		// Bare numbers, references and queries have no statement effect.
		return nil
	}
}

func (in *Interpreter) execMake(n *Node) error {
	v, err := in.evalValue(n.Expr)
	if err != nil {
		return fmt.Errorf("[line %d]: while evaluating the value bound to %q: %w", n.Line, n.Name, err)
	}
	in.env.Define(n.Name, v)
	return nil
}

func (in *Interpreter) execAddAssign(n *Node) error {
	add, err := in.evalNumeric(n.Expr)
	if err != nil {
		return fmt.Errorf("[line %d]: while evaluating the value added to %q: %w", n.Line, n.Name, err)
	}

	cur, ok := in.env.Get(n.Name)
	if !ok {
		return &RuntimeError{
			Kind: ErrUnboundVariable,
			Line: n.Line,
			Msg:  fmt.Sprintf("cannot ADDASSIGN to %q: variable does not exist", n.Name),
		}
	}
	if cur.Tag != VTFloat {
		return &RuntimeError{
			Kind: ErrTypeMismatch,
			Line: n.Line,
			Msg:  fmt.Sprintf("cannot ADDASSIGN to %q: it holds a %s, not a float", n.Name, cur.Tag),
		}
	}

	in.env.Define(n.Name, Float(cur.Data.(float32)+add))
	return nil
}

func (in *Interpreter) execMove(n *Node) error {
	dist, err := in.evalNumeric(n.Expr)
	if err != nil {
		return fmt.Errorf("[line %d]: while evaluating the distance passed to %s: %w", n.Line, n.Dir, err)
	}

	// The heading keeps its fraction; whole degrees are the canvas contract,
	// so truncation happens here and nowhere else.
	heading := int(in.heading + float32(n.Dir.Offset()))
	if in.penDown {
		nx, ny, err := in.canvas.DrawLine(in.x, in.y, heading, dist, in.color)
		if err != nil {
			return &RuntimeError{
				Kind:  ErrDrawLine,
				Line:  n.Line,
				Msg:   fmt.Sprintf("%s %v failed: %v", n.Dir, dist, err),
				cause: err,
			}
		}
		in.x, in.y = nx, ny
		return nil
	}
	in.x, in.y = EndCoordinates(in.x, in.y, heading, dist)
	return nil
}

func (in *Interpreter) execPenColor(n *Node) error {
	v, err := in.evalNumeric(n.Expr)
	if err != nil {
		return fmt.Errorf("[line %d]: while evaluating the argument to SETPENCOLOR: %w", n.Line, err)
	}
	// Only whole numbers in the palette range are valid pen colors.
	if v != float32(int(v)) || v < 0 || v > 15 {
		return &RuntimeError{
			Kind: ErrPenColor,
			Line: n.Line,
			Msg:  fmt.Sprintf("%v is not a valid pen color: expected an integer between 0 and 15", v),
		}
	}
	in.color = int(v)
	return nil
}

func (in *Interpreter) execPenPos(n *Node) error {
	v, err := in.evalNumeric(n.Expr)
	if err != nil {
		return fmt.Errorf("[line %d]: while evaluating the argument to %s: %w", n.Line, n.Pos, err)
	}

	switch n.Pos {
	case SetX:
		in.x = v
	case SetY:
		in.y = v
	case SetHeading:
		in.heading = v
	default: // Turn
		in.heading += v
	}
	return nil
}

func (in *Interpreter) execIf(n *Node) error {
	cond, err := in.evalLogic(n.Cond)
	if err != nil {
		return fmt.Errorf("[line %d]: while evaluating IF condition: %w", n.Line, err)
	}
	if !cond {
		return nil
	}
	return in.Run(n.Body)
}

// execWhile re-evaluates the condition before every pass, so variables the
// body mutates steer the loop. A condition that is false from the start
// skips the body entirely.
func (in *Interpreter) execWhile(n *Node) error {
	for {
		cond, err := in.evalLogic(n.Cond)
		if err != nil {
			return fmt.Errorf("[line %d]: while evaluating WHILE condition: %w", n.Line, err)
		}
		if !cond {
			return nil
		}
		if err := in.Run(n.Body); err != nil {
			return err
		}
	}
}

// execProcCall runs the synthesized argument bindings against the global
// environment, then the stored body. Arguments are evaluated left to right,
// so an argument expression may read a parameter an earlier argument just
// bound — that aliasing is a documented consequence of the flat namespace.
func (in *Interpreter) execProcCall(n *Node) error {
	body, ok := in.procs[n.Name]
	if !ok {
		// The parser rejects calls to unknown procedures, but a body
		// defined inside a never-taken branch leaves the table empty.
		return &RuntimeError{
			Kind: ErrUnknownProcedure,
			Line: n.Line,
			Msg:  fmt.Sprintf("procedure %s has not been defined", n.Name),
		}
	}

	for _, arg := range n.Args {
		if err := in.exec(arg); err != nil {
			return fmt.Errorf("[line %d]: while binding arguments of call to %s: %w", n.Line, n.Name, err)
		}
	}
	if err := in.Run(body); err != nil {
		return fmt.Errorf("[line %d]: in procedure %s: %w", n.Line, n.Name, err)
	}
	return nil
}

// ─────────────────────────── expression evaluation ─────────────────────────

// evalValue evaluates any expression node to a runtime Value.
func (in *Interpreter) evalValue(n *Node) (Value, error) {
	switch n.Tag {
	case NNum:
		return Float(n.Num), nil
	case NWord:
		return Word(n.Name), nil
	case NIdentRef:
		v, ok := in.env.Get(n.Name)
		if !ok {
			return Value{}, &RuntimeError{
				Kind: ErrUnboundVariable,
				Line: n.Line,
				Msg:  fmt.Sprintf("variable %q does not exist", n.Name),
			}
		}
		return v, nil
	case NQuery:
		return Float(in.queryValue(n.Query)), nil
	case NArith:
		f, err := in.evalArith(n)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case NComp:
		b, err := in.evalComp(n)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case NBool:
		b, err := in.evalBool(n)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	default:
		return Value{}, &RuntimeError{
			Kind: ErrTypeMismatch,
			Line: n.Line,
			Msg:  "statement used where a value was expected",
		}
	}
}

// evalNumeric evaluates n and requires a float.
func (in *Interpreter) evalNumeric(n *Node) (float32, error) {
	v, err := in.evalValue(n)
	if err != nil {
		return 0, err
	}
	if v.Tag != VTFloat {
		return 0, &RuntimeError{
			Kind: ErrTypeMismatch,
			Line: n.Line,
			Msg:  fmt.Sprintf("expected a float, found the %s %s", v.Tag, v),
		}
	}
	return v.Data.(float32), nil
}

// evalLogic evaluates n and requires a boolean.
func (in *Interpreter) evalLogic(n *Node) (bool, error) {
	v, err := in.evalValue(n)
	if err != nil {
		return false, err
	}
	if v.Tag != VTBool {
		return false, &RuntimeError{
			Kind: ErrTypeMismatch,
			Line: n.Line,
			Msg:  fmt.Sprintf("expected a boolean, found the %s %s", v.Tag, v),
		}
	}
	return v.Data.(bool), nil
}

func (in *Interpreter) evalArith(n *Node) (float32, error) {
	l, err := in.evalNumeric(n.Left)
	if err != nil {
		return 0, fmt.Errorf("[line %d]: first argument to %q: %w", n.Line, n.Op, err)
	}
	r, err := in.evalNumeric(n.Right)
	if err != nil {
		return 0, fmt.Errorf("[line %d]: second argument to %q: %w", n.Line, n.Op, err)
	}

	switch n.Op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	default: // "/" follows IEEE float semantics, including division by zero
		return l / r, nil
	}
}

func (in *Interpreter) evalComp(n *Node) (bool, error) {
	if n.Op == "GT" || n.Op == "LT" {
		l, err := in.evalNumeric(n.Left)
		if err != nil {
			return false, fmt.Errorf("[line %d]: first argument to %s: %w", n.Line, n.Op, err)
		}
		r, err := in.evalNumeric(n.Right)
		if err != nil {
			return false, fmt.Errorf("[line %d]: second argument to %s: %w", n.Line, n.Op, err)
		}
		if n.Op == "GT" {
			return l > r, nil
		}
		return l < r, nil
	}

	// EQ/NE compare values of any kind, but the kinds must agree.
	l, err := in.evalValue(n.Left)
	if err != nil {
		return false, fmt.Errorf("[line %d]: first argument to %s: %w", n.Line, n.Op, err)
	}
	r, err := in.evalValue(n.Right)
	if err != nil {
		return false, fmt.Errorf("[line %d]: second argument to %s: %w", n.Line, n.Op, err)
	}
	if l.Tag != r.Tag {
		return false, &RuntimeError{
			Kind: ErrTypeMismatch,
			Line: n.Line,
			Msg:  fmt.Sprintf("cannot compare a %s with a %s", l.Tag, r.Tag),
		}
	}
	if n.Op == "EQ" {
		return l.Equal(r), nil
	}
	return !l.Equal(r), nil
}

func (in *Interpreter) evalBool(n *Node) (bool, error) {
	l, err := in.evalLogic(n.Left)
	if err != nil {
		return false, fmt.Errorf("[line %d]: first argument to %s: %w", n.Line, n.Op, err)
	}
	r, err := in.evalLogic(n.Right)
	if err != nil {
		return false, fmt.Errorf("[line %d]: second argument to %s: %w", n.Line, n.Op, err)
	}
	if n.Op == "AND" {
		return l && r, nil
	}
	return l || r, nil
}

func (in *Interpreter) queryValue(q QueryKind) float32 {
	switch q {
	case QueryX:
		return in.x
	case QueryY:
		return in.y
	case QueryHeading:
		return in.heading
	default:
		return float32(in.color)
	}
}
