package rslogo

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// spyCanvas records every DrawLine call and computes endpoints without
// touching pixels. Size zero puts the turtle at the origin.
type spyCanvas struct {
	w, h  int
	calls []spyCall
}

type spyCall struct {
	x, y    float32
	heading int
	dist    float32
	color   int
}

func (c *spyCanvas) Size() (int, int) { return c.w, c.h }

func (c *spyCanvas) DrawLine(x, y float32, headingDeg int, dist float32, colorIdx int) (float32, float32, error) {
	c.calls = append(c.calls, spyCall{x, y, headingDeg, dist, colorIdx})
	nx, ny := EndCoordinates(x, y, headingDeg, dist)
	return nx, ny, nil
}

// failCanvas rejects every draw.
type failCanvas struct{}

func (failCanvas) Size() (int, int) { return 0, 0 }
func (failCanvas) DrawLine(x, y float32, _ int, _ float32, _ int) (float32, float32, error) {
	return x, y, fmt.Errorf("surface unavailable")
}

func runOn(in *Interpreter, src string) error {
	toks, err := Lex(src)
	if err != nil {
		return err
	}
	ast, err := NewParser().Parse(toks)
	if err != nil {
		return err
	}
	return in.Run(ast)
}

func runProgram(t *testing.T, canvas Canvas, src string) *Interpreter {
	t.Helper()
	in := NewInterpreter(canvas)
	if err := runOn(in, src); err != nil {
		t.Fatalf("program failed: %v\nsource:\n%s", err, src)
	}
	return in
}

func wantVar(t *testing.T, in *Interpreter, name string, want Value) {
	t.Helper()
	got, ok := in.env.Get(name)
	if !ok {
		t.Fatalf("variable %q is not bound", name)
	}
	if !got.Equal(want) {
		t.Fatalf("variable %q: got %v (%s), want %v (%s)", name, got, got.Tag, want, want.Tag)
	}
}

func wantRuntimeErr(t *testing.T, canvas Canvas, src string, kind RuntimeErrKind) *RuntimeError {
	t.Helper()
	err := runOn(NewInterpreter(canvas), src)
	if err == nil {
		t.Fatalf("program succeeded, want a runtime error\nsource:\n%s", src)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("got %v, want a *RuntimeError", err)
	}
	if re.Kind != kind {
		t.Fatalf("got kind %d (%v), want kind %d", re.Kind, re, kind)
	}
	return re
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

// ─────────────────────────── variables & values ────────────────────────────

func Test_Interpreter_MakeBindsEveryValueKind(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
MAKE "n + "2 "3
MAKE "b EQ "1 "1
MAKE "w "hello
`)
	wantVar(t, in, "n", Float(5))
	wantVar(t, in, "b", Bool(true))
	wantVar(t, in, "w", Word("hello"))
}

func Test_Interpreter_RedefinitionOverwrites(t *testing.T) {
	// The newest binding wins, even across value kinds.
	in := runProgram(t, &spyCanvas{}, `
MAKE "x "1
MAKE "x "banana
`)
	wantVar(t, in, "x", Word("banana"))
}

func Test_Interpreter_UnboundReferenceFails(t *testing.T) {
	wantRuntimeErr(t, &spyCanvas{}, `MAKE "x + :ghost "1`, ErrUnboundVariable)
}

func Test_Interpreter_AddAssign(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
MAKE "x "10
ADDASSIGN "x "2.5
`)
	wantVar(t, in, "x", Float(12.5))
}

func Test_Interpreter_AddAssignNeedsExistingBinding(t *testing.T) {
	wantRuntimeErr(t, &spyCanvas{}, `ADDASSIGN "x "1`, ErrUnboundVariable)
}

func Test_Interpreter_AddAssignNeedsFloatBinding(t *testing.T) {
	wantRuntimeErr(t, &spyCanvas{}, "MAKE \"x \"word\nADDASSIGN \"x \"1", ErrTypeMismatch)
}

func Test_Interpreter_BareWordBindsItself(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, "\"hello\nMAKE \"x :hello")
	wantVar(t, in, "x", Word("hello"))
}

// ───────────────────────────── expressions ─────────────────────────────────

func Test_Interpreter_Arithmetic(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
MAKE "a - "10 "4
MAKE "b * "3 "2.5
MAKE "c / "9 "2
`)
	wantVar(t, in, "a", Float(6))
	wantVar(t, in, "b", Float(7.5))
	wantVar(t, in, "c", Float(4.5))
}

func Test_Interpreter_Comparisons(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
MAKE "eq EQ "2 "2
MAKE "ne NE "abc "abc
MAKE "gt GT "3 "2
MAKE "lt LT "3 "2
`)
	wantVar(t, in, "eq", Bool(true))
	wantVar(t, in, "ne", Bool(false))
	wantVar(t, in, "gt", Bool(true))
	wantVar(t, in, "lt", Bool(false))
}

func Test_Interpreter_ComparingDifferentKindsFails(t *testing.T) {
	// The parser lets EQ :a :b through; the tags disagree only at run time.
	wantRuntimeErr(t, &spyCanvas{}, `
MAKE "a "1
MAKE "b "one
MAKE "c EQ :a :b
`, ErrTypeMismatch)
}

func Test_Interpreter_BooleanOperators(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
MAKE "t EQ "1 "1
MAKE "f NE "1 "1
MAKE "and AND :t :f
MAKE "or OR :t :f
`)
	wantVar(t, in, "and", Bool(false))
	wantVar(t, in, "or", Bool(true))
}

func Test_Interpreter_BooleanOperatorRejectsFloatReference(t *testing.T) {
	wantRuntimeErr(t, &spyCanvas{}, "MAKE \"n \"1\nMAKE \"x AND :n :n", ErrTypeMismatch)
}

// ─────────────────────────────── movement ──────────────────────────────────

func Test_Interpreter_ForwardProjectsAlongHeading(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `FORWARD "10`)

	x, y := in.Position()
	if x != 0 || y != 10 {
		t.Fatalf("got position (%g, %g), want (0, 10)", x, y)
	}
}

func Test_Interpreter_DirectionsOffsetHeading(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, "BACK \"10")
	if _, y := in.Position(); !near(y, -10) {
		t.Fatalf("BACK 10: got y %g, want -10", y)
	}

	in = runProgram(t, &spyCanvas{}, "LEFT \"10")
	if x, _ := in.Position(); !near(x, -10) {
		t.Fatalf("LEFT 10: got x %g, want -10", x)
	}

	in = runProgram(t, &spyCanvas{}, "RIGHT \"10")
	if x, _ := in.Position(); !near(x, 10) {
		t.Fatalf("RIGHT 10: got x %g, want 10", x)
	}
}

func Test_Interpreter_TurtleStartsAtCanvasCenter(t *testing.T) {
	spy := &spyCanvas{w: 200, h: 100}
	in := NewInterpreter(spy)

	x, y := in.Position()
	if x != 100 || y != 50 {
		t.Fatalf("got start position (%g, %g), want (100, 50)", x, y)
	}
	if in.Heading() != 0 || in.PenColor() != 7 {
		t.Fatalf("got heading %g color %d, want 0 and 7", in.Heading(), in.PenColor())
	}
}

func Test_Interpreter_PenUpMovesWithoutDrawing(t *testing.T) {
	spy := &spyCanvas{}
	runProgram(t, spy, `FORWARD "10`)

	if len(spy.calls) != 0 {
		t.Fatalf("got %d draw calls, want 0 while the pen is up", len(spy.calls))
	}
}

func Test_Interpreter_PenDownDelegatesToCanvas(t *testing.T) {
	spy := &spyCanvas{}
	in := runProgram(t, spy, "PENDOWN\nFORWARD \"10\nPENUP\nFORWARD \"5")

	if len(spy.calls) != 1 {
		t.Fatalf("got %d draw calls, want 1", len(spy.calls))
	}
	call := spy.calls[0]
	if call.x != 0 || call.y != 0 || call.heading != 0 || call.dist != 10 || call.color != 7 {
		t.Fatalf("got draw call %+v, want 10 at heading 0 from the origin in color 7", call)
	}
	// The endpoint the canvas reported becomes the turtle position, and
	// the later pen-up move continues from it.
	if _, y := in.Position(); y != 15 {
		t.Fatalf("got y %g, want 15", y)
	}
}

func Test_Interpreter_DrawFailureAborts(t *testing.T) {
	re := wantRuntimeErr(t, failCanvas{}, "PENDOWN\nFORWARD \"10", ErrDrawLine)
	if re.Unwrap() == nil {
		t.Fatalf("draw failure did not retain its cause")
	}
}

// ───────────────────────────── pen & queries ───────────────────────────────

func Test_Interpreter_PenColorValidation(t *testing.T) {
	wantRuntimeErr(t, &spyCanvas{}, `SETPENCOLOR "16`, ErrPenColor)
	wantRuntimeErr(t, &spyCanvas{}, `SETPENCOLOR "2.5`, ErrPenColor)
	wantRuntimeErr(t, &spyCanvas{}, `SETPENCOLOR "-1`, ErrPenColor)

	in := runProgram(t, &spyCanvas{}, "SETPENCOLOR \"3\nMAKE \"c COLOR")
	wantVar(t, in, "c", Float(3))
}

func Test_Interpreter_PositionAndHeadingStatements(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
SETX "40
SETY "30
SETHEADING "90
TURN "45
`)
	x, y := in.Position()
	if x != 40 || y != 30 {
		t.Fatalf("got position (%g, %g), want (40, 30)", x, y)
	}
	if in.Heading() != 135 {
		t.Fatalf("got heading %g, want 135", in.Heading())
	}
}

func Test_Interpreter_FractionalTurnsAccumulate(t *testing.T) {
	// Half-degree turns add up; nothing rounds until a move reaches the
	// canvas.
	in := runProgram(t, &spyCanvas{}, `
TURN "0.5
TURN "0.5
MAKE "h HEADING
`)
	wantVar(t, in, "h", Float(1))
	if in.Heading() != 1 {
		t.Fatalf("got heading %g, want 1", in.Heading())
	}

	in = runProgram(t, &spyCanvas{}, `SETHEADING "90.25`)
	if in.Heading() != 90.25 {
		t.Fatalf("got heading %g, want 90.25", in.Heading())
	}
}

func Test_Interpreter_MoveTruncatesHeadingAtDrawBoundary(t *testing.T) {
	spy := &spyCanvas{}
	runProgram(t, spy, "PENDOWN\nTURN \"45.9\nFORWARD \"10")

	if len(spy.calls) != 1 {
		t.Fatalf("got %d draw calls, want 1", len(spy.calls))
	}
	if spy.calls[0].heading != 45 {
		t.Fatalf("got heading %d at the canvas, want 45", spy.calls[0].heading)
	}
}

func Test_Interpreter_QueriesReadTurtleState(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
SETX "7
SETHEADING "180
MAKE "x XCOR
MAKE "y YCOR
MAKE "h HEADING
`)
	wantVar(t, in, "x", Float(7))
	wantVar(t, in, "y", Float(0))
	wantVar(t, in, "h", Float(180))
}

// ───────────────────────────── control flow ────────────────────────────────

func Test_Interpreter_IfRunsBodyOnlyWhenTrue(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
MAKE "x "0
IF EQ "1 "1 [ MAKE "x "1 ]
IF EQ "1 "2 [ MAKE "x "2 ]
`)
	wantVar(t, in, "x", Float(1))
}

func Test_Interpreter_WhileCountsDown(t *testing.T) {
	spy := &spyCanvas{}
	in := runProgram(t, spy, `
PENDOWN
MAKE "i "0
WHILE LT :i "5 [
	FORWARD "10
	ADDASSIGN "i "1
]
`)
	wantVar(t, in, "i", Float(5))
	if len(spy.calls) != 5 {
		t.Fatalf("got %d draw calls, want 5", len(spy.calls))
	}
}

func Test_Interpreter_WhileFalseFromStartSkipsBody(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, `
MAKE "x "0
WHILE GT "0 "1 [ MAKE "x "1 ]
`)
	wantVar(t, in, "x", Float(0))
}

// ───────────────────────────── procedures ──────────────────────────────────

func Test_Interpreter_ProcedureCallBindsArguments(t *testing.T) {
	in := runProgram(t, &spyCanvas{}, "TO DOUBLE \"n\nMAKE \"result * :n \"2\nEND\nDOUBLE \"4")
	wantVar(t, in, "result", Float(8))
}

func Test_Interpreter_ProceduresShareTheGlobalNamespace(t *testing.T) {
	// Parameters are global bindings; the call leaves them behind and the
	// body reads variables the caller defined.
	in := runProgram(t, &spyCanvas{}, `
MAKE "outer "10
TO BUMP "n
ADDASSIGN "outer :n
END
BUMP "5
`)
	wantVar(t, in, "outer", Float(15))
	wantVar(t, in, "n", Float(5))
}

func Test_Interpreter_ParameterAliasesOuterVariable(t *testing.T) {
	// A parameter named like an existing variable rebinds it, and the
	// body's writes stick after the call returns.
	in := runProgram(t, &spyCanvas{}, `
TO DOUBLE "n
MAKE "n + :n :n
END
MAKE "n "5
DOUBLE :n
`)
	wantVar(t, in, "n", Float(10))
}

func Test_Interpreter_CallBeforeBodyIsStoredFails(t *testing.T) {
	// The signature is recorded at parse time even inside a branch that
	// never runs, so the body lookup fails at run time instead.
	wantRuntimeErr(t, &spyCanvas{}, `
IF EQ "1 "2 [ TO GHOST
END ]
GHOST
`, ErrUnknownProcedure)
}

func Test_Interpreter_RecursiveCountdown(t *testing.T) {
	spy := &spyCanvas{}
	runProgram(t, spy, `
PENDOWN
TO STEPS "n
IF GT :n "0 [
	FORWARD "1
	STEPS - :n "1
]
END
STEPS "3
`)
	if len(spy.calls) != 3 {
		t.Fatalf("got %d draw calls, want 3", len(spy.calls))
	}
}
