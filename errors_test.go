package rslogo

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_LexErrorSnippet(t *testing.T) {
	src := "PENDOWN\n@oops\nPENUP"
	_, err := Lex(src)
	if err == nil {
		t.Fatalf("Lex accepted an invalid token")
	}

	out := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(out, "LEX ERROR at line 2") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "@oops") || !strings.Contains(out, "^") {
		t.Fatalf("missing offending line or marker:\n%s", out)
	}
	// One line of context on either side.
	if !strings.Contains(out, "PENDOWN") || !strings.Contains(out, "PENUP") {
		t.Fatalf("missing context lines:\n%s", out)
	}
}

func Test_Errors_ParseErrorSnippetSurvivesWrapping(t *testing.T) {
	// The shape error is raised deep inside the IF condition and context-
	// wrapped on the way out; the snippet must still find the root cause.
	src := "PENUP\nIF AND \"1 \"2 [ PENDOWN ]"
	toks := lexOK(t, src)
	_, err := NewParser().Parse(toks)
	if err == nil {
		t.Fatalf("Parse accepted a numeric AND operand")
	}

	out := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(out, "PARSE ERROR at line 2") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "IF AND") {
		t.Fatalf("missing offending line:\n%s", out)
	}
}

func Test_Errors_CaretPointsAtOffendingColumn(t *testing.T) {
	src := "PENUP @bad PENDOWN"
	_, err := Lex(src)
	if err == nil {
		t.Fatalf("Lex accepted an invalid token")
	}

	out := WrapErrorWithSource(err, src).Error()
	var marker string
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "^") {
			marker = l
			break
		}
	}
	if marker == "" {
		t.Fatalf("no marker row in:\n%s", out)
	}
	// "@bad" starts at column 7; the marker row prefixes "     | ".
	if got, want := strings.Index(marker, "^"), len("     | ")+6; got != want {
		t.Fatalf("caret at offset %d, want %d in %q", got, want, marker)
	}
}

func Test_Errors_ParseErrorCarriesColumn(t *testing.T) {
	toks := lexOK(t, "PENDOWN  ]")
	_, err := NewParser().Parse(toks)
	if err == nil {
		t.Fatalf("Parse accepted a stray bracket")
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want a *ParseError", err)
	}
	if pe.Line != 1 || pe.Col != 10 {
		t.Fatalf("got line %d column %d, want line 1 column 10", pe.Line, pe.Col)
	}
}

func Test_Errors_RuntimeErrorsPassThrough(t *testing.T) {
	err := runOn(NewInterpreter(&spyCanvas{}), `SETPENCOLOR "99`)
	if err == nil {
		t.Fatalf("interpreter accepted pen color 99")
	}
	if got := WrapErrorWithSource(err, `SETPENCOLOR "99`); got != err {
		t.Fatalf("runtime error was rewritten: %v", got)
	}
}

func Test_Errors_LineZeroRendersBareMessage(t *testing.T) {
	pe := &ParseError{Kind: ErrUnexpectedEnd, Msg: "unexpected end of input"}
	if pe.Error() != "unexpected end of input" {
		t.Fatalf("got %q", pe.Error())
	}
}
