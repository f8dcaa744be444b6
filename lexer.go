// lexer.go — tokenizer for the rslogo turtle language.
//
// OVERVIEW
// --------
// Logo source is line-oriented and whitespace-delimited: every token is a
// whole word. The lexer therefore never needs a scanning cursor; it splits
// each line on whitespace and classifies each word in one shot. Classified
// tokens carry their 1-based source line so the parser and interpreter can
// attribute errors precisely.
//
// Token classes:
//   - keywords: MAKE, ADDASSIGN, IF, WHILE, TO, END, the four directions,
//     pen words (PENUP/PENDOWN/SETPENCOLOR/SETX/SETY/TURN/SETHEADING) and
//     queries (XCOR/YCOR/HEADING/COLOR)
//   - operators: + - * / EQ NE GT LT AND OR
//   - brackets: "[" and "]" delimiting IF/WHILE bodies
//   - `"`-prefixed literals: `"3.5` is a number, `"abc` an identifier
//   - `:`-prefixed identifier references: `:abc`
//   - any other purely alphabetic word is a procedure-name token
//
// Lines whose first non-space characters are `//` are comments and skipped
// entirely. Any word that fits none of the classes above is a *LexError.
package rslogo

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// TokenKind represents the lexical class of a token.
type TokenKind int

const (
	MAKEOP TokenKind = iota
	ARITHOP
	COMPOP
	BOOLOP
	ADDASSIGN
	DIRECTION
	PENSTATUS
	PENCOLOR
	PENPOS
	QUERY
	IFSTMNT
	WHILESTMNT
	LBRACKET
	RBRACKET
	NUM
	IDENT
	IDENTREF
	PROCSTART
	PROCEND
	PROCNAME
)

func (k TokenKind) String() string {
	switch k {
	case MAKEOP:
		return "MAKE"
	case ARITHOP:
		return "arithmetic operator"
	case COMPOP:
		return "comparison operator"
	case BOOLOP:
		return "boolean operator"
	case ADDASSIGN:
		return "ADDASSIGN"
	case DIRECTION:
		return "direction"
	case PENSTATUS:
		return "pen status"
	case PENCOLOR:
		return "SETPENCOLOR"
	case PENPOS:
		return "pen position"
	case QUERY:
		return "query"
	case IFSTMNT:
		return "IF"
	case WHILESTMNT:
		return "WHILE"
	case LBRACKET:
		return "["
	case RBRACKET:
		return "]"
	case NUM:
		return "number"
	case IDENT:
		return "identifier"
	case IDENTREF:
		return "variable reference"
	case PROCSTART:
		return "TO"
	case PROCEND:
		return "END"
	case PROCNAME:
		return "procedure name"
	default:
		return "unknown token"
	}
}

// Token is a classified source word. Value holds the word text with the
// `"` or `:` sigil already stripped for NUM/IDENT/IDENTREF tokens. Line and
// Col locate the word's first character, both 1-based; Col includes the
// sigil.
type Token struct {
	Kind  TokenKind
	Value string
	Line  int
	Col   int
}

// LexError reports a word that fits no lexical class.
type LexError struct {
	Line int
	Col  int
	Word string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d]: %q is not a valid token", e.Line, e.Word)
}

// Lex tokenizes Logo source text. The returned slice is in source order and
// every token carries its 1-based line.
func Lex(src string) ([]Token, error) {
	var tokens []Token
	for i, line := range strings.Split(src, "\n") {
		lineNo := i + 1
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "//") {
			continue
		}
		for _, f := range splitWords(line) {
			tok, err := classify(f.text, lineNo, f.col)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// LexFile reads and tokenizes a Logo script from disk.
func LexFile(path string) ([]Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var b strings.Builder
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		b.WriteString(sc.Text())
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return Lex(b.String())
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                                   PRIVATE
////////////////////////////////////////////////////////////////////////////////

// keywords maps every fixed word of the language to its token kind.
var keywords = map[string]TokenKind{
	"MAKE":        MAKEOP,
	"+":           ARITHOP,
	"-":           ARITHOP,
	"*":           ARITHOP,
	"/":           ARITHOP,
	"EQ":          COMPOP,
	"NE":          COMPOP,
	"GT":          COMPOP,
	"LT":          COMPOP,
	"AND":         BOOLOP,
	"OR":          BOOLOP,
	"ADDASSIGN":   ADDASSIGN,
	"FORWARD":     DIRECTION,
	"BACK":        DIRECTION,
	"LEFT":        DIRECTION,
	"RIGHT":       DIRECTION,
	"PENUP":       PENSTATUS,
	"PENDOWN":     PENSTATUS,
	"SETPENCOLOR": PENCOLOR,
	"SETX":        PENPOS,
	"SETY":        PENPOS,
	"TURN":        PENPOS,
	"SETHEADING":  PENPOS,
	"XCOR":        QUERY,
	"YCOR":        QUERY,
	"HEADING":     QUERY,
	"COLOR":       QUERY,
	"IF":          IFSTMNT,
	"WHILE":       WHILESTMNT,
	"[":           LBRACKET,
	"]":           RBRACKET,
	"TO":          PROCSTART,
	"END":         PROCEND,
}

func classify(word string, line, col int) (Token, error) {
	if kind, ok := keywords[word]; ok {
		return Token{Kind: kind, Value: word, Line: line, Col: col}, nil
	}

	switch {
	case strings.HasPrefix(word, `"`):
		body := word[1:]
		if _, err := strconv.ParseFloat(body, 32); err == nil {
			return Token{Kind: NUM, Value: body, Line: line, Col: col}, nil
		}
		if isName(body) {
			return Token{Kind: IDENT, Value: body, Line: line, Col: col}, nil
		}
	case strings.HasPrefix(word, ":"):
		if isName(word[1:]) {
			return Token{Kind: IDENTREF, Value: word[1:], Line: line, Col: col}, nil
		}
	case isAlphabetic(word):
		return Token{Kind: PROCNAME, Value: word, Line: line, Col: col}, nil
	}

	return Token{}, &LexError{Line: line, Col: col, Word: word}
}

// word is a whitespace-delimited run of characters and the 1-based byte
// column of its first character.
type word struct {
	text string
	col  int
}

// splitWords splits like strings.Fields but keeps each word's column.
func splitWords(line string) []word {
	var out []word
	start := -1
	for i := 0; i <= len(line); i++ {
		space := i == len(line) || line[i] == ' ' || line[i] == '\t' || line[i] == '\r'
		if space {
			if start >= 0 {
				out = append(out, word{text: line[start:i], col: start + 1})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	return out
}

// isName reports whether s is a valid identifier body: non-empty, letters,
// digits and underscores only.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		ok := r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}
