// ast.go — typed AST nodes produced by the parser.
//
// A Node is a tagged union: Tag selects the variant and decides which of the
// remaining fields are meaningful. Procedure bodies are plain []*Node slices,
// so a body stored in the procedure table and the body referenced from a
// definition node share the same backing array — bodies are never copied.
package rslogo

// NodeTag discriminates the Node variants.
type NodeTag int

const (
	NMake      NodeTag = iota // Name, Expr
	NAddAssign                // Name, Expr
	NArith                    // Op, Left, Right
	NComp                     // Op, Left, Right
	NBool                     // Op, Left, Right
	NNum                      // Num
	NWord                     // Name (the word text)
	NIdentRef                 // Name
	NQuery                    // Query
	NIf                       // Cond, Body
	NWhile                    // Cond, Body
	NPenStatus                // PenDown
	NPenColor                 // Expr
	NPenPos                   // Pos, Expr
	NMove                     // Dir, Expr
	NProc                     // Name, Body (shared with the interpreter's table)
	NProcCall                 // Name, Args (synthesized NMake bindings)
)

// Direction of a move instruction, as an offset from the current heading.
type Direction int

const (
	Forward Direction = iota
	Back
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "FORWARD"
	case Back:
		return "BACK"
	case Left:
		return "LEFT"
	default:
		return "RIGHT"
	}
}

// Offset returns the heading adjustment in degrees for the direction.
func (d Direction) Offset() int {
	switch d {
	case Forward:
		return 0
	case Back:
		return 180
	case Left:
		return 270
	default:
		return 90
	}
}

// PenPosKind selects which turtle coordinate a PENPOS statement updates.
type PenPosKind int

const (
	SetX PenPosKind = iota
	SetY
	SetHeading
	Turn
)

func (p PenPosKind) String() string {
	switch p {
	case SetX:
		return "SETX"
	case SetY:
		return "SETY"
	case SetHeading:
		return "SETHEADING"
	default:
		return "TURN"
	}
}

// QueryKind selects a turtle state read.
type QueryKind int

const (
	QueryX QueryKind = iota
	QueryY
	QueryHeading
	QueryColor
)

func (q QueryKind) String() string {
	switch q {
	case QueryX:
		return "XCOR"
	case QueryY:
		return "YCOR"
	case QueryHeading:
		return "HEADING"
	default:
		return "COLOR"
	}
}

// Node is one AST node. Line is the 1-based source line of the token that
// started the construct.
type Node struct {
	Tag  NodeTag
	Line int

	Op    string  // NArith ("+","-","*","/"), NComp ("EQ","NE","GT","LT"), NBool ("AND","OR")
	Name  string  // NMake/NAddAssign target, NWord text, NIdentRef name, NProc/NProcCall name
	Num   float32 // NNum
	Expr  *Node   // NMake/NAddAssign/NPenColor/NPenPos bound expression, NMove distance
	Cond  *Node   // NIf/NWhile condition
	Left  *Node   // binary expression operands
	Right *Node
	Body  []*Node // NIf/NWhile/NProc statement list
	Args  []*Node // NProcCall synthesized bindings, in parameter order

	Dir     Direction  // NMove
	Pos     PenPosKind // NPenPos
	Query   QueryKind  // NQuery
	PenDown bool       // NPenStatus
}

// NumericShape reports whether the node can syntactically produce a float.
// Identifier references are provisionally numeric; the interpreter settles
// the real tag at run time.
func (n *Node) NumericShape() bool {
	switch n.Tag {
	case NNum, NArith, NQuery, NIdentRef:
		return true
	default:
		return false
	}
}

// BooleanShape reports whether the node can syntactically produce a bool.
func (n *Node) BooleanShape() bool {
	switch n.Tag {
	case NComp, NBool, NIdentRef:
		return true
	default:
		return false
	}
}

// WordShape reports whether the node can syntactically produce a word.
func (n *Node) WordShape() bool {
	switch n.Tag {
	case NWord, NIdentRef:
		return true
	default:
		return false
	}
}
