// runtime.go — runtime value model and the variable environment.
//
// Value is a tagged sum over the three terminal kinds a Logo expression can
// evaluate to: Float (32-bit), Bool, Word. The tag determines which Go type
// Data holds. Comparisons require matching tags; a mismatch is a runtime
// type error raised by the interpreter, never a panic.
//
// Env is ONE flat table. The language has no lexical scoping: procedure
// parameters are rebinds of the same global namespace, so a parameter that
// shares its name with an outer variable aliases and overwrites it. That is
// a language-semantics decision, not an implementation shortcut — do not
// reintroduce call frames here.
package rslogo

import (
	"fmt"
	"strconv"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTFloat ValueTag = iota // float32
	VTBool                  // bool
	VTWord                  // string
)

func (t ValueTag) String() string {
	switch t {
	case VTFloat:
		return "float"
	case VTBool:
		return "boolean"
	default:
		return "word"
	}
}

// Value is the universal runtime carrier.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Constructors.
func Float(f float32) Value { return Value{Tag: VTFloat, Data: f} }
func Bool(b bool) Value     { return Value{Tag: VTBool, Data: b} }
func Word(s string) Value   { return Value{Tag: VTWord, Data: s} }

func (v Value) String() string {
	switch v.Tag {
	case VTFloat:
		return strconv.FormatFloat(float64(v.Data.(float32)), 'g', -1, 32)
	case VTBool:
		return fmt.Sprintf("%v", v.Data.(bool))
	default:
		return v.Data.(string)
	}
}

// Equal reports value equality. Callers must have checked that the tags
// match; differing tags simply compare unequal here.
func (v Value) Equal(o Value) bool {
	return v.Tag == o.Tag && v.Data == o.Data
}

// Env is the single flat variable namespace shared by the whole program,
// procedure bodies included.
type Env struct {
	table map[string]Value
}

// NewEnv creates an empty environment.
func NewEnv() *Env { return &Env{table: make(map[string]Value)} }

// Define binds name to v, silently replacing any prior binding.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Get retrieves the binding for name.
func (e *Env) Get(name string) (Value, bool) {
	v, ok := e.table[name]
	return v, ok
}
