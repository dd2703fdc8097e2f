package lang

import "github.com/dekarrin/glint/internal/util"

// Frame is one call's local bindings (its parameter values). Per spec.md
// §4.3's environment model, a Name lookup searches the top frame first,
// then falls back to the global map — but every *assignment* always writes
// to the global map, even from inside a function body. A function's own
// parameters are the only thing that ever lives in a Frame.
type Frame struct {
	locals map[string]Value
}

func newFrame() *Frame {
	return &Frame{locals: make(map[string]Value)}
}

// Env is the two-tier interpreter environment: a single global map plus a
// stack of call frames, grounded on the teacher's
// Interpreter{fn, flags, world} struct shape (internal/tunascript/
// tunascript.go), generalized from "flags" to a typed Value map and using
// an adapted util.Stack[Frame] for the call-frame stack.
type Env struct {
	global map[string]Value
	frames util.Stack[*Frame]
}

func NewEnv() *Env {
	return &Env{global: make(map[string]Value)}
}

// PushFrame enters a new call frame (e.g. for a Lambda/Function invocation).
func (e *Env) PushFrame() {
	e.frames.Push(newFrame())
}

// PopFrame exits the current call frame.
func (e *Env) PopFrame() {
	e.frames.Pop()
}

// BindLocal binds name to v in the current (topmost) frame. It is only
// meaningful to call this right after PushFrame, to bind parameters.
func (e *Env) BindLocal(name string, v Value) {
	e.frames.Peek().locals[name] = v
}

// Lookup resolves name per spec.md §4.3: the top frame first, then the
// global map. A name that resolves to nothing returns (Value{}, false) so
// the caller can build the Name{value} sentinel itself.
func (e *Env) Lookup(name string) (Value, bool) {
	if !e.frames.Empty() {
		if v, ok := e.frames.Peek().locals[name]; ok {
			return v, true
		}
	}
	v, ok := e.global[name]
	return v, ok
}

// Assign always writes to the global map, regardless of call-frame depth —
// an intentional, spec-literal quirk (spec.md §4.3: "Assignment into Name
// always writes to the global map ... locals exist only as call frame
// parameters"), observable as loop-counter persistence across scopes.
func (e *Env) Assign(name string, v Value) {
	e.global[name] = v
}
