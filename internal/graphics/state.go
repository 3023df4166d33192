package graphics

// State is the graphics state at a point in the fixed-page element tree:
// the composed transform and the active clip, the two things XPS lets a
// Canvas push onto its descendants.
type State struct {
	Transform Transform
	ClipPath  *Path
}

// NewState returns the default state: identity transform, no clip.
func NewState() State {
	return State{Transform: Identity()}
}

// Clone returns a shallow copy of the state for pushing onto a Surface's
// stack.
func (s State) Clone() State {
	return s
}

// Surface is a stack of graphics States, mirroring the PDF q/Q save and
// restore discipline that a Canvas's nested save/restore frames rely on.
type Surface struct {
	stack   []State
	current State
}

// NewSurface creates a Surface with a single default state on top.
func NewSurface() *Surface {
	return &Surface{
		stack:   make([]State, 0, 8),
		current: NewState(),
	}
}

// ApplyTransform composes t into the CTM of the current (already-saved)
// state, without pushing a new frame. For callers that already hold one
// save/restore frame open and need to layer in a transform within it
// (e.g. a Canvas applying both RenderTransform and Clip under a single
// push).
func (s *Surface) ApplyTransform(t Transform) {
	s.current.Transform = s.current.Transform.Then(t)
}

// SetClipPath installs path as the active clip on the current
// (already-saved) state, without pushing a new frame.
func (s *Surface) SetClipPath(path *Path) {
	s.current.ClipPath = path
}

// Push saves the current state unchanged, for callers that only need a
// save/restore frame (e.g. a Canvas with neither RenderTransform nor Clip).
func (s *Surface) Push() {
	s.stack = append(s.stack, s.current.Clone())
}

// Pop restores the previously saved state.
//
// Pop panics if called more times than Push; callers are expected to
// track their own save depth rather than rely on this as a bounds check.
func (s *Surface) Pop() {
	if len(s.stack) == 0 {
		panic("graphics: Pop() called without matching Push()")
	}
	s.current = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// StackDepth returns the number of saved states, for verifying a
// traversal balances every save with a restore.
func (s *Surface) StackDepth() int {
	return len(s.stack)
}
