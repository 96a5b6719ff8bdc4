package tokenstream

import "fmt"

// SyntaxError reports a grammar rule violation at a specific input
// position. It is raised directly by MustMatch, and reused by
// higher-level grammar engines (see the css package) for every other
// grammar violation, so that all parse errors carry the same shape.
type SyntaxError struct {
	Line    int
	Col     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Message)
}

// ErrTooMuchLookahead is raised by LA/LT when asked to look further
// ahead than the lookahead buffer supports.
type ErrTooMuchLookahead struct {
	Requested int
}

func (e *ErrTooMuchLookahead) Error() string {
	return fmt.Sprintf("tokenstream: too much lookahead: requested %d, max %d", e.Requested, MaxLookahead)
}

// ErrTooMuchLookbehind is raised by LA/LT(k) for k<0 when the
// requested slot has already been evicted from the lookahead buffer,
// and by Unget when there is nothing left to unget.
type ErrTooMuchLookbehind struct {
	Requested int
}

func (e *ErrTooMuchLookbehind) Error() string {
	return fmt.Sprintf("tokenstream: too much lookbehind: requested %d", e.Requested)
}
