package tui

import "context"

// viewScope is the lifetime of a mounted view. Requests run under ctx and
// their result messages carry gen; a message whose gen no longer matches
// belongs to an earlier mount and is dropped.
type viewScope struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    int
}

// mount ends any previous scope and starts a new one.
func (s *viewScope) mount() {
	s.unmount()
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

// unmount cancels in-flight requests and invalidates their results.
func (s *viewScope) unmount() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// current reports whether a result tagged with gen belongs to this scope.
func (s viewScope) current(gen int) bool {
	return s.cancel != nil && gen == s.gen
}

// context returns the scope's context, or a cancelled one when unmounted.
func (s viewScope) context() context.Context {
	if s.ctx == nil || s.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.ctx
}
