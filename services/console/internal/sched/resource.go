package sched

import (
	"oledconsole-go/errcode"
	"oledconsole-go/x/ring"
)

// Claim is anything a task can list in TaskConfig.Uses.
type Claim interface {
	header() *resource
}

type resource struct {
	name    string
	id      uint8
	ceiling Priority
	owner   *Builder
}

// Resource is a value shared between tasks of different priorities.
type Resource[T any] struct {
	hdr resource
	v   T
}

func (r *Resource[T]) header() *resource { return &r.hdr }

// Name returns the declared name.
func (r *Resource[T]) Name() string { return r.hdr.name }

// Ceiling returns the highest priority among the tasks that use r.
// It is valid after Builder.Build.
func (r *Resource[T]) Ceiling() Priority { return r.hdr.ceiling }

// Lock runs fn with exclusive access to the value. When the caller runs
// below the ceiling, the effective priority is raised to the ceiling for the
// duration of fn and restored on every exit path, after which any work that
// was held off is dispatched. Tasks above the ceiling are never delayed.
func (r *Resource[T]) Lock(cx *Context, fn func(v *T)) error {
	if cx == nil || cx.task == nil || cx.task.claims&(1<<r.hdr.id) == 0 {
		return errcode.NotClaimed
	}
	prev, raised := cx.core.raise(r.hdr.ceiling)
	if raised {
		defer cx.core.restore(prev)
	}
	fn(&r.v)
	return nil
}

// Spawner is the handle of a software task with payload T.
type Spawner[T any] struct {
	t  *task
	q  *ring.Ring[T]
	fn func(cx *Context, v T)
}

// Task returns the generic task handle.
func (s *Spawner[T]) Task() *Task { return &Task{t: s.t} }

// Spawn queues one invocation carrying v. It never blocks: when the queue is
// full the request is dropped, the queue is left as it was and false is
// returned. A spawned task that outranks the caller runs before Spawn
// returns.
func (s *Spawner[T]) Spawn(cx *Context, v T) bool {
	c := s.t.cx.core
	if c == nil || cx == nil || cx.core != c {
		return false
	}
	st := c.cs.enter()
	if !s.q.TryPush(v) {
		s.t.drops++
		c.cs.exit(st)
		return false
	}
	c.enqueueLocked(s.t)
	started := c.started
	c.cs.exit(st)
	if started {
		c.dispatch()
	}
	return true
}

// Queued returns the number of pending invocations.
func (s *Spawner[T]) Queued() int { return s.q.Len() }

func (s *Spawner[T]) runOne(cx *Context) bool {
	c := cx.core
	st := c.cs.enter()
	v, ok := s.q.TryPop()
	c.cs.exit(st)
	if !ok {
		return false
	}
	s.fn(cx, v)
	return true
}

func (s *Spawner[T]) queued() int { return s.q.Len() }
