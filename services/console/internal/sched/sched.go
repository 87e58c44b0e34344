// Package sched is a single-core, priority-preemptive task dispatcher with
// statically ceilinged resources.
//
// Tasks are declared once through a Builder: hardware tasks are bound to an
// interrupt Vector, software tasks are fed through a bounded queue. A pended
// task runs as soon as its priority exceeds the current effective priority;
// it always runs to completion. Resource.Lock raises the effective priority
// to the resource ceiling for the duration of a closure, which is the only
// mutual exclusion in the system.
package sched

import (
	"math/bits"

	"oledconsole-go/errcode"
	"oledconsole-go/x/ring"
)

// Priority of a task. 0 is the idle level; higher is more urgent.
type Priority uint8

// Vector identifies an interrupt source.
type Vector uint8

const (
	MaxPriority     Priority = 15
	MaxVectors               = 32
	MaxResources             = 64
	MaxTasks                 = 255
	DefaultCapacity          = 100
	MaxCapacity              = 1024

	masked = MaxPriority + 1 // effective priority during Init
)

// Source is a level-style interrupt line. While Asserted reports true after
// the bound task returns, the vector is pended again.
type Source interface {
	Asserted() bool
}

type taskKind uint8

const (
	kindHardware taskKind = iota
	kindSoftware
)

type runner interface {
	runOne(cx *Context) bool
	queued() int
}

type task struct {
	idx      uint8
	name     string
	prio     Priority
	kind     taskKind
	claims   uint64
	vec      Vector
	src      Source
	pending  bool
	hw       func(*Context)
	sw       runner
	capacity int
	cx       Context

	runs  uint32
	drops uint32
}

// Task is the handle of a declared task.
type Task struct{ t *task }

func (h *Task) Name() string           { return h.t.name }
func (h *Task) Priority() Priority     { return h.t.prio }
func (h *Task) Context() *Context      { return &h.t.cx }
func (h *Task) Vector() (Vector, bool) { return h.t.vec, h.t.kind == kindHardware }

// Context is handed to every task invocation. It is stable per task.
type Context struct {
	core *Core
	task *task
}

// Priority returns the static priority of the running task.
func (cx *Context) Priority() Priority { return cx.task.prio }

// Name returns the task name ("init" during Core.Init).
func (cx *Context) Name() string { return cx.task.name }

// Pend marks a hardware task pending from inside a task. If it outranks the
// current effective priority it preempts the caller before Pend returns.
func (cx *Context) Pend(v Vector) error {
	c := cx.core
	st := c.cs.enter()
	t := c.lookup(v)
	if t == nil {
		c.unknown++
		c.cs.exit(st)
		return errcode.UnknownVector
	}
	c.pendLocked(t)
	started := c.started
	c.cs.exit(st)
	if started {
		c.dispatch()
	}
	return nil
}

// Core owns the dispatch table, the ready queues and the effective priority.
type Core struct {
	cs      critical
	tasks   []*task
	byVec   [MaxVectors]*task
	levels  [MaxPriority + 1]*ring.Ring[uint8]
	ready   uint32 // bit p set while levels[p] is non-empty
	current Priority
	started bool
	busy    bool // host: a goroutine is draining the core
	initCx  Context

	pends     uint32
	coalesced uint32
	unknown   uint32
}

// Init runs fn with every task masked. Use it to populate resources and to
// spawn or pend the first work; nothing runs until Start.
func (c *Core) Init(fn func(cx *Context)) {
	fn(&c.initCx)
}

// Start leaves the init phase and dispatches whatever is pending.
func (c *Core) Start() {
	st := c.cs.enter()
	if c.started {
		c.cs.exit(st)
		return
	}
	c.started = true
	c.current = 0
	if preemptInline {
		c.cs.exit(st)
		c.dispatch()
		return
	}
	c.busy = true
	c.cs.exit(st)
	c.drain()
}

// Pend marks the task bound to v pending from outside any task (interrupt
// glue, host goroutines). Pending an already pending vector coalesces.
func (c *Core) Pend(v Vector) error {
	st := c.cs.enter()
	t := c.lookup(v)
	if t == nil {
		c.unknown++
		c.cs.exit(st)
		return errcode.UnknownVector
	}
	c.pendLocked(t)
	if !c.started {
		c.cs.exit(st)
		return nil
	}
	if preemptInline {
		c.cs.exit(st)
		c.dispatch()
		return nil
	}
	if c.busy {
		// The owning goroutine picks this up before it lets go.
		c.cs.exit(st)
		return nil
	}
	c.busy = true
	c.cs.exit(st)
	c.drain()
	return nil
}

// Current returns the effective priority.
func (c *Core) Current() Priority {
	st := c.cs.enter()
	p := c.current
	c.cs.exit(st)
	return p
}

func (c *Core) lookup(v Vector) *task {
	if int(v) >= MaxVectors {
		return nil
	}
	return c.byVec[v]
}

// pendLocked queues t behind earlier arrivals of the same priority.
func (c *Core) pendLocked(t *task) {
	c.pends++
	if t.pending {
		c.coalesced++
		return
	}
	t.pending = true
	c.enqueueLocked(t)
}

func (c *Core) enqueueLocked(t *task) {
	// Level rings are sized for every ticket a level can hold at once.
	c.levels[t.prio].TryPush(t.idx)
	c.ready |= 1 << t.prio
}

func (c *Core) top() Priority {
	return Priority(bits.Len32(c.ready) - 1)
}

// dispatch runs ready tasks that outrank the effective priority, highest
// first, until none is left. It nests: a task that pends or spawns
// higher-priority work re-enters dispatch before it continues.
func (c *Core) dispatch() {
	for {
		st := c.cs.enter()
		if c.ready == 0 {
			c.cs.exit(st)
			return
		}
		p := c.top()
		if p <= c.current {
			c.cs.exit(st)
			return
		}
		lvl := c.levels[p]
		idx, _ := lvl.TryPop()
		if lvl.Len() == 0 {
			c.ready &^= 1 << p
		}
		t := c.tasks[idx]
		t.pending = false
		prev := c.current
		c.current = p
		c.cs.exit(st)

		ran := c.run(t)

		st = c.cs.enter()
		c.current = prev
		if ran {
			t.runs++
		}
		if t.src != nil && t.src.Asserted() {
			c.pendLocked(t)
		}
		c.cs.exit(st)
	}
}

func (c *Core) run(t *task) bool {
	if t.kind == kindHardware {
		t.hw(&t.cx)
		return true
	}
	return t.sw.runOne(&t.cx)
}

// drain makes the calling goroutine the owner until nothing is ready.
// The final check and the release happen under one critical section so a
// concurrent Pend is never stranded.
func (c *Core) drain() {
	for {
		c.dispatch()
		st := c.cs.enter()
		if c.ready != 0 && c.top() > c.current {
			c.cs.exit(st)
			continue
		}
		c.busy = false
		c.cs.exit(st)
		return
	}
}

// raise sets the effective priority to p if higher and returns the previous.
func (c *Core) raise(p Priority) (prev Priority, raised bool) {
	st := c.cs.enter()
	prev = c.current
	if p > prev {
		c.current = p
		raised = true
	}
	c.cs.exit(st)
	return prev, raised
}

// restore lowers the effective priority and runs whatever it was blocking.
func (c *Core) restore(p Priority) {
	st := c.cs.enter()
	c.current = p
	c.cs.exit(st)
	c.dispatch()
}

// TaskStats is a per-task snapshot.
type TaskStats struct {
	Name     string
	Priority Priority
	Runs     uint32
	Drops    uint32
	Queued   int
}

// Stats is a diagnostics snapshot of the core.
type Stats struct {
	Pends     uint32
	Coalesced uint32
	Unknown   uint32
	Tasks     []TaskStats
}

func (c *Core) Stats() Stats {
	st := c.cs.enter()
	defer c.cs.exit(st)
	s := Stats{Pends: c.pends, Coalesced: c.coalesced, Unknown: c.unknown}
	for _, t := range c.tasks {
		ts := TaskStats{Name: t.name, Priority: t.prio, Runs: t.runs, Drops: t.drops}
		if t.sw != nil {
			ts.Queued = t.sw.queued()
		} else if t.pending {
			ts.Queued = 1
		}
		s.Tasks = append(s.Tasks, ts)
	}
	return s
}
