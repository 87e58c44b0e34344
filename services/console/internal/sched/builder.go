package sched

import (
	"oledconsole-go/errcode"
	"oledconsole-go/x/ring"
)

// TaskConfig declares one statically known task.
type TaskConfig struct {
	Name     string
	Priority Priority // 1..MaxPriority, higher preempts lower
	Uses     []Claim  // resources the task body may Lock

	// Hardware tasks only.
	Vector Vector
	Source Source // optional; re-pends the vector while still asserted

	// Software tasks only. 0 => DefaultCapacity.
	Capacity int
}

// Builder collects the task set and resources. It is used once at startup.
type Builder struct {
	tasks []*task
	res   []*resource
	names map[string]struct{}
	err   error
	core  *Core
}

func NewBuilder() *Builder {
	return &Builder{names: map[string]struct{}{}}
}

// NewResource declares a shared resource owned by b. Its ceiling is
// computed by Build from the tasks that list it in Uses.
func NewResource[T any](b *Builder, name string) *Resource[T] {
	r := &Resource[T]{}
	r.hdr = resource{name: name, id: uint8(len(b.res)), owner: b}
	if len(b.res) >= MaxResources {
		b.fail(errcode.New("sched.resource", errcode.TooManyResources, name))
	}
	b.res = append(b.res, &r.hdr)
	return r
}

// Bind declares a hardware task dispatched when cfg.Vector is pended.
func (b *Builder) Bind(cfg TaskConfig, fn func(cx *Context)) *Task {
	t := b.add(cfg, kindHardware)
	t.vec = cfg.Vector
	t.src = cfg.Source
	t.hw = fn
	return &Task{t: t}
}

// Spawnable declares a software task with a bounded queue of T payloads.
func Spawnable[T any](b *Builder, cfg TaskConfig, fn func(cx *Context, v T)) *Spawner[T] {
	t := b.add(cfg, kindSoftware)
	n := cfg.Capacity
	if n == 0 {
		n = DefaultCapacity
	}
	if n < 0 || n > MaxCapacity {
		b.fail(errcode.New("sched.spawnable", errcode.InvalidCapacity, cfg.Name))
		n = 1
	}
	s := &Spawner[T]{t: t, q: ring.New[T](n), fn: fn}
	t.sw = s
	t.capacity = n
	return s
}

func (b *Builder) add(cfg TaskConfig, kind taskKind) *task {
	t := &task{
		idx:  uint8(len(b.tasks)),
		name: cfg.Name,
		prio: cfg.Priority,
		kind: kind,
	}
	if _, dup := b.names[cfg.Name]; dup {
		b.fail(errcode.New("sched.task", errcode.DuplicateTask, cfg.Name))
	}
	b.names[cfg.Name] = struct{}{}
	if cfg.Priority < 1 || cfg.Priority > MaxPriority {
		b.fail(errcode.New("sched.task", errcode.InvalidPriority, cfg.Name))
	}
	if len(b.tasks) >= MaxTasks {
		b.fail(errcode.New("sched.task", errcode.InvalidParams, "too many tasks"))
	}
	for _, c := range cfg.Uses {
		h := c.header()
		if h.owner != b {
			b.fail(errcode.New("sched.task", errcode.InvalidParams, cfg.Name+" uses foreign resource "+h.name))
			continue
		}
		t.claims |= 1 << h.id
	}
	b.tasks = append(b.tasks, t)
	return t
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the declarations, computes every resource ceiling and
// returns a core in the init phase (all tasks masked).
func (b *Builder) Build() (*Core, error) {
	if b.core != nil {
		return nil, errcode.AlreadyBuilt
	}
	if b.err != nil {
		return nil, b.err
	}
	c := &Core{current: masked}
	var depth [MaxPriority + 1]int
	for _, t := range b.tasks {
		if t.kind == kindHardware {
			if t.vec >= MaxVectors {
				return nil, errcode.New("sched.build", errcode.InvalidVector, t.name)
			}
			if c.byVec[t.vec] != nil {
				return nil, errcode.New("sched.build", errcode.DuplicateVector, t.name+" vs "+c.byVec[t.vec].name)
			}
			c.byVec[t.vec] = t
			depth[t.prio]++
		} else {
			depth[t.prio] += t.capacity
		}
		for _, r := range b.res {
			if t.claims&(1<<r.id) != 0 && t.prio > r.ceiling {
				r.ceiling = t.prio
			}
		}
		t.cx = Context{core: c, task: t}
	}
	for p := Priority(1); p <= MaxPriority; p++ {
		if depth[p] > 0 {
			c.levels[p] = ring.New[uint8](depth[p])
		}
	}
	c.tasks = b.tasks
	c.initCx = Context{core: c, task: &task{name: "init", prio: masked, claims: ^uint64(0)}}
	b.core = c
	return c, nil
}
