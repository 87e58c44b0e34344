package errcode

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Scheduler build / dispatch
	InvalidPriority  Code = "invalid_priority"
	InvalidVector    Code = "invalid_vector"
	DuplicateVector  Code = "duplicate_vector"
	DuplicateTask    Code = "duplicate_task"
	TooManyResources Code = "too_many_resources"
	UnknownVector    Code = "unknown_vector"
	NotClaimed       Code = "not_claimed"
	AlreadyBuilt     Code = "already_built"
	InvalidCapacity  Code = "invalid_capacity"
	NotReady         Code = "not_ready"
	InvalidConfig    Code = "invalid_config"
	UnknownPin       Code = "unknown_pin"
	InvalidParams    Code = "invalid_params"
	ReceiveOverrun   Code = "overrun"
	ReceiveFraming   Code = "framing"
	ReceiveNoise     Code = "noise"
	ReceiveParity    Code = "parity"

	Error Code = "error" // generic fallback
)

// E is the optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New builds an *E for op with code c and a short message.
func New(op string, c Code, msg string) *E {
	return &E{C: c, Op: op, Msg: msg}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
