// Package quadrature counts rotary encoder detents from rising edges on two
// 90-degree offset channels.
package quadrature

// Channel names the input line that produced the edge.
type Channel uint8

const (
	A Channel = iota
	B
)

func (c Channel) String() string {
	if c == A {
		return "a"
	}
	return "b"
}

// Sample is the pair of line levels captured when an edge fires.
type Sample struct {
	A, B bool
}

// Step returns the signed movement for a rising edge on ch with levels s.
//
//	edge on A: A==B -> -1, A!=B -> +1
//	edge on B: A==B -> +1, A!=B -> -1
func Step(ch Channel, s Sample) int32 {
	same := s.A == s.B
	if ch == A {
		if same {
			return -1
		}
		return 1
	}
	if same {
		return 1
	}
	return -1
}

// Level is an input line that can be sampled (halcore.GPIOPin satisfies it).
type Level interface {
	Get() bool
}

// Decoder owns the position. It is not safe for concurrent use; callers
// serialise updates (the position is a ceiling-locked resource).
type Decoder struct {
	a, b     Level
	position int32
}

// New returns a decoder sampling lines a and b. Either may be nil when the
// caller only uses UpdateSample.
func New(a, b Level) *Decoder {
	return &Decoder{a: a, b: b}
}

// Update samples both lines now, applies the step for an edge on ch and
// returns the new position and the step.
func (d *Decoder) Update(ch Channel) (position, step int32) {
	return d.UpdateSample(ch, d.sample())
}

// UpdateSample applies an edge on ch using levels latched by the caller,
// e.g. a combined capture taken in the interrupt glue.
func (d *Decoder) UpdateSample(ch Channel, s Sample) (position, step int32) {
	step = Step(ch, s)
	d.position += step
	return d.position, step
}

func (d *Decoder) sample() Sample {
	var s Sample
	if d.a != nil {
		s.A = d.a.Get()
	}
	if d.b != nil {
		s.B = d.b.Get()
	}
	return s
}

func (d *Decoder) Position() int32 { return d.position }

func (d *Decoder) Reset() { d.position = 0 }
