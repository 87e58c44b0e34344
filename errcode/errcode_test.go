package errcode

import (
	"errors"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":               OK,
		"invalid_priority": InvalidPriority,
		"duplicate_vector": DuplicateVector,
		"not_claimed":      NotClaimed,
		"unknown_vector":   UnknownVector,
		"overrun":          ReceiveOverrun,
		"framing":          ReceiveFraming,
		"noise":            ReceiveNoise,
		"parity":           ReceiveParity,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOf(t *testing.T) {
	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q", got)
	}
	if got := Of(NotClaimed); got != NotClaimed {
		t.Fatalf("Of(code) = %q", got)
	}
	wrapped := &E{C: InvalidVector, Op: "bind", Msg: "vector 40"}
	if got := Of(wrapped); got != InvalidVector {
		t.Fatalf("Of(*E) = %q", got)
	}
	if got := Of(errors.New("boom")); got != Error {
		t.Fatalf("Of(other) = %q", got)
	}
}

func TestEFormattingAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	e := &E{C: InvalidConfig, Op: "config.load", Msg: "baud out of range", Err: cause}
	if got, want := e.Error(), "config.load: invalid_config: baud out of range"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should see the wrapped cause")
	}
	if got, want := New("", NotReady, "").Error(), "not_ready"; got != want {
		t.Fatalf("bare E = %q, want %q", got, want)
	}
}
