package term

import "io"

// SerialSink writes newline-terminated lines to a transmit port. Write
// errors are counted, never returned: diagnostics must not stall a task.
type SerialSink struct {
	w      io.Writer
	lines  uint32
	errors uint32
}

func NewSerial(w io.Writer) *SerialSink { return &SerialSink{w: w} }

func (s *SerialSink) WriteLine(p []byte) {
	if s.w == nil {
		return
	}
	_, err := s.w.Write(p)
	if err == nil {
		_, err = s.w.Write(crlf[1:])
	}
	if err != nil {
		s.errors++
		return
	}
	s.lines++
}

func (s *SerialSink) WriteString(str string) { s.WriteLine([]byte(str)) }

func (s *SerialSink) Stats() (lines, errors uint32) { return s.lines, s.errors }
