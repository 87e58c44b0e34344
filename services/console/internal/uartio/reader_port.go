// services/console/internal/uartio/reader_port.go
package uartio

import (
	"context"
	"errors"
	"io"
	"time"

	"oledconsole-go/x/ring"
)

// ReaderPort turns a blocking io.Reader (a host serial device that returns
// on its own read timeout) into an RXPort.
type ReaderPort struct {
	r    io.Reader
	buf  *ring.Ring[byte]
	done chan struct{}
	err  error
}

// NewReaderPort starts a goroutine reading r into a buffer of size bytes.
// It stops at io.EOF or when ctx is done.
func NewReaderPort(ctx context.Context, r io.Reader, size int) *ReaderPort {
	if size < 1 {
		size = 256
	}
	p := &ReaderPort{r: r, buf: ring.New[byte](size), done: make(chan struct{})}
	go p.loop(ctx)
	return p
}

func (p *ReaderPort) loop(ctx context.Context) {
	defer close(p.done)
	tmp := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := p.r.Read(tmp)
		rest := tmp[:n]
		for len(rest) > 0 && ctx.Err() == nil {
			k := p.buf.PushFrom(rest)
			rest = rest[k:]
			if len(rest) > 0 {
				time.Sleep(time.Millisecond)
			}
		}
		if errors.Is(err, io.EOF) {
			p.err = io.EOF
			return
		}
		if err != nil && n == 0 {
			// Read timeouts surface as errors on some drivers; back off.
			time.Sleep(time.Millisecond)
		}
	}
}

// RecvSomeContext returns buffered bytes, waiting for at least one.
func (p *ReaderPort) RecvSomeContext(ctx context.Context, dst []byte) (int, error) {
	for {
		if n := p.buf.PopInto(dst); n > 0 {
			return n, nil
		}
		select {
		case <-p.buf.Readable():
		case <-p.done:
			if n := p.buf.PopInto(dst); n > 0 {
				return n, nil
			}
			if p.err != nil {
				return 0, p.err
			}
			return 0, context.Canceled
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}
