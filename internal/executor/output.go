package executor

import (
	"bytes"
	"io"
	"sync"
)

// prefixWriter prefixes every line written through it, so the interleaved
// output of concurrent jobs stays attributable. Partial lines are buffered
// until their newline arrives or Flush is called.
type prefixWriter struct {
	mu     sync.Mutex
	w      io.Writer
	prefix []byte
	buf    bytes.Buffer
	// out is shared by every writer of a run and keeps lines whole.
	out *sync.Mutex
}

func newPrefixWriter(w io.Writer, prefix string, out *sync.Mutex) *prefixWriter {
	return &prefixWriter{w: w, prefix: []byte(prefix), out: out}
}

// Write implements io.Writer.
func (p *prefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Write(b)
	for {
		line, err := p.buf.ReadBytes('\n')
		if err != nil {
			// Put back the incomplete line.
			rest := append([]byte(nil), line...)
			p.buf.Reset()
			p.buf.Write(rest)
			break
		}
		if werr := p.emit(line); werr != nil {
			return len(b), werr
		}
	}
	return len(b), nil
}

// Flush writes any buffered partial line, terminated with a newline.
func (p *prefixWriter) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf.Len() == 0 {
		return nil
	}
	line := append(p.buf.Bytes(), '\n')
	p.buf.Reset()
	return p.emit(line)
}

func (p *prefixWriter) emit(line []byte) error {
	p.out.Lock()
	defer p.out.Unlock()

	out := make([]byte, 0, len(p.prefix)+len(line))
	out = append(out, p.prefix...)
	out = append(out, line...)
	_, err := p.w.Write(out)
	return err
}
