package wheelmk

import (
	"bytes"
	"io"
)

// prefixWriter writes prefix in front of every line written to w. Tool output
// is interleaved with the hook's own messages, the prefix tells them apart.
type prefixWriter struct {
	w      io.Writer
	prefix []byte
	inLine bool // false at the start of a line
}

func newPrefixWriterString(w io.Writer, prefix string) *prefixWriter {
	return &prefixWriter{w: w, prefix: []byte(prefix)}
}

func (pw *prefixWriter) Reset() { pw.inLine = false }

func (pw *prefixWriter) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if !pw.inLine {
			if _, err = pw.w.Write(pw.prefix); err != nil {
				return n, err
			}
			pw.inLine = true
		}
		line, rest, nl := bytes.Cut(p, []byte{'\n'})
		if nl {
			line = p[:len(line)+1]
			pw.inLine = false
		}
		m, err := pw.w.Write(line)
		n += m
		if err != nil {
			return n, err
		}
		p = rest
		if !nl {
			break
		}
	}
	return n, nil
}
