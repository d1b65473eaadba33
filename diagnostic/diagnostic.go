// Copyright © 2024 The SLIP authors

// Package diagnostic renders interpreter errors for terminal output.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the wrap column used when a Renderer does not specify one.
const DefaultWidth = 78

// Renderer formats error messages as a severity header followed by a
// word-wrapped, indented body.
type Renderer struct {
	// Width is the column at which message bodies wrap.
	Width int
}

// Render writes the error err to w.
func (r *Renderer) Render(w io.Writer, err error) error {
	return r.render(w, "error", err.Error())
}

// RenderWarning writes a warning message to w.
func (r *Renderer) RenderWarning(w io.Writer, msg string) error {
	return r.render(w, "warning", msg)
}

func (r *Renderer) render(w io.Writer, severity, msg string) error {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}
	head, rest, multi := splitMessage(msg)
	if _, err := fmt.Fprintf(w, "%s: %s\n", severity, head); err != nil {
		return err
	}
	if !multi {
		return nil
	}
	body := wordwrap.String(rest, width-4)
	body = indent.String(body, 4)
	body = strings.TrimRight(body, "\n")
	_, err := fmt.Fprintln(w, body)
	return err
}

// splitMessage separates a short headline from any detail lines so that long
// messages keep a scannable first line.
func splitMessage(msg string) (head, rest string, multi bool) {
	msg = strings.TrimRight(msg, "\n")
	i := strings.IndexByte(msg, '\n')
	if i < 0 {
		return msg, "", false
	}
	return msg[:i], msg[i+1:], true
}
