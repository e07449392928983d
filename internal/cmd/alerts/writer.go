package alerts

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
)

// Writer writes alerts either as text lines or as one JSON object per line.
type Writer struct {
	w        io.Writer
	json     bool
	useColor bool
}

// NewWriter creates a Writer. Structured output formats get JSON lines so
// alerts on stderr stay machine readable next to the result on stdout.
func NewWriter(w io.Writer, format string, noColor bool) *Writer {
	structured := format == "json" || format == "yaml"
	return &Writer{
		w:        w,
		json:     structured,
		useColor: !structured && !noColor && isTerminal(w),
	}
}

// Write writes every alert in order.
func (fw *Writer) Write(alerts ...*Alert) error {
	for _, a := range alerts {
		if err := fw.write(a); err != nil {
			return err
		}
	}
	return nil
}

func (fw *Writer) write(a *Alert) error {
	if fw.json {
		raw, err := json.Marshal(a)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(fw.w, string(raw))
		return err
	}

	message := a.String()
	if fw.useColor {
		message = a.Level.Color() + message + resetColor
	}
	_, err := fmt.Fprintln(fw.w, message)
	return err
}

// isTerminal checks if the writer is a terminal (for color support).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
