package jobs

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Appender appends lines to a file. Writes from one process are serialized;
// O_APPEND keeps whole writes from separate processes from interleaving.
type Appender struct {
	path string
	mu   sync.Mutex
}

func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

func (a *Appender) Path() string {
	return a.path
}

// Append writes every line followed by a newline in a single write.
func (a *Appender) Append(lines ...string) error {
	if len(lines) == 0 {
		return nil
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.path, err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to %s: %w", a.path, err)
	}
	return f.Close()
}
