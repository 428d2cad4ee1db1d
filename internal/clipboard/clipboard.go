package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

var ErrUnsupported = errors.New("system clipboard is not available")

type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// System writes to the host clipboard (xclip/xsel, pbcopy, win32).
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func (System) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// Memory keeps the last written value in process.
type Memory struct {
	mu   sync.Mutex
	text string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// New picks the implementation named in config.
func New(kind string) (Clipboard, error) {
	switch kind {
	case "", "memory":
		return NewMemory(), nil
	case "system":
		if clipboard.Unsupported {
			return nil, ErrUnsupported
		}
		return NewSystem(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard %q", kind)
	}
}
