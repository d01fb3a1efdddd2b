package clipboard

import (
	"fmt"

	sysclip "github.com/atotto/clipboard"
)

// Backend stores clipboard text.
type Backend interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// SystemBackend uses the operating system clipboard.
type SystemBackend struct{}

func (SystemBackend) WriteAll(text string) error {
	if sysclip.Unsupported {
		return fmt.Errorf("system clipboard unsupported on this platform")
	}
	return sysclip.WriteAll(text)
}

func (SystemBackend) ReadAll() (string, error) {
	if sysclip.Unsupported {
		return "", fmt.Errorf("system clipboard unsupported on this platform")
	}
	return sysclip.ReadAll()
}

// Register is an in-process clipboard.
type Register struct {
	text string
}

func (r *Register) WriteAll(text string) error {
	r.text = text
	return nil
}

func (r *Register) ReadAll() (string, error) {
	return r.text, nil
}

// NewBackend returns the system clipboard when requested and supported, and an
// in-process register otherwise.
func NewBackend(system bool) Backend {
	if system && !sysclip.Unsupported {
		return SystemBackend{}
	}
	return &Register{}
}
