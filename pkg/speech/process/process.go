package process

import (
	"errors"
	"os"
	"sync"
)

var ErrUnsupported = errors.New("process suspension is not supported on this platform")

// Handle tracks a running player process so it can be suspended and resumed.
type Handle struct {
	mu sync.Mutex

	process   *os.Process
	suspended bool
}

func (h *Handle) Attach(p *os.Process) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.process = p
	h.suspended = false
}

func (h *Handle) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.process = nil
	h.suspended = false
}

func (h *Handle) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.process != nil
}

func (h *Handle) Suspended() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.suspended
}

func (h *Handle) Suspend() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.process == nil {
		return os.ErrProcessDone
	}

	if h.suspended {
		return nil
	}

	if err := suspend(h.process); err != nil {
		return err
	}

	h.suspended = true

	return nil
}

func (h *Handle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.process == nil {
		return os.ErrProcessDone
	}

	if !h.suspended {
		return nil
	}

	if err := resume(h.process); err != nil {
		return err
	}

	h.suspended = false

	return nil
}
