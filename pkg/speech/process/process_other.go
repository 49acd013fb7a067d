//go:build !unix

package process

import (
	"os"
)

const Supported = false

func suspend(p *os.Process) error {
	return ErrUnsupported
}

func resume(p *os.Process) error {
	return ErrUnsupported
}
