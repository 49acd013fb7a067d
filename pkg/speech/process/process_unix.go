//go:build unix

package process

import (
	"os"

	"golang.org/x/sys/unix"
)

const Supported = true

func suspend(p *os.Process) error {
	return unix.Kill(p.Pid, unix.SIGSTOP)
}

func resume(p *os.Process) error {
	return unix.Kill(p.Pid, unix.SIGCONT)
}
