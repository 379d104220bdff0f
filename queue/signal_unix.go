//go:build !windows

package queue

import (
	"os"

	"golang.org/x/sys/unix"
)

var (
	stopSignal = unix.SIGSTOP
	contSignal = unix.SIGCONT
)

func sendStopSignal(p *os.Process) error {
	return p.Signal(stopSignal)
}

func sendContSignal(p *os.Process) error {
	return p.Signal(contSignal)
}
