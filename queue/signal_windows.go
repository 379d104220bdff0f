//go:build windows

package queue

import (
	"fmt"
	"os"
)

func sendStopSignal(p *os.Process) error {
	return fmt.Errorf("SIGSTOP not supported on this platform")
}

func sendContSignal(p *os.Process) error {
	return fmt.Errorf("SIGCONT not supported on this platform")
}
