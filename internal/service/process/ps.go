package process

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"
)

// FindRunning returns the IDs of other processes whose executable is name.
func FindRunning(name string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	var found []int

	for _, p := range processList {
		if p.Pid() == thisProcessID {
			continue
		}

		if p.Executable() == name {
			found = append(found, p.Pid())
		}
	}

	return found, nil
}

// IsRunning reports whether a process with the given ID exists.
func IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	p, err := ps.FindProcess(pid)

	return err == nil && p != nil
}
