package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oshokin/breathe-build/internal/config"
	"github.com/oshokin/breathe-build/internal/logger"
)

// MarkerFilename marks that a build is running in the work directory.
const MarkerFilename = "breathe-build.lock"

// errBuildRunning indicates that another build holds the marker.
var errBuildRunning = errors.New("another build is running now")

// marker is a held build marker. The file stores the owner's process ID.
type marker struct {
	path string
}

// acquireMarker creates the marker. A marker whose owner is no longer
// running is removed and created again.
func acquireMarker(ctx context.Context, path string, isRunning func(pid int) bool) (*marker, error) {
	path = filepath.Clean(path)

	for range 2 {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, config.DefaultFilePermissions)
		if err == nil {
			_, writeErr := fmt.Fprintf(file, "%d\n", os.Getpid())
			if writeErr = errors.Join(writeErr, file.Close()); writeErr != nil {
				_ = os.Remove(path)

				return nil, fmt.Errorf("write build marker: %w", writeErr)
			}

			return &marker{path: path}, nil
		}

		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create build marker: %w", err)
		}

		pid := readMarkerOwner(path)
		if isRunning(pid) {
			return nil, fmt.Errorf("pid %d: %w", pid, errBuildRunning)
		}

		logger.InfoKV(ctx, "Removing a stale build marker", "path", path, "pid", pid)

		if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale build marker: %w", err)
		}
	}

	return nil, errBuildRunning
}

// release removes the marker.
func (m *marker) release(ctx context.Context) {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to remove the build marker", "path", m.path, "error", err)
	}
}

// readMarkerOwner returns the process ID stored in the marker, or 0 when unreadable.
func readMarkerOwner(path string) int {
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		return 0
	}

	return pid
}
