package plan

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// hostPathMarker prefixes tokens in a run-command template that name
// host paths needing their own bind mounts.
const hostPathMarker = "^"

// ExpandRunArgs parses a run-command template into an in-container
// argument vector plus the extra mounts it requires.
//
// The template is split with POSIX shell field-splitting rules (quoted
// fields with spaces stay intact), then every field carrying the ^ marker
// is treated as a host path: it is resolved to an absolute path, its
// containing directory is assigned a per-argument mount point (/arg0,
// /arg1, ... in marker order), and the field is replaced by the file's
// in-container path. Unmarked fields pass through untouched.
//
// Example:
//
//	samtools flagstat ^./sample.bam
//
// becomes the argument vector ["samtools", "flagstat", "/arg0/sample.bam"]
// with one extra mount: <abs dir of sample.bam> -> /arg0.
func ExpandRunArgs(template string) ([]string, []MountSpec, error) {
	if strings.TrimSpace(template) == "" {
		return nil, nil, fmt.Errorf("run-command template is empty")
	}

	fields, err := shell.Fields(template, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse run-command template: %w", err)
	}

	args := make([]string, 0, len(fields))
	var mounts []MountSpec

	for _, field := range fields {
		if !strings.HasPrefix(field, hostPathMarker) {
			args = append(args, field)
			continue
		}

		hostPath := strings.TrimPrefix(field, hostPathMarker)
		if hostPath == "" {
			return nil, nil, fmt.Errorf("run-command template has a bare %q marker with no path", hostPathMarker)
		}

		abs, err := filepath.Abs(hostPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve template path %q: %w", hostPath, err)
		}

		// Mount points are indexed by marker order, so repeated runs of
		// the same template produce identical plans.
		containerDir := fmt.Sprintf("/arg%d", len(mounts))
		mounts = append(mounts, MountSpec{
			HostDir:      filepath.Dir(abs),
			ContainerDir: containerDir,
		})
		args = append(args, path.Join(containerDir, filepath.Base(abs)))
	}

	if len(args) == 0 {
		return nil, nil, fmt.Errorf("run-command template produced no arguments")
	}

	return args, mounts, nil
}
