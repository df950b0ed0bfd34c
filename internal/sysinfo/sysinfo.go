// Package sysinfo detects properties of the execution environment.
package sysinfo

import (
	"os"
	"strings"
	"sync"
)

//nolint:gochecknoglobals // The environment cannot change while the process runs, so detect once.
var (
	inDockerOnce   sync.Once
	inDockerResult bool
)

// InDocker reports whether the process runs inside a container.
// The result is computed once and cached.
func InDocker() bool {
	inDockerOnce.Do(func() {
		inDockerResult = detectDocker()
	})

	return inDockerResult
}

func detectDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	// cgroup paths mention the container runtime when running containerized.
	content, err := os.ReadFile("/proc/1/cgroup")
	if err != nil {
		return false
	}

	for _, marker := range []string{"docker", "kubepods", "containerd"} {
		if strings.Contains(string(content), marker) {
			return true
		}
	}

	return false
}
