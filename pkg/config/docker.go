package config

import (
	"os"
	"sync"
)

// dockerHostAlias is the name Docker Desktop resolves to the host machine.
const dockerHostAlias = "host.docker.internal"

var detectDocker = sync.OnceValue(func() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
})

// IsRunningInDocker reports whether the process runs inside a Docker container.
func IsRunningInDocker() bool {
	return detectDocker()
}

// ResolveHostForDocker rewrites loopback hosts to the Docker host alias when
// running in a container, so report-store and data-source probes that point at
// "localhost" still reach services on the host machine.
func ResolveHostForDocker(host string) string {
	if !IsRunningInDocker() {
		return host
	}

	switch host {
	case "localhost", "127.0.0.1", "::1":
		return dockerHostAlias
	}
	return host
}
