//go:build !unix

package workload

import "time"

// cpuTime is unavailable on this platform; results report zero CPU time.
func cpuTime() time.Duration {
	return 0
}
