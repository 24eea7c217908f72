//go:build !darwin

package coordinator

import "context"

// watchSleep has no system sleep source outside macOS.
func watchSleep(ctx context.Context, c *Coordinator) {}
