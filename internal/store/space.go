package store

import (
	"fmt"

	"github.com/shirou/gopsutil/disk"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

const mebibyte = 1024 * 1024

// freeSpace reports the bytes available to unprivileged users on the
// filesystem holding path.
var freeSpace = func(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// checkFreeSpace fails with ErrInsufficientSpace when the filesystem holding
// dataDir has less than minFreeMB mebibytes free.
func checkFreeSpace(dataDir string, minFreeMB uint64) error {
	free, err := freeSpace(dataDir)
	if err != nil {
		return fmt.Errorf("disk usage of %s: %w", dataDir, err)
	}
	if free/mebibyte < minFreeMB {
		return fmt.Errorf("%w: %s has %d MiB free, need %d MiB",
			types.ErrInsufficientSpace, dataDir, free/mebibyte, minFreeMB)
	}
	return nil
}
