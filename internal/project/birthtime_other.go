//go:build !linux

package project

import (
	"os"
	"time"
)

// creationTime falls back to the modification time on platforms without statx.
func creationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
