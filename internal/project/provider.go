// Package project resolves the facts about a harvester repository that the CI topology
// is derived from. Every resolver is tolerant: missing inputs yield an absent value,
// never an error.
package project

import (
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// harvesterFilePattern matches "<Identifier>Harvester.<ext>" and captures the identifier.
var harvesterFilePattern = regexp.MustCompile(`^(\w+)Harvester\.[A-Za-z0-9]+$`)

type candidate struct {
	providerID string
	created    time.Time
}

// ResolveProviderID scans dir (not recursively) for harvester source files and returns
// the identifier of the oldest one, i.e. the original harvester rather than later
// variants. Creation time comes from the file system where available and falls back to
// the modification time, so the result is platform-dependent when files share a timestamp.
// A missing or unreadable directory, or one without matches, yields ok == false.
func ResolveProviderID(dir string) (providerID string, ok bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := harvesterFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		created, err := creationTime(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{providerID: m[1], created: created})
	}
	return oldest(candidates)
}

// oldest returns the candidate with the earliest creation time. On equal timestamps the
// earlier candidate in the slice is kept.
func oldest(candidates []candidate) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.created.Before(best.created) {
			best = c
		}
	}
	return best.providerID, true
}
