package git

import (
	"bufio"
	"os"
	"regexp"
)

// slugPattern matches a remote url line such as "url = ssh://git@host/har/my-harvester.git"
// and captures the last path element without its ".git" suffix.
var slugPattern = regexp.MustCompile(`^\s*url\s*=\s*\S*/([^/\s]+)\.git\s*$`)

// ResolveRepositorySlug reads a git config file and returns the repository slug of the
// first remote url it finds. Scanning stops at the first match. A missing or unreadable
// file, or one without a matching url, yields ok == false.
func ResolveRepositorySlug(configPath string) (slug string, ok bool) {
	f, err := os.Open(configPath)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := slugPattern.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ParseSlug extracts the slug from a single config line or remote URL.
func ParseSlug(line string) (string, bool) {
	m := slugPattern.FindStringSubmatch(line)
	if m == nil {
		m = slugPattern.FindStringSubmatch("url = " + line)
	}
	if m == nil {
		return "", false
	}
	return m[1], true
}
