package project

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

const (
	developersOpeningTag = "<developers>"
	developersClosingTag = "</developers>"
)

var emailTagPattern = regexp.MustCompile(`^\s*<email>(.+?)</email>\s*$`)

// ResolveDeveloperEmails reads a Maven pom.xml as plain text and returns the values of
// the <email> lines found between the <developers> and </developers> lines, in order.
// A missing file or developers block yields an empty slice.
func ResolveDeveloperEmails(manifestPath string) []string {
	emails := []string{}

	f, err := os.Open(manifestPath)
	if err != nil {
		return emails
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	inBlock := false
	for scanner.Scan() {
		line := scanner.Text()
		if !inBlock {
			inBlock = strings.Contains(line, developersOpeningTag)
			continue
		}
		if strings.Contains(line, developersClosingTag) {
			break
		}
		if m := emailTagPattern.FindStringSubmatch(line); m != nil {
			emails = append(emails, m[1])
		}
	}
	return emails
}
