// Package awsprofile discovers named credential profiles from the AWS
// shared config files.
package awsprofile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Discover reads ~/.aws/credentials and ~/.aws/config and returns the union
// of profile names, duplicates removed, first-seen order. A missing or
// unparsable file contributes zero profiles; only a missing home directory
// is an error.
func Discover() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return FromFiles(
		filepath.Join(home, ".aws", "credentials"),
		filepath.Join(home, ".aws", "config"),
	), nil
}

// FromFiles extracts profile names from explicit credentials/config paths.
func FromFiles(credentialsPath, configPath string) []string {
	var names []string
	names = append(names, fromCredentials(credentialsPath)...)
	names = append(names, fromConfig(configPath)...)
	return dedup(names)
}

// fromCredentials treats every section header as a profile name.
func fromCredentials(path string) []string {
	return sectionNames(path, func(name string) (string, bool) {
		return name, true
	})
}

// fromConfig only recognizes `[profile NAME]` headers; anything else,
// including the bare `[default]` section, is skipped.
func fromConfig(path string) []string {
	return sectionNames(path, func(name string) (string, bool) {
		if rest, ok := strings.CutPrefix(name, "profile "); ok {
			rest = strings.TrimSpace(rest)
			return rest, rest != ""
		}
		return "", false
	})
}

func sectionNames(path string, accept func(string) (string, bool)) []string {
	f, err := ini.LoadSources(ini.LoadOptions{SkipUnrecognizableLines: true}, path)
	if err != nil {
		return nil
	}
	var out []string
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		if name, ok := accept(sec.Name()); ok {
			out = append(out, name)
		}
	}
	return out
}

func dedup(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
