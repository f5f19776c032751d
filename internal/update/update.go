// Package update checks GitHub releases for a newer inspex build.
package update

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	repoSlug      = "inspex/inspex"
	cacheFileName = "update.json"
	checkInterval = 24 * time.Hour
)

type checkCache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

// Check reports the latest released version and whether it is newer than
// current. The answer is cached for a day so the release API is not hit on
// every run; any failure is reported as "no newer version".
func Check(current string) (latest string, newer bool) {
	cur, err := semver.ParseTolerant(current)
	if err != nil {
		return "", false
	}

	if c, err := loadCache(); err == nil && time.Since(c.LastChecked) < checkInterval {
		latest = c.Latest
	} else {
		rel, found, err := selfupdate.DetectLatest(repoSlug)
		if err != nil || !found {
			return "", false
		}
		latest = rel.Version.String()
		saveCache(checkCache{LastChecked: time.Now(), Latest: latest})
	}

	lat, err := semver.ParseTolerant(latest)
	if err != nil {
		return "", false
	}
	return latest, lat.GT(cur)
}

func configDir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "inspex"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("no config dir")
	}
	return filepath.Join(home, ".config", "inspex"), nil
}

func loadCache() (checkCache, error) {
	var c checkCache
	dir, err := configDir()
	if err != nil {
		return c, err
	}
	b, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func saveCache(c checkCache) {
	dir, err := configDir()
	if err != nil {
		return
	}
	_ = os.MkdirAll(dir, 0o755)
	b, _ := json.MarshalIndent(c, "", "  ")
	_ = os.WriteFile(filepath.Join(dir, cacheFileName), b, 0o644)
}
