package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zipdatape/menu-scripts/internal/recipes"
)

// updateCheckCacheTTL is how long to cache the update check result
const updateCheckCacheTTL = 24 * time.Hour

// updateCache stores cached update check results
type updateCache struct {
	LatestVersion string    `json:"latest_version"`
	CheckedAt     time.Time `json:"checked_at"`
}

// getCacheDir returns the cache directory for menu
func getCacheDir() (string, error) {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		cacheDir = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cacheDir, "menu"), nil
}

func getCachePath() (string, error) {
	cacheDir, err := getCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "update-check"), nil
}

func readUpdateCache() (*updateCache, error) {
	cachePath, err := getCachePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}

	var cache updateCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}
	return &cache, nil
}

func writeUpdateCache(cache *updateCache) error {
	cachePath, err := getCachePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	return os.WriteFile(cachePath, data, 0644)
}

// isCacheValid returns true if the cache is still within TTL
func isCacheValid(cache *updateCache, now time.Time) bool {
	return now.Sub(cache.CheckedAt) < updateCheckCacheTTL
}

// normalizeVersion removes 'v' prefix and returns cleaned version string
func normalizeVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// isNewerVersion returns true if latest is newer than current. Versions
// compare field by field as dotted numbers; a pre-release suffix is ignored.
func isNewerVersion(current, latest string) bool {
	current = normalizeVersion(current)
	latest = normalizeVersion(latest)

	if current == "dev" || current == "" || latest == "" {
		return false
	}

	cur, lat := versionFields(current), versionFields(latest)
	for i := 0; i < len(cur) || i < len(lat); i++ {
		var c, l int
		if i < len(cur) {
			c = cur[i]
		}
		if i < len(lat) {
			l = lat[i]
		}
		if l != c {
			return l > c
		}
	}
	return false
}

func versionFields(v string) []int {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}

// updateChecker looks up the latest release, consulting the cache first.
type updateChecker struct {
	client  *http.Client
	url     string
	current string
	now     func() time.Time
}

// Check returns the latest release tag when it is newer than the running
// version, and "" otherwise. A fresh cache entry avoids the network.
func (u *updateChecker) Check(ctx context.Context) (string, error) {
	now := time.Now
	if u.now != nil {
		now = u.now
	}

	cache, err := readUpdateCache()
	if err == nil && isCacheValid(cache, now()) {
		return newerOrEmpty(u.current, cache.LatestVersion), nil
	}

	latest, err := recipes.LatestRelease(ctx, u.client, u.url)
	if err != nil {
		return "", err
	}

	// Cache write errors aren't worth reporting.
	_ = writeUpdateCache(&updateCache{LatestVersion: latest, CheckedAt: now()})

	return newerOrEmpty(u.current, latest), nil
}

func newerOrEmpty(current, latest string) string {
	if isNewerVersion(current, latest) {
		return latest
	}
	return ""
}

// updateNotice is printed above the root menu when a release is newer.
func updateNotice(latest string) string {
	return fmt.Sprintf("A new version is available: %s\nChoose \"Update menu\" to rebuild from the latest sources.",
		formatVersion(latest))
}
