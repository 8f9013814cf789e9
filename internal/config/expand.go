package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// pathVars are the ${...} variables allowed in configured paths.
var pathVars = []struct {
	name  string
	value func() string
}{
	{"${USER}", currentUser},
	{"${HOME}", homeDir},
	{"${HOSTNAME}", hostname},
}

// ExpandPath resolves a leading ~ or ~/ to the home directory, then
// replaces ${USER}, ${HOME} and ${HOSTNAME}. ~name is left alone.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		path = homeDir()
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(homeDir(), path[2:])
	}
	for _, v := range pathVars {
		if strings.Contains(path, v.name) {
			path = strings.ReplaceAll(path, v.name, v.value())
		}
	}
	return path
}

// expandPaths applies ExpandPath to every file or directory the config
// names.
func expandPaths(cfg *Config) {
	for _, p := range []*string{
		&cfg.Log.File,
		&cfg.Metrics.Textfile,
		&cfg.Update.Dir,
		&cfg.Docker.InstallPath,
		&cfg.SSHLogging.LogDir,
		&cfg.Network.NetplanDir,
		&cfg.Network.InterfacesFile,
		&cfg.Network.InterfacesDir,
		&cfg.Cron.File,
	} {
		*p = ExpandPath(*p)
	}
}

func currentUser() string {
	for _, key := range []string{"USER", "LOGNAME"} {
		if u := os.Getenv(key); u != "" {
			return u
		}
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "root"
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "/root"
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}
