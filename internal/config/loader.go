package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zipdatape/menu-scripts/internal/errors"
)

const (
	// SystemConfigFile is the machine-wide config file.
	SystemConfigFile = "/etc/menu/config.yaml"
	// UserConfigDir is the per-user config directory, relative to home.
	UserConfigDir = ".config/menu"
	// UserConfigFile is the per-user config file name.
	UserConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Create "+SystemConfigFile+" or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. /etc/menu/config.yaml
// 3. ~/.config/menu/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", nil
}

// searchPaths lists the implicit config locations in priority order.
var searchPaths = func() []string {
	paths := []string{SystemConfigFile}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, UserConfigDir, UserConfigFile))
	}
	return paths
}

// LoadOrDefault loads config from the found path, or returns defaults if not found.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		return DefaultConfig(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v, cfg)

	// Lists come only from viper so a shorter list in the file replaces the default.
	cfg.Catalog.Order = nil
	cfg.Catalog.Hidden = nil

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if cfg.Catalog.Hidden == nil {
		cfg.Catalog.Hidden = []string{}
	}
	expandPaths(cfg)

	return cfg, nil
}

// setDefaults registers every default with viper so partial sections
// in the file keep the remaining defaults.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("update.enabled", d.Update.Enabled)
	v.SetDefault("update.repo", d.Update.Repo)
	v.SetDefault("update.dir", d.Update.Dir)
	v.SetDefault("update.releases_url", d.Update.ReleasesURL)
	v.SetDefault("update.timeout", d.Update.Timeout.String())
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("output.clear_screen", d.Output.ClearScreen)
	v.SetDefault("output.pause", d.Output.Pause)
	v.SetDefault("catalog.order", d.Catalog.Order)
	v.SetDefault("docker.compose_version", d.Docker.ComposeVersion)
	v.SetDefault("docker.releases_url", d.Docker.ReleasesURL)
	v.SetDefault("docker.download_url", d.Docker.DownloadURL)
	v.SetDefault("docker.install_path", d.Docker.InstallPath)
	v.SetDefault("elasticsearch.host", d.Elasticsearch.Host)
	v.SetDefault("elasticsearch.timeout", d.Elasticsearch.Timeout.String())
	v.SetDefault("ssh_logging.log_dir", d.SSHLogging.LogDir)
	v.SetDefault("network.netplan_dir", d.Network.NetplanDir)
	v.SetDefault("network.interfaces_file", d.Network.InterfacesFile)
	v.SetDefault("network.interfaces_dir", d.Network.InterfacesDir)
	v.SetDefault("disk.fstab", d.Disk.Fstab)
	v.SetDefault("disk.expand_device", d.Disk.ExpandDevice)
	v.SetDefault("disk.expand_partition", d.Disk.ExpandPartition)
	v.SetDefault("cron.file", d.Cron.File)
	v.SetDefault("cron.user", d.Cron.User)
	v.SetDefault("selenium.hub_image", d.Selenium.HubImage)
	v.SetDefault("selenium.node_image", d.Selenium.NodeImage)
	v.SetDefault("paths.passwd", d.Paths.Passwd)
	v.SetDefault("paths.sys_class_net", d.Paths.SysClassNet)
	v.SetDefault("paths.home_root", d.Paths.HomeRoot)
}
