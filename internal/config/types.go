package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Catalog IDs in default display order.
var CatalogIDs = []string{
	"multipath",
	"timezone",
	"ssh-users",
	"mysql",
	"mariadb",
	"docker",
	"nginx",
	"php",
	"laravel",
	"fail2ban",
	"ufw",
	"git",
	"certbot",
	"ssh-logging",
	"expand-disk",
	"cron",
	"containers",
	"network",
	"update",
	"elasticsearch",
	"new-disk",
}

// Config represents the complete menu configuration file.
type Config struct {
	Version       int                 `yaml:"version" mapstructure:"version"`
	Timezone      string              `yaml:"timezone" mapstructure:"timezone"`
	Update        UpdateConfig        `yaml:"update" mapstructure:"update"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
	Metrics       MetricsConfig       `yaml:"metrics" mapstructure:"metrics"`
	Catalog       CatalogConfig       `yaml:"catalog" mapstructure:"catalog"`
	Docker        DockerConfig        `yaml:"docker" mapstructure:"docker"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch" mapstructure:"elasticsearch"`
	SSHLogging    SSHLoggingConfig    `yaml:"ssh_logging" mapstructure:"ssh_logging"`
	Network       NetworkConfig       `yaml:"network" mapstructure:"network"`
	Disk          DiskConfig          `yaml:"disk" mapstructure:"disk"`
	Cron          CronConfig          `yaml:"cron" mapstructure:"cron"`
	Selenium      SeleniumConfig      `yaml:"selenium" mapstructure:"selenium"`
	Paths         PathsConfig         `yaml:"paths" mapstructure:"paths"`
}

// UpdateConfig controls the startup release check and the self-update recipe.
type UpdateConfig struct {
	// Enabled toggles the startup check.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Repo is the git repository the update recipe clones.
	Repo string `yaml:"repo" mapstructure:"repo"`

	// Dir is the working copy used by the update recipe.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// ReleasesURL is the GitHub API endpoint for the latest release.
	ReleasesURL string `yaml:"releases_url" mapstructure:"releases_url"`

	// Timeout bounds the startup check.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// ClearScreen clears the terminal before each menu render.
	ClearScreen bool `yaml:"clear_screen" mapstructure:"clear_screen"`

	// Pause waits for Enter after every operation.
	Pause bool `yaml:"pause" mapstructure:"pause"`
}

// LogConfig controls the session log.
type LogConfig struct {
	// File receives log lines in addition to stderr. Empty disables it.
	File string `yaml:"file" mapstructure:"file"`
}

// MetricsConfig controls the node_exporter textfile.
type MetricsConfig struct {
	// Textfile is rewritten after every operation. Empty disables metrics.
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// CatalogConfig reorders or hides root menu entries.
type CatalogConfig struct {
	// Order lists catalog IDs. IDs missing from Order are appended in default order.
	Order []string `yaml:"order" mapstructure:"order"`

	// Hidden catalog IDs are left out of the root menu.
	Hidden []string `yaml:"hidden" mapstructure:"hidden"`
}

// DockerConfig controls the Docker Compose download.
type DockerConfig struct {
	// ComposeVersion is used when the latest release can't be fetched.
	ComposeVersion string `yaml:"compose_version" mapstructure:"compose_version"`

	// ReleasesURL is the GitHub API endpoint for the latest compose release.
	ReleasesURL string `yaml:"releases_url" mapstructure:"releases_url"`

	// DownloadURL is the base URL release binaries are fetched from.
	DownloadURL string `yaml:"download_url" mapstructure:"download_url"`

	// InstallPath is where the compose binary is written.
	InstallPath string `yaml:"install_path" mapstructure:"install_path"`
}

// ElasticsearchConfig holds defaults offered by the index manager.
type ElasticsearchConfig struct {
	Host     string        `yaml:"host" mapstructure:"host"`
	SSL      bool          `yaml:"ssl" mapstructure:"ssl"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SSHLoggingConfig controls where per-user command logs go.
type SSHLoggingConfig struct {
	LogDir string `yaml:"log_dir" mapstructure:"log_dir"`
}

// NetworkConfig points at the network configuration files.
type NetworkConfig struct {
	NetplanDir     string `yaml:"netplan_dir" mapstructure:"netplan_dir"`
	InterfacesFile string `yaml:"interfaces_file" mapstructure:"interfaces_file"`
	InterfacesDir  string `yaml:"interfaces_dir" mapstructure:"interfaces_dir"`
}

// DiskConfig controls disk recipes.
type DiskConfig struct {
	Fstab           string `yaml:"fstab" mapstructure:"fstab"`
	ExpandDevice    string `yaml:"expand_device" mapstructure:"expand_device"`
	ExpandPartition int    `yaml:"expand_partition" mapstructure:"expand_partition"`
}

// CronConfig controls the optimization cron job.
type CronConfig struct {
	File string `yaml:"file" mapstructure:"file"`
	User string `yaml:"user" mapstructure:"user"`
}

// SeleniumConfig names the images used for the Selenium grid.
type SeleniumConfig struct {
	HubImage  string `yaml:"hub_image" mapstructure:"hub_image"`
	NodeImage string `yaml:"node_image" mapstructure:"node_image"`
}

// PathsConfig holds system files read by the environment probe.
type PathsConfig struct {
	Passwd      string `yaml:"passwd" mapstructure:"passwd"`
	SysClassNet string `yaml:"sys_class_net" mapstructure:"sys_class_net"`
	HomeRoot    string `yaml:"home_root" mapstructure:"home_root"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Timezone: "America/Lima",
		Update: UpdateConfig{
			Enabled:     true,
			Repo:        "https://github.com/De0xyS3/menu_scripts",
			Dir:         "/tmp/menu_scripts",
			ReleasesURL: "https://api.github.com/repos/De0xyS3/menu_scripts/releases/latest",
			Timeout:     3 * time.Second,
		},
		Output: OutputConfig{
			Color:       "auto",
			ClearScreen: true,
			Pause:       true,
		},
		Catalog: CatalogConfig{
			Order:  append([]string(nil), CatalogIDs...),
			Hidden: []string{},
		},
		Docker: DockerConfig{
			ComposeVersion: "1.29.2",
			ReleasesURL:    "https://api.github.com/repos/docker/compose/releases/latest",
			DownloadURL:    "https://github.com/docker/compose/releases/download",
			InstallPath:    "/usr/local/bin/docker-compose",
		},
		Elasticsearch: ElasticsearchConfig{
			Host:    "localhost:9200",
			Timeout: 10 * time.Second,
		},
		SSHLogging: SSHLoggingConfig{
			LogDir: "/var/log/ssh_commands",
		},
		Network: NetworkConfig{
			NetplanDir:     "/etc/netplan",
			InterfacesFile: "/etc/network/interfaces",
			InterfacesDir:  "/etc/network/interfaces.d",
		},
		Disk: DiskConfig{
			Fstab:           "/etc/fstab",
			ExpandDevice:    "/dev/sda",
			ExpandPartition: 1,
		},
		Cron: CronConfig{
			File: "/etc/cron.d/optimize_system",
			User: "root",
		},
		Selenium: SeleniumConfig{
			HubImage:  "selenium/hub",
			NodeImage: "selenium/node-firefox",
		},
		Paths: PathsConfig{
			Passwd:      "/etc/passwd",
			SysClassNet: "/sys/class/net",
			HomeRoot:    "/home",
		},
	}
}
