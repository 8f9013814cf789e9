package recipes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
	"github.com/zipdatape/menu-scripts/internal/services"
)

// phpModules are installed alongside the chosen PHP version.
var phpModules = []string{
	"php-cli", "php-fpm", "php-json", "php-common", "php-mysql", "php-zip",
	"php-gd", "php-mbstring", "php-curl", "php-xml", "php-bcmath",
}

// composerPathLine puts the binaries of `composer global require` on PATH.
const composerPathLine = `export PATH="$PATH:$HOME/.config/composer/vendor/bin"`

// composeAsset names the compose binary for this machine. Releases from 2.0
// on use a lowercase OS name.
func composeAsset(version, goos, goarch string) string {
	osName := goos
	if !strings.HasPrefix(strings.TrimPrefix(version, "v"), "1.") {
		osName = strings.ToLower(osName)
	} else if len(osName) > 0 {
		osName = strings.ToUpper(osName[:1]) + osName[1:]
	}

	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "arm":
		arch = "armv7"
	}
	return fmt.Sprintf("docker-compose-%s-%s", osName, arch)
}

func (d *Deps) installDocker(ctx context.Context) menu.Result {
	ok, err := d.Prompt.Confirm("Install Docker and Docker Compose?")
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}

	steps := d.steps(2)
	installed := d.install(ctx, "docker.io") && services.StartAndEnable(ctx, d.Services, "docker")
	if !steps.Report(installed, "Docker installed") {
		return menu.Failure("Failed to install Docker")
	}

	cfg := d.Config.Docker
	version := d.latestRelease(ctx, cfg.ReleasesURL, cfg.ComposeVersion)
	url := fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(cfg.DownloadURL, "/"), version,
		composeAsset(version, runtime.GOOS, runtime.GOARCH))

	if err := d.download(ctx, url, cfg.InstallPath, 0755); err != nil {
		d.logf().Error("%v", err)
		steps.Report(false, "Docker Compose "+version)
		return menu.Failure("Docker installed but Docker Compose failed to download")
	}
	steps.Report(true, "Docker Compose "+version+" installed")
	return menu.Success("Docker and Docker Compose installed")
}

func (d *Deps) nginxMenu() *menu.Menu {
	return menu.New("Nginx",
		menu.Item{Label: "Install Nginx", Action: menu.Operation{Name: "nginx/install", Run: func(ctx context.Context) menu.Result {
			return d.versionedInstall(ctx, "nginx", nil, "nginx", "Nginx")
		}}},
	)
}

func (d *Deps) phpMenu() *menu.Menu {
	return menu.New("PHP",
		menu.Item{Label: "Install PHP and modules", Action: menu.Operation{Name: "php/install", Run: func(ctx context.Context) menu.Result {
			return d.versionedInstall(ctx, "php", phpModules, "", "PHP")
		}}},
	)
}

// installLaravel installs composer and the Laravel installer and puts
// composer's global bin directory on root's PATH.
func (d *Deps) installLaravel(ctx context.Context) menu.Result {
	home := d.home()
	work, err := os.MkdirTemp("", "composer-setup")
	if err != nil {
		d.logf().Error("create temp dir: %v", err)
		return menu.Failure("Failed to install Laravel")
	}
	defer os.RemoveAll(work)

	steps := d.steps(3)
	prereqs := d.install(ctx, "curl", "php-cli", "php-mbstring", "unzip")
	if !steps.Report(prereqs, "Prerequisites installed") {
		return menu.Failure("Failed to install Laravel prerequisites")
	}

	composer := d.long(ctx, "Installing Composer",
		runner.Shell("curl -sS https://getcomposer.org/installer | php").InDir(work),
		runner.Cmd("mv", filepath.Join(work, "composer.phar"), "/usr/local/bin/composer"),
	)
	if !steps.Report(composer, "Composer installed") {
		return menu.Failure("Failed to install Composer")
	}

	installer := d.long(ctx, "Installing the Laravel installer",
		runner.Cmd("composer", "global", "require", "laravel/installer").
			WithEnv("COMPOSER_ALLOW_SUPERUSER=1", "HOME="+home),
	)
	if !steps.Report(installer, "Laravel installer installed") {
		return menu.Failure("Failed to install the Laravel installer")
	}

	if err := d.appendLineOnce(filepath.Join(home, ".bashrc"), composerPathLine); err != nil {
		d.logf().Error("%v", err)
		return menu.Failure("Laravel installed but PATH couldn't be updated")
	}
	return menu.Success("Laravel installed. Open a new shell to pick up the PATH change")
}

// home is root's home directory.
func (d *Deps) home() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return "/root"
}

// appendLineOnce appends line to path unless a line equal to it is
// already present.
func (d *Deps) appendLineOnce(path, line string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, l := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(l) == line {
			return nil
		}
	}
	prefix := ""
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		prefix = "\n"
	}
	return d.appendFile(path, prefix+line+"\n", 0644)
}
