package recipes

import (
	"context"

	"github.com/zipdatape/menu-scripts/internal/menu"
)

// RootTitle is the title of the top-level menu.
const RootTitle = "Installation Menu"

// Entry is one root menu entry with the stable ID config refers to it by.
type Entry struct {
	ID     string
	Label  string
	Action menu.Action
}

// Catalog returns every root entry in default order.
func Catalog(d *Deps) []Entry {
	op := func(id string, run func(context.Context) menu.Result) menu.Operation {
		return menu.Operation{Name: id, Run: run}
	}
	sub := func(build func() *menu.Menu) menu.Submenu {
		return menu.Submenu{Build: build}
	}

	return []Entry{
		{"multipath", "Configure multipathd", op("multipath", d.configureMultipath)},
		{"timezone", "Configure timezone (" + d.Config.Timezone + ")", op("timezone", d.configureTimezone)},
		{"ssh-users", "Create SSH users", op("ssh-users", d.createSSHUsers)},
		{"mysql", "Configure MySQL", sub(d.mysqlMenu)},
		{"mariadb", "Configure MariaDB", sub(d.mariadbMenu)},
		{"docker", "Install Docker and Docker Compose", op("docker", d.installDocker)},
		{"nginx", "Install Nginx", sub(d.nginxMenu)},
		{"php", "Install PHP and modules", sub(d.phpMenu)},
		{"laravel", "Install Laravel", op("laravel", d.installLaravel)},
		{"fail2ban", "Install Fail2Ban", op("fail2ban", d.installFail2ban)},
		{"ufw", "Install and configure UFW", op("ufw", d.configureUFW)},
		{"git", "Install Git", d.installPackage("git", "git")},
		{"certbot", "Install Certbot for SSL/TLS certificates", op("certbot", d.installCertbot)},
		{"ssh-logging", "SSH command logging", op("ssh-logging", d.configureSSHLogging)},
		{"expand-disk", "Expand disk", op("expand-disk", d.expandDisk)},
		{"cron", "Automate system optimization with cronjob", op("cron", d.configureCron)},
		{"containers", "Manage Docker containers", sub(d.containersMenu)},
		{"network", "Configure network", sub(d.networkMenu)},
		{"update", "Update menu", op("update", d.selfUpdate)},
		{"elasticsearch", "Manage Elasticsearch indices", op("elasticsearch", d.manageElasticsearch)},
		{"new-disk", "Configure new disk", op("new-disk", d.configureNewDisk)},
	}
}

// RootMenu builds the top-level menu in the configured order, leaving out
// hidden entries.
func RootMenu(d *Deps) *menu.Menu {
	byID := make(map[string]Entry)
	for _, e := range Catalog(d) {
		byID[e.ID] = e
	}

	var items []menu.Item
	for _, id := range d.Config.Catalog.ResolveOrder() {
		if e, ok := byID[id]; ok {
			items = append(items, menu.Item{Label: e.Label, Action: e.Action})
		}
	}

	m := menu.New(RootTitle, items...)
	m.BackLabel = "Exit"
	return m
}
