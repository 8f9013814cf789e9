package recipes

import (
	"context"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

const (
	seleniumHub  = "selenium-hub"
	seleniumNode = "selenium-firefox"
)

func (d *Deps) containersMenu() *menu.Menu {
	return menu.New("Docker containers",
		menu.Item{Label: "Deploy Selenium hub with a Firefox node", Action: menu.Operation{Name: "containers/selenium", Run: d.deploySelenium}},
	)
}

// seleniumCommands starts the hub and a Firefox node linked to it. SE_OPTS
// carries the VNC password, so docker reads its value from the client
// environment and it never appears in argv.
func seleniumCommands(hubImage, nodeImage, vncPassword string) (hub, node runner.Command) {
	hub = runner.Cmd("docker", "run", "-d", "--name", seleniumHub, "-p", "4444:4444", hubImage)
	node = runner.Cmd("docker", "run", "-d",
		"--name", seleniumNode,
		"--link", seleniumHub+":hub",
		"-e", "SE_EVENT_BUS_HOST=hub",
		"-e", "SE_EVENT_BUS_PUBLISH_PORT=4442",
		"-e", "SE_EVENT_BUS_SUBSCRIBE_PORT=4443",
		"-e", "SE_OPTS",
		nodeImage).WithEnv("SE_OPTS=" + seleniumOpts(vncPassword))
	return hub, node
}

// seleniumOpts are the JVM options for the node, including the VNC viewer
// password.
func seleniumOpts(vncPassword string) string {
	return strings.Join([]string{
		"-Dwebdriver.chrome.driver=/usr/local/bin/chromedriver",
		"-Dwebdriver.gecko.driver=/usr/local/bin/geckodriver",
		"-Dwebdriver.chrome.logfile=/tmp/chromedriver.log",
		"-Dwebdriver.gecko.logfile=/tmp/geckodriver.log",
		"-Dwebdriver.chrome.verboseLogging=true",
		"-Dwebdriver.gecko.verboseLogging=true",
		"-Dwebdriver.vnc.password=" + vncPassword,
	}, " ")
}

func (d *Deps) deploySelenium(ctx context.Context) menu.Result {
	if !d.Env.HasCommand("docker") {
		return menu.Failure("Docker is not installed. Install it from the main menu first")
	}

	password, err := d.Prompt.Password("VNC password for the Firefox node")
	if err != nil {
		return interrupted(err)
	}

	hub, node := seleniumCommands(d.Config.Selenium.HubImage, d.Config.Selenium.NodeImage, password)
	steps := d.steps(2)
	if !steps.Report(d.long(ctx, "Starting the Selenium hub", hub), "Selenium hub started on port 4444") {
		return menu.Failure("Failed to start the Selenium hub")
	}
	ok := d.long(ctx, "Starting the Firefox node", node)
	steps.Report(ok, "Firefox node started")
	return outcome(ok, "Selenium grid deployed", "Selenium hub started but the Firefox node failed")
}
