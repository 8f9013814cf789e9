package recipes

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

const defaultDNS = "8.8.8.8, 1.1.1.1"

func (d *Deps) networkMenu() *menu.Menu {
	return menu.New("Network configuration",
		menu.Item{Label: "Configure static IP", Action: menu.Operation{Name: "network/static", Run: d.configureStaticIP}},
		menu.Item{Label: "Configure DHCP", Action: menu.Operation{Name: "network/dhcp", Run: d.configureDHCP}},
		menu.Item{Label: "Configure virtual IP", Action: menu.Operation{Name: "network/virtual-ip", Run: d.configureVirtualIP}},
	)
}

func validatePrefix(s string) error {
	p, err := netip.ParsePrefix(strings.TrimSpace(s))
	if err != nil || !p.Addr().Is4() {
		return fmt.Errorf("enter an IPv4 address with prefix length, e.g. 10.10.10.2/24")
	}
	return nil
}

func validateAddr(s string) error {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !a.Is4() {
		return fmt.Errorf("enter an IPv4 address, e.g. 10.10.10.1")
	}
	return nil
}

// ParseDNS splits a comma or space separated list of name servers.
func ParseDNS(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	var servers []string
	for _, f := range fields {
		a, err := netip.ParseAddr(f)
		if err != nil {
			return nil, fmt.Errorf("%s is not an IP address", f)
		}
		servers = append(servers, a.String())
	}
	return servers, nil
}

func validateDNS(s string) error {
	_, err := ParseDNS(s)
	return err
}

// pickInterface lets the operator choose a NIC. ok is false on Back.
func (d *Deps) pickInterface(ctx context.Context) (string, bool, error) {
	ifaces, err := d.Env.Interfaces()
	if err != nil {
		d.logf().Warn("list interfaces: %v", err)
	}
	idx, ok, err := d.Menu.ChooseOr(ctx, "Network interfaces", "No network interfaces found.", ifaces)
	if err != nil || !ok {
		return "", false, err
	}
	return ifaces[idx], true, nil
}

func (d *Deps) configureStaticIP(ctx context.Context) menu.Result {
	iface, ok, err := d.pickInterface(ctx)
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}
	return d.staticIP(ctx, iface)
}

// staticIP prompts for the address settings of iface, offering the
// current ones as defaults, and applies them with netplan.
func (d *Deps) staticIP(ctx context.Context, iface string) menu.Result {
	address, err := d.inputDefault("IP address with prefix for "+iface, d.Env.Address(ctx, iface), validatePrefix)
	if err != nil {
		return interrupted(err)
	}
	gateway, err := d.inputDefault("Gateway", d.Env.DefaultGateway(ctx), validateAddr)
	if err != nil {
		return interrupted(err)
	}
	dnsAnswer, err := d.inputDefault("DNS servers", defaultDNS, validateDNS)
	if err != nil {
		return interrupted(err)
	}
	dns, _ := ParseDNS(dnsAnswer)

	content, err := NetplanStatic(iface, address, gateway, dns)
	if err != nil {
		d.logf().Error("render netplan: %v", err)
		return menu.Failure("Failed to build the netplan configuration")
	}

	path := filepath.Join(d.Config.Network.NetplanDir, iface+".yaml")
	steps := d.steps(2)
	if err := d.writeFile(path, string(content), 0600); err != nil {
		d.logf().Error("%v", err)
		steps.Report(false, "Static IP configuration for "+iface)
		return menu.Failure("Failed to write " + path)
	}
	steps.Report(true, "Static IP configuration written to "+path)

	applied := d.Runner.Run(ctx, runner.Cmd("netplan", "apply"))
	steps.Report(applied, "Static IP "+address+" applied on "+iface)
	return outcome(applied, "Static IP configured on "+iface, "netplan apply failed for "+iface)
}

func (d *Deps) configureDHCP(ctx context.Context) menu.Result {
	iface, ok, err := d.pickInterface(ctx)
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}

	path := filepath.Join(d.Config.Network.InterfacesDir, iface)
	steps := d.steps(2)
	if err := d.writeFile(path, DHCPStanza(iface), 0644); err != nil {
		d.logf().Error("%v", err)
		steps.Report(false, "DHCP configuration for "+iface)
		return menu.Failure("Failed to write " + path)
	}
	steps.Report(true, "DHCP configuration added for "+iface)

	ok = d.Runner.RunSequence(ctx,
		runner.Cmd("ifdown", iface),
		runner.Cmd("ifup", iface),
	)
	steps.Report(ok, "DHCP enabled on "+iface)
	return outcome(ok, "DHCP configured on "+iface, "Failed to restart "+iface)
}

// configureVirtualIP adds an extra address to an interface managed by
// netplan. DHCP interfaces are converted to static first if the operator
// agrees.
func (d *Deps) configureVirtualIP(ctx context.Context) menu.Result {
	iface, ok, err := d.pickInterface(ctx)
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}

	cfg, err := findNetplanConfig(d.Config.Network.NetplanDir, iface)
	if err != nil {
		d.logf().Error("%v", err)
		return menu.Failure("Couldn't read the netplan configuration")
	}

	if cfg != nil && cfg.DHCP() {
		d.say("Interface %s uses DHCP.", iface)
		convert, err := d.Prompt.Confirm("Configure a static IP in netplan so a virtual IP can be added?")
		if err != nil {
			return interrupted(err)
		}
		if !convert {
			return menu.Failure("A virtual IP can't be added to a DHCP interface")
		}
		if res := d.staticIP(ctx, iface); !res.Succeeded {
			return res
		}
		if cfg, err = findNetplanConfig(d.Config.Network.NetplanDir, iface); err != nil {
			d.logf().Error("%v", err)
			return menu.Failure("Couldn't read the netplan configuration")
		}
	}

	if cfg == nil {
		if data, err := os.ReadFile(d.Config.Network.InterfacesFile); err == nil && HasInterfacesStanza(string(data), iface) {
			d.say("%s is configured in %s.", iface, d.Config.Network.InterfacesFile)
		}
		return menu.Failure("No netplan configuration for " + iface + ". Configure a static IP first")
	}
	d.say("Interface %s has a static configuration in %s.", iface, cfg.Path)

	address, err := d.Prompt.Input("Virtual IP", "10.10.10.2/24", validatePrefix)
	if err != nil {
		return interrupted(err)
	}
	address = strings.TrimSpace(address)

	if !cfg.AddAddress(address) {
		return menu.Success(address + " is already configured on " + iface)
	}
	content, err := cfg.Bytes()
	if err != nil {
		d.logf().Error("render netplan: %v", err)
		return menu.Failure("Failed to update the netplan configuration")
	}

	steps := d.steps(2)
	if err := d.writeFile(cfg.Path, string(content), 0600); err != nil {
		d.logf().Error("%v", err)
		steps.Report(false, "Virtual IP "+address+" for "+iface)
		return menu.Failure("Failed to write " + cfg.Path)
	}
	steps.Report(true, "Virtual IP "+address+" added for "+iface)

	applied := d.Runner.Run(ctx, runner.Cmd("netplan", "apply"))
	steps.Report(applied, "Virtual IP "+address+" active on "+iface)
	return outcome(applied, "Virtual IP "+address+" configured on "+iface, "netplan apply failed for "+iface)
}
