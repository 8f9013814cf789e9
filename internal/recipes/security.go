package recipes

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

const jailLocalPath = "/etc/fail2ban/jail.local"

// JailLocal renders jail.local with the given [DEFAULT] values and the
// sshd jail enabled.
func JailLocal(bantime, findtime string, maxretry int) string {
	return fmt.Sprintf(`[DEFAULT]
bantime = %s
findtime = %s
maxretry = %d

[sshd]
enabled = true
`, bantime, findtime, maxretry)
}

var durationPattern = regexp.MustCompile(`^-?[0-9]+[smhdw]?$`)

// validateBanDuration accepts fail2ban time values such as 600, 10m or 1h.
// -1 bans forever.
func validateBanDuration(s string) error {
	if !durationPattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("use seconds or a number with s, m, h, d or w, e.g. 10m")
	}
	return nil
}

func validatePositive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number greater than zero")
	}
	return nil
}

func (d *Deps) installFail2ban(ctx context.Context) menu.Result {
	if !d.install(ctx, "fail2ban") {
		return menu.Failure("Failed to install Fail2Ban")
	}

	bantime, err := d.Prompt.Input("Ban time", "10m", validateBanDuration)
	if err != nil {
		return interrupted(err)
	}
	findtime, err := d.Prompt.Input("Find time", "10m", validateBanDuration)
	if err != nil {
		return interrupted(err)
	}
	retries, err := d.Prompt.Input("Max retries", "5", validatePositive)
	if err != nil {
		return interrupted(err)
	}
	maxretry, _ := strconv.Atoi(strings.TrimSpace(retries))

	jail := JailLocal(strings.TrimSpace(bantime), strings.TrimSpace(findtime), maxretry)
	if err := d.writeFile(jailLocalPath, jail, 0644); err != nil {
		d.logf().Error("%v", err)
		return menu.Failure("Failed to write " + jailLocalPath)
	}

	ok := d.Services.Enable(ctx, "fail2ban") && d.Services.Restart(ctx, "fail2ban")
	return outcome(ok, "Fail2Ban installed and configured", "Fail2Ban configured but the service failed to restart")
}

// ParsePorts splits a comma or space separated list of ufw port rules
// such as "80, 443/tcp, 8000:8100/udp".
func ParsePorts(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	var ports []string
	for _, f := range fields {
		if err := validatePortRule(f); err != nil {
			return nil, err
		}
		ports = append(ports, f)
	}
	return ports, nil
}

func validatePortRule(rule string) error {
	portPart, proto, hasProto := strings.Cut(rule, "/")
	if hasProto && proto != "tcp" && proto != "udp" {
		return fmt.Errorf("%s: protocol must be tcp or udp", rule)
	}
	lo, hi, isRange := strings.Cut(portPart, ":")
	if isRange && !hasProto {
		return fmt.Errorf("%s: port ranges need a protocol, e.g. %s/tcp", rule, rule)
	}
	ports := []string{lo}
	if isRange {
		ports = append(ports, hi)
	}
	for _, p := range ports {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("%s: ports are numbers from 1 to 65535", rule)
		}
	}
	return nil
}

func validatePorts(s string) error {
	_, err := ParsePorts(s)
	return err
}

func (d *Deps) configureUFW(ctx context.Context) menu.Result {
	if !d.install(ctx, "ufw") {
		return menu.Failure("Failed to install UFW")
	}

	answer, err := d.Prompt.Input("Extra ports to allow (comma separated, optional)", "80, 443", validatePorts)
	if err != nil {
		return interrupted(err)
	}
	ports, _ := ParsePorts(answer)

	cmds := []runner.Command{
		runner.Cmd("ufw", "default", "deny", "incoming"),
		runner.Cmd("ufw", "default", "allow", "outgoing"),
		runner.Cmd("ufw", "allow", "OpenSSH"),
	}
	for _, p := range ports {
		cmds = append(cmds, runner.Cmd("ufw", "allow", p))
	}
	cmds = append(cmds, runner.Cmd("ufw", "--force", "enable"))

	return outcome(d.Runner.RunSequence(ctx, cmds...), "UFW enabled", "Failed to configure UFW")
}

var domainPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,63}$`)

func validateDomain(s string) error {
	if !domainPattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("enter a domain name such as example.com")
	}
	return nil
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("enter an email address such as admin@example.com")
	}
	return nil
}

func (d *Deps) installCertbot(ctx context.Context) menu.Result {
	steps := d.steps(2)
	if !steps.Report(d.install(ctx, "certbot", "python3-certbot-nginx"), "Certbot installed") {
		return menu.Failure("Failed to install Certbot")
	}

	request, err := d.Prompt.Confirm("Request a certificate now?")
	if err != nil {
		return interrupted(err)
	}
	if !request {
		steps.Skip("Certificate request", "not requested")
		return menu.Success("Certbot installed")
	}

	domain, err := d.Prompt.Input("Domain", "example.com", validateDomain)
	if err != nil {
		return interrupted(err)
	}
	email, err := d.Prompt.Input("Contact email", "admin@example.com", validateEmail)
	if err != nil {
		return interrupted(err)
	}
	domain, email = strings.TrimSpace(domain), strings.TrimSpace(email)

	ok := d.long(ctx, "Requesting a certificate for "+domain,
		runner.Cmd("certbot", "--nginx", "-d", domain, "-m", email, "--agree-tos", "-n"))
	steps.Report(ok, "Certificate for "+domain)
	return outcome(ok, "Certbot installed and certificate issued for "+domain,
		"Certbot installed but the certificate request failed")
}
