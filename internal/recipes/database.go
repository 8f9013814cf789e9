package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/runner"
)

const mysqldConfig = "/etc/mysql/mysql.conf.d/mysqld.cnf"

// sqlQuote renders s as a single-quoted SQL string literal.
func sqlQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// mysqlSQL feeds stmt to the mysql client on stdin. A non-empty password
// authenticates as root through MYSQL_PWD; otherwise the client relies on
// socket authentication.
func mysqlSQL(password, stmt string) runner.Command {
	cmd := runner.Cmd("mysql").WithStdin(stmt + "\n")
	if password != "" {
		cmd = runner.Cmd("mysql", "-u", "root").WithStdin(stmt + "\n").WithEnv("MYSQL_PWD=" + password)
	}
	return cmd
}

// hardeningSQL sets the root password and removes anonymous users and the
// test database. The statements share one client session because root
// loses socket authentication once the ALTER runs.
func hardeningSQL(alterRoot string) runner.Command {
	return mysqlSQL("", strings.Join([]string{
		alterRoot,
		"DELETE FROM mysql.user WHERE User='';",
		"DROP DATABASE IF EXISTS test;",
		`DELETE FROM mysql.db WHERE Db='test' OR Db='test\_%';`,
		"FLUSH PRIVILEGES;",
	}, "\n"))
}

// validateSQLUser accepts MySQL account names up to 32 characters.
func validateSQLUser(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return fmt.Errorf("user name is required")
	case len(s) > 32:
		return fmt.Errorf("user name must be 32 characters or fewer")
	case strings.ContainsAny(s, "'\"`\\@ \t"):
		return fmt.Errorf("user name can't contain quotes, backslashes, @ or spaces")
	}
	return nil
}

func (d *Deps) mysqlMenu() *menu.Menu {
	return menu.New("MySQL",
		menu.Item{Label: "Install MySQL and remove test data", Action: menu.Operation{Name: "mysql/install", Run: d.installMySQL}},
		menu.Item{Label: "Create MySQL users", Action: menu.Operation{Name: "mysql/users", Run: d.createMySQLUsers}},
		menu.Item{Label: "Allow remote connections", Action: menu.Operation{Name: "mysql/remote", Run: d.enableMySQLRemote}},
		menu.Item{Label: "Grant privileges to a user", Action: menu.Operation{Name: "mysql/grant", Run: d.grantMySQL}},
	)
}

func (d *Deps) mariadbMenu() *menu.Menu {
	return menu.New("MariaDB",
		menu.Item{Label: "Install MariaDB and remove test data", Action: menu.Operation{Name: "mariadb/install", Run: d.installMariaDB}},
	)
}

func (d *Deps) installMySQL(ctx context.Context) menu.Result {
	return d.installDatabase(ctx, "mysql-server", "MySQL", func(pw string) string {
		return fmt.Sprintf("ALTER USER 'root'@'localhost' IDENTIFIED WITH mysql_native_password BY %s;", sqlQuote(pw))
	})
}

func (d *Deps) installMariaDB(ctx context.Context) menu.Result {
	return d.installDatabase(ctx, "mariadb-server", "MariaDB", func(pw string) string {
		return fmt.Sprintf("ALTER USER 'root'@'localhost' IDENTIFIED BY %s;", sqlQuote(pw))
	})
}

// installDatabase installs a MySQL-compatible server at a picked version,
// sets the root password and removes the test data.
func (d *Deps) installDatabase(ctx context.Context, pkg, label string, alterRoot func(password string) string) menu.Result {
	version, ok, err := d.pickVersion(ctx, pkg)
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}

	steps := d.steps(2)
	if !steps.Report(d.install(ctx, pkg+"="+version), label+" installed") {
		return menu.Failure("Failed to install " + label)
	}

	password, err := d.Prompt.Password(fmt.Sprintf("Password for the %s root user", label))
	if err != nil {
		return interrupted(err)
	}

	ok = d.Runner.Run(ctx, hardeningSQL(alterRoot(password)))
	steps.Report(ok, label+" secured and test data removed")
	return outcome(ok, label+" "+version+" ready", "Failed to configure "+label)
}

func (d *Deps) rootPassword() (string, error) {
	return d.Prompt.Password("Password for the MySQL root user")
}

func (d *Deps) createMySQLUsers(ctx context.Context) menu.Result {
	rootPW, err := d.rootPassword()
	if err != nil {
		return interrupted(err)
	}

	created, failed := 0, 0
	for {
		more, err := d.Prompt.Confirm("Create another MySQL user?")
		if err != nil {
			return interrupted(err)
		}
		if !more {
			break
		}

		user, err := d.Prompt.Input("MySQL user name", "app", validateSQLUser)
		if err != nil {
			return interrupted(err)
		}
		user = strings.TrimSpace(user)
		password, err := d.Prompt.Password("Password for " + user)
		if err != nil {
			return interrupted(err)
		}

		stmt := fmt.Sprintf("CREATE USER %s@'%%' IDENTIFIED BY %s;", sqlQuote(user), sqlQuote(password))
		ok := d.Runner.Run(ctx, mysqlSQL(rootPW, stmt))
		if ok {
			created++
			d.say("%s", statusLine(true, "MySQL user "+user+" created"))
		} else {
			failed++
			d.say("%s", statusLine(false, "Failed to create MySQL user "+user))
		}
	}

	return tally(created, failed, "MySQL user")
}

func (d *Deps) enableMySQLRemote(ctx context.Context) menu.Result {
	ok := d.Runner.Run(ctx, runner.Cmd("sed", "-i", "s/^bind-address.*/bind-address = 0.0.0.0/", mysqldConfig)) &&
		d.Services.Restart(ctx, "mysql")
	return outcome(ok, "MySQL remote connections enabled", "Failed to enable MySQL remote connections")
}

// ParseMySQLUsers splits batch-mode client output into user names,
// skipping client warnings and errors.
func ParseMySQLUsers(out string) []string {
	var users []string
	for _, line := range strings.Split(out, "\n") {
		u := strings.TrimSpace(line)
		if u == "" || strings.HasPrefix(u, "ERROR") || strings.HasPrefix(u, "mysql:") {
			continue
		}
		users = append(users, u)
	}
	return users
}

func (d *Deps) grantMySQL(ctx context.Context) menu.Result {
	rootPW, err := d.rootPassword()
	if err != nil {
		return interrupted(err)
	}

	list := runner.Cmd("mysql", "-u", "root", "-N", "-B", "-e",
		"SELECT User FROM mysql.user WHERE User != 'root' AND Host != 'localhost';").WithEnv("MYSQL_PWD=" + rootPW)
	users := ParseMySQLUsers(d.Runner.Capture(ctx, list))

	idx, ok, err := d.Menu.ChooseOr(ctx, "MySQL users", "No remote MySQL users found.", users)
	if err != nil {
		return interrupted(err)
	}
	if !ok {
		return menu.Cancelled()
	}
	user := users[idx]

	ok = d.Runner.RunSequence(ctx,
		mysqlSQL(rootPW, fmt.Sprintf("GRANT ALL PRIVILEGES ON *.* TO %s@'%%' WITH GRANT OPTION;", sqlQuote(user))),
		mysqlSQL(rootPW, "FLUSH PRIVILEGES;"),
	)
	return outcome(ok, "Privileges granted to "+user, "Failed to grant privileges to "+user)
}
