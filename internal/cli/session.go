package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/zipdatape/menu-scripts/internal/config"
	"github.com/zipdatape/menu-scripts/internal/errors"
	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/menu"
	"github.com/zipdatape/menu-scripts/internal/metrics"
	"github.com/zipdatape/menu-scripts/internal/prompt"
	"github.com/zipdatape/menu-scripts/internal/recipes"
	"github.com/zipdatape/menu-scripts/internal/runner"
	"github.com/zipdatape/menu-scripts/internal/services"
	"github.com/zipdatape/menu-scripts/internal/sysinfo"
	"github.com/zipdatape/menu-scripts/internal/ui"
)

// recipeHTTPTimeout bounds downloads and API calls made by recipes.
const recipeHTTPTimeout = 30 * time.Second

// defaultUpdateTimeout applies when update.timeout isn't positive.
const defaultUpdateTimeout = 3 * time.Second

// privilegeMessage is shown when the session isn't running as root.
const privilegeMessage = "This program must be run as root or with sudo"

// sessionIO is the terminal a session talks to.
type sessionIO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// Interactive is true when both stdin and stdout are terminals.
	Interactive bool
}

// session carries one interactive run from config load to exit.
type session struct {
	flags GlobalFlags
	io    sessionIO

	// euid and executable replace the process probes in tests.
	euid       func() int
	executable func() (string, error)
	// services replaces the systemd connection in tests.
	services services.Manager
}

// runSession loads config, enforces the privilege gate, runs the optional
// update check and hands the root menu to the engine. Closed input and the
// Exit entry both end the session without error.
func runSession(ctx context.Context, s *session) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, cfgPath, err := loadConfig(s.flags.ConfigPath)
	if err != nil {
		fmt.Fprintln(s.io.Err, err.Error())
		return errors.NewExitError(1)
	}

	if s.flags.NoColor {
		ui.DisableColors()
	} else {
		ui.ConfigureColors(cfg.Output.Color)
	}

	log, closeLog := openSessionLog(cfg.Log.File, s.flags.Verbose, s.io.Err)
	defer closeLog()
	if cfgPath != "" {
		log.Debug("loaded config from %s", cfgPath)
	} else {
		log.Debug("no config file found, using defaults")
	}

	run := runner.New(log, s.flags.DryRun)
	env := sysinfo.New(run, cfg.Paths)
	if s.euid != nil {
		env.Euid = s.euid
	}

	if !env.IsRoot() {
		fmt.Fprint(s.io.Err, errors.New(errors.ErrPrivilege, privilegeMessage, "Re-run it as: sudo menu").Error())
		log.Debug("privilege gate: euid %d", env.Euid())
		return errors.NewExitError(1)
	}

	fmt.Fprint(s.io.Out, ui.RenderHeader(ui.HeaderInfo{
		Name:    "menu",
		Version: formatVersion(version),
		Tagline: hostnameTagline(),
	}))

	if cfg.Update.Enabled && !s.flags.updateCheckDisabled() {
		if latest := s.checkForUpdate(ctx, cfg.Update, log); latest != "" {
			fmt.Fprintln(s.io.Out, ui.WarningStyle().Render(updateNotice(latest)))
		}
	}

	svc := s.services
	if svc == nil {
		svc = services.New(ctx, run, log, s.flags.DryRun)
	}
	defer svc.Close()

	rec := metrics.New(cfg.Metrics.Textfile)
	engine := menu.NewEngine(s.io.In, s.io.Out, menu.Options{
		ClearScreen: cfg.Output.ClearScreen && s.io.Interactive,
		Pause:       cfg.Output.Pause,
		OnResult:    resultHook(log, rec),
		Logger:      log,
	})

	deps := &recipes.Deps{
		Menu:       engine,
		Runner:     run,
		Services:   svc,
		Prompt:     prompt.New(engine, s.io.Out, s.io.Interactive),
		Env:        env,
		Config:     cfg,
		Log:        log,
		HTTP:       &http.Client{Timeout: recipeHTTPTimeout},
		Out:        s.io.Out,
		DryRun:     s.flags.DryRun,
		Spin:       s.io.Interactive,
		Executable: s.executable,
	}

	err = engine.Run(ctx, recipes.RootMenu(deps))
	switch {
	case err == nil, stderrors.Is(err, menu.ErrQuit):
		return nil
	case stderrors.Is(err, menu.ErrInputClosed):
		log.Debug("input closed, ending session")
		return nil
	default:
		wrapped := errors.WrapWithCode(err, errors.ErrInput, "Menu session ended unexpectedly", "")
		fmt.Fprintln(s.io.Err, wrapped.Error())
		return errors.NewExitError(1)
	}
}

// loadConfig finds, loads and validates the config file, falling back to
// defaults when none exists.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return nil, path, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// openSessionLog returns the session logger. Lines go to errOut and, when
// file is set, are appended to it too.
func openSessionLog(file string, verbose bool, errOut io.Writer) (logger.Logger, func()) {
	w := errOut
	closeFn := func() {}

	if file != "" {
		var f *os.File
		err := os.MkdirAll(filepath.Dir(file), 0755)
		if err == nil {
			f, err = os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		}
		if err != nil {
			fmt.Fprintln(errOut, ui.StatusLine(false, fmt.Sprintf("Can't open log file %s: %v", file, err), 0, 0))
		} else {
			w = io.MultiWriter(errOut, f)
			closeFn = func() { f.Close() }
		}
	}

	log := logger.NewSession(logger.Options{Writer: w, Verbose: verbose})
	logger.SetDefault(log)
	return log, closeFn
}

// checkForUpdate runs the release check, animated when attached to a
// terminal. Failures are logged at debug level and never shown.
func (s *session) checkForUpdate(ctx context.Context, cfg config.UpdateConfig, log logger.Logger) string {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultUpdateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checker := &updateChecker{
		client:  &http.Client{Timeout: timeout},
		url:     cfg.ReleasesURL,
		current: version,
	}

	var latest string
	var checkErr error
	task := func(ctx context.Context) error {
		latest, checkErr = checker.Check(ctx)
		return nil
	}

	if s.io.Interactive {
		if err := ui.RunWithSpinner(ctx, s.io.Out, "Checking for updates", task); err != nil {
			log.Debug("update spinner: %v", err)
		}
	} else {
		_ = task(ctx)
	}

	if checkErr != nil {
		log.Debug("update check failed: %v", checkErr)
		return ""
	}
	return latest
}

// resultHook logs every operation outcome and records it in metrics.
func resultHook(log logger.Logger, rec *metrics.Recorder) menu.ResultHook {
	return func(name string, res menu.Result, elapsed time.Duration) {
		result := resultLabel(res)
		log.Debug("operation %s: %s in %s: %s", name, result, elapsed.Round(time.Millisecond), res.Message)
		if err := rec.Observe(name, result, elapsed); err != nil {
			log.Warn("%v", err)
		}
	}
}

// resultLabel is the metrics label for a Result.
func resultLabel(res menu.Result) string {
	switch {
	case res.Succeeded:
		return "success"
	case res == menu.Cancelled():
		return "cancelled"
	default:
		return "failure"
	}
}

func hostnameTagline() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "Server provisioning"
	}
	return "Server provisioning on " + host
}
