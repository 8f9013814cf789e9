package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zipdatape/menu-scripts/internal/logger"
	"github.com/zipdatape/menu-scripts/internal/ui"
)

const (
	clearScreen    = "\033[H\033[2J"
	invalidOption  = "Invalid option! Please select a valid option."
	pausePrompt    = "Press [Enter] to continue..."
	defaultNoItems = "No items found."
)

var (
	// ErrQuit unwinds every active menu after an operation asked to end
	// the session.
	ErrQuit = errors.New("menu: quit requested")
	// ErrInputClosed is returned when the operator's input reaches EOF.
	ErrInputClosed = errors.New("menu: input closed")
)

// State is the engine's position in its display/dispatch cycle.
type State int

const (
	Displaying State = iota
	Dispatching
	Exited
)

func (s State) String() string {
	switch s {
	case Displaying:
		return "displaying"
	case Dispatching:
		return "dispatching"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// ResultHook observes every completed operation.
type ResultHook func(name string, res Result, elapsed time.Duration)

// Options tunes how the engine presents menus.
type Options struct {
	// ClearScreen clears the terminal before each render.
	ClearScreen bool
	// Pause waits for Enter after each operation so its output stays visible.
	Pause bool
	// OnResult is called after each operation completes.
	OnResult ResultHook
	Logger   logger.Logger
}

// Engine drives menus over a line-oriented input and an output stream.
type Engine struct {
	in     *bufio.Reader
	out    io.Writer
	opts   Options
	log    logger.Logger
	state  State
	notice string
}

// NewEngine creates an engine reading operator input from in.
func NewEngine(in io.Reader, out io.Writer, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Engine{in: br, out: out, opts: opts, log: log, state: Displaying}
}

// Reader returns the shared input reader so prompts consume the same stream.
func (e *Engine) Reader() *bufio.Reader { return e.in }

// Writer returns the engine's output stream.
func (e *Engine) Writer() io.Writer { return e.out }

// State returns the engine's current state.
func (e *Engine) State() State { return e.state }

// Run displays m and dispatches selections until the operator picks the
// terminal entry (nil), an operation asks to quit (ErrQuit), input ends
// (ErrInputClosed), or ctx is cancelled.
func (e *Engine) Run(ctx context.Context, m *Menu) error {
	total := len(m.Items) + 1
	for {
		if err := ctx.Err(); err != nil {
			e.state = Exited
			return err
		}

		e.state = Displaying
		e.render(m.Title, labels(m.Items), m.backLabel(), defaultNoItems)

		choice, err := e.readChoice(total)
		if err != nil {
			e.state = Exited
			return err
		}
		if choice == 0 {
			continue
		}
		if choice == total {
			e.state = Exited
			return nil
		}

		e.state = Dispatching
		if err := e.dispatch(ctx, m.Items[choice-1]); err != nil {
			e.state = Exited
			return err
		}
	}
}

func (e *Engine) dispatch(ctx context.Context, item Item) error {
	switch a := item.Action.(type) {
	case Operation:
		res := e.runOperation(ctx, a)
		if res.Message != "" {
			fmt.Fprintln(e.out, ui.StatusLine(res.Succeeded, res.Message, 0, 0))
		}
		if res.Quit {
			return ErrQuit
		}
		return e.Pause()
	case Submenu:
		var sub *Menu
		if a.Build != nil {
			sub = a.Build()
		}
		if sub == nil {
			e.log.Error("submenu %q has no menu to show", item.Label)
			fmt.Fprintln(e.out, ui.StatusLine(false, item.Label+" is unavailable", 0, 0))
			return nil
		}
		e.log.Debug("entering submenu %q", sub.Title)
		return e.Run(ctx, sub)
	default:
		return fmt.Errorf("menu: item %q has no action", item.Label)
	}
}

func (e *Engine) runOperation(ctx context.Context, op Operation) (res Result) {
	name := op.Name
	start := time.Now()
	e.log.Debug("running %q", name)

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("operation %q panicked: %v", name, r)
			res = Failure(fmt.Sprintf("%s failed unexpectedly", name))
		}
		elapsed := time.Since(start)
		e.log.Debug("%q finished: succeeded=%t in %s", name, res.Succeeded, elapsed.Round(time.Millisecond))
		if e.opts.OnResult != nil {
			e.opts.OnResult(name, res, elapsed)
		}
	}()

	return op.Run(ctx)
}

// Choose shows a numbered list of data-driven options followed by a Back
// entry and returns the zero-based index picked. ok is false when the
// operator chose Back. An empty list prints "No items found." and still
// offers Back.
func (e *Engine) Choose(ctx context.Context, title string, options []string) (index int, ok bool, err error) {
	return e.ChooseOr(ctx, title, defaultNoItems, options)
}

// ChooseOr is Choose with a custom message for an empty list.
func (e *Engine) ChooseOr(ctx context.Context, title, empty string, options []string) (int, bool, error) {
	total := len(options) + 1
	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		e.render(title, options, DefaultBackLabel, empty)

		choice, err := e.readChoice(total)
		if err != nil {
			return 0, false, err
		}
		switch {
		case choice == 0:
			continue
		case choice == total:
			return 0, false, nil
		default:
			return choice - 1, true, nil
		}
	}
}

// Pause waits for Enter when pausing is enabled.
func (e *Engine) Pause() error {
	if !e.opts.Pause {
		return nil
	}
	fmt.Fprint(e.out, "\n"+pausePrompt)
	if _, err := e.ReadLine(); err != nil {
		return err
	}
	return nil
}

// ReadLine reads one line of operator input without its line ending.
// Returns ErrInputClosed once input is exhausted.
func (e *Engine) ReadLine() (string, error) {
	line, err := e.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readChoice reads a selection in [1, total]. It returns 0 after an
// invalid entry, which the caller treats as "render again".
func (e *Engine) readChoice(total int) (int, error) {
	fmt.Fprintf(e.out, "\nSelect an option [1-%d]: ", total)
	line, err := e.ReadLine()
	if err != nil {
		fmt.Fprintln(e.out)
		return 0, err
	}

	n, ok := ParseChoice(line, total)
	if !ok {
		e.log.Debug("rejected selection %q", line)
		e.notice = invalidOption
		if !e.opts.ClearScreen {
			fmt.Fprintln(e.out, ui.Invalid(invalidOption))
			e.notice = ""
		}
		return 0, nil
	}
	return n, nil
}

// ParseChoice maps raw input to a 1-based index in [1, total].
func ParseChoice(input string, total int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > total {
		return 0, false
	}
	return n, true
}

func (e *Engine) render(title string, items []string, back, empty string) {
	if e.opts.ClearScreen {
		fmt.Fprint(e.out, clearScreen)
	}
	if e.notice != "" {
		fmt.Fprintln(e.out, ui.Invalid(e.notice))
		e.notice = ""
	}

	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, ui.MenuTitle(title))
	fmt.Fprintln(e.out)
	if len(items) == 0 && empty != "" {
		fmt.Fprintln(e.out, ui.MutedStyle().Render(empty))
	}
	for i, label := range items {
		fmt.Fprintln(e.out, ui.MenuEntry(i+1, label))
	}
	fmt.Fprintln(e.out, ui.MenuEntry(len(items)+1, back))
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}
