// Package menu implements the numbered text menu the operator drives.
//
// A Menu is an ordered list of Items plus one implicit back/exit entry. Each
// Item carries an Action: an Operation that runs and reports a Result, or a
// Submenu that builds a fresh nested Menu every time it is entered.
package menu

import (
	"context"
)

// DefaultBackLabel labels the terminal entry of nested menus.
const DefaultBackLabel = "Back"

// Result is what an operation reports back to the engine.
type Result struct {
	Succeeded bool
	Message   string
	// Quit asks every enclosing menu to unwind and the session to end.
	Quit bool
}

// Success returns a successful Result.
func Success(message string) Result {
	return Result{Succeeded: true, Message: message}
}

// Failure returns a failed Result.
func Failure(message string) Result {
	return Result{Message: message}
}

// Cancelled is the Result of an operation the operator backed out of.
func Cancelled() Result {
	return Result{Message: "Cancelled"}
}

// Quit returns a successful Result that ends the session.
func Quit(message string) Result {
	return Result{Succeeded: true, Message: message, Quit: true}
}

// Action is what selecting an item does. It is implemented only by
// Operation and Submenu.
type Action interface {
	isAction()
}

// Operation is a unit of work behind a menu item. Run prompts for whatever
// it needs, performs its commands, and reports one Result.
type Operation struct {
	Name string
	Run  func(ctx context.Context) Result
}

// Submenu opens a nested menu. Build is called on every entry.
type Submenu struct {
	Build func() *Menu
}

func (Operation) isAction() {}
func (Submenu) isAction()   {}

// Item is one selectable menu entry.
type Item struct {
	Label  string
	Action Action
}

// Menu is an ordered, immutable list of items. The engine appends a
// terminal entry labelled BackLabel at position len(Items)+1.
type Menu struct {
	Title     string
	Items     []Item
	BackLabel string
}

// New creates a menu with the default back label.
func New(title string, items ...Item) *Menu {
	return &Menu{Title: title, Items: items, BackLabel: DefaultBackLabel}
}

// Op is shorthand for an Item that runs an Operation named after its label.
func Op(label string, run func(ctx context.Context) Result) Item {
	return Item{Label: label, Action: Operation{Name: label, Run: run}}
}

// Sub is shorthand for an Item that opens a submenu.
func Sub(label string, build func() *Menu) Item {
	return Item{Label: label, Action: Submenu{Build: build}}
}

func (m *Menu) backLabel() string {
	if m.BackLabel == "" {
		return DefaultBackLabel
	}
	return m.BackLabel
}
