// Package locator wraps DOM queries behind a deferred, re-resolving handle.
//
// An Element never holds on to a resolved node: every call queries the live
// document again, so reads observe the DOM at the time of the read and
// emptiness or visibility is checked at the point of use.
package locator

import (
	"errors"
	"time"
)

var (
	// ErrNotActionable is returned when an action targets an element that has
	// no current match or never became visible and enabled.
	ErrNotActionable = errors.New("element not found or not actionable")
	// ErrTimeout is returned when a wait does not resolve in time.
	ErrTimeout = errors.New("timed out waiting for element state")
)

// Element is a deferred query for zero or more DOM nodes under a scope.
type Element interface {
	// Selector returns the selector chain this element resolves.
	Selector() string
	// Locator scopes a sub-query under this element. No I/O happens here.
	Locator(selector string) Element
	// First narrows the query to its first match.
	First() Element
	// All resolves the current matches, in DOM order, as individual elements.
	All() ([]Element, error)
	Count() (int, error)
	// IsVisible reports false, not an error, when nothing matches.
	IsVisible() (bool, error)
	TextContent() (string, error)
	InnerText() (string, error)
	Attribute(name string) (string, error)
	InputValue() (string, error)
	Click() error
	Fill(value string) error
	SelectOption(value string) error
	// WaitVisible blocks until the element is visible or the timeout elapses.
	WaitVisible(timeout time.Duration) error
	// ExpectText blocks until the element's text equals want or the timeout elapses.
	ExpectText(want string, timeout time.Duration) error
}

// Cookie is the subset of a browser cookie page objects care about.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

// Page is the root scope page objects are built over.
type Page interface {
	Locator(selector string) Element
	Cookies() ([]Cookie, error)
}

// HasCookie reports whether a cookie with the given name is present.
func HasCookie(cookies []Cookie, name string) bool {
	for _, c := range cookies {
		if c.Name == name {
			return true
		}
	}
	return false
}
