// Package locatortest provides an in-memory locator.Page backed by goquery so
// page objects can be exercised without a browser.
//
// The document is mutated synchronously by click and change handlers, so a
// wait in this package checks its condition exactly once.
package locatortest

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/adyen/storefront-e2e/internal/locator"
)

// Handler reacts to an interaction with a node matching its selector.
type Handler func(d *Document, target *goquery.Selection)

type binding struct {
	selector string
	handle   Handler
}

// Document is a fake page: a parsed HTML tree plus a cookie jar.
type Document struct {
	doc      *goquery.Document
	cookies  []locator.Cookie
	onClick  []binding
	onChange []binding
	clicks   []string
}

// Parse builds a Document from an HTML string.
func Parse(html string) (*Document, error) {
	d := &Document{}
	if err := d.SetHTML(html); err != nil {
		return nil, err
	}
	return d, nil
}

// MustParse is Parse for test setup.
func MustParse(html string) *Document {
	d, err := Parse(html)
	if err != nil {
		panic(err)
	}
	return d
}

// SetHTML replaces the whole document, as a navigation would.
func (d *Document) SetHTML(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	d.doc = doc
	return nil
}

// Find runs a raw query against the current tree.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// OnClick registers a handler for clicks on nodes matching selector.
func (d *Document) OnClick(selector string, h Handler) {
	d.onClick = append(d.onClick, binding{selector: selector, handle: h})
}

// OnChange registers a handler for option changes on selects matching selector.
func (d *Document) OnChange(selector string, h Handler) {
	d.onChange = append(d.onChange, binding{selector: selector, handle: h})
}

// SetCookie adds or replaces a cookie.
func (d *Document) SetCookie(c locator.Cookie) {
	d.ClearCookie(c.Name)
	d.cookies = append(d.cookies, c)
}

// ClearCookie removes a cookie by name.
func (d *Document) ClearCookie(name string) {
	kept := d.cookies[:0]
	for _, c := range d.cookies {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	d.cookies = kept
}

// Cookies implements locator.Page.
func (d *Document) Cookies() ([]locator.Cookie, error) {
	out := make([]locator.Cookie, len(d.cookies))
	copy(out, d.cookies)
	return out, nil
}

// Clicks returns the selectors of every element clicked so far.
func (d *Document) Clicks() []string {
	return append([]string(nil), d.clicks...)
}

// Locator implements locator.Page.
func (d *Document) Locator(selector string) locator.Element {
	return &element{
		doc:      d,
		selector: selector,
		resolve:  func() *goquery.Selection { return d.doc.Find(selector) },
	}
}

func (d *Document) dispatch(bindings []binding, target *goquery.Selection) {
	for _, b := range bindings {
		if target.Is(b.selector) {
			b.handle(d, target)
		}
	}
}

// Visible reports whether a node is rendered: present, not hidden by the
// hidden attribute, an inline display:none or visibility:hidden on itself or
// an ancestor, and not a hidden input.
func Visible(s *goquery.Selection) bool {
	if s.Length() == 0 {
		return false
	}
	if t, ok := s.Attr("type"); ok && goquery.NodeName(s) == "input" && t == "hidden" {
		return false
	}
	for n := s.First(); n.Length() > 0 && goquery.NodeName(n) != "#document"; n = n.Parent() {
		if _, hidden := n.Attr("hidden"); hidden {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(n.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

type element struct {
	doc      *Document
	selector string
	resolve  func() *goquery.Selection
}

func (e *element) Selector() string {
	return e.selector
}

func (e *element) Locator(selector string) locator.Element {
	parent := e.resolve
	return &element{
		doc:      e.doc,
		selector: e.selector + " >> " + selector,
		resolve:  func() *goquery.Selection { return parent().Find(selector) },
	}
}

func (e *element) First() locator.Element {
	return e.nth(0)
}

func (e *element) nth(i int) *element {
	parent := e.resolve
	return &element{
		doc:      e.doc,
		selector: fmt.Sprintf("%s >> nth=%d", e.selector, i),
		resolve:  func() *goquery.Selection { return parent().Eq(i) },
	}
}

func (e *element) All() ([]locator.Element, error) {
	n := e.resolve().Length()
	out := make([]locator.Element, n)
	for i := 0; i < n; i++ {
		out[i] = e.nth(i)
	}
	return out, nil
}

func (e *element) Count() (int, error) {
	return e.resolve().Length(), nil
}

// one resolves exactly one node, mirroring playwright's strict mode.
func (e *element) one(action string) (*goquery.Selection, error) {
	s := e.resolve()
	switch s.Length() {
	case 0:
		return nil, fmt.Errorf("%s %s: %w", action, e.selector, locator.ErrNotActionable)
	case 1:
		return s, nil
	default:
		return nil, fmt.Errorf("%s %s: strict mode violation: %d elements", action, e.selector, s.Length())
	}
}

func (e *element) visibleOne(action string) (*goquery.Selection, error) {
	s, err := e.one(action)
	if err != nil {
		return nil, err
	}
	if !Visible(s) {
		return nil, fmt.Errorf("%s %s: element is hidden: %w", action, e.selector, locator.ErrNotActionable)
	}
	return s, nil
}

func (e *element) IsVisible() (bool, error) {
	s := e.resolve()
	if s.Length() > 1 {
		return false, fmt.Errorf("check visibility of %s: strict mode violation: %d elements", e.selector, s.Length())
	}
	return Visible(s), nil
}

func (e *element) TextContent() (string, error) {
	s, err := e.one("read text of")
	if err != nil {
		return "", err
	}
	return s.Text(), nil
}

func (e *element) InnerText() (string, error) {
	s, err := e.one("read inner text of")
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(s.Text()), " "), nil
}

func (e *element) Attribute(name string) (string, error) {
	s, err := e.one("read attribute " + name + " of")
	if err != nil {
		return "", err
	}
	return s.AttrOr(name, ""), nil
}

func (e *element) InputValue() (string, error) {
	s, err := e.one("read value of")
	if err != nil {
		return "", err
	}
	switch goquery.NodeName(s) {
	case "input":
		return s.AttrOr("value", ""), nil
	case "textarea":
		return s.Text(), nil
	case "select":
		selected := s.Find("option[selected]").First()
		if selected.Length() == 0 {
			selected = s.Find("option").First()
		}
		return selected.AttrOr("value", selected.Text()), nil
	default:
		return "", fmt.Errorf("read value of %s: not an input element", e.selector)
	}
}

func (e *element) Click() error {
	s, err := e.visibleOne("click")
	if err != nil {
		return err
	}
	e.doc.clicks = append(e.doc.clicks, e.selector)
	e.doc.dispatch(e.doc.onClick, s)
	return nil
}

func (e *element) Fill(value string) error {
	s, err := e.visibleOne("fill")
	if err != nil {
		return err
	}
	switch goquery.NodeName(s) {
	case "input":
		s.SetAttr("value", value)
	case "textarea":
		s.SetText(value)
	default:
		return fmt.Errorf("fill %s: not an input element", e.selector)
	}
	return nil
}

func (e *element) SelectOption(value string) error {
	s, err := e.visibleOne("select option " + value + " in")
	if err != nil {
		return err
	}
	if goquery.NodeName(s) != "select" {
		return fmt.Errorf("select option in %s: not a select element", e.selector)
	}
	var match *goquery.Selection
	s.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if opt.AttrOr("value", opt.Text()) == value || strings.TrimSpace(opt.Text()) == value {
			match = opt
			return false
		}
		return true
	})
	if match == nil {
		return fmt.Errorf("select option %s in %s: %w", value, e.selector, locator.ErrNotActionable)
	}
	s.Find("option").RemoveAttr("selected")
	match.SetAttr("selected", "selected")
	e.doc.dispatch(e.doc.onChange, s)
	return nil
}

func (e *element) WaitVisible(timeout time.Duration) error {
	s := e.resolve()
	if s.Length() > 1 {
		return fmt.Errorf("wait for %s: strict mode violation: %d elements", e.selector, s.Length())
	}
	if Visible(s) {
		return nil
	}
	return fmt.Errorf("%w: %s visible after %s", locator.ErrTimeout, e.selector, timeout)
}

func (e *element) ExpectText(want string, timeout time.Duration) error {
	s, err := e.one("read text of")
	if err != nil {
		return fmt.Errorf("expected %s to have text %q: %w", e.selector, want, err)
	}
	if got := strings.TrimSpace(s.Text()); got != want {
		return fmt.Errorf("expected %s to have text %q, got %q", e.selector, want, got)
	}
	return nil
}
