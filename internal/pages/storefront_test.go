package pages

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/adyen/storefront-e2e/internal/locator"
	"github.com/adyen/storefront-e2e/internal/locator/locatortest"
)

// fakeStorefront renders a minimal copy of the storefront's DOM into a
// locatortest.Document and reacts to clicks the way the real site does.

type product struct {
	slug        string
	name        string
	description string
	image       string
	price       float64
}

var catalog = []product{
	{"sauce-labs-backpack", "Sauce Labs Backpack", "carry.allTheThings() with the sleek, streamlined Sly Pack.", "/static/media/sauce-backpack-1200x1500.jpg", 29.99},
	{"sauce-labs-bike-light", "Sauce Labs Bike Light", "A red light isn't the desired state in testing but it sure helps when riding your bike at night.", "/static/media/bike-light-1200x1500.jpg", 9.99},
	{"sauce-labs-bolt-t-shirt", "Sauce Labs Bolt T-Shirt", "Get your testing superhero on with the Sauce Labs bolt T-shirt.", "/static/media/bolt-shirt-1200x1500.jpg", 15.99},
	{"test.allthethings()-t-shirt-(red)", "Test.allTheThings() T-Shirt (Red)", "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard.", "/static/media/red-tatt-1200x1500.jpg", 15.99},
	{"sauce-labs-onesie", "Sauce Labs Onesie", "Rib snap infant onesie for the junior automation engineer in development.", "/static/media/red-onesie-1200x1500.jpg", 7.99},
}

const (
	validUser   = "standard_user"
	lockedUser  = "locked_out_user"
	validSecret = "secret_sauce"
)

type fakeStorefront struct {
	doc      *locatortest.Document
	path     string
	history  []string
	cart     []string
	sortKey  SortKey
	menuOpen bool
	errText  string
	form     map[string]string
}

func newFakeStorefront(t testing.TB) *fakeStorefront {
	t.Helper()
	s := &fakeStorefront{
		doc:     locatortest.MustParse("<html><body></body></html>"),
		sortKey: SortNameAsc,
		form:    map[string]string{},
	}
	s.bind()
	s.navigate(LoginPath)
	return s
}

// loggedInStorefront skips the login form and lands on the inventory page.
func loggedInStorefront(t testing.TB) *fakeStorefront {
	t.Helper()
	s := newFakeStorefront(t)
	s.doc.SetCookie(locator.Cookie{Name: SessionCookie, Value: validUser, Path: "/"})
	s.navigate(InventoryPath)
	return s
}

func (s *fakeStorefront) page() locator.Page { return s.doc }

func (s *fakeStorefront) navigate(path string) {
	if s.path != "" {
		s.history = append(s.history, s.path)
	}
	s.path = path
	s.errText = ""
	s.menuOpen = false
	s.form = map[string]string{}
	s.render()
}

func (s *fakeStorefront) back() {
	if len(s.history) == 0 {
		return
	}
	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.path = prev
	s.errText = ""
	s.render()
}

func (s *fakeStorefront) inCart(slug string) bool {
	for _, c := range s.cart {
		if c == slug {
			return true
		}
	}
	return false
}

func (s *fakeStorefront) bind() {
	d := s.doc
	d.OnClick(`[data-test="login-button"]`, func(d *locatortest.Document, _ *goquery.Selection) {
		user := d.Find(`[data-test="username"]`).AttrOr("value", "")
		pass := d.Find(`[data-test="password"]`).AttrOr("value", "")
		var msg string
		switch {
		case user == "":
			msg = "Epic sadface: Username is required"
		case pass == "":
			msg = "Epic sadface: Password is required"
		case user == lockedUser && pass == validSecret:
			msg = "Epic sadface: Sorry, this user has been locked out."
		case user != validUser || pass != validSecret:
			msg = "Epic sadface: Username and password do not match any user in this service"
		}
		if msg != "" {
			s.errText = msg
			s.form = map[string]string{"username": user, "password": pass}
			s.render()
			return
		}
		d.SetCookie(locator.Cookie{Name: SessionCookie, Value: user, Path: "/"})
		s.navigate(InventoryPath)
	})
	d.OnClick(`[data-test^="add-to-cart"]`, func(_ *locatortest.Document, target *goquery.Selection) {
		slug := strings.TrimPrefix(target.AttrOr("data-test", ""), "add-to-cart-")
		if !s.inCart(slug) {
			s.cart = append(s.cart, slug)
		}
		s.render()
	})
	d.OnClick(`[data-test^="remove-"]`, func(_ *locatortest.Document, target *goquery.Selection) {
		slug := strings.TrimPrefix(target.AttrOr("data-test", ""), "remove-")
		kept := s.cart[:0]
		for _, c := range s.cart {
			if c != slug {
				kept = append(kept, c)
			}
		}
		s.cart = kept
		s.render()
	})
	d.OnChange(`[data-test="product-sort-container"]`, func(_ *locatortest.Document, target *goquery.Selection) {
		s.sortKey = SortKey(target.Find("option[selected]").AttrOr("value", string(SortNameAsc)))
		s.render()
	})
	d.OnClick(`[data-test="shopping-cart-link"]`, func(*locatortest.Document, *goquery.Selection) { s.navigate(CartPath) })
	d.OnClick("#react-burger-menu-btn", func(*locatortest.Document, *goquery.Selection) {
		s.menuOpen = true
		s.render()
	})
	d.OnClick("#logout_sidebar_link", func(d *locatortest.Document, _ *goquery.Selection) {
		d.ClearCookie(SessionCookie)
		s.navigate(LoginPath)
	})
	d.OnClick("#inventory_sidebar_link", func(*locatortest.Document, *goquery.Selection) { s.navigate(InventoryPath) })
	d.OnClick("#about_sidebar_link", func(*locatortest.Document, *goquery.Selection) { s.navigate("https://saucelabs.com/") })
	d.OnClick(`[data-test="checkout"]`, func(*locatortest.Document, *goquery.Selection) { s.navigate(CheckoutInfoPath) })
	d.OnClick(`[data-test="continue-shopping"]`, func(*locatortest.Document, *goquery.Selection) { s.navigate(InventoryPath) })
	d.OnClick(`[data-test="continue"]`, func(d *locatortest.Document, _ *goquery.Selection) {
		form := map[string]string{
			"firstName":  d.Find(`[data-test="firstName"]`).AttrOr("value", ""),
			"lastName":   d.Find(`[data-test="lastName"]`).AttrOr("value", ""),
			"postalCode": d.Find(`[data-test="postalCode"]`).AttrOr("value", ""),
		}
		var msg string
		switch {
		case form["firstName"] == "":
			msg = "Error: First Name is required"
		case form["lastName"] == "":
			msg = "Error: Last Name is required"
		case form["postalCode"] == "":
			msg = "Error: Postal Code is required"
		}
		if msg != "" {
			s.errText = msg
			s.form = form
			s.render()
			return
		}
		s.navigate(CheckoutFinalizePath)
	})
	d.OnClick(`[data-test="cancel"]`, func(*locatortest.Document, *goquery.Selection) {
		if s.path == CheckoutInfoPath {
			s.navigate(CartPath)
			return
		}
		s.navigate(InventoryPath)
	})
	d.OnClick(`[data-test="finish"]`, func(*locatortest.Document, *goquery.Selection) {
		s.cart = nil
		s.navigate(CheckoutCompletePath)
	})
	d.OnClick("#back-to-products", func(*locatortest.Document, *goquery.Selection) { s.navigate(InventoryPath) })
}

func (s *fakeStorefront) render() {
	var b strings.Builder
	b.WriteString("<html><body>")
	switch s.path {
	case LoginPath:
		s.renderLogin(&b)
	case InventoryPath:
		s.renderHeader(&b)
		s.renderInventory(&b)
	case CartPath:
		s.renderHeader(&b)
		s.renderCartList(&b, true)
		b.WriteString(`<button data-test="continue-shopping" id="continue-shopping">Continue Shopping</button>`)
		b.WriteString(`<button data-test="checkout" id="checkout">Checkout</button>`)
	case CheckoutInfoPath:
		s.renderHeader(&b)
		s.renderInfo(&b)
	case CheckoutFinalizePath:
		s.renderHeader(&b)
		s.renderFinalize(&b)
	case CheckoutCompletePath:
		s.renderHeader(&b)
		b.WriteString(`<h2 data-test="complete-header">Thank you for your order!</h2>`)
		b.WriteString(`<div data-test="complete-text">Your order has been dispatched, and will arrive just as fast as the pony can get there!</div>`)
		b.WriteString(`<button id="back-to-products" data-test="back-to-products">Back Home</button>`)
	default:
		b.WriteString(`<h1>Sauce Labs</h1>`)
	}
	b.WriteString("</body></html>")
	if err := s.doc.SetHTML(b.String()); err != nil {
		panic(err)
	}
}

func (s *fakeStorefront) renderError(b *strings.Builder) {
	if s.errText == "" {
		return
	}
	fmt.Fprintf(b, `<div class="error-message-container error"><h3 data-test="error">%s</h3></div>`, html.EscapeString(s.errText))
}

func (s *fakeStorefront) renderLogin(b *strings.Builder) {
	b.WriteString(`<form>`)
	fmt.Fprintf(b, `<input data-test="username" id="user-name" value="%s">`, html.EscapeString(s.form["username"]))
	fmt.Fprintf(b, `<input data-test="password" id="password" type="password" value="%s">`, html.EscapeString(s.form["password"]))
	s.renderError(b)
	b.WriteString(`<input type="submit" data-test="login-button" id="login-button" value="Login">`)
	b.WriteString(`</form>`)
}

func (s *fakeStorefront) renderHeader(b *strings.Builder) {
	b.WriteString(`<div class="primary_header">`)
	b.WriteString(`<button id="react-burger-menu-btn">Open Menu</button>`)
	fmt.Fprintf(b, `<nav class="bm-menu" aria-hidden="%t">`, !s.menuOpen)
	b.WriteString(`<a id="inventory_sidebar_link" data-test="inventory-sidebar-link">All Items</a>`)
	b.WriteString(`<a id="about_sidebar_link" data-test="about-sidebar-link">About</a>`)
	b.WriteString(`<a id="logout_sidebar_link" data-test="logout-sidebar-link">Logout</a>`)
	b.WriteString(`</nav>`)
	b.WriteString(`<a class="shopping_cart_link" data-test="shopping-cart-link">`)
	if len(s.cart) > 0 {
		fmt.Fprintf(b, `<span data-test="shopping-cart-badge">%d</span>`, len(s.cart))
	}
	b.WriteString(`</a></div>`)
}

func (s *fakeStorefront) sorted() []product {
	out := append([]product(nil), catalog...)
	switch s.sortKey {
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].name > out[j].name })
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].price < out[j].price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].price > out[j].price })
	}
	return out
}

func (s *fakeStorefront) renderInventory(b *strings.Builder) {
	b.WriteString(`<select data-test="product-sort-container">`)
	for _, opt := range []struct{ value, label string }{
		{"az", "Name (A to Z)"}, {"za", "Name (Z to A)"}, {"lohi", "Price (low to high)"}, {"hilo", "Price (high to low)"},
	} {
		selected := ""
		if SortKey(opt.value) == s.sortKey {
			selected = ` selected="selected"`
		}
		fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, opt.value, selected, opt.label)
	}
	b.WriteString(`</select><div data-test="inventory-list">`)
	for _, p := range s.sorted() {
		b.WriteString(`<div class="inventory_item" data-test="inventory-item">`)
		fmt.Fprintf(b, `<div class="inventory_item_img"><img class="inventory_item_img" src="%s" alt="%s"></div>`, p.image, html.EscapeString(p.name))
		fmt.Fprintf(b, `<div data-test="inventory-item-name">%s</div>`, html.EscapeString(p.name))
		fmt.Fprintf(b, `<div data-test="inventory-item-description">%s</div>`, html.EscapeString(p.description))
		fmt.Fprintf(b, `<div data-test="inventory-item-price">$%.2f</div>`, p.price)
		if s.inCart(p.slug) {
			fmt.Fprintf(b, `<button data-test="remove-%s">Remove</button>`, p.slug)
		} else {
			fmt.Fprintf(b, `<button data-test="add-to-cart-%s">Add to cart</button>`, p.slug)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}

func (s *fakeStorefront) cartProducts() []product {
	var out []product
	for _, slug := range s.cart {
		for _, p := range catalog {
			if p.slug == slug {
				out = append(out, p)
			}
		}
	}
	return out
}

func (s *fakeStorefront) renderCartList(b *strings.Builder, removable bool) {
	b.WriteString(`<div data-test="cart-list">`)
	for _, p := range s.cartProducts() {
		b.WriteString(`<div class="cart_item" data-test="inventory-item">`)
		b.WriteString(`<div data-test="item-quantity">1</div>`)
		fmt.Fprintf(b, `<div data-test="inventory-item-name">%s</div>`, html.EscapeString(p.name))
		fmt.Fprintf(b, `<div data-test="inventory-item-price">$%.2f</div>`, p.price)
		if removable {
			fmt.Fprintf(b, `<button data-test="remove-%s">Remove</button>`, p.slug)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}

func (s *fakeStorefront) renderInfo(b *strings.Builder) {
	b.WriteString(`<div data-test="checkout-info-container"><form>`)
	for _, field := range []string{"firstName", "lastName", "postalCode"} {
		fmt.Fprintf(b, `<input data-test="%s" id="%s" value="%s">`, field, field, html.EscapeString(s.form[field]))
	}
	s.renderError(b)
	b.WriteString(`<button data-test="cancel" id="cancel">Cancel</button>`)
	b.WriteString(`<input type="submit" data-test="continue" id="continue" value="Continue">`)
	b.WriteString(`</form></div>`)
}

func (s *fakeStorefront) renderFinalize(b *strings.Builder) {
	s.renderCartList(b, false)
	var subtotal float64
	for _, p := range s.cartProducts() {
		subtotal += p.price
	}
	tax := math.Round(subtotal*TaxRate*100) / 100
	fmt.Fprintf(b, `<div data-test="subtotal-label">Item total: $%.2f</div>`, subtotal)
	fmt.Fprintf(b, `<div data-test="tax-label">Tax: $%.2f</div>`, tax)
	fmt.Fprintf(b, `<div data-test="total-label">Total: $%.2f</div>`, subtotal+tax)
	b.WriteString(`<button data-test="cancel" id="cancel">Cancel</button>`)
	b.WriteString(`<button data-test="finish" id="finish">Finish</button>`)
}

// recorder is a Narrator that keeps every step.
type recorder struct {
	steps []string
}

func (r *recorder) Step(title string) {
	r.steps = append(r.steps, title)
}
