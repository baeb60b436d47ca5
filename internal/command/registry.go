// Package command holds the command-bar registry: the static navigation and
// action entries offered to the user, and substring filtering over them.
package command

import "strings"

// Kind separates plain navigation entries from action entries.
type Kind string

const (
	KindNavigation Kind = "navigation"
	KindAction     Kind = "action"
)

// Navigator is supplied by the caller and performs the actual route change.
type Navigator func(target string)

// Command is a single command-bar entry. Run is bound to the caller's
// Navigator at registry construction time.
type Command struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Shortcut string   `json:"shortcut,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Target   string   `json:"target"`
	Kind     Kind     `json:"kind"`
	Run      func()   `json:"-"`
}

// Registry holds the ordered navigation and action command lists.
type Registry struct {
	navigation []Command
	actions    []Command
}

// NewRegistry builds a registry from explicit lists, preserving order.
func NewRegistry(navigation, actions []Command) *Registry {
	return &Registry{navigation: navigation, actions: actions}
}

// DefaultRegistry declares the portal's built-in commands, binding every
// entry's Run callback to nav.
func DefaultRegistry(nav Navigator) *Registry {
	bind := func(cmds []Command) []Command {
		for i := range cmds {
			target := cmds[i].Target
			cmds[i].Run = func() { nav(target) }
		}
		return cmds
	}

	navigation := bind([]Command{
		{ID: "nav-dashboard", Label: "Dashboard", Icon: "home", Shortcut: "g d", Target: "/dashboard", Kind: KindNavigation},
		{ID: "nav-products", Label: "Products", Icon: "package", Keywords: []string{"catalog", "impa"}, Target: "/products", Kind: KindNavigation},
		{ID: "nav-rfqs", Label: "RFQs", Icon: "file-text", Keywords: []string{"requests", "quotes", "bidding"}, Target: "/rfqs", Kind: KindNavigation},
		{ID: "nav-orders", Label: "Orders", Icon: "shopping-cart", Keywords: []string{"purchase orders"}, Target: "/orders", Kind: KindNavigation},
		{ID: "nav-deliveries", Label: "Deliveries", Icon: "truck", Keywords: []string{"shipments", "logistics"}, Target: "/deliveries", Kind: KindNavigation},
		{ID: "nav-invoices", Label: "Invoices", Icon: "receipt", Keywords: []string{"billing", "payments"}, Target: "/invoices", Kind: KindNavigation},
		{ID: "nav-suppliers", Label: "Suppliers", Icon: "users", Keywords: []string{"vendors"}, Target: "/suppliers", Kind: KindNavigation},
		{ID: "nav-vessels", Label: "Vessels", Icon: "anchor", Keywords: []string{"ships", "fleet"}, Target: "/vessels", Kind: KindNavigation},
	})

	actions := bind([]Command{
		{ID: "act-create-rfq", Label: "Create RFQ", Icon: "plus", Shortcut: "c r", Keywords: []string{"new request", "quote"}, Target: "/rfqs/new", Kind: KindAction},
		{ID: "act-create-order", Label: "Create Order", Icon: "plus", Keywords: []string{"new purchase"}, Target: "/orders/new", Kind: KindAction},
		{ID: "act-export-invoices", Label: "Export Invoices", Icon: "download", Keywords: []string{"csv", "billing"}, Target: "/invoices/export", Kind: KindAction},
		{ID: "act-import-catalog", Label: "Import Catalog", Icon: "upload", Keywords: []string{"products", "impa"}, Target: "/products/import", Kind: KindAction},
	})

	return NewRegistry(navigation, actions)
}

// Navigation returns the navigation commands in declaration order.
func (r *Registry) Navigation() []Command { return r.navigation }

// Actions returns the action commands in declaration order.
func (r *Registry) Actions() []Command { return r.actions }

// All returns every command, navigation entries first.
func (r *Registry) All() []Command {
	out := make([]Command, 0, len(r.navigation)+len(r.actions))
	out = append(out, r.navigation...)
	out = append(out, r.actions...)
	return out
}

// Filter returns the commands matching query, preserving declaration order.
// A command matches when its label contains the query (case-insensitive) or
// any keyword contains the query. An empty query returns everything.
func (r *Registry) Filter(query string) []Command {
	all := r.All()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}

	out := make([]Command, 0, len(all))
	for _, c := range all {
		if matches(c, q) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c Command, q string) bool {
	if strings.Contains(strings.ToLower(c.Label), q) {
		return true
	}
	for _, kw := range c.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}
