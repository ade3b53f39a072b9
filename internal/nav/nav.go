package nav

import (
	"net/url"

	"icculus.org/quake3-web/internal/pages"
)

// QueryParam is the query parameter that selects a page.
const QueryParam = "page"

// RenderedItem is a view model for templates.
type RenderedItem struct {
	ID     string
	Href   string
	Label  string
	Title  string // link tooltip, plain text
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Href returns the link target of a registered page. The default page links
// to the site root.
func Href(reg *pages.Registry, id string) string {
	if id == reg.DefaultIdentifier() {
		return "/"
	}
	return "/?" + url.Values{QueryParam: {id}}.Encode()
}

// Build renders navigation items with active state given the resolved page.
// Only registered identifiers are ever linked.
func Build(reg *pages.Registry, activeID string) []RenderedItem {
	entries := reg.Entries()
	items := make([]RenderedItem, 0, len(entries))
	for _, e := range entries {
		if !e.Nav {
			continue
		}
		items = append(items, RenderedItem{
			ID:     e.ID,
			Href:   Href(reg, e.ID),
			Label:  e.Title,
			Title:  e.Description,
			Active: e.ID == activeID,
		})
	}
	return items
}

// Breadcrumbs builds breadcrumb entries for the resolved page.
// Rules:
// - Always start with the default page
// - Append the active page when it is not the default
func Breadcrumbs(reg *pages.Registry, activeID string) []Crumb {
	home, _ := reg.Lookup(reg.DefaultIdentifier())
	crumbs := []Crumb{{Href: "/", Label: home.Title, Active: activeID == home.ID}}
	if activeID == home.ID {
		return crumbs
	}
	e, ok := reg.Lookup(activeID)
	if !ok {
		return crumbs
	}
	return append(crumbs, Crumb{Href: Href(reg, e.ID), Label: e.Title, Active: true})
}
