// Package layout wraps page bodies in the shared site shell.
package layout

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"icculus.org/quake3-web/internal/nav"
	"icculus.org/quake3-web/internal/pages"
	"icculus.org/quake3-web/internal/seo"
)

// The templates must come from an embedded FS to be trusted by
// github.com/google/safehtml/template.

//go:embed templates/*.tmpl
var tmplFS embed.FS

const baseTemplate = "base"

// Site is the fixed shell configuration.
type Site struct {
	Name    string
	Tagline string
	Footer  string
	// BaseURL is the absolute site root used for canonical links. Optional.
	BaseURL string
}

// View is everything needed to render one page.
type View struct {
	Entry       pages.Entry
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
}

// document is the template data. Only registry-controlled values reach it.
type document struct {
	Site        Site
	Title       string
	Head        safehtml.HTML
	Body        safehtml.HTML
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Year        int
}

// Assembler renders views with the embedded layout.
type Assembler struct {
	site Site
	tmpl *template.Template
	now  func() time.Time
}

// New parses the layout templates.
func New(site Site) (*Assembler, error) {
	t, err := template.New("layout").ParseFS(template.TrustedFSFromEmbed(tmplFS), "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("layout: parse templates: %w", err)
	}
	return &Assembler{site: site, tmpl: t, now: time.Now}, nil
}

// Render produces the page body and writes the full document to w.
// Nothing is written unless both steps succeed.
func (a *Assembler) Render(ctx context.Context, w io.Writer, v View) error {
	b, err := a.RenderBytes(ctx, v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// RenderBytes is Render into a byte slice.
func (a *Assembler) RenderBytes(ctx context.Context, v View) ([]byte, error) {
	if v.Entry.Producer == nil {
		return nil, fmt.Errorf("layout: page %q has no producer", v.Entry.ID)
	}
	body, err := v.Entry.Producer.Produce(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout: produce %q: %w", v.Entry.ID, err)
	}
	head, err := seo.Head(a.meta(v))
	if err != nil {
		return nil, fmt.Errorf("layout: head for %q: %w", v.Entry.ID, err)
	}
	doc := document{
		Site:        a.site,
		Title:       v.Entry.Title,
		Head:        head,
		Body:        body,
		Nav:         v.Nav,
		Breadcrumbs: v.Breadcrumbs,
		Year:        a.now().Year(),
	}
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, baseTemplate, doc); err != nil {
		return nil, fmt.Errorf("layout: execute: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *Assembler) meta(v View) seo.Meta {
	var self string
	for _, c := range v.Breadcrumbs {
		if c.Active && a.site.BaseURL != "" {
			self = a.absolute(c.Href)
		}
	}
	m := seo.Meta{
		Description: v.Entry.Description,
		Canonical:   self,
		OG: seo.OpenGraph{
			Title:       v.Entry.Title,
			Description: v.Entry.Description,
			Type:        "website",
			URL:         self,
			SiteName:    a.site.Name,
		},
		JSONLD: []map[string]any{seo.WebSite(a.site.Name, a.absolute("/"))},
	}
	if len(v.Breadcrumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(v.Breadcrumbs))
		for _, c := range v.Breadcrumbs {
			items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: a.absolute(c.Href)})
		}
		m.JSONLD = append(m.JSONLD, seo.BreadcrumbList(items))
	}
	return m
}

// absolute joins a site-relative href onto BaseURL when one is configured.
func (a *Assembler) absolute(href string) string {
	if a.site.BaseURL == "" {
		return href
	}
	return strings.TrimRight(a.site.BaseURL, "/") + href
}
