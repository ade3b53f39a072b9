package seo

import (
	"bytes"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OpenGraph holds the og:* properties of a page.
type OpenGraph struct {
	Title       string
	Description string
	Type        string
	URL         string
	SiteName    string
}

// Meta is the per-page head metadata.
type Meta struct {
	Description string
	Canonical   string
	OG          OpenGraph
	// JSONLD payloads are emitted as application/ld+json scripts.
	JSONLD []map[string]any
}

// Head renders m as head elements. Values are attribute-escaped by the
// html renderer and JSON-LD is marshalled with HTML-safe escaping.
func Head(m Meta) (safehtml.HTML, error) {
	var nodes []*html.Node
	if m.Description != "" {
		nodes = append(nodes, element(atom.Meta, "name", "description", "content", m.Description))
	}
	if m.Canonical != "" {
		nodes = append(nodes, element(atom.Link, "rel", "canonical", "href", m.Canonical))
	}
	for _, p := range [][2]string{
		{"og:title", m.OG.Title},
		{"og:description", m.OG.Description},
		{"og:type", m.OG.Type},
		{"og:url", m.OG.URL},
		{"og:site_name", m.OG.SiteName},
	} {
		if p[1] != "" {
			nodes = append(nodes, element(atom.Meta, "property", p[0], "content", p[1]))
		}
	}
	for _, v := range m.JSONLD {
		data, err := JSON(v)
		if err != nil {
			return safehtml.HTML{}, err
		}
		script := element(atom.Script, "type", "application/ld+json")
		script.AppendChild(&html.Node{Type: html.TextNode, Data: data})
		nodes = append(nodes, script)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return safehtml.HTML{}, err
		}
		buf.WriteByte('\n')
	}
	return uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(buf.String()), nil
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}
