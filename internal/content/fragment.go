package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Fragment formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// fragment is a rendered content file.
type fragment struct {
	Title       string
	Description string
	Body        safehtml.HTML
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// renderer turns fragment sources into sanitised HTML. It is safe for
// concurrent use.
type renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newRenderer() *renderer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)
	policy.AllowAttrs("class").Globally()
	return &renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// raw HTML passes through goldmark and is sanitised afterwards
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		policy: policy,
	}
}

func (r *renderer) renderFile(fsys fs.FS, name, format string) (fragment, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fragment{}, err
	}
	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return fragment{}, fmt.Errorf("content: parse front matter %s: %w", name, err)
		}
	}
	raw := body
	if format == FormatMarkdown {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(body), &buf); err != nil {
			return fragment{}, fmt.Errorf("content: convert %s: %w", name, err)
		}
		raw = buf.String()
	}
	clean := r.policy.Sanitize(raw)
	return fragment{
		Title:       strings.TrimSpace(front.Title),
		Description: strings.TrimSpace(front.Description),
		// bluemonday output carries no script or event handler content.
		Body: uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(clean),
	}, nil
}

// fileProducer re-reads its fragment on every call. Used in dev mode.
type fileProducer struct {
	fsys     fs.FS
	name     string
	format   string
	renderer *renderer
}

func (p *fileProducer) Produce(ctx context.Context) (safehtml.HTML, error) {
	if err := ctx.Err(); err != nil {
		return safehtml.HTML{}, err
	}
	f, err := p.renderer.renderFile(p.fsys, p.name, p.format)
	if err != nil {
		return safehtml.HTML{}, err
	}
	return f.Body, nil
}

func formatFor(name, declared string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case FormatHTML:
		return FormatHTML, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case "":
	default:
		return "", fmt.Errorf("content: unsupported format %q for %s", declared, name)
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return FormatHTML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("content: cannot infer format of %s", name)
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

var titleCaser = cases.Title(language.English)

// titleFromIdentifier turns "getting-started" into "Getting Started".
func titleFromIdentifier(id string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return titleCaser.String(strings.TrimSpace(s))
}
