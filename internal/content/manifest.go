// Package content populates the page registry from a manifest and a set of
// HTML or Markdown fragment files.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"icculus.org/quake3-web/internal/pages"
)

const (
	// ManifestFile is the manifest name at the root of the content FS.
	ManifestFile = "pages.yaml"
	// DefaultPage is used when the manifest does not name one.
	DefaultPage = "home"
)

// ErrManifest wraps every manifest consistency problem.
var ErrManifest = errors.New("content: invalid manifest")

// Manifest lists the pages of the site in navigation order.
type Manifest struct {
	Default string         `yaml:"default"`
	Pages   []ManifestPage `yaml:"pages"`
}

// ManifestPage describes one page. Exactly one of File and Producer is set.
type ManifestPage struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	File        string `yaml:"file"`
	Format      string `yaml:"format"`
	Producer    string `yaml:"producer"`
	Hidden      bool   `yaml:"hidden"`
}

type options struct {
	producers map[string]pages.Producer
	reload    bool
	logger    *zap.Logger
}

// Option configures Load.
type Option func(*options)

// WithProducer makes a computed producer available to manifest entries
// under name.
func WithProducer(name string, p pages.Producer) Option {
	return func(o *options) { o.producers[name] = p }
}

// WithReload re-reads fragment files on every request instead of once at
// load time.
func WithReload(reload bool) Option {
	return func(o *options) { o.reload = reload }
}

// WithLogger sets the logger used to report registered pages.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ReadManifest parses the manifest at the root of fsys.
func ReadManifest(fsys fs.FS) (Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return Manifest{}, fmt.Errorf("content: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("content: parse manifest: %w", err)
	}
	if strings.TrimSpace(m.Default) == "" {
		m.Default = DefaultPage
	}
	return m, nil
}

// Load builds the page registry described by the manifest in fsys.
// All failures are startup-fatal.
func Load(fsys fs.FS, opts ...Option) (*pages.Registry, error) {
	o := options{producers: map[string]pages.Producer{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	m, err := ReadManifest(fsys)
	if err != nil {
		return nil, err
	}

	r := newRenderer()
	b := pages.NewBuilder(m.Default)
	for _, p := range m.Pages {
		producer, title, desc, err := resolvePage(fsys, r, p, o)
		if err != nil {
			return nil, err
		}
		var popts []pages.Option
		if desc != "" {
			popts = append(popts, pages.WithDescription(desc))
		}
		if p.Hidden {
			popts = append(popts, pages.Hidden())
		}
		if err := b.Register(p.ID, title, producer, popts...); err != nil {
			return nil, err
		}
		o.logger.Debug("page registered",
			zap.String("page", p.ID),
			zap.String("file", p.File),
			zap.String("producer", p.Producer),
		)
	}
	return b.Build()
}

func resolvePage(fsys fs.FS, r *renderer, p ManifestPage, o options) (pages.Producer, string, string, error) {
	hasFile, hasProducer := p.File != "", p.Producer != ""
	switch {
	case hasFile == hasProducer:
		return nil, "", "", fmt.Errorf("%w: page %q needs exactly one of file or producer", ErrManifest, p.ID)
	case hasProducer:
		producer, ok := o.producers[p.Producer]
		if !ok {
			return nil, "", "", fmt.Errorf("%w: page %q uses unknown producer %q", ErrManifest, p.ID, p.Producer)
		}
		return producer, firstNonEmpty(p.Title, titleFromIdentifier(p.ID)), strings.TrimSpace(p.Description), nil
	}

	if !fs.ValidPath(p.File) {
		return nil, "", "", fmt.Errorf("%w: page %q has invalid file path %q", ErrManifest, p.ID, p.File)
	}
	format, err := formatFor(p.File, p.Format)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", ErrManifest, err)
	}
	frag, err := r.renderFile(fsys, p.File, format)
	if err != nil {
		return nil, "", "", fmt.Errorf("content: page %q: %w", p.ID, err)
	}
	title := firstNonEmpty(p.Title, frag.Title, titleFromIdentifier(p.ID))
	desc := firstNonEmpty(p.Description, frag.Description, summarize(frag.Body.String()))

	var producer pages.Producer = pages.Static(frag.Body)
	if o.reload {
		producer = &fileProducer{fsys: fsys, name: p.File, format: format, renderer: r}
	}
	return producer, title, desc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
