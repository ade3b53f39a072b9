package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/safehtml"
	"github.com/stretchr/testify/require"

	"icculus.org/quake3-web/internal/pages"
)

const testManifest = `
default: home
pages:
  - id: home
    title: Home
    file: home.html
  - id: getting-started
    file: guide.md
  - id: status
    title: Status
    description: Port status
    producer: platform-status
  - id: notes
    file: notes.md
    hidden: true
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		ManifestFile: {Data: []byte(testManifest)},
		"home.html": {Data: []byte(`<p>Quake 3 source code was released on <a href="?page=status" onclick="evil()">August 20th</a>.</p>
<script>alert("x")</script>
<img src="images/logo.jpg" class="right" alt="Logo" />`)},
		"guide.md": {Data: []byte("# Setup\n\nCheck out the **trunk** and build.\n")},
		"notes.md": {Data: []byte("---\ntitle: Release Notes\ndescription: What changed\n---\n\n* one\n* two\n")},
	}
}

func statusProducer() pages.Producer {
	return pages.Static(safehtml.HTMLEscaped("status table"))
}

func produce(t *testing.T, reg *pages.Registry, id string) string {
	t.Helper()

	e, ok := reg.Lookup(id)
	require.True(t, ok, "page %q not registered", id)
	h, err := e.Producer.Produce(context.Background())
	require.NoError(t, err)
	return h.String()
}

func TestLoadRegistersManifestPagesInOrder(t *testing.T) {
	t.Parallel()

	reg, err := Load(testFS(), WithProducer("platform-status", statusProducer()))
	require.NoError(t, err)
	require.Equal(t, "home", reg.DefaultIdentifier())

	var ids []string
	for _, e := range reg.Entries() {
		ids = append(ids, e.ID)
	}
	require.Equal(t, []string{"home", "getting-started", "status", "notes"}, ids)

	gs, _ := reg.Lookup("getting-started")
	require.Equal(t, "Getting Started", gs.Title)
	require.Equal(t, "Check out the trunk and build.", gs.Description)

	st, _ := reg.Lookup("status")
	require.Equal(t, "Port status", st.Description)
	require.Equal(t, "status table", produce(t, reg, "status"))

	notes, _ := reg.Lookup("notes")
	require.Equal(t, "Release Notes", notes.Title)
	require.Equal(t, "What changed", notes.Description)
	require.False(t, notes.Nav)
}

func TestLoadSanitisesFragments(t *testing.T) {
	t.Parallel()

	reg, err := Load(testFS(), WithProducer("platform-status", statusProducer()))
	require.NoError(t, err)

	home := produce(t, reg, "home")
	require.NotContains(t, home, "<script")
	require.NotContains(t, home, "onclick")
	require.Contains(t, home, `href="?page=status"`)
	require.Contains(t, home, `class="right"`)
	require.Contains(t, home, "August 20th")

	e, _ := reg.Lookup("home")
	require.Equal(t, "Quake 3 source code was released on August 20th.", e.Description)

	guide := produce(t, reg, "getting-started")
	require.Contains(t, guide, "<h1>Setup</h1>")
	require.Contains(t, guide, "<strong>trunk</strong>")

	require.Contains(t, produce(t, reg, "notes"), "<li>two</li>")
}

func TestLoadReloadRereadsFragments(t *testing.T) {
	t.Parallel()

	fsys := testFS()
	reg, err := Load(fsys, WithReload(true), WithProducer("platform-status", statusProducer()))
	require.NoError(t, err)
	require.Contains(t, produce(t, reg, "getting-started"), "trunk")

	fsys["guide.md"] = &fstest.MapFile{Data: []byte("Now on a *branch*.\n")}
	require.Contains(t, produce(t, reg, "getting-started"), "<em>branch</em>")

	e, _ := reg.Lookup("getting-started")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Producer.Produce(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadStaticIgnoresLaterEdits(t *testing.T) {
	t.Parallel()

	fsys := testFS()
	reg, err := Load(fsys, WithProducer("platform-status", statusProducer()))
	require.NoError(t, err)
	fsys["guide.md"] = &fstest.MapFile{Data: []byte("changed\n")}
	require.Contains(t, produce(t, reg, "getting-started"), "trunk")
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name     string
		manifest string
		files    fstest.MapFS
		wantIs   error
		wantText string
	}{
		{
			name:     "missing default",
			manifest: "default: home\npages:\n  - id: about\n    file: home.html\n",
			wantIs:   pages.ErrDefaultNotRegistered,
		},
		{
			name:     "duplicate id",
			manifest: "pages:\n  - id: home\n    file: home.html\n  - id: home\n    file: home.html\n",
			wantIs:   pages.ErrDuplicateIdentifier,
		},
		{
			name:     "invalid id",
			manifest: "pages:\n  - id: ../home\n    file: home.html\n",
			wantIs:   pages.ErrInvalidIdentifier,
		},
		{
			name:     "unknown producer",
			manifest: "pages:\n  - id: home\n    producer: nope\n",
			wantIs:   ErrManifest,
		},
		{
			name:     "file and producer",
			manifest: "pages:\n  - id: home\n    file: home.html\n    producer: platform-status\n",
			wantIs:   ErrManifest,
		},
		{
			name:     "escaping path",
			manifest: "pages:\n  - id: home\n    file: ../secret.html\n",
			wantIs:   ErrManifest,
		},
		{
			name:     "unknown format",
			manifest: "pages:\n  - id: home\n    file: home.txt\n",
			wantIs:   ErrManifest,
		},
		{
			name:     "missing file",
			manifest: "pages:\n  - id: home\n    file: absent.html\n",
			wantText: "absent.html",
		},
		{
			name:     "bad yaml",
			manifest: "pages: [",
			wantText: "parse manifest",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				ManifestFile: {Data: []byte(test.manifest)},
				"home.html":  {Data: []byte("<p>hi</p>")},
				"home.txt":   {Data: []byte("hi")},
			}
			reg, err := Load(fsys, WithProducer("platform-status", statusProducer()))
			require.Nil(t, reg)
			require.Error(t, err)
			if test.wantIs != nil {
				require.True(t, errors.Is(err, test.wantIs), "got %v", err)
			}
			if test.wantText != "" {
				require.Contains(t, err.Error(), test.wantText)
			}
		})
	}
}

func TestDefaultPageFallsBackToHome(t *testing.T) {
	t.Parallel()

	m, err := ReadManifest(fstest.MapFS{ManifestFile: {Data: []byte("pages: []\n")}})
	require.NoError(t, err)
	require.Equal(t, DefaultPage, m.Default)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", summarize("<h2>No paragraph</h2>"))
	require.Equal(t, "First one.", summarize("<h2>x</h2><p>First\n  one.</p><p>Second.</p>"))

	long := "<p>" + strings.Repeat("word ", 60) + "</p>"
	got := summarize(long)
	require.True(t, strings.HasSuffix(got, "…"))
	require.LessOrEqual(t, len([]rune(got)), maxSummaryLength+1)
}

func TestTitleFromIdentifier(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Getting Started", titleFromIdentifier("getting-started"))
	require.Equal(t, "Faq Index", titleFromIdentifier("faq_index"))
}
