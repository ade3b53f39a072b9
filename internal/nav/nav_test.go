package nav

import (
	"testing"

	"github.com/google/safehtml"
	"github.com/stretchr/testify/require"

	"icculus.org/quake3-web/internal/pages"
)

func testRegistry(t *testing.T) *pages.Registry {
	t.Helper()

	body := pages.Static(safehtml.HTMLEscaped("x"))
	b := pages.NewBuilder("home")
	require.NoError(t, b.Register("home", "Home", body))
	require.NoError(t, b.Register("status", "Status", body, pages.WithDescription("Platform status")))
	require.NoError(t, b.Register("secret-notes", "Notes", body, pages.Hidden()))
	reg, err := b.Build()
	require.NoError(t, err)
	return reg
}

func TestBuildMarksActiveAndSkipsHidden(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	items := Build(reg, "status")
	require.Equal(t, []RenderedItem{
		{ID: "home", Href: "/", Label: "Home"},
		{ID: "status", Href: "/?page=status", Label: "Status", Title: "Platform status", Active: true},
	}, items)
}

func TestBuildOnlyLinksRegisteredPages(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	for _, it := range Build(reg, "home") {
		require.True(t, reg.Has(it.ID), "nav links unregistered page %q", it.ID)
	}
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	require.Equal(t, []Crumb{{Href: "/", Label: "Home", Active: true}}, Breadcrumbs(reg, "home"))
	require.Equal(t, []Crumb{
		{Href: "/", Label: "Home"},
		{Href: "/?page=secret-notes", Label: "Notes", Active: true},
	}, Breadcrumbs(reg, "secret-notes"))
	require.Len(t, Breadcrumbs(reg, "unregistered"), 1)
}
