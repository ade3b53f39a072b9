package site

import (
	"context"
	"testing"

	"github.com/google/safehtml"
	"github.com/stretchr/testify/require"

	"icculus.org/quake3-web/internal/content"
	"icculus.org/quake3-web/internal/pages"
	"icculus.org/quake3-web/internal/status"
)

func TestEmbeddedSiteLoads(t *testing.T) {
	t.Parallel()

	fsys := Content()
	client := status.NewClient("", status.WithLocalFS(fsys, status.LocalFile))
	reg, err := content.Load(fsys, content.WithProducer("platform-status", client.Producer()))
	require.NoError(t, err)
	require.Equal(t, "home", reg.DefaultIdentifier())
	require.True(t, reg.Has("status"))
	require.True(t, reg.Has("getting-started"))

	home, _ := reg.Lookup("home")
	body, err := home.Producer.Produce(context.Background())
	require.NoError(t, err)
	require.Contains(t, body.String(), `href="/?page=status"`)
	require.Contains(t, home.Description, "Quake 3 source code was released")

	st, _ := reg.Lookup("status")
	body, err = st.Producer.Produce(context.Background())
	require.NoError(t, err)
	require.Contains(t, body.String(), "x86_64")
	require.Contains(t, body.String(), "OpenAL")

	gs, _ := reg.Lookup("getting-started")
	require.Equal(t, "Check out the source tree and build the engine on your platform.", gs.Description)
	body, err = gs.Producer.Produce(context.Background())
	require.NoError(t, err)
	require.Contains(t, body.String(), "<code>")
}

func TestEmbeddedSiteRoutes(t *testing.T) {
	t.Parallel()

	reg, err := content.Load(Content(), content.WithProducer("platform-status",
		pages.Static(safehtml.HTMLEscaped("status"))))
	require.NoError(t, err)
	router, err := pages.NewRouter(reg)
	require.NoError(t, err)
	for _, id := range []string{"home", "getting-started", "status"} {
		require.Equal(t, id, router.Resolve(id).ID)
	}
	require.Equal(t, "home", router.Resolve("../pages.yaml").ID)
}
