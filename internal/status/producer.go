package status

import (
	"bytes"
	"context"
	"embed"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/google/safehtml/uncheckedconversions"

	"icculus.org/quake3-web/internal/pages"
)

//go:embed templates/status.tmpl
var tmplFS embed.FS

var statusTmpl = template.Must(template.New("status").
	Funcs(template.FuncMap{"label": Label}).
	ParseFS(template.TrustedFSFromEmbed(tmplFS), "templates/status.tmpl"))

// Render renders a summary as an HTML fragment.
func Render(summary Summary) (safehtml.HTML, error) {
	var buf bytes.Buffer
	if err := statusTmpl.ExecuteTemplate(&buf, "status", summary); err != nil {
		return safehtml.HTML{}, err
	}
	// Output of a safehtml template is safe HTML by construction.
	return uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(buf.String()), nil
}

// Producer returns a content producer that renders the current summary on
// every request.
func (c *Client) Producer() pages.Producer {
	return pages.ProducerFunc(func(ctx context.Context) (safehtml.HTML, error) {
		summary, err := c.FetchSummary(ctx)
		if err != nil {
			return safehtml.HTML{}, err
		}
		return Render(summary)
	})
}
