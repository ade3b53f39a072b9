// Package site embeds the default project pages.
package site

import (
	"embed"
	"io/fs"
)

//go:embed content
var contentFS embed.FS

// Content returns the embedded content tree rooted at the manifest.
func Content() fs.FS {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		panic(err)
	}
	return sub
}
