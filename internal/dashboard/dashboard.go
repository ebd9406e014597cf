// Package dashboard embeds the svcdeck web skin. The page picks its theme
// from ?theme= and falls back to the last theme it used.
package dashboard

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
)

//go:embed assets
var assets embed.FS

func content() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// "assets" is embedded, so this cannot fail.
		panic(err)
	}
	return sub
}

// Handler serves index.html at / and the other embedded assets (app.js,
// style.css, themes/*.css) at their paths.
func Handler() http.Handler {
	return http.FileServer(http.FS(content()))
}

// Themes returns the names of the embedded theme skins, sorted.
func Themes() []string {
	entries, err := fs.ReadDir(content(), "themes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".css" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}
