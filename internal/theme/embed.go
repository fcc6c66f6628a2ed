package theme

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed themes/*.css
var bundled embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// Bundled returns the raw CSS of a bundled theme. Imports are not inlined.
func Bundled(name string) (string, bool) {
	if strings.HasPrefix(name, "_") {
		return "", false
	}
	return readBundled(name + ".css")
}

// bundledPartial returns an embedded partial by file name, with or without
// its leading underscore and extension.
func bundledPartial(name string) (string, bool) {
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	if path.Ext(name) != ".css" {
		name += ".css"
	}
	return readBundled(name)
}

func readBundled(file string) (string, bool) {
	data, err := bundled.ReadFile("themes/" + file)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// BundledNames lists the bundled themes, partials excluded.
func BundledNames() []string {
	entries, err := fs.ReadDir(bundled, "themes")
	if err != nil {
		return []string{DefaultThemeName}
	}
	var names []string
	for _, e := range entries {
		if name, ok := themeName(e); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// themeName maps a directory entry to a selectable theme name.
func themeName(e fs.DirEntry) (string, bool) {
	if e.IsDir() || strings.HasPrefix(e.Name(), "_") || path.Ext(e.Name()) != ".css" {
		return "", false
	}
	return strings.TrimSuffix(e.Name(), ".css"), true
}
