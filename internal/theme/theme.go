package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when neither the user directory nor the bundled
// set has a theme of the requested name.
var ErrNotFound = errors.New("theme not found")

// importRegex matches @import "a.css", @import 'a.css' and @import url("a.css").
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is resolved popup CSS with its @imports inlined.
type Theme struct {
	Name    string
	Path    string // empty for bundled themes
	CSS     string
	ModTime time.Time
}

// IsBundled reports whether the theme came from the binary.
func (t *Theme) IsBundled() bool { return t.Path == "" }

// Dir returns the user themes directory, ~/.config/menubar/themes.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "menubar", "themes"), nil
}

// Resolve finds a theme by name. A file <dir>/<name>.css shadows the
// bundled theme of the same name. An empty name means the default theme.
func Resolve(name, dir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if dir != "" {
		p := filepath.Join(dir, name+".css")
		if _, err := os.Stat(p); err == nil {
			return loadFile(name, p)
		}
	}

	if css, ok := Bundled(name); ok {
		return &Theme{Name: name, CSS: ProcessImports(css, "", nil)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Default returns the bundled default theme.
func Default() *Theme {
	css, _ := Bundled(DefaultThemeName)
	return &Theme{Name: DefaultThemeName, CSS: ProcessImports(css, "", nil)}
}

func loadFile(name, p string) (*Theme, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme %q: %w", name, err)
	}
	return &Theme{
		Name:    name,
		Path:    p,
		CSS:     ProcessImports(string(data), filepath.Dir(p), nil),
		ModTime: info.ModTime(),
	}, nil
}

// ProcessImports inlines @import statements, resolving relative paths
// against baseDir. Imports that cannot be read fall back to the bundled
// partial or theme of the same base name; failures are left as comments.
// seen tracks files already inlined and may be nil.
func ProcessImports(css, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(stmt string) string {
		m := importRegex.FindStringSubmatch(stmt)
		if len(m) < 2 {
			return stmt
		}
		ref := m[1]

		full := ref
		if !filepath.IsAbs(ref) {
			full = filepath.Join(baseDir, ref)
		}
		if seen[full] {
			return "/* circular import prevented: " + ref + " */"
		}
		seen[full] = true

		data, err := os.ReadFile(full)
		if err == nil {
			return "/* imported: " + ref + " */\n" + ProcessImports(string(data), filepath.Dir(full), seen)
		}

		if css, ok := embeddedImport(filepath.Base(ref)); ok {
			return "/* imported (embedded): " + ref + " */\n" + ProcessImports(css, "", seen)
		}
		return "/* import failed: " + ref + " - " + err.Error() + " */"
	})
}

func embeddedImport(base string) (string, bool) {
	if strings.HasPrefix(base, "_") {
		if css, ok := bundledPartial(base); ok {
			return css, true
		}
	}
	return Bundled(strings.TrimSuffix(base, ".css"))
}

// Reload re-reads a file theme if its modification time advanced and
// reports whether the CSS changed. Bundled themes never change.
func (t *Theme) Reload() (bool, error) {
	if t.IsBundled() {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	next, err := loadFile(t.Name, t.Path)
	if err != nil {
		return false, err
	}
	changed := next.CSS != t.CSS
	t.CSS = next.CSS
	t.ModTime = next.ModTime
	return changed, nil
}

// Available lists bundled themes followed by user themes in dir that do
// not shadow a bundled name.
func Available(dir string) ([]string, error) {
	names := BundledNames()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	if dir == "" {
		return names, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return names, nil
		}
		return names, err
	}

	var user []string
	for _, e := range entries {
		if name, ok := themeName(e); ok && !seen[name] {
			seen[name] = true
			user = append(user, name)
		}
	}
	sort.Strings(user)
	return append(names, user...), nil
}
