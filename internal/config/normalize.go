package config

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jmylchreest/menubar/internal/geometry"
)

// Environment carries the host facts that defaults depend on.
type Environment struct {
	// AppPath is the application root directory.
	AppPath string
	// GOOS selects platform defaults ("windows" vs everything else).
	GOOS string
}

// DefaultEnvironment describes the running process: the directory of the
// executable and the current GOOS.
func DefaultEnvironment() Environment {
	appPath, err := os.Executable()
	if err == nil {
		appPath = filepath.Dir(appPath)
	} else if wd, wdErr := os.Getwd(); wdErr == nil {
		appPath = wd
	}
	return Environment{AppPath: appPath, GOOS: runtime.GOOS}
}

// ForDir is the string form of the input: options holding only a directory.
func ForDir(dir string) *Options {
	return &Options{Dir: dir}
}

// Normalize returns a fully defaulted copy of opts. A nil opts is treated as
// no input at all. Normalize never fails; each rule only fills a field that
// is still zero.
func Normalize(opts *Options, env Environment) *Options {
	o := opts.Clone()
	if o == nil {
		o = &Options{}
	}

	if o.Dir == "" {
		o.Dir = env.AppPath
	}
	o.Dir = absPath(o.Dir)

	if o.Index == "" {
		o.Index = FileURL(filepath.Join(o.Dir, DefaultIndexFile))
	}
	if o.WindowPosition == "" {
		o.WindowPosition = geometry.DefaultAnchor(env.GOOS)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}

	return o
}

// FileURL returns the file:// URL for an absolute path.
func FileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// IconPath returns the tray icon candidate: the configured icon, or
// IconTemplate.png inside the directory. The caller checks existence.
func (o *Options) IconPath() string {
	if o.Icon != "" {
		return o.Icon
	}
	return filepath.Join(o.Dir, DefaultIconFile)
}

func absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
