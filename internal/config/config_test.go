package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/menubar/internal/geometry"
)

var linuxEnv = Environment{AppPath: "/opt/app", GOOS: "linux"}

func TestNormalize_NoInput(t *testing.T) {
	opts := Normalize(nil, linuxEnv)

	assert.Equal(t, "/opt/app", opts.Dir)
	assert.Equal(t, "file:///opt/app/index.html", opts.Index)
	assert.Equal(t, geometry.AnchorTrayCenter, opts.WindowPosition)
	assert.Equal(t, DefaultWidth, opts.Width)
	assert.Equal(t, DefaultHeight, opts.Height)
	assert.Equal(t, "", opts.Tooltip)
	assert.False(t, opts.ShowDockIcon)
	assert.False(t, opts.Detached)
	assert.True(t, opts.VisibleOnAllWorkspaces())
	assert.True(t, opts.IsResizable())
	assert.Equal(t, DefaultTheme, opts.Theme)
}

func TestNormalize_StringInput(t *testing.T) {
	opts := Normalize(ForDir("/srv/popup"), linuxEnv)

	assert.Equal(t, "/srv/popup", opts.Dir)
	assert.Equal(t, "file:///srv/popup/index.html", opts.Index)
}

func TestNormalize_RelativeDirBecomesAbsolute(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	opts := Normalize(ForDir("content"), linuxEnv)
	assert.True(t, filepath.IsAbs(opts.Dir))
	assert.Equal(t, filepath.Join(wd, "content"), opts.Dir)
}

func TestNormalize_MissingDirAlwaysAbsolute(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	inputs := []*Options{nil, {}, {Width: 200}, {Tooltip: "hi", Detached: true}}
	envs := []Environment{
		linuxEnv,
		{AppPath: "relative/app", GOOS: "linux"},
		{AppPath: "/opt/app", GOOS: "windows"},
	}

	for _, env := range envs {
		want := env.AppPath
		if !filepath.IsAbs(want) {
			want = filepath.Join(wd, want)
		}
		for _, in := range inputs {
			opts := Normalize(in, env)
			assert.Equal(t, want, opts.Dir)
			assert.True(t, filepath.IsAbs(opts.Dir))
		}
	}
}

func TestNormalize_PlatformAnchor(t *testing.T) {
	assert.Equal(t, geometry.AnchorTrayBottomCenter,
		Normalize(nil, Environment{AppPath: "/a", GOOS: "windows"}).WindowPosition)
	assert.Equal(t, geometry.AnchorTrayCenter,
		Normalize(nil, Environment{AppPath: "/a", GOOS: "darwin"}).WindowPosition)
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	in := &Options{
		Dir:            "/x",
		Index:          "https://example.com",
		Width:          300,
		Height:         500,
		WindowPosition: geometry.AnchorTopLeft,
		Theme:          "dark",
		X:              Int(0),
	}
	opts := Normalize(in, linuxEnv)

	assert.Equal(t, "https://example.com", opts.Index)
	assert.Equal(t, 300, opts.Width)
	assert.Equal(t, 500, opts.Height)
	assert.Equal(t, geometry.AnchorTopLeft, opts.WindowPosition)
	assert.Equal(t, "dark", opts.Theme)
	require.NotNil(t, opts.X)
	assert.Equal(t, 0, *opts.X)

	// input is not modified
	*opts.X = 5
	assert.Equal(t, 0, *in.X)
}

func TestIconPath(t *testing.T) {
	opts := Normalize(ForDir("/srv/popup"), linuxEnv)
	assert.Equal(t, "/srv/popup/IconTemplate.png", opts.IconPath())

	opts.Icon = "/icons/tray.png"
	assert.Equal(t, "/icons/tray.png", opts.IconPath())
}

func TestVisibleOnAllWorkspaces(t *testing.T) {
	opts := &Options{}
	assert.True(t, opts.VisibleOnAllWorkspaces())
	opts.ShowOnAllWorkspaces = Bool(true)
	assert.True(t, opts.VisibleOnAllWorkspaces())
	opts.ShowOnAllWorkspaces = Bool(false)
	assert.False(t, opts.VisibleOnAllWorkspaces())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty", Options{}, false},
		{"valid anchor", Options{WindowPosition: geometry.AnchorBottomLeft}, false},
		{"unknown anchor", Options{WindowPosition: "nowhere"}, true},
		{"negative width", Options{Width: -1}, true},
		{"negative height", Options{Height: -10}, true},
		{"bad index", Options{Index: "http://[::1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, &Options{}, opts)
}

func TestLoad_ParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menubar.toml")
	content := `
dir = "/srv/popup"
width = 320
height = 240
tooltip = "Status"
window-position = "topRight"
detached = true
preload-window = true
show-on-all-workspaces = false
x = 10
icon = "/icons/tray.png"
theme = "dark"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/popup", opts.Dir)
	assert.Equal(t, 320, opts.Width)
	assert.Equal(t, 240, opts.Height)
	assert.Equal(t, "Status", opts.Tooltip)
	assert.Equal(t, geometry.AnchorTopRight, opts.WindowPosition)
	assert.True(t, opts.Detached)
	assert.True(t, opts.PreloadWindow)
	assert.False(t, opts.VisibleOnAllWorkspaces())
	require.NotNil(t, opts.X)
	assert.Equal(t, 10, *opts.X)
	assert.Nil(t, opts.Y)
	assert.Equal(t, "/icons/tray.png", opts.Icon)
	assert.Equal(t, "dark", opts.Theme)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menubar.toml")
	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menubar.toml")
	require.NoError(t, os.WriteFile(path, []byte(`window-position = "sideways"`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestOptions_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "menubar.toml")

	opts := &Options{Tooltip: "saved", Width: 250, Y: Int(-3), Resizable: Bool(false)}
	require.NoError(t, opts.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, opts, loaded)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config/menubar/menubar.toml", path)
}

func TestGetSet(t *testing.T) {
	opts := Normalize(nil, linuxEnv)

	v, err := opts.Get(OptWidth)
	require.NoError(t, err)
	assert.Equal(t, 400, v)

	require.NoError(t, opts.Set(OptTooltip, "hello"))
	v, err = opts.Get(OptTooltip)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	// decoded JSON numbers
	require.NoError(t, opts.Set(OptHeight, float64(120)))
	assert.Equal(t, 120, opts.Height)

	v, err = opts.Get(OptX)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, opts.Set(OptX, int32(15)))
	v, err = opts.Get(OptX)
	require.NoError(t, err)
	assert.Equal(t, 15, v)

	require.NoError(t, opts.Set(OptX, nil))
	assert.Nil(t, opts.X)

	require.NoError(t, opts.Set(OptWindowPosition, "bottomLeft"))
	assert.Equal(t, geometry.AnchorBottomLeft, opts.WindowPosition)

	require.NoError(t, opts.Set(OptDir, "/srv/www"))
	assert.Equal(t, "/srv/www", opts.Dir)
}

func TestSet_DirIsAbsolute(t *testing.T) {
	opts := Normalize(nil, linuxEnv)

	require.NoError(t, opts.Set(OptDir, "relative/dir"))
	assert.True(t, filepath.IsAbs(opts.Dir))
	assert.True(t, strings.HasSuffix(opts.Dir, filepath.Join("relative", "dir")))
	assert.True(t, filepath.IsAbs(opts.IconPath()))

	require.NoError(t, opts.SetString(OptDir, "other"))
	assert.True(t, filepath.IsAbs(opts.Dir))
}

func TestSet_WrongType(t *testing.T) {
	opts := &Options{}

	tests := []struct {
		name  string
		value any
	}{
		{OptWidth, "wide"},
		{OptWidth, 1.5},
		{OptWidth, -10},
		{OptWidth, 0},
		{OptHeight, -1},
		{OptDir, ""},
		{OptDir, 7},
		{OptDetached, "yes"},
		{OptTooltip, 42},
		{OptShowOnAllWorkspaces, 1},
		{OptWindowPosition, "sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := opts.Set(tt.name, tt.value)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestSetString(t *testing.T) {
	opts := &Options{}

	require.NoError(t, opts.SetString(OptWidth, " 640 "))
	assert.Equal(t, 640, opts.Width)

	require.NoError(t, opts.SetString(OptDetached, "true"))
	assert.True(t, opts.Detached)

	require.NoError(t, opts.SetString(OptY, "-20"))
	require.NotNil(t, opts.Y)
	assert.Equal(t, -20, *opts.Y)

	require.NoError(t, opts.SetString(OptY, "none"))
	assert.Nil(t, opts.Y)

	require.NoError(t, opts.SetString(OptShowOnAllWorkspaces, "false"))
	assert.False(t, opts.VisibleOnAllWorkspaces())

	require.NoError(t, opts.SetString(OptWindowPosition, "center"))
	assert.Equal(t, geometry.AnchorCenter, opts.WindowPosition)

	assert.ErrorIs(t, opts.SetString(OptHeight, "tall"), ErrInvalidValue)
	assert.ErrorIs(t, opts.SetString(OptHeight, "-10"), ErrInvalidValue)
	assert.ErrorIs(t, opts.SetString(OptAlwaysOnTop, "maybe"), ErrInvalidValue)
}

func TestUnknownOption(t *testing.T) {
	opts := &Options{}

	_, err := opts.Get("dock")
	require.ErrorIs(t, err, ErrUnknownOption)
	assert.Contains(t, err.Error(), `did you mean "show-dock-icon"`)

	err = opts.Set("zzz", 1)
	require.ErrorIs(t, err, ErrUnknownOption)
	assert.NotContains(t, err.Error(), "did you mean")

	assert.ErrorIs(t, opts.SetString("nope", "1"), ErrUnknownOption)
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 18)
	assert.True(t, strings.Compare(names[0], names[1]) < 0)
	assert.Contains(t, names, OptShowOnRightClick)

	m := (&Options{}).Map()
	assert.Len(t, m, len(names))
}

func TestDiff(t *testing.T) {
	a := Normalize(nil, linuxEnv)
	b := a.Clone()
	assert.Empty(t, a.Diff(b))

	b.Tooltip = "changed"
	b.X = Int(3)
	b.ShowOnAllWorkspaces = Bool(true)
	assert.Equal(t, []string{OptShowOnAllWorkspaces, OptTooltip, OptX}, a.Diff(b))
}
