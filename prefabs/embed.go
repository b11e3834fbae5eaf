package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

// overrideDir holds hand-edited copies that win over the embedded files.
var overrideDir = "prefabs"

// SetDiskDir changes the override directory. An empty dir disables
// overrides.
func SetDiskDir(dir string) { overrideDir = dir }

func DiskDir() string { return overrideDir }

// Load reads a tuning file such as "player.yaml".
func Load(name string) ([]byte, error) {
	return read(tuningKey(name))
}

// LoadScript reads a prop script by name, with or without its directory
// and extension.
func LoadScript(name string) ([]byte, error) {
	return read(scriptKey(name))
}

// ModTime reports when the override copy of a tuning file last changed.
func ModTime(name string) (time.Time, bool) {
	info, err := statOverride(tuningKey(name))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func read(key string) ([]byte, error) {
	if overrideDir != "" {
		if data, err := os.ReadFile(overridePath(key)); err == nil {
			return data, nil
		}
	}
	return fs.ReadFile(embedded, key)
}

func statOverride(key string) (fs.FileInfo, error) {
	if overrideDir == "" {
		return nil, fs.ErrNotExist
	}
	return os.Stat(overridePath(key))
}

func overridePath(key string) string {
	return filepath.Join(overrideDir, filepath.FromSlash(key))
}

// tuningKey maps "prefabs/hud.yaml" and "hud.yaml" to "hud.yaml".
func tuningKey(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
}

// scriptKey maps "shrine", "scripts/shrine" and
// "prefabs/scripts/shrine.tengo" to "scripts/shrine.tengo".
func scriptKey(name string) string {
	if name == "" {
		return ""
	}
	base := path.Base(filepath.ToSlash(name))
	if path.Ext(base) != ".tengo" {
		base += ".tengo"
	}
	return path.Join("scripts", base)
}
