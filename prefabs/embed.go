package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// diskRoot is where edited copies of the embedded files live during
// development.
const diskRoot = "prefabs"

// Load reads an entity or scene prefab, preferring prefabs/<name> on disk.
func Load(name string) ([]byte, error) {
	return readLayered(PrefabsFS, relPath(name, ""))
}

// LoadScript reads scripts/<name>.tengo, preferring the disk copy so
// scripts can be edited while the game runs.
func LoadScript(name string) ([]byte, error) {
	return readLayered(ScriptsFS, relPath(name, "scripts"))
}

// Name strips directories so a watcher path maps back to a prefab name.
func Name(p string) string {
	return filepath.Base(filepath.ToSlash(p))
}

func readLayered(embedded fs.FS, rel string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(diskRoot, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return fs.ReadFile(embedded, rel)
}

// relPath maps any of name, scripts/name, prefabs/name or
// prefabs/scripts/name to a path relative to the prefabs directory.
// Scripts get a .tengo suffix when it is missing.
func relPath(name, dir string) string {
	if name == "" {
		return ""
	}
	s := strings.TrimPrefix(filepath.ToSlash(name), diskRoot+"/")
	if dir == "" {
		return s
	}
	s = strings.TrimPrefix(s, dir+"/")
	if path.Ext(s) != ".tengo" {
		s += ".tengo"
	}
	return path.Join(dir, s)
}
