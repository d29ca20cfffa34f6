// Package content loads the game's tunable data (boss tiers and shop parts)
// from YAML. Every file is embedded in the binary; a file of the same name in
// the content directory on disk takes precedence.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File names.
const (
	BossesFile = "bosses.yaml"
	PartsFile  = "parts.yaml"
)

//go:embed *.yaml
var FS embed.FS

// Load returns the named file from dir when present, else the embedded copy.
// Read errors other than a missing file are returned.
func Load(dir, name string) ([]byte, error) {
	clean := cleanPath(name)
	if dir != "" {
		data, err := os.ReadFile(diskPath(dir, clean))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("content: read %s: %w", clean, err)
		}
	}
	return FS.ReadFile(clean)
}

// ModTime reports the modification time of the disk override, if any.
func ModTime(dir, name string) (time.Time, bool) {
	if dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(diskPath(dir, cleanPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPath(name string) string {
	s := filepath.ToSlash(name)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func diskPath(dir, clean string) string {
	return filepath.Join(dir, filepath.FromSlash(clean))
}
