// Package fonts locates and loads the TrueType font used for meme captions.
package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hunny44/memegeneratorAI/internal/entity"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Builtin selects the embedded Go Regular font instead of a file on disk.
const Builtin = "builtin"

var errFound = errors.New("found")

// SearchDirs returns the system font directories for the current OS.
func SearchDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	case "darwin":
		return []string{"/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	default:
		return []string{
			"/usr/share/fonts",
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
			"/usr/local/share/fonts",
		}
	}
}

// Locate checks name as a path first, then walks dirs looking for a file with that base name.
func Locate(name string, dirs []string) (string, error) {
	if name == Builtin {
		return Builtin, nil
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}

	base := filepath.Base(name)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		var found string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// нечитаемые каталоги просто пропускаем
				return nil
			}
			if !d.IsDir() && d.Name() == base {
				found = path
				return errFound
			}
			return nil
		})
		if errors.Is(err, errFound) {
			return found, nil
		}
	}

	return "", fmt.Errorf("%w: %q (add it next to the program or install it into a system font folder)", entity.ErrFontAssetNotFound, name)
}

// Load locates and parses the font.
func Load(name string, dirs []string) (*opentype.Font, error) {
	path, err := Locate(name, dirs)
	if err != nil {
		return nil, err
	}

	var data []byte
	if path == Builtin {
		data = goregular.TTF
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", path, err)
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return f, nil
}
