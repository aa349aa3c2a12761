package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
)

//go:embed locales/*.json
var embedded embed.FS

// ErrUnknownLanguage is returned when no document exists for a language.
var ErrUnknownLanguage = errors.New("unknown language")

var langPattern = regexp.MustCompile(`^[A-Za-z]{2,8}(-[A-Za-z0-9]{1,8})*$`)

// Loader reads <lang>.json (or .yaml) documents from a filesystem.
// Concurrent loads of the same language share a single read.
type Loader struct {
	fs    afero.Fs
	group singleflight.Group
}

// NewLoader reads documents from the root of fsys.
func NewLoader(fsys afero.Fs) *Loader {
	return &Loader{fs: fsys}
}

// DirLoader reads documents from a directory on disk.
func DirLoader(dir string) *Loader {
	return NewLoader(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// EmbeddedLoader serves the documents compiled into the binary.
func EmbeddedLoader() *Loader {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic(err)
	}
	return NewLoader(afero.FromIOFS{FS: sub})
}

// Load returns the bundle for lang.
func (l *Loader) Load(ctx context.Context, lang string) (*Bundle, error) {
	if !langPattern.MatchString(lang) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}

	ch := l.group.DoChan(lang, func() (any, error) {
		return l.read(lang)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Bundle), nil
	}
}

func (l *Loader) read(lang string) (*Bundle, error) {
	for _, name := range []string{lang + ".json", lang + ".yaml", lang + ".yml"} {
		data, err := afero.ReadFile(l.fs, name)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return Parse(lang, data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
}
