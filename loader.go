package twowaysql

import (
	"io/fs"
	"os"

	"github.com/twowaysql/twowaysql/engine"
)

// Loader fetches a template's raw text by file reference, used both for
// the top-level template a caller asks to render and for %include targets
// reached from inside one (spec §4.6, §6).
type Loader interface {
	Load(ref engine.FileRef) (string, error)
}

// FSLoader loads templates from an fs.FS, the idiomatic way to ship SQL
// templates embedded in a Go binary via //go:embed (spec §6).
type FSLoader struct {
	FS fs.FS
}

// DirLoader is an FSLoader rooted at a plain OS directory.
func DirLoader(dir string) FSLoader {
	return FSLoader{FS: os.DirFS(dir)}
}

func (l FSLoader) Load(ref engine.FileRef) (string, error) {
	b, err := fs.ReadFile(l.FS, string(ref))
	if err != nil {
		return "", engine.ParseError{Kind: engine.SqlFileNotFound, Name: string(ref), Message: err.Error()}
	}
	return string(b), nil
}
