package article

import (
	"fmt"
	"io/fs"
	"os"
)

// OutputFile is the page produced for one article.
//
// Its values are not supposed to be changed by other packages,
// and thus the only ways other packages can work with OutputFile
// is via the constructor [Output] and the type's getter methods.
type OutputFile struct {
	target     string
	originator string
	data       []byte
	perm       fs.FileMode
}

func Output(target string, originator string, data []byte, perm fs.FileMode) OutputFile {
	return OutputFile{
		target:     target,
		originator: originator,
		data:       data,
		perm:       perm,
	}
}

func (o *OutputFile) Target() string {
	return o.target
}

func (o *OutputFile) Originator() string {
	return o.originator
}

func (o *OutputFile) Data() []byte {
	return o.data
}

func (o *OutputFile) Perm() fs.FileMode {
	if o.perm == fs.FileMode(0) {
		return 0644
	}
	return o.perm
}

// Write writes o to its target, overwriting any existing file.
// The target directory is the article directory and must exist.
func (o *OutputFile) Write() error {
	err := os.WriteFile(o.target, o.data, o.Perm())
	if err != nil {
		return errorWrite{
			err:        err,
			target:     o.target,
			originator: o.originator,
		}
	}
	return nil
}

type errorWrite struct {
	err        error
	target     string
	originator string
}

func (e errorWrite) Error() string {
	return fmt.Errorf("WriteError(target='%s',originator='%s'): %w", e.target, e.originator, e.err).Error()
}

func (e errorWrite) Unwrap() error {
	return e.err
}
