package extraction

import (
	"context"
	"io/fs"
	"path"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
)

// ErrFileNotFound is returned when the archive has no entry with the wanted name.
var ErrFileNotFound = errors.New("file not found in archive")

// ReadFile opens the archive at archivePath in any format mholt/archives can
// identify and returns the content of the first regular file whose base name
// is name, at any depth.
func ReadFile(ctx context.Context, archivePath, name string) ([]byte, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open archive")
	}

	var found string
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if path.Base(p) == name {
			found = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk archive")
	}
	if found == "" {
		return nil, errors.Wrapf(ErrFileNotFound, "%s", name)
	}

	data, err := fs.ReadFile(fsys, found)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", found)
	}
	return data, nil
}
