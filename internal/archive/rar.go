package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// rarArchive re-reads the archive sequentially for every operation; RAR has no central directory
type rarArchive struct {
	path string
}

func openRar(archivePath string) (*rarArchive, error) {
	a := &rarArchive{path: archivePath}
	// Read the first header so corrupt archives fail at open time
	r, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening rar: %w", err)
	}
	defer r.Close()
	if _, err := r.Next(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading rar header: %w", err)
	}
	return a, nil
}

func (a *rarArchive) Path() string   { return a.path }
func (a *rarArchive) Format() Format { return FormatRar }

func (a *rarArchive) each(fn func(hdr *rardecode.FileHeader, r io.Reader) (bool, error)) error {
	r, err := rardecode.OpenReader(a.path)
	if err != nil {
		return fmt.Errorf("opening rar: %w", err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading rar header: %w", err)
		}
		if hdr.IsDir {
			continue
		}
		stop, err := fn(hdr, r)
		if err != nil || stop {
			return err
		}
	}
}

func rarInfo(hdr *rardecode.FileHeader) FileInfo {
	size := hdr.UnPackedSize
	if hdr.UnKnownSize {
		size = -1
	}
	return FileInfo{Name: cleanName(hdr.Name), Size: size}
}

func (a *rarArchive) List() ([]FileInfo, error) {
	var files []FileInfo
	err := a.each(func(hdr *rardecode.FileHeader, _ io.Reader) (bool, error) {
		files = append(files, rarInfo(hdr))
		return false, nil
	})
	return files, err
}

func (a *rarArchive) ReadFile(name string) ([]byte, error) {
	want := cleanName(name)
	var data []byte
	found := false
	err := a.each(func(hdr *rardecode.FileHeader, r io.Reader) (bool, error) {
		if !equalName(cleanName(hdr.Name), want) {
			return false, nil
		}
		found = true
		var rerr error
		data, rerr = readAll(a.path, hdr.Name, r)
		return true, rerr
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound(a.path, name)
	}
	return data, nil
}

func (a *rarArchive) Walk(fn WalkFunc) error {
	return a.each(func(hdr *rardecode.FileHeader, r io.Reader) (bool, error) {
		return false, fn(rarInfo(hdr), r)
	})
}

func (a *rarArchive) Close() error {
	return nil
}
