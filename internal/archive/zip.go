package archive

import (
	"archive/zip"
	"fmt"
)

type zipArchive struct {
	reader *zip.ReadCloser
	path   string
}

func openZip(archivePath string) (*zipArchive, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}
	return &zipArchive{reader: r, path: archivePath}, nil
}

func (z *zipArchive) Path() string   { return z.path }
func (z *zipArchive) Format() Format { return FormatZip }

func (z *zipArchive) List() ([]FileInfo, error) {
	files := make([]FileInfo, 0, len(z.reader.File))
	for _, f := range z.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, FileInfo{Name: cleanName(f.Name), Size: int64(f.UncompressedSize64)})
	}
	return files, nil
}

func (z *zipArchive) ReadFile(name string) ([]byte, error) {
	want := cleanName(name)
	for _, f := range z.reader.File {
		if f.FileInfo().IsDir() || !equalName(cleanName(f.Name), want) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in zip: %w", f.Name, err)
		}
		defer rc.Close()
		return readAll(z.path, f.Name, rc)
	}
	return nil, notFound(z.path, name)
}

func (z *zipArchive) Walk(fn WalkFunc) error {
	for _, f := range z.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := z.walkOne(f, fn); err != nil {
			return err
		}
	}
	return nil
}

func (z *zipArchive) walkOne(f *zip.File, fn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s in zip: %w", f.Name, err)
	}
	defer rc.Close()
	return fn(FileInfo{Name: cleanName(f.Name), Size: int64(f.UncompressedSize64)}, rc)
}

func (z *zipArchive) Close() error {
	return z.reader.Close()
}
