package archive

import (
	"fmt"

	"github.com/bodgit/sevenzip"
)

type sevenZipArchive struct {
	reader *sevenzip.ReadCloser
	path   string
}

func openSevenZip(archivePath string) (*sevenZipArchive, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening 7z: %w", err)
	}
	return &sevenZipArchive{reader: r, path: archivePath}, nil
}

func (s *sevenZipArchive) Path() string   { return s.path }
func (s *sevenZipArchive) Format() Format { return FormatSevenZip }

func (s *sevenZipArchive) List() ([]FileInfo, error) {
	files := make([]FileInfo, 0, len(s.reader.File))
	for _, f := range s.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, FileInfo{Name: cleanName(f.Name), Size: int64(f.UncompressedSize)})
	}
	return files, nil
}

func (s *sevenZipArchive) ReadFile(name string) ([]byte, error) {
	want := cleanName(name)
	for _, f := range s.reader.File {
		if f.FileInfo().IsDir() || !equalName(cleanName(f.Name), want) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in 7z: %w", f.Name, err)
		}
		defer rc.Close()
		return readAll(s.path, f.Name, rc)
	}
	return nil, notFound(s.path, name)
}

func (s *sevenZipArchive) Walk(fn WalkFunc) error {
	for _, f := range s.reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := s.walkOne(f, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *sevenZipArchive) walkOne(f *sevenzip.File, fn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s in 7z: %w", f.Name, err)
	}
	defer rc.Close()
	return fn(FileInfo{Name: cleanName(f.Name), Size: int64(f.UncompressedSize)}, rc)
}

func (s *sevenZipArchive) Close() error {
	return s.reader.Close()
}
