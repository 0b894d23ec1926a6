package archive

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// streamArchive covers tar and the single-stream compressors. Compressed streams that
// contain a tarball expose its entries; anything else is a single entry named after the
// archive minus its compression extension.
type streamArchive struct {
	path   string
	format Format
	isTar  bool
	single string
}

func openStream(archivePath string, format Format) (*streamArchive, error) {
	s := &streamArchive{path: archivePath, format: format}

	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if format == FormatTar {
		s.isTar = true
	} else {
		s.isTar = looksLikeTar(rc)
	}
	if s.isTar && format == FormatTar {
		// A tar that fails to yield a first header is corrupt
		rc2, err := s.open()
		if err != nil {
			return nil, err
		}
		defer rc2.Close()
		if _, err := tar.NewReader(rc2).Next(); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading tar header: %w", err)
		}
	}
	if !s.isTar {
		s.single = singleEntryName(archivePath)
	}
	return s, nil
}

// looksLikeTar reports whether the decompressed stream starts with a valid tar header
func looksLikeTar(r io.Reader) bool {
	_, err := tar.NewReader(r).Next()
	return err == nil
}

func singleEntryName(archivePath string) string {
	base := filepath.Base(archivePath)
	ext := filepath.Ext(base)
	switch strings.ToLower(ext) {
	case ".gz", ".bz2", ".xz":
		return strings.TrimSuffix(base, ext)
	}
	return base
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// open returns the decompressed byte stream
func (s *streamArchive) open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}

	switch s.format {
	case FormatTar:
		return f, nil
	case FormatGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip: %w", err)
		}
		return &multiCloser{Reader: gz, closers: []io.Closer{f, gz}}, nil
	case FormatBzip2:
		return &multiCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	case FormatXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening xz: %w", err)
		}
		return &multiCloser{Reader: xr, closers: []io.Closer{f}}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("unexpected stream format %q", s.format)
	}
}

func (s *streamArchive) Path() string   { return s.path }
func (s *streamArchive) Format() Format { return s.format }

func (s *streamArchive) each(fn func(info FileInfo, r io.Reader) (bool, error)) error {
	rc, err := s.open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if !s.isTar {
		_, err := fn(FileInfo{Name: s.single, Size: -1}, rc)
		return err
	}

	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar header: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := cleanName(hdr.Name)
		if name == "" {
			continue
		}
		stop, err := fn(FileInfo{Name: name, Size: hdr.Size}, tr)
		if err != nil || stop {
			return err
		}
	}
}

func (s *streamArchive) List() ([]FileInfo, error) {
	if !s.isTar {
		return []FileInfo{{Name: s.single, Size: -1}}, nil
	}
	var files []FileInfo
	err := s.each(func(info FileInfo, _ io.Reader) (bool, error) {
		files = append(files, info)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *streamArchive) ReadFile(name string) ([]byte, error) {
	want := cleanName(name)
	var data []byte
	found := false
	err := s.each(func(info FileInfo, r io.Reader) (bool, error) {
		if !equalName(info.Name, want) {
			return false, nil
		}
		found = true
		var rerr error
		data, rerr = readAll(s.path, info.Name, r)
		return true, rerr
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound(s.path, name)
	}
	return data, nil
}

func (s *streamArchive) Walk(fn WalkFunc) error {
	return s.each(func(info FileInfo, r io.Reader) (bool, error) {
		return false, fn(info, r)
	})
}

func (s *streamArchive) Close() error {
	return nil
}
