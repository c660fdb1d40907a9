package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/geomkit/geomkit/internal/validation"
)

// Writer builds a bundle entry by entry. Compression is chosen by file
// suffix, mirroring NewReader.
type Writer struct {
	tw         *tar.Writer
	compressor io.Closer
	file       *os.File
	modTime    time.Time
}

// NewWriter creates a bundle at the given path. Suffixes .tar.xz,
// .tar.gz, .tgz and .tar select the framing.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create bundle: %w", err)
	}

	var writer io.Writer = f
	var compressor io.Closer

	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		xzw, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		writer = xzw
		compressor = xzw
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		gzw := gzip.NewWriter(f)
		writer = gzw
		compressor = gzw
	case strings.HasSuffix(path, ".tar"):
		// Uncompressed bundle.
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported bundle format: %s", path)
	}

	return &Writer{
		tw:         tar.NewWriter(writer),
		compressor: compressor,
		file:       f,
		// One timestamp for every entry keeps bundles reproducible.
		modTime: time.Now(),
	}, nil
}

// Add writes one entry to the bundle. Entry names must be plain
// filenames without path separators.
func (w *Writer) Add(name string, data []byte) error {
	if err := validation.ValidateFilename(name); err != nil {
		return fmt.Errorf("entry name %q: %w", name, err)
	}

	header := &tar.Header{
		Name:     name,
		Mode:     0644,
		Size:     int64(len(data)),
		ModTime:  w.modTime,
		Typeflag: tar.TypeReg,
	}
	if err := w.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.tw.Write(data); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// Close flushes the tar stream, the compressor, and the file, in that
// order.
func (w *Writer) Close() error {
	var errs []error
	if err := w.tw.Close(); err != nil {
		errs = append(errs, err)
	}
	if w.compressor != nil {
		if err := w.compressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
