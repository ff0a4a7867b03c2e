package form

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"qld-approval-checker/internal/common/metrics"
)

// Sink materialises a downloaded document under filename and returns where
// it ended up.
type Sink interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ReportFilename is QLD-Approval-Check-<structureType>-<epoch millis>.pdf.
func ReportFilename(structureType string, at time.Time) string {
	return fmt.Sprintf("QLD-Approval-Check-%s-%d.pdf", structureType, at.UnixMilli())
}

// FileSink writes documents into a directory. Data goes to a temporary file
// that is renamed into place only after a complete copy, so a failed
// download leaves nothing behind.
type FileSink struct {
	fs  afero.Fs
	dir string
}

func NewFileSink(fs afero.Fs, dir string) *FileSink {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSink{fs: fs, dir: dir}
}

// CheckFilename rejects names that are empty, hidden or not a single path
// element.
func CheckFilename(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return fmt.Errorf("invalid file name %q", filename)
	}
	return nil
}

func (s *FileSink) Save(ctx context.Context, filename string, r io.Reader) (path string, err error) {
	if err := CheckFilename(filename); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+filename+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmpName)
		}
	}()

	n, copyErr := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	closeErr := tmp.Close()
	if copyErr != nil {
		return "", fmt.Errorf("write %s: %w", filename, copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("close %s: %w", filename, closeErr)
	}

	path = filepath.Join(s.dir, filename)
	if err = s.fs.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("move %s into place: %w", filename, err)
	}
	metrics.ReportBytesDownloaded.Add(float64(n))
	return path, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
