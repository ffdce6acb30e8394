// Package reports stores downloaded analysis reports, either on the local
// filesystem or in an S3-compatible bucket.
package reports

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tracetrail/tracetrail/internal/client/models"
	"github.com/tracetrail/tracetrail/internal/filex"
)

// Sink persists a report body and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, name string, body []byte) (location string, err error)
}

// NewName returns a unique file name for a report of the given type.
func NewName(kind models.ReportType) string {
	return fmt.Sprintf("%s-%s.pdf", kind, uuid.New())
}

// StorageKey places name under a date-partitioned prefix:
// reports/YYYY/MM/DD/<name>.
func StorageKey(name string, at time.Time) string {
	return fmt.Sprintf("reports/%04d/%02d/%02d/%s", at.Year(), int(at.Month()), at.Day(), name)
}

// FileSink writes reports into Dir, creating it on first use.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Save(ctx context.Context, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir, err := filex.EnsureDir(s.Dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := filex.WriteFile(path, body); err != nil {
		return "", err
	}
	return path, nil
}
