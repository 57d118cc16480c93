package services

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mholt/archives"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"portfolio-service/internal/extraction"
	"portfolio-service/internal/metrics"
	"portfolio-service/internal/models"
)

const (
	// SnapshotFile is the entry holding the project list inside a snapshot archive.
	SnapshotFile        = "projects.json"
	SnapshotContentType = "application/gzip"
	snapshotPrefix      = "snapshots/"
)

// ErrBackupDisabled is returned by Backup when no object storage is configured.
var ErrBackupDisabled = errors.New("snapshot backup is not configured")

// ObjectUploader is the subset of *minio.Client used for backups.
type ObjectUploader interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// SnapshotService exports, imports and backs up the whole portfolio as a
// gzip'd tar archive containing projects.json.
type SnapshotService struct {
	projects   *ProjectService
	uploader   ObjectUploader
	bucketName string
	log        *logrus.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewSnapshotService creates a SnapshotService. uploader may be nil, which disables Backup.
func NewSnapshotService(projects *ProjectService, uploader ObjectUploader, bucketName string,
	log *logrus.Logger, m *metrics.Metrics) *SnapshotService {
	return &SnapshotService{
		projects:   projects,
		uploader:   uploader,
		bucketName: bucketName,
		log:        log,
		metrics:    m,
		now:        time.Now,
	}
}

func snapshotFormat() archives.CompressedArchive {
	return archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
		Extraction:  archives.Tar{},
	}
}

// Export writes a snapshot of every project to w, newest first, and returns
// how many were written. The archive size is recorded on the snapshot metric.
func (s *SnapshotService) Export(ctx context.Context, w io.Writer) (int, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return 0, err
	}

	tempDir, err := os.MkdirTemp("", "snapshot-*")
	if err != nil {
		return 0, errors.Wrap(err, "could not create temporary directory")
	}
	defer os.RemoveAll(tempDir)

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "encode projects")
	}
	listPath := filepath.Join(tempDir, SnapshotFile)
	if err := os.WriteFile(listPath, data, 0o600); err != nil {
		return 0, errors.Wrap(err, "failed to write project list")
	}

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{listPath: SnapshotFile})
	if err != nil {
		return 0, errors.Wrap(err, "collect snapshot files")
	}
	cw := &countingWriter{w: w}
	if err := snapshotFormat().Archive(ctx, cw, files); err != nil {
		return 0, errors.Wrap(err, "write snapshot archive")
	}
	s.metrics.RecordSnapshotSize(cw.n)
	return len(projects), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Import reads projects.json from the archive at archivePath and inserts
// every entry as a new project. Stored ids are ignored.
func (s *SnapshotService) Import(ctx context.Context, archivePath string) ([]models.Project, error) {
	data, err := extraction.ReadFile(ctx, archivePath, SnapshotFile)
	if err != nil {
		return nil, &ValidationError{Details: []string{err.Error()}}
	}
	var inputs []models.ProjectInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, &ValidationError{Details: []string{"projects.json: " + err.Error()}}
	}
	projects, err := s.projects.ImportProjects(ctx, inputs)
	if err != nil {
		return nil, err
	}
	s.log.WithField("count", len(projects)).Info("Imported snapshot")
	return projects, nil
}

// Backup exports a snapshot and uploads it to the configured bucket. It
// returns the object key.
func (s *SnapshotService) Backup(ctx context.Context) (string, error) {
	if s.uploader == nil {
		return "", ErrBackupDisabled
	}

	tempFile, err := os.CreateTemp("", "snapshot-*.tar.gz")
	if err != nil {
		return "", errors.Wrap(err, "could not create temporary file")
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	count, err := s.Export(ctx, tempFile)
	if err != nil {
		return "", err
	}
	stat, err := tempFile.Stat()
	if err != nil {
		return "", errors.Wrap(err, "could not stat snapshot file")
	}
	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrap(err, "rewind snapshot file")
	}

	key := snapshotPrefix + s.now().UTC().Format("20060102T150405Z") + "-" + uuid.NewString() + ".tar.gz"
	_, err = s.uploader.PutObject(ctx, s.bucketName, key, tempFile, stat.Size(),
		minio.PutObjectOptions{ContentType: SnapshotContentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload snapshot")
	}

	s.log.WithFields(logrus.Fields{
		"key":      key,
		"projects": count,
		"bytes":    stat.Size(),
	}).Info("Uploaded snapshot")
	return key, nil
}
