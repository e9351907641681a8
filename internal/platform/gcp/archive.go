package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

type ArchiveConfig struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	EmulatorHost string `yaml:"emulator_host"`
	Credentials  string `yaml:"credentials"`
}

type ReportKind string

const (
	ReportAssessment ReportKind = "assessment"
	ReportSimulation ReportKind = "simulation"
	ReportGraphImage ReportKind = "graph"
)

// ReportArchive stores assessment and simulation reports for later review.
type ReportArchive interface {
	Put(ctx context.Context, householdID string, kind ReportKind, ext string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Close() error
}

type gcsArchive struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewReportArchive returns nil, nil when no bucket is configured.
func NewReportArchive(ctx context.Context, log *logger.Logger, cfg ArchiveConfig) (ReportArchive, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, nil
	}
	var opts []option.ClientOption
	if host := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"); host != "" {
		opts = append(opts, option.WithoutAuthentication(), option.WithEndpoint(host+"/storage/v1/"))
	} else {
		opts = append(ClientOptions(cfg.Credentials), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Info("report archive: gcs", "bucket", bucket)
	return &gcsArchive{
		log:    log.With("service", "ReportArchive"),
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		now:    time.Now,
	}, nil
}

func (a *gcsArchive) Put(ctx context.Context, householdID string, kind ReportKind, ext string, data []byte) (string, error) {
	key := ObjectKey(a.prefix, householdID, kind, ext, a.now(), uuid.New())
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeForExt(ext)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write report to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", a.bucket, key), nil
}

func (a *gcsArchive) Get(ctx context.Context, key string) ([]byte, error) {
	key = strings.TrimPrefix(key, fmt.Sprintf("gs://%s/", a.bucket))
	r, err := a.client.Bucket(a.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open report %q: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (a *gcsArchive) Close() error { return a.client.Close() }

// ObjectKey lays reports out as <prefix>/<household>/<kind>/<date>/<time>-<id>.<ext>.
func ObjectKey(prefix, householdID string, kind ReportKind, ext string, at time.Time, id uuid.UUID) string {
	at = at.UTC()
	name := fmt.Sprintf("%s-%s.%s", at.Format("150405"), id.String(), strings.TrimPrefix(ext, "."))
	return path.Join(prefix, householdID, string(kind), at.Format("2006-01-02"), name)
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return "application/json"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
