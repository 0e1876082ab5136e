package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/services"
)

// Sink stores a finished export under name.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
	String() string
}

// DirSink writes exports into a local directory.
type DirSink struct {
	Dir string
}

func (d DirSink) Put(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("ensure export dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(d.Dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (d DirSink) String() string { return "dir:" + d.Dir }

// objectPutter is the part of the S3 client used by S3Sink.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads exports to a bucket under an optional key prefix.
type S3Sink struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3Sink builds a client from the default AWS credential chain.
func NewS3Sink(ctx context.Context, bucket, prefix, region string) (*S3Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Sink{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

func (s *S3Sink) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Sink) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s: %w", name, s.bucket, err)
	}
	return nil
}

func (s *S3Sink) String() string { return "s3://" + s.bucket + "/" + s.prefix }

// Exporter renders every export kind for a session and hands each file to
// all sinks.
type Exporter struct {
	Sinks   []Sink
	Metrics *metrics.Registry
	Log     *zap.Logger
	Now     func() time.Time
}

// ExportAll returns the names of the files written.
func (e *Exporter) ExportAll(ctx context.Context, s *services.Session, f Filters) ([]string, error) {
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	names := make([]string, 0, len(models.ExportKinds))
	for _, kind := range models.ExportKinds {
		data, err := Render(kind, s, f)
		if err != nil {
			return names, err
		}
		name := FileName(kind, now())
		for _, sink := range e.Sinks {
			if err := sink.Put(ctx, name, data); err != nil {
				return names, err
			}
			log.Info("export written", zap.String("file", name), zap.Stringer("sink", sink), zap.Int("bytes", len(data)))
		}
		if e.Metrics != nil {
			e.Metrics.RecordExport(string(kind))
		}
		names = append(names, name)
	}
	return names, nil
}
