// Package publish uploads run outputs to S3-compatible object storage.
package publish

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/influencer-kpi/internal/resilience"
)

// ObjectPutter is the subset of *s3.Client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds the publication target.
type Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string // optional custom endpoint (MinIO, LocalStack)
	UsePathStyle bool
	MaxRetries   int
	BaseBackoff  time.Duration
	Concurrency  int
}

// Publisher uploads files under s3://bucket/prefix/<run-id>/.
type Publisher struct {
	client ObjectPutter
	cfg    Config
}

// New creates a Publisher using the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, eris.New("publish: bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "publish: load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Publisher with a pre-configured client.
func NewWithClient(client ObjectPutter, cfg Config) *Publisher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Publisher{client: client, cfg: cfg}
}

// Key returns the object key for a local file of a run.
func (p *Publisher) Key(runID, localPath string) string {
	return path.Join(strings.Trim(p.cfg.Prefix, "/"), runID, filepath.Base(localPath))
}

// URI returns the s3:// URI of an object key.
func (p *Publisher) URI(key string) string {
	return "s3://" + p.cfg.Bucket + "/" + key
}

// Publish uploads every file and returns their URIs in lexical order.
func (p *Publisher) Publish(ctx context.Context, runID string, paths []string) ([]string, error) {
	if runID == "" {
		return nil, eris.New("publish: run id is required")
	}

	uris := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, local := range paths {
		key := p.Key(runID, local)
		uris[i] = p.URI(key)
		g.Go(func() error {
			return p.upload(gctx, local, key)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(uris)
	zap.L().Info("publish: outputs uploaded",
		zap.String("bucket", p.cfg.Bucket),
		zap.String("run_id", runID),
		zap.Int("files", len(uris)),
	)
	return uris, nil
}

func (p *Publisher) upload(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return eris.Wrapf(err, "publish: open %s", localPath)
	}
	defer f.Close() //nolint:errcheck

	policy := resilience.Policy{
		Attempts:  p.cfg.MaxRetries + 1,
		BaseDelay: p.cfg.BaseBackoff,
		Retryable: resilience.Always,
		Op:        "publish " + key,
	}
	err = resilience.Do(ctx, policy, func(ctx context.Context) error {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.cfg.Bucket),
			Key:         aws.String(key),
			Body:        f,
			ContentType: aws.String(contentType(localPath)),
		})
		return err
	})
	if err != nil {
		return eris.Wrapf(err, "publish: put %s", key)
	}
	return nil
}

var contentTypes = map[string]string{
	".csv":  "text/csv; charset=utf-8",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".json": "application/json",
}

func contentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
