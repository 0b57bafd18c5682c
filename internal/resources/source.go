package resources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/resilience"
)

// Source opens named artifacts. A missing artifact is reported with an error
// wrapping fs.ErrNotExist.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Location describes where an artifact is looked up, for diagnostics
	Location(name string) string
}

// DirSource reads artifacts from a local directory
type DirSource struct {
	Dir string
}

// NewDirSource creates a source rooted at dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

// Open implements Source
func (d *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(d.Location(name))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", d.Location(name))
	}
	return f, nil
}

// Location implements Source
func (d *DirSource) Location(name string) string {
	return filepath.Join(d.Dir, name)
}

// S3Config holds the settings for an S3-compatible artifact bucket
type S3Config struct {
	// "http://127.0.0.1:9000" for minio; empty for AWS
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
}

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads artifacts from a bucket. Transient failures are retried
// with backoff.
type S3Source struct {
	client s3API
	bucket string
	prefix string
	retry  resilience.RetryConfig
}

// NewS3Source connects to the configured endpoint
func NewS3Source(cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 artifact source needs a bucket")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client := s3.NewFromConfig(aws.Config{Region: region}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		} else {
			o.Credentials = aws.AnonymousCredentials{}
		}
	})

	return newS3Source(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Source(client s3API, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		retry:  resilience.DefaultRetryConfig(),
	}
}

func (s *S3Source) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Open implements Source
func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var out *s3.GetObjectOutput
	err := resilience.RetryWithConfig(ctx, s.retry, func() error {
		var err error
		out, err = s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(name)),
		})
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return fmt.Errorf("%s: %w", s.Location(name), fs.ErrNotExist)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", s.Location(name), err)
	}
	return out.Body, nil
}

// Location implements Source
func (s *S3Source) Location(name string) string {
	return "s3://" + s.bucket + "/" + s.key(name)
}
