// Package sthree implements the storage.Store interface for S3 buckets,
// using the AWS SDK.
package sthree

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/lsst-dm/curation-tools/pkg/storage"
)

const pageSize = 1000

// Option configures the S3 store
type Option func(*s3FS)

// Bucket sets the bucket served by this store
func Bucket(bucket string) Option {
	return func(fs *s3FS) {
		fs.bucket = bucket
	}
}

// AWSConfig overrides the default AWS configuration
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3FS) {
		fs.awsConfig = cfg
	}
}

// New creates a Store backed by an S3 bucket
func New(opts ...Option) storage.Store {
	fs := new(s3FS)
	for _, apply := range opts {
		apply(fs)
	}
	fs.s3 = s3.New(session.Must(session.NewSession(fs.awsConfig)))
	fs.uploader = s3manager.NewUploaderWithClient(fs.s3)
	fs.downloader = s3manager.NewDownloaderWithClient(fs.s3)
	return fs
}

type s3FS struct {
	bucket     string
	awsConfig  *aws.Config
	s3         *s3.S3
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
}

func (s *s3FS) String() string {
	return "s3@" + s.bucket
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, mapAPIError(err)
	}
	return true, nil
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapAPIError(err)
	}
	return obj.Body, nil
}

func (s *s3FS) Put(ctx context.Context, key string, rdr io.Reader) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   rdr,
	})
	if err != nil {
		return mapAPIError(err)
	}
	return nil
}

func (s *s3FS) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	if count <= 0 || count > pageSize {
		count = pageSize
	}
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		MaxKeys:   aws.Int64(int64(count)),
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	out, err := s.s3.ListObjectsV2WithContext(ctx, input)
	if err != nil {
		return nil, "", mapAPIError(err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if key := aws.StringValue(obj.Key); key != "" {
			keys = append(keys, key)
		}
	}

	next := ""
	if aws.BoolValue(out.IsTruncated) {
		next = aws.StringValue(out.NextContinuationToken)
	}
	return keys, next, nil
}
