package documents

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	vgconfig "mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the subset of the S3 API used by S3Source.
type S3Client interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads structured documents stored as
// <prefix>/<vendor>/<doc_type>.json in a bucket.
type S3Source struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3Source builds an S3 client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS chain applies.
func NewS3Source(ctx context.Context, cfg vgconfig.S3Config) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documents: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3SourceWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3SourceWithClient creates a source over an existing client.
func NewS3SourceWithClient(client S3Client, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Name implements Source.
func (s *S3Source) Name() string { return "s3" }

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context, vendorID string, _ map[string]any) (validation.Documents, error) {
	if err := checkVendorID(vendorID); err != nil {
		return nil, err
	}

	keys, err := s.list(ctx, path.Join(s.prefix, vendorID)+"/")
	if err != nil {
		return nil, err
	}

	docs := validation.Documents{}
	for _, key := range keys {
		doc, err := s.get(ctx, key)
		if err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(path.Base(key), path.Ext(key))
		docType := docTypeOf(doc, stem)
		if _, exists := docs[docType]; !exists {
			docs[docType] = doc
		}
	}
	return docs, nil
}

// list returns the .json keys directly under prefix, following continuation
// tokens.
func (s *S3Source) list(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}

	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("documents: list s3://%s/%s: %w", s.bucket, prefix, err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.EqualFold(path.Ext(key), ".json") {
				keys = append(keys, key)
			}
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			return keys, nil
		}
		input.ContinuationToken = out.NextContinuationToken
	}
}

func (s *S3Source) get(ctx context.Context, key string) (map[string]any, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("documents: get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("documents: read s3://%s/%s: %w", s.bucket, key, err)
	}

	var doc map[string]any
	if err := validation.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, fmt.Errorf("documents: s3://%s/%s is not a JSON object", s.bucket, key)
	}
	return doc, nil
}
