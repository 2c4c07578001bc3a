package catalogstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// S3Source names the bucket/key a catalog bundle is stored under.
type S3Source struct {
	Bucket string
	Key    string
	Region string
}

// S3Loader fetches and builds catalogs from S3, reusing one client across
// loads.
type S3Loader struct {
	client *s3.Client
}

// NewS3Loader resolves credentials the default AWS SDK way (environment,
// shared config, IMDS) via aws-sdk-go-v2/config, matching how an ambient
// AWS-backed service is configured throughout the pack's examples.
func NewS3Loader(ctx context.Context, region string) (*S3Loader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("catalogstore: load aws config: %w", err)
	}
	return &S3Loader{client: s3.NewFromConfig(cfg)}, nil
}

// Load fetches the bundle object named by src and builds a Catalog from
// it.
func (l *S3Loader) Load(ctx context.Context, src S3Source) (*catalog.Catalog, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("catalogstore: get s3://%s/%s: %w", src.Bucket, src.Key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("catalogstore: read s3://%s/%s body: %w", src.Bucket, src.Key, err)
	}

	b, err := ParseBundle(data)
	if err != nil {
		return nil, err
	}
	return Build(b), nil
}
