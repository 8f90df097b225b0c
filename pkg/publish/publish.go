// Package publish uploads built wheel artifacts to an S3 bucket.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wheelforge/wheelforge/pkg/settings"
	"github.com/wheelforge/wheelforge/pkg/util/console"
)

// ObjectPutter is the slice of the S3 API uploads need.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	Client ObjectPutter
	Bucket string
	Prefix string
}

// NewUploader builds an uploader from user settings. Static credentials from
// settings win over the default AWS chain.
func NewUploader(ctx context.Context, userSettings *settings.Settings) (*Uploader, error) {
	if userSettings.S3Bucket == "" {
		return nil, fmt.Errorf("No S3 bucket configured. Set s3_bucket in your settings or WHEELFORGE_S3_BUCKET in the environment")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if userSettings.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(userSettings.S3Region))
	}
	if userSettings.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(userSettings.S3AccessKeyID, userSettings.S3SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Uploader{
		Client: s3.NewFromConfig(cfg),
		Bucket: userSettings.S3Bucket,
		Prefix: userSettings.S3Prefix,
	}, nil
}

// Upload puts each wheel under s3://bucket/prefix/.
func (u *Uploader) Upload(ctx context.Context, paths []string) error {
	for _, wheelPath := range paths {
		f, err := os.Open(wheelPath)
		if err != nil {
			return err
		}

		key := path.Join(u.Prefix, filepath.Base(wheelPath))
		_, err = u.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(u.Bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		f.Close()
		if err != nil {
			return fmt.Errorf("Failed to upload %s: %w", filepath.Base(wheelPath), err)
		}
		console.Infof("Uploaded s3://%s/%s", u.Bucket, key)
	}
	return nil
}
