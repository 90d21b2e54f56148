// Package assets manages the product image files served under /images.
// Images live in a local directory; when S3 is enabled, missing files are
// mirrored down from the bucket at startup.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	appconfig "webshop/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Mirror copies product images from an S3 bucket into a local directory so
// they can be served as static files.
type Mirror struct {
	client *s3.Client
	bucket string
	prefix string
	dir    string
	logger zerolog.Logger
}

// NewMirror creates an S3-backed image mirror.
func NewMirror(ctx context.Context, cfg appconfig.AssetsConfig, logger zerolog.Logger) (*Mirror, error) {
	logger = logger.With().Str("component", "image-mirror").Logger()

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.S3Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", cfg.S3Bucket).
		Str("region", cfg.S3Region).
		Str("prefix", cfg.S3Prefix).
		Msg("image mirror initialised")

	return &Mirror{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		prefix: cfg.S3Prefix,
		dir:    cfg.ImageDir,
		logger: logger,
	}, nil
}

// Sync downloads every object under the configured prefix that is not yet
// present locally. Already-downloaded files are left untouched, so repeated
// startups are cheap.
func (m *Mirror) Sync(ctx context.Context) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(m.prefix),
	})

	downloaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects (bucket=%s, prefix=%s): %w", m.bucket, m.prefix, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			name := filepath.Base(strings.TrimPrefix(key, m.prefix))
			if name == "" || name == "." {
				continue
			}

			target := filepath.Join(m.dir, name)
			if _, err := os.Stat(target); err == nil {
				continue
			}

			if err := m.download(ctx, key, target); err != nil {
				m.logger.Error().Err(err).Str("key", key).Msg("failed to download image")
				continue
			}
			downloaded++
		}
	}

	m.logger.Info().
		Int("downloaded", downloaded).
		Str("dir", m.dir).
		Msg("image mirror sync completed")

	return nil
}

func (m *Mirror) download(ctx context.Context, key, target string) error {
	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer result.Body.Close()

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, result.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	return nil
}
