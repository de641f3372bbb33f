package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"resort/config"
	"resort/infras/otel"
	"resort/shared/constant"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3 stores generated documents, such as booking reports, in an S3 compatible bucket.
type S3 interface {
	// UploadFileBytes stores fileData under directory/fileName and returns its public URL.
	// An empty bucketName uses the configured bucket.
	UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error)
}

type bucketStore struct {
	client       *s3.Client
	bucket       string
	publicDomain string
	otel         otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	settings := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, "")),
		awsConfig.WithRegion(settings.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load object storage configuration, uploads will fail")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(settings.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &bucketStore{
		client:       client,
		bucket:       settings.BucketName,
		publicDomain: settings.PublicDomain,
		otel:         otel,
	}
}

func (b *bucketStore) UploadFileBytes(ctx context.Context, bucketName, directory, fileName, contentType string, fileData []byte) (url string, err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFileBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if bucketName == "" {
		bucketName = b.bucket
	}

	key := objectKey(directory, fileName)

	scope.SetAttributes(map[string]any{
		"s3.bucket": bucketName,
		"s3.key":    key,
		"s3.size":   len(fileData),
	})

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(bucketName),
		Key:                aws.String(key),
		Body:               bytes.NewReader(fileData),
		ContentType:        aws.String(contentType),
		ContentLength:      aws.Int64(int64(len(fileData))),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", path.Base(key))),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", bucketName).Str("key", key).Msg("failed to upload object")

		return constant.Empty, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Info().Str("bucket", bucketName).Str("key", key).Int("bytes", len(fileData)).Msg("object uploaded")

	return publicURL(b.publicDomain, key), nil
}

// objectKey joins directory and fileName into a clean key without a leading slash.
func objectKey(directory, fileName string) string {
	return strings.TrimPrefix(path.Join("/", directory, path.Base(fileName)), "/")
}

func publicURL(domain, key string) string {
	return strings.TrimSuffix(domain, "/") + "/" + key
}
