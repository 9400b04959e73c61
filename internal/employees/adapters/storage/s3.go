package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	ports "employeehub/internal/employees/ports/storage"
	"employeehub/pkg/logger"
)

// Константы для логирования и ошибок.
const (
	LogBucketExists  = "bucket already exists"
	LogBucketCreated = "bucket created"
	LogObjectStored  = "image uploaded to bucket"
	LogObjectRemoved = "image removed from bucket"

	ErrLoadAWSConfig = "failed to load AWS config"
	ErrCreateBucket  = "failed to create bucket"
	ErrUploadObject  = "failed to upload image"
	ErrDeleteObject  = "failed to delete image"
)

const defaultRegion = "us-east-1"

// S3Options описывает подключение к S3-совместимому хранилищу (AWS S3, MinIO).
type S3Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
}

type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type bucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage хранит изображения объектами в бакете.
type S3Storage struct {
	client   bucketAPI
	uploader objectUploader
	bucket   string
	baseURL  string
}

// NewS3Storage подключается к хранилищу и создает бакет, если его еще нет.
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	if opts.Region == "" {
		opts.Region = defaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadAWSConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	storage := newS3Storage(client, manager.NewUploader(client), opts)
	if err := storage.ensureBucket(ctx, opts.Region); err != nil {
		return nil, err
	}
	return storage, nil
}

func newS3Storage(client bucketAPI, uploader objectUploader, opts S3Options) *S3Storage {
	return &S3Storage{
		client:   client,
		uploader: uploader,
		bucket:   opts.Bucket,
		baseURL:  publicBaseURL(opts),
	}
}

func publicBaseURL(opts S3Options) string {
	switch {
	case opts.PublicBaseURL != "":
		return strings.TrimSuffix(opts.PublicBaseURL, "/")
	case opts.Endpoint != "":
		return strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket
	default:
		region := opts.Region
		if region == "" {
			region = defaultRegion
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, region)
	}
}

func (s *S3Storage) ensureBucket(ctx context.Context, region string) error {
	log := logger.Log(ctx).With(zap.String("bucket", s.bucket))

	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		log.Info(ctx, LogBucketExists)
		return nil
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("%s %q: %w", ErrCreateBucket, s.bucket, err)
	}

	log.Info(ctx, LogBucketCreated)
	return nil
}

// Save загружает изображение под новым именем и возвращает его публичный URL.
func (s *S3Storage) Save(ctx context.Context, image *ports.Image) (string, error) {
	key, err := objectName(image.ContentType)
	if err != nil {
		return "", err
	}

	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        image.Content,
		ContentType: aws.String(ports.NormalizeContentType(image.ContentType)),
	}); err != nil {
		return "", fmt.Errorf("%s %s: %w", ErrUploadObject, key, err)
	}

	ref := s.baseURL + "/" + key
	logger.Log(ctx).Debug(ctx, LogObjectStored, zap.String("key", key), zap.String("ref", ref))
	return ref, nil
}

// Delete удаляет объект, на который указывает ссылка.
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.baseURL+"/") {
		return fmt.Errorf("%s: %q", ErrForeignImage, ref)
	}

	key := path.Base(ref)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("%s %s: %w", ErrDeleteObject, key, err)
	}

	logger.Log(ctx).Debug(ctx, LogObjectRemoved, zap.String("key", key))
	return nil
}
