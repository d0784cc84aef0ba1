package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"photo-timeline-server/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API S3 store 用到的客户端方法，便于测试替换。
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Uploader 上传接口，由 manager.Uploader 实现。
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3 将资源保存在 <prefix>/<kind>/<id>.<ext>，读取时下载到请求级临时文件。
type S3 struct {
	client   S3API
	uploader Uploader
	bucket   string
	prefix   string
	tmpDir   string
}

func NewS3(client S3API, uploader Uploader, bucket, prefix, tmpDir string) *S3 {
	return &S3{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		tmpDir:   tmpDir,
	}
}

// NewS3FromConfig 使用默认凭证链创建 S3 store，配置了 endpoint 时使用 path-style 以兼容 MinIO 等实现。
func NewS3FromConfig(ctx context.Context, cfg config.S3Config, tmpDir string) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3(client, manager.NewUploader(client), cfg.Bucket, cfg.Prefix, tmpDir), nil
}

func (s *S3) key(kind Kind, id string) string {
	if s.prefix == "" {
		return objectName(kind, id)
	}
	return path.Join(s.prefix, objectName(kind, id))
}

func (s *S3) Fetch(ctx context.Context, kind Kind, id string) (string, func(), error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(kind, id)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	f, err := os.CreateTemp(s.tmpDir, "asset-*."+kind.Ext())
	if err != nil {
		return "", nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	name := f.Name()
	release := func() { _ = os.Remove(name) }

	if _, err := io.Copy(f, out.Body); err != nil {
		_ = f.Close()
		release()
		return "", nil, fmt.Errorf("下载对象失败: %w", err)
	}
	if err := f.Close(); err != nil {
		release()
		return "", nil, fmt.Errorf("下载对象失败: %w", err)
	}
	return name, release, nil
}

func (s *S3) Put(ctx context.Context, kind Kind, id string, r io.Reader) error {
	contentType := "image/jpeg"
	if kind == KindIcon {
		contentType = "image/png"
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(kind, id)),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	return nil
}

func (s *S3) Delete(ctx context.Context, kind Kind, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(kind, id)),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}
