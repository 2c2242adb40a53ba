package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	minio "github.com/minio/minio-go/v7"

	"github.com/yeisme/resultvault/pkg/configs"
	s3c "github.com/yeisme/resultvault/pkg/internal/storage/s3"
)

const s3URIScheme = "s3://"

// S3Store 对象存储后端：对象键为 [prefix/]user/result/name，
// 定位符为 s3://bucket/key.
type S3Store struct {
	cli    *s3c.Client
	bucket string
	prefix string
}

// NewS3Store 创建对象存储后端；桶名缺失是致命的构造错误.
func NewS3Store(cli *s3c.Client, bucket, prefix string) (*S3Store, error) {
	if cli == nil {
		return nil, fmt.Errorf("s3 client is required")
	}

	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	return &S3Store{
		cli:    cli,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Put 上传制品对象并返回 s3://bucket/key 定位符.
func (s *S3Store) Put(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	objectKey := s.objectKey(key)

	_, err := s.cli.PutObject(ctx, s.bucket, objectKey,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}

	return s3URIScheme + s.bucket + "/" + objectKey, nil
}

// Get 按定位符读回完整对象字节.
func (s *S3Store) Get(ctx context.Context, uri string) ([]byte, error) {
	bucket, objectKey, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	obj, err := s.cli.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", objectKey, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", objectKey, err)
	}

	return raw, nil
}

// Delete 删除定位符指向的对象；对象已不存在时 MinIO 同样返回成功.
func (s *S3Store) Delete(ctx context.Context, uri string) error {
	bucket, objectKey, err := parseS3URI(uri)
	if err != nil {
		return err
	}

	if err := s.cli.RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", objectKey, err)
	}

	return nil
}

// objectKey 拼接可选全局前缀与相对 key.
func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}

	return s.prefix + "/" + key
}

// parseS3URI 解析 s3://bucket/key 定位符.
func parseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3URIScheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}

	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed s3 uri: %s", uri)
	}

	return bucket, key, nil
}

// 注册对象存储后端工厂函数.
func init() {
	RegisterFactory(configs.BackendS3, func(_ context.Context, cfg *configs.AppConfig, deps Deps) (Store, error) {
		return NewS3Store(deps.S3, cfg.S3.BucketName, cfg.Storage.Prefix)
	})
}
