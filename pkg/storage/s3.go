package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"hediye.link/configs/configslog"

	"go.uber.org/zap"
)

// Uploader dosya depolamayı soyutlar; testlerde sahte implementasyon kullanılır.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (url string, key string, err error)
	Delete(ctx context.Context, key string) error
}

// S3Uploader Uploader arayüzünün aws-sdk-go-v2 implementasyonudur.
// Dosyanın kendisi S3'te tutulur; veritabanına yalnızca URL/anahtar yazılır.
type S3Uploader struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Uploader varsayılan AWS kimlik zinciriyle bir S3 istemcisi kurar.
func NewS3Uploader(ctx context.Context, bucket, region string) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("AWS konfigürasyonu yüklenemedi: %w", err)
	}
	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Upload dosyayı uuid+slug anahtarıyla yükler ve public URL'ini döndürür.
func (u *S3Uploader) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, string, error) {
	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(filename, path.Ext(filename))
	key := fmt.Sprintf("%s/%s-%s%s", folder, uuid.NewString(), slug.Make(base), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		configslog.Log.Error("S3 yükleme başarısız", zap.String("key", key), zap.Error(err))
		return "", "", err
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
	return url, key, nil
}

// Delete nesneyi S3'ten kaldırır.
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &u.bucket,
		Key:    &key,
	})
	if err != nil {
		configslog.Log.Error("S3 silme başarısız", zap.String("key", key), zap.Error(err))
	}
	return err
}

var _ Uploader = (*S3Uploader)(nil)
