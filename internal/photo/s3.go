package photo

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/RNikdata/RAB/config"
)

// S3Source 从 S3 桶读取照片
type S3Source struct {
	client      *s3.Client
	bucket      string
	keyTemplate string
}

// NewS3Source 创建 S3Source；未配置静态密钥时使用默认凭证链
func NewS3Source(ctx context.Context, cfg *config.S3Config) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
	}

	keyTemplate := cfg.KeyTemplate
	if keyTemplate == "" {
		keyTemplate = "photos/{id}.jpg"
	}
	return &S3Source{
		client:      s3.NewFromConfig(sdkConfig),
		bucket:      cfg.Bucket,
		keyTemplate: keyTemplate,
	}, nil
}

func (s *S3Source) Name() string { return "s3" }

func (s *S3Source) Fetch(ctx context.Context, employeeID string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(expand(s.keyTemplate, employeeID)),
	})
	if err != nil {
		return nil, fmt.Errorf("读取 S3 照片失败: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(io.LimitReader(out.Body, maxPhotoBytes))
}
