package oss

import (
	"fmt"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"github.com/qs3c/demostar_server/config"
	"github.com/qs3c/demostar_server/internal/pkg/log"
)

const defaultSignExpire = int64(3600)

// Client 作品集图片和 DemoStar 视频所在的 OSS 桶。
// 库中既可能保存完整 URL，也可能只保存 object key，Resolve 统一转换为可访问地址。
type Client struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	cdnDomain  string
	private    bool
	signExpire int64
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	signExpire := cfg.SignExpireSecs
	if signExpire <= 0 {
		signExpire = defaultSignExpire
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
		private:    cfg.Private,
		signExpire: signExpire,
	}, nil
}

// Resolve 返回客户端可直接访问的 URL。
// 公共读桶返回 CDN/桶域名地址；私有桶返回带签名的临时地址，签名失败时退回未签名地址。
// 其他站点的完整 URL 原样返回。
func (c *Client) Resolve(raw string) string {
	if raw == "" {
		return ""
	}

	objectKey := raw
	if isAbsoluteURL(raw) {
		objectKey = c.ExtractObjectKey(raw)
		if objectKey == "" || !c.private {
			return raw
		}
	}

	if !c.private {
		return c.GetURL(objectKey)
	}

	signed, err := c.GetSignedURL(objectKey, c.signExpire)
	if err != nil {
		log.L.Warn("failed to sign media url", zap.String("object_key", objectKey), zap.Error(err))
		return c.GetURL(objectKey)
	}
	return signed
}

// GetURL 获取文件访问 URL
func (c *Client) GetURL(objectKey string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, objectKey)
	}
	return fmt.Sprintf("https://%s/%s", c.bucketHost(), objectKey)
}

// GetSignedURL 生成带签名的临时访问URL（默认1小时有效）
func (c *Client) GetSignedURL(objectKey string, expireSeconds ...int64) (string, error) {
	expire := defaultSignExpire
	if len(expireSeconds) > 0 && expireSeconds[0] > 0 {
		expire = expireSeconds[0]
	}

	signedURL, err := c.bucket.SignURL(objectKey, oss.HTTPGet, expire)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return signedURL, nil
}

// ExtractObjectKey 从本桶（CDN 或桶域名）的 URL 中提取 object key，不属于本桶时返回空串
func (c *Client) ExtractObjectKey(url string) string {
	url = strings.SplitN(url, "?", 2)[0]

	hosts := []string{c.bucketHost()}
	if c.cdnDomain != "" {
		hosts = append(hosts, c.cdnDomain)
	}

	for _, host := range hosts {
		for _, scheme := range []string{"https://", "http://"} {
			prefix := scheme + host + "/"
			if strings.HasPrefix(url, prefix) {
				return url[len(prefix):]
			}
		}
	}
	return ""
}

func (c *Client) bucketHost() string {
	endpoint := c.client.Config.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return c.bucketName + "." + strings.TrimSuffix(endpoint, "/")
}

func isAbsoluteURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}
