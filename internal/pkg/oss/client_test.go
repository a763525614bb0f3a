package oss

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/demostar_server/config"
)

func newTestClient(t *testing.T, private bool, cdn string) *Client {
	t.Helper()

	c, err := NewClient(&config.OSSConfig{
		Endpoint:        "oss-cn-hangzhou.aliyuncs.com",
		AccessKeyID:     "test-key",
		AccessKeySecret: "test-secret",
		BucketName:      "demostar",
		CDNDomain:       cdn,
		Private:         private,
		SignExpireSecs:  600,
	})
	require.NoError(t, err)
	return c
}

func TestGetURL(t *testing.T) {
	c := newTestClient(t, false, "")
	assert.Equal(t, "https://demostar.oss-cn-hangzhou.aliyuncs.com/actors/1/a.jpg", c.GetURL("actors/1/a.jpg"))

	cdn := newTestClient(t, false, "cdn.demostar.test")
	assert.Equal(t, "https://cdn.demostar.test/actors/1/a.jpg", cdn.GetURL("actors/1/a.jpg"))
}

func TestExtractObjectKey(t *testing.T) {
	c := newTestClient(t, false, "cdn.demostar.test")

	assert.Equal(t, "actors/1/a.jpg", c.ExtractObjectKey("https://cdn.demostar.test/actors/1/a.jpg"))
	assert.Equal(t, "videos/2.mp4", c.ExtractObjectKey("https://demostar.oss-cn-hangzhou.aliyuncs.com/videos/2.mp4?Expires=1"))
	assert.Equal(t, "", c.ExtractObjectKey("https://youtube.com/watch/abc"))
}

func TestResolve_Public(t *testing.T) {
	c := newTestClient(t, false, "cdn.demostar.test")

	assert.Equal(t, "", c.Resolve(""))
	assert.Equal(t, "https://cdn.demostar.test/actors/1/a.jpg", c.Resolve("actors/1/a.jpg"))
	assert.Equal(t, "https://example.com/x.jpg", c.Resolve("https://example.com/x.jpg"))
	assert.Equal(t, "https://cdn.demostar.test/a.jpg", c.Resolve("https://cdn.demostar.test/a.jpg"))
}

func TestResolve_PrivateSigns(t *testing.T) {
	c := newTestClient(t, true, "")

	signed := c.Resolve("actors/1/a.jpg")
	assert.Contains(t, signed, "actors/1/a.jpg")
	assert.Contains(t, signed, "Signature=")
	assert.Contains(t, signed, "Expires=")

	resigned := c.Resolve("https://demostar.oss-cn-hangzhou.aliyuncs.com/actors/1/a.jpg")
	assert.Contains(t, resigned, "Signature=")

	external := "https://example.com/x.jpg"
	assert.Equal(t, external, c.Resolve(external))
	assert.False(t, strings.Contains(c.Resolve(external), "Signature="))
}
