package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	OSS       OSSConfig       `mapstructure:"oss"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Listing   ListingConfig   `mapstructure:"listing"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Warmer    WarmerConfig    `mapstructure:"warmer"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	CDNDomain       string `mapstructure:"cdn_domain"`
	Private         bool   `mapstructure:"private"`            // 私有桶，返回签名 URL
	SignExpireSecs  int64  `mapstructure:"sign_expire_seconds"` // 签名有效期
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

type CacheConfig struct {
	PortfolioTTLSeconds int `mapstructure:"portfolio_ttl_seconds"`
}

// PortfolioTTL 作品集列表缓存有效期，未配置时为 10 分钟
func (c CacheConfig) PortfolioTTL() time.Duration {
	if c.PortfolioTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.PortfolioTTLSeconds) * time.Second
}

type ListingConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type RecommendConfig struct {
	Limit            int     `mapstructure:"limit"`
	CategoryWeight   float64 `mapstructure:"category_weight"`
	TitleWeight      float64 `mapstructure:"title_weight"`
	PopularityWeight float64 `mapstructure:"popularity_weight"`
}

type WarmerConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds"`
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("cache.portfolio_ttl_seconds", 600)
	v.SetDefault("listing.default_page_size", 50)
	v.SetDefault("listing.max_page_size", 100)
	v.SetDefault("recommend.limit", 10)
	v.SetDefault("recommend.category_weight", 1.0)
	v.SetDefault("recommend.title_weight", 1.0)
	v.SetDefault("recommend.popularity_weight", 2.0)
	v.SetDefault("warmer.interval_seconds", 300)
	v.SetDefault("oss.sign_expire_seconds", 3600)
}
