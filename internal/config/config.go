package config

import (
	"errors"
	"io/fs"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// 用于管理应用配置

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

// EnvPrefix 环境变量前缀，例如 server.port 对应 PHOTO_TIMELINE_SERVER_PORT
const EnvPrefix = "PHOTO_TIMELINE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Image     ImageConfig     `mapstructure:"image"`
	Timeline  TimelineConfig  `mapstructure:"timeline"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port                   string `mapstructure:"port"`
	Mode                   string `mapstructure:"mode"`
	BaseURL                string `mapstructure:"base_url"` // 为空时根据 X-Forwarded-Host / Host 推导
	PublicDir              string `mapstructure:"public_dir"`
	MaxUploadMB            int    `mapstructure:"max_upload_mb"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

type DatabaseConfig struct {
	Type         string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename     string `mapstructure:"filename"` // for sqlite
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"` // database name
	SSL          bool   `mapstructure:"ssl"`  // enable TLS/SSL
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type StorageConfig struct {
	Driver  string   `mapstructure:"driver"` // local, s3
	DataDir string   `mapstructure:"data_dir"`
	S3      S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Prefix   string `mapstructure:"prefix"`
	Profile  string `mapstructure:"profile"`
}

type ImageConfig struct {
	Engine        string `mapstructure:"engine"` // magick, native
	TmpDir        string `mapstructure:"tmp_dir"`
	ConvertBin    string `mapstructure:"convert_bin"`
	IdentifyBin   string `mapstructure:"identify_bin"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

type TimelineConfig struct {
	TimeoutSeconds  int `mapstructure:"timeout_seconds"`
	IntervalSeconds int `mapstructure:"interval_seconds"`
	Limit           int `mapstructure:"limit"`
	MaxPollers      int `mapstructure:"max_pollers"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	MediaRPS   float64 `mapstructure:"media_rps"`
	MediaBurst int     `mapstructure:"media_burst"`
	// SignupIntervalSeconds 同一 IP 两次注册的最小间隔
	SignupIntervalSeconds int `mapstructure:"signup_interval_seconds"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

func GetConfigDir() string {
	return configDir
}

// Set 直接替换当前配置，主要用于测试。
func Set(cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig.Store(&cfg)
}

func InitConfig(customConfigDir string) {
	v := initViper(customConfigDir)
	loadAndStore(v)
	logrus.Info("✅ 配置加载成功")
}

func initViper(customConfigDir string) *viper.Viper {
	// .env 中的变量只在未设置时生效
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Debugf("未加载 .env: %v", err)
	}

	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	// 设置配置文件路径
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			logrus.Warn("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			logrus.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 规则：所有环境变量必须以 PHOTO_TIMELINE_ 开头
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// server.port 才能匹配 SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.public_dir", "public")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.shutdown_timeout_seconds", 5)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/photo_timeline.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "photo_timeline")
	v.SetDefault("database.ssl", false)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.prefix", "photo-timeline")
	v.SetDefault("storage.s3.profile", "")

	v.SetDefault("image.engine", "magick")
	v.SetDefault("image.tmp_dir", "")
	v.SetDefault("image.convert_bin", "convert")
	v.SetDefault("image.identify_bin", "identify")
	v.SetDefault("image.max_concurrent", 2*runtime.NumCPU())

	v.SetDefault("timeline.timeout_seconds", 30)
	v.SetDefault("timeline.interval_seconds", 2)
	v.SetDefault("timeline.limit", 30)
	v.SetDefault("timeline.max_pollers", 256)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "photo_timeline")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.media_rps", 20.0)
	v.SetDefault("rate_limit.media_burst", 40)
	v.SetDefault("rate_limit.signup_interval_seconds", 2)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allow_origins", []string{})

	v.SetDefault("log.level", "info")
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	// 加写锁，防止并发重载时的竞争
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	if err := v.Unmarshal(&tempConfig); err != nil {
		logrus.Errorf("❌ 配置解析失败: %v", err)
		return
	}

	normalize(&tempConfig)

	appConfig.Store(&tempConfig)
	logrus.Debug("✅ 配置已更新")
}

// normalize 修正明显无效的数值，避免 0 超时导致轮询立即返回等问题。
func normalize(cfg *Config) {
	if cfg.Timeline.TimeoutSeconds <= 0 {
		cfg.Timeline.TimeoutSeconds = 30
	}
	if cfg.Timeline.IntervalSeconds <= 0 {
		cfg.Timeline.IntervalSeconds = 2
	}
	if cfg.Timeline.Limit <= 0 {
		cfg.Timeline.Limit = 30
	}
	if cfg.Timeline.MaxPollers <= 0 {
		cfg.Timeline.MaxPollers = 256
	}
	if cfg.Image.MaxConcurrent <= 0 {
		cfg.Image.MaxConcurrent = 2 * runtime.NumCPU()
	}
	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = 10
	}
	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Server.BaseURL), "/")
}
