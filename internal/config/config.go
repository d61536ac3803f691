package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	AI      AIConfig      `mapstructure:"ai"`
	RAG     RagConfig     `mapstructure:"rag"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Mode         string `mapstructure:"mode"` // debug, release, test
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr
}

// AuthConfig JWT 验证配置
// 服务只验证外部签发的令牌，不负责签发
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Audience  string `mapstructure:"audience"` // 默认 authenticated
}

// StorageConfig 对象存储配置（S3 兼容）
// 文档按 {tenant_id}/{folder}/{file} 的层级存放在一个桶中
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// AIConfig 模型服务配置（OpenAI 兼容端点）
type AIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	ChatModel      string `mapstructure:"chat_model"`
	MaxRetries     int    `mapstructure:"max_retries"`     // 生成调用的有界重试次数，默认 2
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 单次模型调用超时
}

// RagConfig 检索增强相关配置
type RagConfig struct {
	ChunkSize    int    `mapstructure:"chunk_size"`    // 分块大小（字符数），默认 1500
	ChunkOverlap int    `mapstructure:"chunk_overlap"` // 相邻分块重叠（字符数），默认 300
	TopK         int    `mapstructure:"top_k"`         // 返回的分块数量，默认 10
	FetchK       int    `mapstructure:"fetch_k"`       // 第一阶段候选数量，默认 20
	IndexDir     string `mapstructure:"index_dir"`     // 索引落盘目录，默认 ./data/indexes
}

var globalConfig *Config

// Load 加载配置
// env: 环境名称（dev, prod, test）
// configPath: 配置文件路径（可选）
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		v.SetConfigName(env) // dev.yaml, prod.yaml
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
		v.AddConfigPath("../../config")
	} else {
		v.SetConfigFile(configPath)
	}

	v.SetConfigType("yaml")

	// 读取环境变量（优先级高于配置文件）
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 支持嵌套配置：APP_STORAGE_ENDPOINT

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(v, &cfg)

	globalConfig = &cfg
	return &cfg, nil
}

// applyDefaults 为未配置的字段填充默认值
// max_retries 与 chunk_overlap 的 0 是合法配置（不重试/无重叠），
// 用 IsSet 区分"未配置"和"配置为零"。
func applyDefaults(v *viper.Viper, cfg *Config) {
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "authenticated"
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4o-mini"
	}
	if !v.IsSet("ai.max_retries") {
		cfg.AI.MaxRetries = 2
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1500
	}
	if !v.IsSet("rag.chunk_overlap") {
		cfg.RAG.ChunkOverlap = 300
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 10
	}
	if cfg.RAG.FetchK == 0 {
		cfg.RAG.FetchK = 20
	}
	if cfg.RAG.IndexDir == "" {
		cfg.RAG.IndexDir = "./data/indexes"
	}
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("配置未初始化，请先调用 Load()")
	}
	return globalConfig
}
