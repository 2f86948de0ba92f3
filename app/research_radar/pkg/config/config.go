package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultTopic 未配置话题时使用的研究主题
const DefaultTopic = "AI in education"

// Config 项目配置结构体
type Config struct {
	Topic       string            `yaml:"topic"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Output      OutputConfig      `yaml:"output"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	Server      ServerConfig      `yaml:"server"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	// APIKey 一般留空，由 APIKeyEnv 指向的环境变量注入
	APIKey      string  `yaml:"api_key"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Timeout     int     `yaml:"timeout"` // 秒
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider     string           `yaml:"provider"`
	MaxResults   int              `yaml:"max_results"`
	FetchContent bool             `yaml:"fetch_content"`
	Tavily       TavilyConfig     `yaml:"tavily"`
	SearXNG      SearXNGConfig    `yaml:"searxng"`
	DuckDuckGo   DuckDuckGoConfig `yaml:"duckduckgo"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// DuckDuckGoConfig DuckDuckGo Instant Answer 配置
type DuckDuckGoConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// OutputConfig 结果落盘配置
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// TopicInName 文件名中附带话题 slug
	TopicInName bool `yaml:"topic_in_name"`
	// Timestamped 文件名中附带时间戳，关闭后同一框架的结果会相互覆盖
	Timestamped bool `yaml:"timestamped"`
	Notebook    bool `yaml:"notebook"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空时不启用归档
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ServerConfig 记录浏览服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		Topic: DefaultTopic,
		LLM: LLMConfig{
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			Timeout:     60,
		},
		Search: SearchConfig{
			Provider:   "duckduckgo",
			MaxResults: 3,
			DuckDuckGo: DuckDuckGoConfig{
				BaseURL: "https://api.duckduckgo.com",
				Timeout: 10,
			},
		},
		Output: OutputConfig{
			Dir:         "output",
			Timestamped: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Concurrency: ConcurrencyConfig{
			QPS: 1,
			RPM: 60,
		},
		Server: ServerConfig{
			Addr:    ":8000",
			Timeout: "120s",
		},
	}
}

// LoadConfig 从指定路径加载配置，文件不存在时使用默认配置
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	// .env 不存在不算错误
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.fillDefaults()

	return cfg, nil
}

// applyEnv 用环境变量覆盖凭据
func (c *Config) applyEnv() {
	if c.LLM.APIKeyEnv != "" {
		if v := strings.TrimSpace(os.Getenv(c.LLM.APIKeyEnv)); v != "" {
			c.LLM.APIKey = v
		}
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" && c.Search.Tavily.APIKey == "" {
		c.Search.Tavily.APIKey = v
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Topic == "" {
		c.Topic = d.Topic
	}
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = d.Search.MaxResults
	}
	if c.Output.Dir == "" {
		c.Output.Dir = d.Output.Dir
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = d.Concurrency.QPS
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = d.Concurrency.RPM
	}
}

// Live 是否具备在线调用所需的凭据
func (c *Config) Live() bool {
	return c.LLM.APIKey != ""
}
