package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/loan-mgt/hf-lora-loader/internal/folders"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// GlobalConfig 描述全局运行时行为：HTTP 端口、日志与 Hub 下载参数。
type GlobalConfig struct {
	ListenPort      int      `mapstructure:"ListenPort"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	Endpoint        string   `mapstructure:"Endpoint"`
	Token           string   `mapstructure:"Token"`
	DownloadTimeout Duration `mapstructure:"DownloadTimeout"`
	ResumeDownload  bool     `mapstructure:"ResumeDownload"`
}

// FolderConfig 对应宿主的一条目录类别声明，Paths 顺序即优先级。
type FolderConfig struct {
	Category string   `mapstructure:"Category"`
	Paths    []string `mapstructure:"Paths"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global  GlobalConfig   `mapstructure:",squash"`
	Folders []FolderConfig `mapstructure:"Folder"`
}

// FolderRegistry 将配置中的目录声明装载为宿主协作方使用的注册表。
func (c *Config) FolderRegistry() *folders.Registry {
	reg := folders.New()
	for _, folder := range c.Folders {
		reg.Set(folder.Category, folder.Paths)
	}
	return reg
}

// LoraRoots 返回配置的 loras 目录列表，未配置时为 nil。
func (c *Config) LoraRoots() []string {
	return c.FolderRegistry().Paths(folders.CategoryLoras)
}
