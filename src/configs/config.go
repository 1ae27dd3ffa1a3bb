package configs

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 主配置结构
type Config struct {
	Server struct {
		IP   string `yaml:"ip"`
		Port int    `yaml:"port"`
		Auth struct {
			Enabled bool   `yaml:"enabled"`
			Secret  string `yaml:"secret"`
		} `yaml:"auth"`
	} `yaml:"server"`

	Log struct {
		LogLevel string `yaml:"log_level"`
		LogDir   string `yaml:"log_dir"`
		LogFile  string `yaml:"log_file"`
	} `yaml:"log"`

	Compression CompressionConfig `yaml:"compression"`
}

// CompressionConfig 图片压缩配置
//
// 所有限制值必须为正数，threshold 至少为 1，LoadConfig 会补齐默认值
type CompressionConfig struct {
	ImageMaxLongEdge     int `yaml:"image_max_long_edge"`     // 长边最大值（像素）
	ImageMaxPixelsSingle int `yaml:"image_max_pixels_single"` // 单图模式总像素上限
	ImageMaxPixelsMulti  int `yaml:"image_max_pixels_multi"`  // 多图模式总像素上限
	ImageMultiThreshold  int `yaml:"image_multi_threshold"`   // 启用多图模式的图片数量阈值
}

// applyDefaults 为缺失的配置项补齐默认值
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.LogDir == "" {
		c.Log.LogDir = "logs"
	}
	if c.Log.LogFile == "" {
		c.Log.LogFile = "server.log"
	}
	if c.Compression.ImageMaxLongEdge <= 0 {
		c.Compression.ImageMaxLongEdge = 1568
	}
	if c.Compression.ImageMaxPixelsSingle <= 0 {
		c.Compression.ImageMaxPixelsSingle = 1_150_000
	}
	if c.Compression.ImageMaxPixelsMulti <= 0 {
		c.Compression.ImageMaxPixelsMulti = 400_000
	}
	if c.Compression.ImageMultiThreshold < 1 {
		c.Compression.ImageMultiThreshold = 5
	}
}

// LoadConfig 从文件加载配置，优先读取 .config.yaml
func LoadConfig() (*Config, string, error) {
	path := ".config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "config.yaml"
	}

	config := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, path, err
		}
		// 配置文件不存在时使用默认配置
		config.applyDefaults()
		return config, "", nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, path, err
	}

	config.applyDefaults()
	return config, path, nil
}
