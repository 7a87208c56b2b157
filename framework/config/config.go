package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fixkme/appstorm/util/errs"
	"gopkg.in/yaml.v3"
)

var Config *AppConfig

type AppConfig struct {
	AppName        string `json:"app_name" yaml:"app_name" mapstructure:"app_name"`
	TimezoneOffset int    `json:"timezone_offset" yaml:"timezone_offset" mapstructure:"timezone_offset"` //时区偏移 秒
	LogConfig      `json:",inline" yaml:",inline" mapstructure:",inline"`
	TimerConfig    `json:",inline" yaml:",inline" mapstructure:",inline"`
	ConsoleConfig  `json:",inline" yaml:",inline" mapstructure:",inline"`
	MessageConfig  `json:",inline" yaml:",inline" mapstructure:",inline"`
}

type LogConfig struct {
	LogPath   string `json:"log_path" yaml:"log_path" mapstructure:"log_path"`
	LogName   string `json:"log_name" yaml:"log_name" mapstructure:"log_name"`
	LogLevel  string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LogStdOut bool   `json:"log_std_out" yaml:"log_std_out" mapstructure:"log_std_out"`
}

type TimerConfig struct {
	TimerName       string `json:"timer_name" yaml:"timer_name" mapstructure:"timer_name"`
	TimerIntervalMs int64  `json:"timer_interval_ms" yaml:"timer_interval_ms" mapstructure:"timer_interval_ms"` //驱动tick间隔 毫秒
}

type ConsoleConfig struct {
	ConsoleLevel      string         `json:"console_level" yaml:"console_level" mapstructure:"console_level"`
	ConsoleVerbose    int            `json:"console_verbose" yaml:"console_verbose" mapstructure:"console_verbose"`
	ConsoleNamespaces map[string]int `json:"console_namespaces" yaml:"console_namespaces" mapstructure:"console_namespaces"` //命名空间verbose
	ConsoleTraceLimit int            `json:"console_trace_limit" yaml:"console_trace_limit" mapstructure:"console_trace_limit"`
}

type MessageConfig struct {
	MessagePoolSize int `json:"message_pool_size" yaml:"message_pool_size" mapstructure:"message_pool_size"` //0表示同步投递
}

// Default 不加载任何文件时的配置
func Default() *AppConfig {
	return &AppConfig{
		AppName: "appstorm",
		LogConfig: LogConfig{
			LogLevel:  "info",
			LogStdOut: true,
		},
		TimerConfig: TimerConfig{
			TimerIntervalMs: 50,
		},
		ConsoleConfig: ConsoleConfig{
			ConsoleTraceLimit: 2000,
		},
	}
}

// LoadConfig 先读文件再执行env钩子, configFile为空时只执行钩子
func LoadConfig(configFile string, loadConfigFromEnv func(*AppConfig) error) error {
	conf := Default()
	if len(configFile) > 0 {
		if err := loadConfigFromFile(configFile, conf); err != nil {
			return err
		}
	}
	if loadConfigFromEnv != nil {
		if err := loadConfigFromEnv(conf); err != nil {
			return err
		}
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	Config = conf
	return nil
}

func loadConfigFromFile(configFile string, conf *AppConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, conf)
	default:
		err = json.Unmarshal(data, conf)
	}
	if err != nil {
		return errs.InvalidConfig.Printf("file=%s", configFile).Wrap(err)
	}
	return nil
}

func (conf *AppConfig) Validate() error {
	if conf.TimerIntervalMs <= 0 {
		return errs.InvalidConfig.Printf("timer_interval_ms=%d", conf.TimerIntervalMs)
	}
	if conf.ConsoleTraceLimit < 0 {
		return errs.InvalidConfig.Printf("console_trace_limit=%d", conf.ConsoleTraceLimit)
	}
	if conf.MessagePoolSize < 0 {
		return errs.InvalidConfig.Printf("message_pool_size=%d", conf.MessagePoolSize)
	}
	return nil
}

func (conf *AppConfig) JsonFormat() string {
	if conf == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
