package xlog

import "errors"

// ErrEmptyAppName 设置了 log_path 却没有 app_name，文件 sink 无法命名
var ErrEmptyAppName = errors.New("xlog: app_name is required when log_path is set")

// Config 日志初始化配置
//
// 传入 [Init] 后即固定，再次调整只能重新 Init（整代替换）。
type Config struct {
	// LogPath 日志文件存放目录，为空时仅输出到控制台
	LogPath string `koanf:"log_path" json:"log_path" yaml:"log_path"`

	// AppName 应用名称，用作日志文件名前缀
	AppName string `koanf:"app_name" json:"app_name" yaml:"app_name"`

	// Debug 是否开启 Debug 模式
	// 开启后最低级别降为 debug；多文件模式下额外生成 debug 级别文件
	Debug bool `koanf:"debug" json:"debug" yaml:"debug"`

	// MultiFile 多文件模式，按日志级别生成独立文件
	// {app_name}_{level}.log，每个文件只收取精确匹配该级别的记录
	MultiFile bool `koanf:"multi_file" json:"multi_file" yaml:"multi_file"`
}

// threshold 配置对应的最低输出级别
func (c Config) threshold() Level {
	if c.Debug {
		return LevelDebug
	}
	return LevelInfo
}

// validate 校验配置
func (c Config) validate() error {
	if c.LogPath != "" && c.AppName == "" {
		return ErrEmptyAppName
	}
	return nil
}
