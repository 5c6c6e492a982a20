package xconf

import (
	"context"

	"github.com/omeyang/logkit/pkg/observability/xlog"
)

// LoggingSection 配置文件中日志配置的默认 section 名
const LoggingSection = "logging"

// Logging 从配置中取出日志 section
// section 为空时使用 [LoggingSection]
func Logging(cfg Config, section string) (xlog.Config, error) {
	if section == "" {
		section = LoggingSection
	}
	var out xlog.Config
	if err := cfg.Unmarshal(section, &out); err != nil {
		return xlog.Config{}, err
	}
	return out, nil
}

// ApplyLogging 取出日志 section 并初始化进程级 logger
func ApplyLogging(cfg Config, section string) error {
	lc, err := Logging(cfg, section)
	if err != nil {
		return err
	}
	return xlog.Init(lc)
}

// WatchLogging 先应用日志配置，再监视配置文件并在变更时重新初始化 logger
//
// 返回的 Watcher 已异步启动，调用方负责 Stop。重载或重新初始化失败时
// 保留当前生效的日志配置，并通过 logger 自身输出一条 warn。
func WatchLogging(cfg Config, section string, opts ...WatchOption) (*Watcher, error) {
	if err := ApplyLogging(cfg, section); err != nil {
		return nil, err
	}

	w, err := Watch(cfg, func(c Config, err error) {
		if err != nil {
			xlog.Warn(context.Background(), "config reload failed:", err)
			return
		}
		if err := ApplyLogging(c, section); err != nil {
			xlog.Warn(context.Background(), "logging re-init failed:", err)
		}
	}, opts...)
	if err != nil {
		return nil, err
	}

	w.StartAsync()
	return w, nil
}
