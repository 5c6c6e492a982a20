package xlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/omeyang/logkit/pkg/observability/xrotate"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// sinkFilter sink 的准入谓词：最低级别 AND 可选的精确级别
//
// 不变式：记录进入 sink 当且仅当 level ≥ min 且（exact 未设置或
// level == exact）。两个谓词保持独立，精确过滤是多文件模式的组合件，
// 不是一个合并的级别枚举。
type sinkFilter struct {
	min   zapcore.LevelEnabler
	exact *zapcore.Level // nil 表示不限定精确级别
}

// Enabled 实现 zapcore.LevelEnabler
func (f sinkFilter) Enabled(l zapcore.Level) bool {
	if !f.min.Enabled(l) {
		return false
	}
	return f.exact == nil || l == *f.exact
}

// multiFileLevels 多文件模式生成文件的级别集
// info/warn/error/fatal 恒定存在，debug 文件仅在 Debug 模式下生成
func multiFileLevels(debug bool) []Level {
	levels := []Level{LevelInfo, LevelWarn, LevelError, LevelFatal}
	if debug {
		levels = append(levels, LevelDebug)
	}
	return levels
}

// buildSinks 根据配置构建 sink 集合
//
// 返回 Tee 后的 core 与需要随这一代一起关闭的文件轮转器。
// 控制台 sink 永远存在；LogPath 为空时只有控制台。
// threshold 被控制台/单文件 sink 直接引用，动态调级即时生效。
//
// 任何一个文件 sink 创建失败都会关闭已创建的轮转器并整体报错——
// 初始化错误是唯一允许同步抛给调用方的错误。
func buildSinks(cfg Config, threshold zap.AtomicLevel) (zapcore.Core, []io.Closer, error) {
	cores := []zapcore.Core{
		// 控制台 sink：标准输出加锁包装，保证并发调用不产生交错的半行
		zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stdout), threshold),
	}

	if cfg.LogPath == "" {
		return zapcore.NewTee(cores...), nil, nil
	}

	var closers []io.Closer
	fail := func(err error) (zapcore.Core, []io.Closer, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, nil, err
	}

	if !cfg.MultiFile {
		// 单文件模式：{app_name}.log，阈值与 logger 一致
		rot, err := xrotate.NewHourly(filepath.Join(cfg.LogPath, cfg.AppName+".log"))
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rot)
		cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(rot), threshold))
		return zapcore.NewTee(cores...), closers, nil
	}

	// 多文件模式：{app_name}_{level}.log，每个文件带精确级别过滤
	for _, lv := range multiFileLevels(cfg.Debug) {
		name := fmt.Sprintf("%s_%s.log", cfg.AppName, lv.String())
		rot, err := xrotate.NewHourly(filepath.Join(cfg.LogPath, name))
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rot)

		exact := zapcore.Level(lv)
		cores = append(cores, zapcore.NewCore(
			newEncoder(),
			zapcore.AddSync(rot),
			sinkFilter{min: exact, exact: &exact},
		))
	}
	return zapcore.NewTee(cores...), closers, nil
}
