package xlog

import (
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
)

// 日志行字段键名，与日志聚合管道的 JSON schema 约定一致
const (
	keyLevel      = "level"
	keyTime       = "event_time"
	keyMsg        = "msg"
	keyStacktrace = "stacktrace"
)

// newEncoderConfig 日志行的编码配置
//
// 每行一个 JSON 对象：level（小写级别名）、event_time（整秒 unix 时间戳的
// 十进制字符串——下游按既有 wire 格式以字符串解析，不能编码成 JSON 数字）、
// msg，以及按需出现的 trace_id / stacktrace。缺席字段整体省略，不补 null。
// 非 ASCII 字符原样保留（zap 的 JSON 编码器不做 \uXXXX 转义）。
func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey: keyMsg,
		LevelKey:   keyLevel,
		TimeKey:    keyTime,
		// caller/name/function 不在 schema 中
		NameKey:     zapcore.OmitKey,
		CallerKey:   zapcore.OmitKey,
		FunctionKey: zapcore.OmitKey,
		// stacktrace 由 xlog 按 "level ≥ warn 且附带 error" 的规则显式注入，
		// 不使用 zap 自带的调用栈捕获
		StacktraceKey:  zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     epochSecondsTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
}

// epochSecondsTimeEncoder 把时间编码为整秒 unix 时间戳的十进制字符串
func epochSecondsTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(strconv.FormatInt(t.Unix(), 10))
}

// newEncoder 新建一个 JSON 编码器
//
// 编码器通过 With 累积字段，带内部状态，每个 sink 必须持有独立实例。
func newEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(newEncoderConfig())
}
