package xctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// =============================================================================
// Trace 日志属性 Key 常量
// =============================================================================

// KeyTraceID 日志输出中 trace id 字段的键名（下划线分隔，与聚合管道约定一致）。
const KeyTraceID = "trace_id"

// TraceIDSize W3C 规范: 128-bit (16 bytes) -> 32 hex chars
const TraceIDSize = 16

const keyTraceID = contextKey("xctx:trace_id")

// =============================================================================
// TraceID 操作
//
// context.Context 即"逻辑执行上下文"：派生 context 是一次安装，父 context
// 就是还原凭证。值只沿派生方向传播，子任务的安装不会泄漏回父任务，
// 并发任务之间互不可见。
// =============================================================================

// WithTraceID 将 trace ID 注入 context，返回派生 context。
//
// 还原到安装前的状态只需继续使用原 context——context 不可变，
// 嵌套安装天然按 LIFO 解开，任何退出路径（包括 panic）都不会遗留状态。
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithTraceID(ctx context.Context, traceID string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyTraceID, traceID), nil
}

// TraceID 从 context 提取 trace ID，不存在返回空字符串。
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyTraceID).(string); ok {
		return v
	}
	return ""
}

// FromContext 从 context 提取 trace ID 及其存在标记。
//
// 与 TraceID 的区别：能区分"未设置"与"设置为空串"。
// 日志路径用它决定是否输出 trace_id 字段。
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(keyTraceID).(string)
	return v, ok
}

// RequireTraceID 从 context 获取 trace ID，不存在则返回错误。
//
// 语义：值必须存在，缺失时返回 ErrMissingTraceID。
// 如果 ctx 为 nil，返回 ErrNilContext。
func RequireTraceID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", ErrNilContext
	}
	v := TraceID(ctx)
	if v == "" {
		return "", ErrMissingTraceID
	}
	return v, nil
}

// =============================================================================
// ID 生成（遵循 W3C Trace Context 规范）
// 参考: https://www.w3.org/TR/trace-context/
// =============================================================================

// isAllZeros 检查字节切片是否全为零
// W3C Trace Context 规范禁止全零的 trace-id
func isAllZeros(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// GenerateTraceID 生成符合 W3C Trace Context 规范的 TraceID
//
// 格式: 32位小写十六进制字符串 (128-bit)
// 示例: "0af7651916cd43dd8448eb211c80319c"
//
// Panic 策略说明：底层熵源不可用（需要内核级故障）时 panic。
// crypto/rand 失败意味着系统无法提供安全随机数，此状态下继续运行
// 弊大于利，与 OpenTelemetry 等实现采用相同策略。
func GenerateTraceID() string {
	var buf [TraceIDSize]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("xctx: crypto/rand.Read failed: " + err.Error())
		}
		if !isAllZeros(buf[:]) {
			return hex.EncodeToString(buf[:])
		}
		// 全零情况极其罕见（概率 2^-128），重新生成
	}
}

// EnsureTraceID 确保 context 中存在 TraceID。
//
// 如果 context 中已有 TraceID，原样返回（不验证/不纠正）；
// 否则自动生成新的并注入。适用于请求入口，使当前服务成为链路起点。
// 如果 ctx 为 nil，返回 ErrNilContext。
func EnsureTraceID(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if TraceID(ctx) != "" {
		return ctx, nil
	}
	return WithTraceID(ctx, GenerateTraceID())
}
