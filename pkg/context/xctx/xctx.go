package xctx

import "errors"

// =============================================================================
// Context Key 类型定义
// =============================================================================

// 设计决策: contextKey 使用 string 而非 int+iota：
//   - 包私有类型不会与其他包的 context key 冲突（context 比较包含类型信息）
//   - 字符串值在调试时可读，便于排查 context 传播问题
//   - 性能差异可忽略，不构成瓶颈
type contextKey string

// =============================================================================
// 通用错误
// =============================================================================

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrMissingTraceID trace_id 缺失
	ErrMissingTraceID = errors.New("xctx: missing trace_id")
)
