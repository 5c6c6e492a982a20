package xlog

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const (
	// initialStackSize 初始堆栈缓冲区大小
	initialStackSize = 4096
	// maxStackSize 最大堆栈缓冲区大小（64KB）
	maxStackSize = 64 * 1024
	// maxChainDepth 错误链渲染的最大深度，防御恶意/自引用的 Unwrap
	maxChainDepth = 32
)

// joinArgs 将参数逐个转为字符串后用单个空格连接
func joinArgs(args []any) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return stringify(args[0])
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = stringify(a)
	}
	return strings.Join(parts, " ")
}

// stringify 任意值转字符串，保证不失败
//
// 日志格式化失败不允许影响日志行本身的产出：Error()/String() 的 panic
// 被 recover 隔离并降级为占位文本。
func stringify(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("%T(unprintable)", v)
		}
	}()

	switch x := v.(type) {
	case string:
		return x
	case error:
		if x == nil {
			return "<nil>"
		}
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatTemplate 对模板做位置参数插值
//
// 无参数时原样返回模板，避免模板里的字面 % 触发 "%!x(MISSING)" 之类的
// 伪格式化错误。
func formatTemplate(template string, args []any) string {
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// lastError 返回参数中最后一个非空 error，没有则返回 nil
//
// warn 及以上级别的日志调用如果携带 error 参数，以最后一个为"附带错误"，
// 用于生成 stacktrace 字段。
func lastError(args []any) error {
	var last error
	for _, a := range args {
		if err, ok := a.(error); ok && err != nil {
			last = err
		}
	}
	return last
}

// renderStack 渲染附带错误的完整文本：错误链 + 当前 goroutine 调用栈
//
// 输出是单个字符串值，JSON 编码时内部换行被转义，不破坏"每行一条记录"。
func renderStack(err error) string {
	var b strings.Builder
	b.WriteString(errorChain(err))
	b.WriteByte('\n')

	buf := make([]byte, initialStackSize)
	n := runtime.Stack(buf, false)
	// 缓冲区填满说明可能被截断，翻倍重试直到上限
	for n == len(buf) && len(buf) < maxStackSize {
		buf = make([]byte, min(len(buf)*2, maxStackSize))
		n = runtime.Stack(buf, false)
	}
	b.Write(buf[:n])
	return b.String()
}

// errorChain 渲染 error 的 Unwrap 链
func errorChain(err error) string {
	var b strings.Builder
	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		if depth > 0 {
			b.WriteString("\ncaused by: ")
		}
		b.WriteString(safeErrorText(err))
		err = errors.Unwrap(err)
	}
	return b.String()
}

// safeErrorText 防御性调用 Error()，panic 降级为占位文本
func safeErrorText(err error) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("%T(unprintable)", err)
		}
	}()
	return err.Error()
}
