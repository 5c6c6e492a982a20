package xlog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type brokenStringer struct{}

func (brokenStringer) String() string { panic("broken stringer") }

type brokenError struct{}

func (brokenError) Error() string { panic("broken error") }

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{name: "空参数", args: nil, want: ""},
		{name: "单个字符串", args: []any{"hello"}, want: "hello"},
		{name: "混合类型单空格连接", args: []any{"count:", 42, true}, want: "count: 42 true"},
		{name: "error 用 Error 文本", args: []any{"failed:", errors.New("boom")}, want: "failed: boom"},
		{name: "nil 值", args: []any{nil}, want: "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinArgs(tt.args))
		})
	}
}

func TestStringify_PanicRecovery(t *testing.T) {
	assert.Contains(t, stringify(brokenStringer{}), "unprintable")
	assert.Contains(t, stringify(brokenError{}), "unprintable")
}

func TestFormatTemplate(t *testing.T) {
	assert.Equal(t, "count=5", formatTemplate("count=%d", []any{5}))
	// 零参数时模板原样输出，字面 % 不触发伪格式化错误
	assert.Equal(t, "progress 100% done", formatTemplate("progress 100% done", nil))
	assert.Equal(t, "a b", formatTemplate("%s %s", []any{"a", "b"}))
}

func TestLastError(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	assert.Nil(t, lastError(nil))
	assert.Nil(t, lastError([]any{"no", "errors", 1}))
	assert.Equal(t, err1, lastError([]any{"x", err1}))
	// 多个 error 以最后一个为准
	assert.Equal(t, err2, lastError([]any{err1, "mid", err2}))
}

func TestErrorChain(t *testing.T) {
	inner := errors.New("disk full")
	outer := fmt.Errorf("write manifest: %w", inner)

	got := errorChain(outer)
	require.Contains(t, got, "write manifest: disk full")
	require.Contains(t, got, "caused by: disk full")
}

type selfWrapped struct{}

func (selfWrapped) Error() string { return "self" }
func (s selfWrapped) Unwrap() error { return s }

func TestErrorChain_DepthLimit(t *testing.T) {
	got := errorChain(selfWrapped{})
	// 自引用 Unwrap 被深度上限截断而不是死循环
	assert.Equal(t, maxChainDepth, strings.Count(got, "self"))
}

func TestRenderStack(t *testing.T) {
	got := renderStack(errors.New("boom"))
	assert.Contains(t, got, "boom")
	// 当前 goroutine 的调用栈
	assert.Contains(t, got, "goroutine")
	assert.Contains(t, got, "renderStack")
}

func TestSinkFilter(t *testing.T) {
	exact := zapcore.WarnLevel
	f := sinkFilter{min: exact, exact: &exact}

	assert.True(t, f.Enabled(zapcore.WarnLevel))
	assert.False(t, f.Enabled(zapcore.ErrorLevel))
	assert.False(t, f.Enabled(zapcore.InfoLevel))

	open := sinkFilter{min: zapcore.InfoLevel}
	assert.True(t, open.Enabled(zapcore.InfoLevel))
	assert.True(t, open.Enabled(zapcore.FatalLevel))
	assert.False(t, open.Enabled(zapcore.DebugLevel))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: " warn ", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: "Error", want: LevelError},
		{in: "fatal", want: LevelFatal},
		{in: "verbose", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestLevelTextRoundTrip(t *testing.T) {
	for _, lv := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal} {
		data, err := lv.MarshalText()
		require.NoError(t, err)

		var back Level
		require.NoError(t, back.UnmarshalText(data))
		assert.Equal(t, lv, back)
	}
}

func TestMultiFileLevels(t *testing.T) {
	assert.Len(t, multiFileLevels(false), 4)
	assert.NotContains(t, multiFileLevels(false), LevelDebug)
	assert.Len(t, multiFileLevels(true), 5)
	assert.Contains(t, multiFileLevels(true), LevelDebug)
}
