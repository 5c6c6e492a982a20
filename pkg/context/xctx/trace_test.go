package xctx_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/omeyang/logkit/pkg/context/xctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TraceID 注入与提取
// =============================================================================

func TestTraceID(t *testing.T) {
	if got := xctx.TraceID(context.Background()); got != "" {
		t.Errorf("TraceID(empty) = %q, want empty", got)
	}

	ctx, err := xctx.WithTraceID(context.Background(), "trace-123")
	if err != nil {
		t.Fatalf("WithTraceID() error = %v", err)
	}
	if got := xctx.TraceID(ctx); got != "trace-123" {
		t.Errorf("TraceID() = %q, want %q", got, "trace-123")
	}

	// 覆盖注入
	ctx, err = xctx.WithTraceID(ctx, "new-trace")
	if err != nil {
		t.Fatalf("WithTraceID() error = %v", err)
	}
	if got := xctx.TraceID(ctx); got != "new-trace" {
		t.Errorf("TraceID(overwrite) = %q, want %q", got, "new-trace")
	}

	var nilCtx context.Context
	if got := xctx.TraceID(nilCtx); got != "" {
		t.Errorf("TraceID(nil) = %q, want empty", got)
	}

	// nil context 注入返回 ErrNilContext
	_, err = xctx.WithTraceID(nilCtx, "trace-123")
	if !errors.Is(err, xctx.ErrNilContext) {
		t.Errorf("WithTraceID(nil) error = %v, want %v", err, xctx.ErrNilContext)
	}
}

func TestFromContext(t *testing.T) {
	// 未设置：present 标记为 false
	id, ok := xctx.FromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)

	// nil context 安全退化
	id, ok = xctx.FromContext(nil) //nolint:staticcheck // 测试 nil 行为
	assert.False(t, ok)
	assert.Empty(t, id)

	// 设置后：present 标记为 true
	ctx, err := xctx.WithTraceID(context.Background(), "abc-123")
	require.NoError(t, err)
	id, ok = xctx.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc-123", id)

	// 空串也是"已设置"
	ctx, err = xctx.WithTraceID(context.Background(), "")
	require.NoError(t, err)
	_, ok = xctx.FromContext(ctx)
	assert.True(t, ok)
}

func TestRequireTraceID(t *testing.T) {
	_, err := xctx.RequireTraceID(context.Background())
	assert.ErrorIs(t, err, xctx.ErrMissingTraceID)

	_, err = xctx.RequireTraceID(nil) //nolint:staticcheck // 测试 nil 行为
	assert.ErrorIs(t, err, xctx.ErrNilContext)

	ctx, err := xctx.WithTraceID(context.Background(), "trace-xyz")
	require.NoError(t, err)
	id, err := xctx.RequireTraceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "trace-xyz", id)
}

// =============================================================================
// 作用域语义
// =============================================================================

// TestScopeRestore 安装+还原后父 context 恢复原值（或依旧缺失）
func TestScopeRestore(t *testing.T) {
	parent := context.Background()

	scoped, err := xctx.WithTraceID(parent, "inner")
	require.NoError(t, err)
	assert.Equal(t, "inner", xctx.TraceID(scoped))

	// "还原"即继续使用父 context——父方不受派生影响
	_, ok := xctx.FromContext(parent)
	assert.False(t, ok, "parent must stay untouched after scoped install")

	// 嵌套安装按 LIFO 解开
	outer, err := xctx.WithTraceID(parent, "outer")
	require.NoError(t, err)
	inner, err := xctx.WithTraceID(outer, "inner")
	require.NoError(t, err)
	assert.Equal(t, "inner", xctx.TraceID(inner))
	assert.Equal(t, "outer", xctx.TraceID(outer))
}

// TestScopeIsolation 并发逻辑上下文互不可见
func TestScopeIsolation(t *testing.T) {
	parent := context.Background()

	var wg sync.WaitGroup
	for _, want := range []string{"ctx-a", "ctx-b", "ctx-c", "ctx-d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, err := xctx.WithTraceID(parent, want)
			if err != nil {
				t.Errorf("WithTraceID() error = %v", err)
				return
			}
			for range 100 {
				if got := xctx.TraceID(ctx); got != want {
					t.Errorf("TraceID() = %q, want %q", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()

	// 所有子任务完成后父 context 依旧无值
	_, ok := xctx.FromContext(parent)
	assert.False(t, ok)
}

// =============================================================================
// ID 生成
// =============================================================================

var traceIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestGenerateTraceID(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for range 100 {
		id := xctx.GenerateTraceID()
		if !traceIDPattern.MatchString(id) {
			t.Fatalf("GenerateTraceID() = %q, want 32 lowercase hex chars", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("GenerateTraceID() produced duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestEnsureTraceID(t *testing.T) {
	// 已有值：原样沿用
	ctx, err := xctx.WithTraceID(context.Background(), "existing")
	require.NoError(t, err)
	ensured, err := xctx.EnsureTraceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "existing", xctx.TraceID(ensured))

	// 无值：自动生成
	ensured, err = xctx.EnsureTraceID(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, traceIDPattern, xctx.TraceID(ensured))

	_, err = xctx.EnsureTraceID(nil) //nolint:staticcheck // 测试 nil 行为
	assert.ErrorIs(t, err, xctx.ErrNilContext)
}
