package xlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/omeyang/logkit/pkg/context/xctx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// =============================================================================
// 进程级单例
//
// 生命周期：未初始化 →（显式 Init 或首次日志调用的惰性兜底）→ 已初始化
// →（后续 Init 整代替换）。读取方通过 atomic.Pointer 要么看到完整的旧一代，
// 要么看到完整的新一代，不存在半替换状态。
// =============================================================================

// generation 一代日志后端：一次 Init 的完整产物（阈值 + sink 集合）
type generation struct {
	zl        *zap.Logger
	threshold zap.AtomicLevel
	closers   []io.Closer
}

var (
	// current 当前生效的一代，nil 表示尚未初始化
	current atomic.Pointer[generation]

	// initMu 串行化 Init / 惰性初始化 / ResetDefault 之间的替换动作
	initMu sync.Mutex
)

// osExit 进程退出入口，测试中可替换
var osExit = os.Exit

// writeOnly fatal 记录写入后不做任何事的 CheckWriteHook
type writeOnly struct{}

func (writeOnly) OnWrite(*zapcore.CheckedEntry, []zapcore.Field) {}

// Init 按配置（重新）初始化进程级 logger
//
// 再次调用时整代替换：新 sink 集合原子生效后，旧一代的文件轮转器被关闭。
// 正在进行中的旧代写入由轮转器内部互斥保证完成或安全中止，迟到的写入
// 得到 ErrClosed 并被吞掉，不会破坏文件状态。
//
// 唯一的失败来源是文件 sink 创建（目录不可写等），错误同步返回给调用方；
// 失败时当前生效的一代保持不变。
func Init(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	initMu.Lock()
	defer initMu.Unlock()

	gen, err := newGeneration(cfg)
	if err != nil {
		return err
	}
	if old := current.Swap(gen); old != nil {
		old.close()
	}
	return nil
}

// ResetDefault 重置为未初始化状态（仅用于测试）
//
// 调用后下一次日志调用会重新触发惰性兜底初始化。
func ResetDefault() {
	initMu.Lock()
	defer initMu.Unlock()
	if old := current.Swap(nil); old != nil {
		old.close()
	}
}

// newGeneration 构建一代后端
func newGeneration(cfg Config) (*generation, error) {
	threshold := zap.NewAtomicLevelAt(zapcore.Level(cfg.threshold()))
	tee, closers, err := buildSinks(cfg, threshold)
	if err != nil {
		return nil, err
	}
	// fatal 的写后动作交给自定义 hook：进程退出由 xlog 自己负责（见 exit），
	// 这样 Fatal 在测试中可以通过替换 osExit 观测。
	// 注意不能用 zapcore.WriteThenNoop——zap 会把它强制改回 WriteThenFatal。
	zl := zap.New(tee, zap.WithFatalHook(writeOnly{}))
	return &generation{zl: zl, threshold: threshold, closers: closers}, nil
}

// close 关闭这一代持有的文件轮转器
func (g *generation) close() {
	for _, c := range g.closers {
		_ = c.Close()
	}
}

// active 返回当前一代，未初始化时惰性兜底
func active() *generation {
	if g := current.Load(); g != nil {
		return g
	}
	return defaultGeneration()
}

// defaultGeneration 惰性兜底初始化：控制台输出，debug 阈值
//
// 这是未显式 Init 就开始打日志时的默认形态，不是错误。
func defaultGeneration() *generation {
	initMu.Lock()
	defer initMu.Unlock()

	// 双重检查：拿锁期间可能已有其他调用完成初始化
	if g := current.Load(); g != nil {
		return g
	}

	gen, err := newGeneration(Config{Debug: true})
	if err != nil {
		// 纯控制台配置不应失败；万一失败降级为最小可用 logger，
		// 避免库代码 panic 终止宿主进程
		fmt.Fprintf(os.Stderr, "xlog: failed to build default logger: %v, using fallback\n", err)
		threshold := zap.NewAtomicLevelAt(zapcore.DebugLevel)
		gen = &generation{
			zl:        zap.New(zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stdout), threshold)),
			threshold: threshold,
		}
	}
	current.Store(gen)
	return gen
}

// =============================================================================
// 发射路径
// =============================================================================

// logArgs 可变参数路径：逐个转字符串后用单个空格连接
func logArgs(ctx context.Context, level Level, args []any) {
	g := active()
	lv := zapcore.Level(level)
	// 低于阈值：纯 no-op，连参数字符串化都不做
	if !g.threshold.Enabled(lv) {
		return
	}
	g.write(ctx, lv, joinArgs(args), lastError(args))
}

// logf 模板路径：位置参数插值，零参数时模板原样使用
func logf(ctx context.Context, level Level, template string, args []any) {
	g := active()
	lv := zapcore.Level(level)
	if !g.threshold.Enabled(lv) {
		return
	}
	g.write(ctx, lv, formatTemplate(template, args), lastError(args))
}

// write 组装记录并交给每个 sink 各自过滤
func (g *generation) write(ctx context.Context, lv zapcore.Level, msg string, attached error) {
	fields := make([]zap.Field, 0, 2)
	if id, ok := xctx.FromContext(ctx); ok {
		fields = append(fields, zap.String(xctx.KeyTraceID, id))
	}
	// stacktrace 仅在 warn 及以上且调用附带 error 时出现
	if attached != nil && lv >= zapcore.WarnLevel {
		fields = append(fields, zap.String(keyStacktrace, renderStack(attached)))
	}
	g.zl.Log(lv, msg, fields...)
}

// withTrace 为单次日志调用派生带 trace id 的 context
//
// 派生 context 的生命周期就是这一次调用，结束后环境值自动还原——
// 包括日志路径内部 panic 的退出路径。
func withTrace(ctx context.Context, traceID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	scoped, err := xctx.WithTraceID(ctx, traceID)
	if err != nil {
		return ctx
	}
	return scoped
}

// exit 冲刷所有 sink 后以状态码 1 终止进程
func exit() {
	_ = Sync()
	osExit(1)
}

// =============================================================================
// 级别操作：参数逐个字符串化，单空格连接
// =============================================================================

// Debug 记录 debug 级别日志
func Debug(ctx context.Context, args ...any) {
	logArgs(ctx, LevelDebug, args)
}

// Info 记录 info 级别日志
func Info(ctx context.Context, args ...any) {
	logArgs(ctx, LevelInfo, args)
}

// Warn 记录 warn 级别日志
// 参数中携带 error 时，日志行附带 stacktrace 字段
func Warn(ctx context.Context, args ...any) {
	logArgs(ctx, LevelWarn, args)
}

// Error 记录 error 级别日志
// 参数中携带 error 时，日志行附带 stacktrace 字段
func Error(ctx context.Context, args ...any) {
	logArgs(ctx, LevelError, args)
}

// Fatal 记录 fatal 级别日志并以状态码 1 终止进程
// 除正常的 sink 冲刷外不保证任何清理
func Fatal(ctx context.Context, args ...any) {
	logArgs(ctx, LevelFatal, args)
	exit()
}

// =============================================================================
// 模板操作：位置参数插值；零参数时模板原样输出，
// 字面 % 不会触发伪格式化错误
// =============================================================================

// Debugf 记录格式化的 debug 级别日志
func Debugf(ctx context.Context, template string, args ...any) {
	logf(ctx, LevelDebug, template, args)
}

// Infof 记录格式化的 info 级别日志
func Infof(ctx context.Context, template string, args ...any) {
	logf(ctx, LevelInfo, template, args)
}

// Warnf 记录格式化的 warn 级别日志
func Warnf(ctx context.Context, template string, args ...any) {
	logf(ctx, LevelWarn, template, args)
}

// Errorf 记录格式化的 error 级别日志
func Errorf(ctx context.Context, template string, args ...any) {
	logf(ctx, LevelError, template, args)
}

// Fatalf 记录格式化的 fatal 级别日志并以状态码 1 终止进程
func Fatalf(ctx context.Context, template string, args ...any) {
	logf(ctx, LevelFatal, template, args)
	exit()
}

// =============================================================================
// Ctx 操作：显式 trace id 作用于恰好一次日志调用
//
// 不提供 CtxFatal——fatal 在还原发生前就已终止进程，作用域没有意义。
// =============================================================================

// CtxDebug 以给定 trace id 记录 debug 级别日志
func CtxDebug(ctx context.Context, traceID string, args ...any) {
	logArgs(withTrace(ctx, traceID), LevelDebug, args)
}

// CtxDebugf 以给定 trace id 记录格式化的 debug 级别日志
func CtxDebugf(ctx context.Context, traceID string, template string, args ...any) {
	logf(withTrace(ctx, traceID), LevelDebug, template, args)
}

// CtxInfo 以给定 trace id 记录 info 级别日志
func CtxInfo(ctx context.Context, traceID string, args ...any) {
	logArgs(withTrace(ctx, traceID), LevelInfo, args)
}

// CtxInfof 以给定 trace id 记录格式化的 info 级别日志
func CtxInfof(ctx context.Context, traceID string, template string, args ...any) {
	logf(withTrace(ctx, traceID), LevelInfo, template, args)
}

// CtxWarn 以给定 trace id 记录 warn 级别日志
func CtxWarn(ctx context.Context, traceID string, args ...any) {
	logArgs(withTrace(ctx, traceID), LevelWarn, args)
}

// CtxWarnf 以给定 trace id 记录格式化的 warn 级别日志
func CtxWarnf(ctx context.Context, traceID string, template string, args ...any) {
	logf(withTrace(ctx, traceID), LevelWarn, template, args)
}

// CtxError 以给定 trace id 记录 error 级别日志
func CtxError(ctx context.Context, traceID string, args ...any) {
	logArgs(withTrace(ctx, traceID), LevelError, args)
}

// CtxErrorf 以给定 trace id 记录格式化的 error 级别日志
func CtxErrorf(ctx context.Context, traceID string, template string, args ...any) {
	logf(withTrace(ctx, traceID), LevelError, template, args)
}

// =============================================================================
// 级别控制与冲刷
// =============================================================================

// SetLevel 动态调整最低输出级别，运行时生效，无需重新 Init
//
// 只影响按阈值过滤的 sink（控制台/单文件）；多文件模式下各级别文件的
// 精确过滤不受影响，但低于阈值的记录在进入 sink 前就被拦截。
func SetLevel(level Level) {
	active().threshold.SetLevel(zapcore.Level(level))
}

// GetLevel 返回当前最低输出级别
func GetLevel() Level {
	return Level(active().threshold.Level())
}

// Enabled 检查指定级别是否会被输出
// 用于在构造昂贵的日志参数前先做级别检查
func Enabled(level Level) bool {
	return active().threshold.Enabled(zapcore.Level(level))
}

// Sync 冲刷所有 sink 的缓冲
//
// stdout/stderr 在 Linux 上 sync 会返回 EINVAL 或 ENOTTY，属无害噪音，
// 直接忽略。
func Sync() error {
	err := active().zl.Sync()
	if err != nil && isStdoutSyncError(err) {
		return nil
	}
	return err
}

// isStdoutSyncError 判断是否为 stdout/stderr 的无害 sync 错误
func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
