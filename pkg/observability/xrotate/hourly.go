package xrotate

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/logkit/pkg/util/xfile"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 默认配置值
const (
	// DefaultInterval 默认轮转周期（整点小时）
	DefaultInterval = time.Hour

	// DefaultMaxBackups 默认保留的备份文件数量（7 天的小时级文件）
	DefaultMaxBackups = 24 * 7

	// DefaultMaxAgeDays 默认保留备份的天数
	DefaultMaxAgeDays = 7

	// maxBackupsCap 备份文件数量上限
	maxBackupsCap = 4096

	// maxAgeDaysCap 备份保留天数上限（约 10 年）
	maxAgeDaysCap = 3650

	// sizeSafetyValveMB 单文件大小安全阀（MB）
	//
	// 轮转以时间边界为主；这里只防止单个周期内写入量失控导致磁盘占满。
	sizeSafetyValveMB = 1024
)

// hourlyConfig 按时间轮转的配置
type hourlyConfig struct {
	// Interval 轮转周期，写入跨过周期边界时切换新文件
	Interval time.Duration

	// MaxBackups 保留的备份文件数量，超出时删除最旧的备份
	// 0 表示不限制数量（但仍受 MaxAgeDays 约束）
	MaxBackups int

	// MaxAgeDays 保留备份的天数
	// 0 表示不按天数清理（但仍受 MaxBackups 约束）
	MaxAgeDays int

	// Compress 是否 gzip 压缩备份文件
	Compress bool

	// LocalTime 备份文件名是否使用本地时间，false 时使用 UTC
	LocalTime bool

	// OnError 可选的错误回调
	//
	// 后台定时轮转失败时调用。默认为 nil（静默忽略）。
	// 回调不得向同一 Rotator 写入数据，否则会递归触发。
	OnError func(error)
}

// Option 配置选项函数
type Option func(*hourlyConfig)

// WithInterval 设置轮转周期（默认 1 小时）
func WithInterval(d time.Duration) Option {
	return func(c *hourlyConfig) {
		c.Interval = d
	}
}

// WithMaxBackups 设置保留的备份文件数量
func WithMaxBackups(n int) Option {
	return func(c *hourlyConfig) {
		c.MaxBackups = n
	}
}

// WithMaxAge 设置保留备份的天数
func WithMaxAge(days int) Option {
	return func(c *hourlyConfig) {
		c.MaxAgeDays = days
	}
}

// WithCompress 设置是否压缩备份文件
func WithCompress(compress bool) Option {
	return func(c *hourlyConfig) {
		c.Compress = compress
	}
}

// WithLocalTime 设置备份文件名是否使用本地时间
func WithLocalTime(local bool) Option {
	return func(c *hourlyConfig) {
		c.LocalTime = local
	}
}

// WithOnError 设置错误回调函数
//
// 设计决策: 不用日志库记录内部错误，避免 Rotator 作为日志输出目标时
// 产生递归写入（写失败 → 打日志 → 再写失败）。
func WithOnError(fn func(error)) Option {
	return func(c *hourlyConfig) {
		c.OnError = fn
	}
}

// hourlyRotator 按时间边界轮转的 Rotator 实现
//
// 备份管理（数量/天数清理、原子换名、可选压缩）委托给 lumberjack；
// lumberjack 本身只按大小轮转，时间触发由本类型的后台 goroutine 补足：
// 每到周期边界调用一次 Rotate。
type hourlyRotator struct {
	logger   *lumberjack.Logger
	interval time.Duration
	onError  func(error)

	closed atomic.Bool
	dirty  atomic.Bool // 自上次轮转以来是否有写入，空周期不产生空备份

	done chan struct{}
	wg   sync.WaitGroup
}

// NewHourly 创建按时间边界轮转的日志轮转器
//
// 默认每小时整点轮转一次，保留 168 个备份（7 天的小时级文件），
// 更旧的备份被删除。
//
// 构造期会创建父目录并探测文件可写性——lumberjack 延迟到首次写入才建档，
// 不探测的话权限问题要到第一条日志才暴露，而初始化错误必须同步返回给调用方。
func NewHourly(filename string, opts ...Option) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := hourlyConfig{
		Interval:   DefaultInterval,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := validateHourlyConfig(&cfg); err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, err
	}
	if err := probeCreate(safePath); err != nil {
		return nil, err
	}

	r := &hourlyRotator{
		logger: &lumberjack.Logger{
			Filename:   safePath,
			MaxSize:    sizeSafetyValveMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
		interval: cfg.Interval,
		onError:  cfg.OnError,
		done:     make(chan struct{}),
	}

	r.wg.Add(1)
	go r.tick()

	return r, nil
}

// validateHourlyConfig 验证配置
func validateHourlyConfig(cfg *hourlyConfig) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInterval, cfg.Interval)
	}
	if cfg.MaxBackups < 0 || cfg.MaxBackups > maxBackupsCap {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.MaxBackups, maxBackupsCap)
	}
	if cfg.MaxAgeDays < 0 || cfg.MaxAgeDays > maxAgeDaysCap {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.MaxAgeDays, maxAgeDaysCap)
	}
	if cfg.MaxBackups == 0 && cfg.MaxAgeDays == 0 {
		return fmt.Errorf("%w: MaxBackups and MaxAgeDays cannot both be 0", ErrNoCleanupPolicy)
	}
	return nil
}

// probeCreate 以追加模式试开日志文件，把权限/路径错误提前到构造期
func probeCreate(path string) error {
	//#nosec G302 G304 -- 路径已经 SanitizePath 规范化；0600 与 lumberjack 默认一致
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("xrotate: create log file: %w", err)
	}
	return f.Close()
}

// tick 后台轮转循环：对齐到下一个周期边界后触发轮转
func (r *hourlyRotator) tick() {
	defer r.wg.Done()

	timer := time.NewTimer(untilNextBoundary(time.Now(), r.interval))
	defer timer.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-timer.C:
			// 空周期跳过，避免堆积空备份文件
			if r.dirty.Swap(false) {
				r.reportError(r.logger.Rotate())
			}
			timer.Reset(untilNextBoundary(time.Now(), r.interval))
		}
	}
}

// untilNextBoundary 距离下一个周期边界的时长
//
// 对齐到墙钟边界（整点/整周期）而非"启动时刻 + N 周期"，
// 这样多个进程的轮转时刻一致，备份文件名按小时对齐。
func untilNextBoundary(now time.Time, interval time.Duration) time.Duration {
	next := now.Truncate(interval).Add(interval)
	d := next.Sub(now)
	if d <= 0 {
		return interval
	}
	return d
}

// Write 实现 io.Writer 接口
func (r *hourlyRotator) Write(p []byte) (n int, err error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}

	n, err = r.logger.Write(p)
	if err != nil {
		// Write 与 Close 存在 TOCTOU 窗口——前置检查通过后 Close 可能已完成。
		// 后置检查确保调用者始终得到 ErrClosed 而非底层 I/O 错误。
		if r.closed.Load() {
			return n, ErrClosed
		}
		return n, err
	}

	if n > 0 {
		r.dirty.Store(true)
	}
	return n, nil
}

// Rotate 手动触发轮转
func (r *hourlyRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}

	if err := r.logger.Rotate(); err != nil {
		// 与 Write 相同的 TOCTOU 后置检查
		if r.closed.Load() {
			return ErrClosed
		}
		return err
	}

	r.dirty.Store(false)
	return nil
}

// Close 实现 io.Closer 接口
//
// 停止后台轮转 goroutine 并关闭底层文件。
// 关闭后调用 Write 或 Rotate 返回 [ErrClosed]，重复 Close 也返回 [ErrClosed]。
func (r *hourlyRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	close(r.done)
	r.wg.Wait()
	return r.logger.Close()
}

// reportError 通过回调上报后台轮转错误
//
// 回调 panic 被 recover 隔离，防止错误通知反向中断轮转循环。
func (r *hourlyRotator) reportError(err error) {
	if err != nil && r.onError != nil {
		defer func() { _ = recover() }()
		r.onError(err)
	}
}
