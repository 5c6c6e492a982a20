// Package xctx 提供基于 context.Context 的 trace id 传播。
//
// trace id 是一条不透明字符串，用于把同一请求/操作产生的日志行关联起来。
// 本包只做两件事：注入（[WithTraceID]、[EnsureTraceID]）与提取
// （[TraceID]、[FromContext]、[RequireTraceID]）。
//
// # 作用域语义
//
// context 的不可变性承担了全部作用域管理：
//   - 安装 = 派生新 context
//   - 还原 = 继续使用父 context（任何退出路径都不需要显式清理）
//   - 继承 = 把 context 传给子 goroutine（copy-on-spawn，子方的后续
//     安装不会回写父方）
//
// 并发的逻辑上下文之间互不可见，无需额外同步。
//
// # ID 生成
//
// [GenerateTraceID] 生成 W3C Trace Context 格式的 128-bit 小写十六进制 ID，
// 熵源为 crypto/rand。
package xctx
