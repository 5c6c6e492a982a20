// Package xlog 提供进程级的结构化 JSON 日志。
//
// 每条日志是单行 JSON 对象，固定携带 level、event_time、msg 三个字段，
// 按需附加 trace_id（来自 context，见 xctx 包）与 stacktrace（warn 及
// 以上级别且调用携带 error 时）。控制台 sink 永远存在；配置 LogPath 后
// 额外写入按小时轮转的日志文件，多文件模式下按级别拆分为独立文件。
//
// 基本用法:
//
//	if err := xlog.Init(xlog.Config{
//		LogPath: "/var/log/myapp",
//		AppName: "myapp",
//	}); err != nil {
//		panic(err)
//	}
//
//	ctx, _ := xctx.WithTraceID(context.Background(), traceID)
//	xlog.Info(ctx, "order accepted:", orderID)
//	xlog.Errorf(ctx, "dial %s failed: %v", addr, err)
//
// 未显式 Init 时首次日志调用会惰性初始化为控制台输出、debug 阈值，
// 方便测试与小工具直接使用。
//
// 设计决策:
//   - 日志调用永不向调用方返回错误：sink 写失败由 zap 输出到 stderr
//     诊断流，业务路径不因日志故障中断。唯一同步报错的是 Init。
//   - 级别过滤在参数格式化之前完成，低于阈值的调用是纯 no-op。
//   - Fatal 冲刷所有 sink 后以状态码 1 退出，不做其它清理。
package xlog
