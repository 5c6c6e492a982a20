// Package xrotate 提供按时间边界轮转的日志文件写入器。
//
// [Rotator] 接口定义轮转器的核心行为（Write/Close/Rotate），所有实现并发安全。
//
// # 当前实现
//
//   - [NewHourly]: 默认每小时整点轮转，保留 168 个备份（7 天的小时级文件）。
//     备份管理委托给 lumberjack v2，时间触发由后台 goroutine 补足，
//     大小上限仅作为单周期写入失控时的安全阀。
//
// # 扩展新实现
//
//  1. 创建新文件实现 Rotator 接口
//  2. 定义独立的 Config 和 Option
//  3. 提供独立的构造函数
//  4. 不修改 Rotator 接口
package xrotate
