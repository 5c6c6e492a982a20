// Package xconf 提供基于 koanf 的配置加载、热重载与日志配置桥接。
//
// 支持 YAML 与 JSON 两种格式，可以从文件或字节数据（如 K8s ConfigMap
// 挂载内容）创建配置实例。基础读取操作通过 Client() 暴露的 koanf 实例
// 完成，xconf 只做增值部分：整树原子替换的 Reload、基于 fsnotify 的
// 文件监视，以及把 logging section 绑定到 xlog 的桥接。
//
// 基本用法:
//
//	cfg, err := xconf.New("/etc/myapp/config.yaml")
//	if err != nil {
//		panic(err)
//	}
//
//	// 应用日志配置并跟随配置文件变更
//	w, err := xconf.WatchLogging(cfg, "", xconf.WithDebounce(200*time.Millisecond))
//	if err != nil {
//		panic(err)
//	}
//	defer w.Stop()
//
// 设计决策:
//   - Reload 整树替换而非原地合并：解析失败时当前配置保持可用。
//   - 监视目录而非文件：编辑器的原子写入（rename）不会丢事件。
//   - 防抖合并连续变更，默认 100ms 窗口。
package xconf
