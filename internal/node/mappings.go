package node

import "github.com/loan-mgt/hf-lora-loader/internal/ensure"

// Mappings 构建宿主要求的两张注册表：内部标识 → 节点实例，
// 以及内部标识 → 展示名。宿主未提供原生加载器时返回空映射，
// 与宿主进程外运行的场景对齐。
func Mappings(svc *ensure.Service, loader ModelLoader) (map[string]*HFLoraLoaderModelOnly, map[string]string) {
	classes := make(map[string]*HFLoraLoaderModelOnly)
	displayNames := make(map[string]string)

	if loader == nil {
		return classes, displayNames
	}

	classes[Key] = NewHFLoraLoaderModelOnly(svc, loader)
	displayNames[Key] = DisplayName
	return classes, displayNames
}
