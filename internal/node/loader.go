package node

import "context"

// Model 是宿主模型句柄的不透明别名，本系统从不解释其内容。
type Model = any

// ModelLoader 抽象宿主内置的 "load LoRA (model only)" 节点：
// 输入模型句柄、loras 目录下的相对文件名与强度，返回打了补丁的模型。
type ModelLoader interface {
	LoadLoraModelOnly(ctx context.Context, model Model, loraName string, strengthModel float64) (Model, error)
}

// ModelLoaderFunc 把函数适配成 ModelLoader。
type ModelLoaderFunc func(ctx context.Context, model Model, loraName string, strengthModel float64) (Model, error)

// LoadLoraModelOnly 使 ModelLoaderFunc 满足 ModelLoader。
func (f ModelLoaderFunc) LoadLoraModelOnly(ctx context.Context, model Model, loraName string, strengthModel float64) (Model, error) {
	return f(ctx, model, loraName, strengthModel)
}
