// Package node 实现宿主插件适配层：以注册表形式暴露节点元数据
// （键、展示名、输入声明），并提供组合宿主原生 LoRA 加载器的
// HFLoraLoaderModelOnly 节点。宿主能力缺失时注册表照常可查，
// 但 Mappings 返回空映射，加载行为不可用。
package node
