package node

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Param 描述节点的单个输入参数，供宿主 UI 渲染。
type Param struct {
	Name    string
	Type    string
	Default string
	Tooltip string
}

// InputSpec 区分必填与可选输入，顺序即 UI 展示顺序。
type InputSpec struct {
	Required []Param
	Optional []Param
}

// Metadata 记录一个节点的静态信息，供注册表与诊断端使用。
type Metadata struct {
	Key         string
	DisplayName string
	Category    string
	Description string
	Inputs      InputSpec
}

var globalRegistry = newRegistry()

type registry struct {
	mu    sync.RWMutex
	nodes map[string]Metadata
}

func newRegistry() *registry {
	return &registry{nodes: make(map[string]Metadata)}
}

// Register 将节点元数据加入全局注册表，重复键会返回错误。
func Register(meta Metadata) error {
	return globalRegistry.register(meta)
}

// MustRegister 在注册失败时 panic，适合包 init() 中调用。
func MustRegister(meta Metadata) {
	if err := Register(meta); err != nil {
		panic(err)
	}
}

// Resolve 返回指定键的节点元数据。
func Resolve(key string) (Metadata, bool) {
	return globalRegistry.resolve(key)
}

// List 返回按键排序的节点元数据列表。
func List() []Metadata {
	return globalRegistry.list()
}

// Keys 返回所有已注册节点的键值，供诊断端使用。
func Keys() []string {
	items := List()
	result := make([]string, len(items))
	for i, meta := range items {
		result[i] = meta.Key
	}
	return result
}

func (r *registry) register(meta Metadata) error {
	key := strings.TrimSpace(meta.Key)
	if key == "" {
		return fmt.Errorf("node key is required")
	}
	meta.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[key]; exists {
		return fmt.Errorf("node %s already registered", key)
	}
	r.nodes[key] = meta
	return nil
}

func (r *registry) resolve(key string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.nodes[strings.TrimSpace(key)]
	return meta, ok
}

func (r *registry) list() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Metadata, 0, len(r.nodes))
	for _, meta := range r.nodes {
		result = append(result, meta)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}
