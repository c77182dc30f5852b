// Package folders 模拟宿主应用的目录配置协作方：按类别维护有序的目录列表，
// 与宿主的 "get configured folder paths" 能力对齐。注册表对本系统只读，
// 首个 loras 条目即默认缓存根目录。
package folders

import (
	"sort"
	"strings"
	"sync"
)

// CategoryLoras 是宿主为 LoRA 权重保留的目录类别。
const CategoryLoras = "loras"

// Registry 维护类别到目录列表的映射，构建完成后可安全并发读取。
type Registry struct {
	mu    sync.RWMutex
	paths map[string][]string
}

// New 返回空的目录注册表。
func New() *Registry {
	return &Registry{paths: make(map[string][]string)}
}

// Set 覆盖某个类别的目录列表，忽略空白项并保持原始顺序。
func (r *Registry) Set(category string, paths []string) {
	key := normalizeCategory(category)
	if key == "" {
		return
	}

	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[key] = cleaned
}

// Paths 返回类别对应目录列表的副本，未配置时返回 nil。
func (r *Registry) Paths(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths, ok := r.paths[normalizeCategory(category)]
	if !ok || len(paths) == 0 {
		return nil
	}
	return append([]string(nil), paths...)
}

// Primary 返回类别的首选目录，即宿主配置列表中的第一项。
func (r *Registry) Primary(category string) (string, bool) {
	paths := r.Paths(category)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

// Categories 返回所有已配置类别，按字典序排序，供诊断端输出。
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.paths))
	for key := range r.paths {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
