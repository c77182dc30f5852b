package main

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	repoRootOnce sync.Once
	repoRoot     string
)

// projectRoot 从当前文件向上寻找 go.mod，定位仓库根目录。
func projectRoot(t *testing.T) string {
	t.Helper()

	repoRootOnce.Do(func() {
		_, file, _, ok := runtime.Caller(0)
		if !ok {
			return
		}
		for dir := filepath.Dir(file); ; dir = filepath.Dir(dir) {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				repoRoot = dir
				return
			}
			if filepath.Dir(dir) == dir {
				return
			}
		}
	})

	if repoRoot == "" {
		t.Fatal("无法定位项目根目录")
	}
	return repoRoot
}

// configFixture 返回 internal/config/testdata 下指定配置样例的绝对路径。
func configFixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(projectRoot(t), "internal", "config", "testdata", name)
}
