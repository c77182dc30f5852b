package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Locator 唯一定位一个托管权重文件（仓库标识 + 最终文件名）。
// Name 可能包含仓库内的子路径，均为 URL 路径风格。
type Locator struct {
	RepoID string
	Name   string
}

// Store 以宿主的 loras 根目录为基准管理 hf_lora_loader 子目录。
// 根目录归宿主所有：Store 只在其下创建子目录与文件，从不删除已有产物。
type Store struct {
	root string

	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore 以 root 为 loras 根目录构建 Store。root 不能为空；
// 目录本身由宿主创建，这里只做绝对路径归一化。
func NewStore(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("lora root required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve lora root: %w", err)
	}

	return &Store{
		root:  abs,
		locks: make(map[string]*entryLock),
	}, nil
}

// Root 返回归一化后的 loras 根目录。
func (s *Store) Root() string {
	return s.root
}

// RepoDir 返回某个仓库的专属缓存目录：<root>/hf_lora_loader/<sanitized repo id>。
func (s *Store) RepoDir(repoID string) string {
	return filepath.Join(s.root, SubDir, SanitizeRepoID(strings.TrimSpace(repoID)))
}

// TargetPath 计算 locator 对应的规范缓存路径：
//
//	<root>/hf_lora_loader/<sanitized repo id>/<name>
//
// 会拒绝逃逸出仓库目录的文件名。
func (s *Store) TargetPath(locator Locator) (string, error) {
	if strings.TrimSpace(locator.RepoID) == "" {
		return "", errors.New("repo id required")
	}
	name := strings.TrimSpace(locator.Name)
	if name == "" {
		return "", errors.New("file name required")
	}

	repoDir := s.RepoDir(locator.RepoID)

	rel := strings.TrimPrefix(strings.TrimPrefix(filepath.ToSlash(name), "/"), "./")
	target := filepath.Join(repoDir, filepath.FromSlash(rel))
	if target != repoDir && !strings.HasPrefix(target, repoDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file name: %s", locator.Name)
	}
	if target == repoDir {
		return "", fmt.Errorf("invalid file name: %s", locator.Name)
	}
	return target, nil
}

// EnsureDir 创建 locator 对应的目录层级并返回最终文件路径。
func (s *Store) EnsureDir(locator Locator) (string, error) {
	target, err := s.TargetPath(locator)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return target, nil
}

// Install 将 src 安装到 locator 的规范路径上，保留 src 的修改时间。
// 通过临时文件 + rename 保证原子性；src 与目标为同一路径时是空操作。
func (s *Store) Install(ctx context.Context, src string, locator Locator) error {
	unlock := s.lockEntry(locator)
	defer unlock()

	target, err := s.EnsureDir(locator)
	if err != nil {
		return err
	}
	if filepath.Clean(src) == filepath.Clean(target) {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat downloaded file: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open downloaded file: %w", err)
	}
	defer in.Close()

	tempFile, err := os.CreateTemp(filepath.Dir(target), ".install-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = copyWithContext(ctx, tempFile, in)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, target); err != nil {
		os.Remove(tempName)
		return err
	}

	modTime := info.ModTime()
	if err := os.Chtimes(target, modTime, modTime); err != nil {
		return err
	}
	return nil
}

// Relative 将绝对缓存路径表示为相对 loras 根目录的 URL 风格路径。
func (s *Store) Relative(target string) (string, error) {
	rel, err := filepath.Rel(s.root, target)
	if err != nil {
		return "", fmt.Errorf("relativize cache path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func (s *Store) lockEntry(locator Locator) func() {
	key := locator.RepoID + "::" + locator.Name
	s.mu.Lock()
	lock := s.locks[key]
	if lock == nil {
		lock = &entryLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	var copied int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			w, wErr := dst.Write(buf[:n])
			copied += int64(w)
			if wErr != nil {
				return copied, wErr
			}
			if w < n {
				return copied, io.ErrShortWrite
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return copied, nil
			}
			return copied, err
		}
	}
}
