// Package ensure 实现幂等的 “确保权重文件已缓存” 编排：判断是否需要下载、
// 调用传输层、安装到规范路径并做完整性校验，最终返回相对 loras 根目录的路径。
package ensure

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/loan-mgt/hf-lora-loader/internal/cache"
	"github.com/loan-mgt/hf-lora-loader/internal/folders"
	"github.com/loan-mgt/hf-lora-loader/internal/hub"
	"github.com/loan-mgt/hf-lora-loader/internal/integrity"
)

// Request 汇总一次 ensure 调用的全部输入。RepoID 与 Filename 必填，
// 其余为可选项；ResumeDownload 为 nil 时默认开启续传。
type Request struct {
	RepoID         string
	Filename       string
	Revision       string
	SaveAs         string
	Token          string
	ForceDownload  bool
	ResumeDownload *bool
	ExpectedSHA256 string
	LoraRoot       string
	Downloader     hub.DownloadFunc
}

// Service 持有默认协作方：宿主目录注册表、下载传输与日志器。
// 单次调用可通过 Request 覆盖下载函数与根目录。
type Service struct {
	folders  *folders.Registry
	download hub.DownloadFunc
	logger   *logrus.Logger
}

// NewService 构造 ensure 编排服务，所有参数均允许为 nil，
// 缺失的能力在调用时以配置错误暴露。
func NewService(reg *folders.Registry, download hub.DownloadFunc, logger *logrus.Logger) *Service {
	return &Service{
		folders:  reg,
		download: download,
		logger:   logger,
	}
}

// Ensure 确保请求的权重文件存在于本地缓存并通过校验，返回相对路径
// （正斜杠分隔）。已缓存且校验通过时不触发任何网络操作。
func (s *Service) Ensure(ctx context.Context, req Request) (string, error) {
	repoID := strings.TrimSpace(req.RepoID)
	if repoID == "" {
		return "", newInvalidArgument("repo_id", "a Hugging Face repo_id is required")
	}
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		return "", newInvalidArgument("filename", "a filename inside the repository is required")
	}

	root, err := s.resolveRoot(req.LoraRoot)
	if err != nil {
		return "", err
	}
	store, err := cache.NewStore(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoLoraRoot, err)
	}

	finalName := strings.TrimSpace(req.SaveAs)
	if finalName == "" {
		finalName = filename
	}
	locator := cache.Locator{RepoID: repoID, Name: finalName}

	target, err := store.EnsureDir(locator)
	if err != nil {
		return "", err
	}

	expected := strings.ToLower(strings.TrimSpace(req.ExpectedSHA256))

	exists, err := fileExists(target)
	if err != nil {
		return "", err
	}

	needsDownload := req.ForceDownload || !exists
	if expected != "" && exists && !needsDownload {
		ok, err := integrity.Matches(target, expected)
		if err != nil {
			return "", err
		}
		// 已有文件摘要不符时重下一次，而不是立即失败。
		needsDownload = !ok
	}

	if needsDownload {
		if err := s.fetch(ctx, store, locator, repoID, filename, req); err != nil {
			return "", err
		}
		if expected != "" {
			ok, err := integrity.Matches(target, expected)
			if err != nil {
				return "", err
			}
			if !ok {
				return "", fmt.Errorf("downloaded file %s from %s: %w", filename, repoID, ErrChecksumMismatch)
			}
		}
	}

	rel, err := store.Relative(target)
	if err != nil {
		return "", err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"action":    "ensure",
			"repo":      repoID,
			"filename":  filename,
			"cache_hit": !needsDownload,
			"path":      rel,
		}).Info("lora file ready")
	}
	return rel, nil
}

// fetch 调用下载传输，并在返回路径与规范路径不一致时执行安装拷贝。
func (s *Service) fetch(ctx context.Context, store *cache.Store, locator cache.Locator, repoID, filename string, req Request) error {
	download := req.Downloader
	if download == nil {
		download = s.download
	}
	if download == nil {
		return ErrNoDownloader
	}

	resume := true
	if req.ResumeDownload != nil {
		resume = *req.ResumeDownload
	}

	downloaded, err := download(ctx, hub.Request{
		RepoID:         repoID,
		Filename:       filename,
		Revision:       strings.TrimSpace(req.Revision),
		Token:          hub.ResolveToken(req.Token),
		TargetDir:      store.RepoDir(repoID),
		ForceDownload:  req.ForceDownload,
		ResumeDownload: resume,
	})
	if err != nil {
		return &DownloadError{RepoID: repoID, Filename: filename, Err: err}
	}

	return store.Install(ctx, downloaded, locator)
}

// resolveRoot 解析生效的 loras 根目录：显式覆盖优先，否则取宿主配置首项。
func (s *Service) resolveRoot(override string) (string, error) {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed, nil
	}
	if s.folders != nil {
		if root, ok := s.folders.Primary(folders.CategoryLoras); ok {
			return root, nil
		}
	}
	return "", ErrNoLoraRoot
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat cached file: %w", err)
}
