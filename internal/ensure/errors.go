package ensure

import (
	"errors"
	"fmt"
)

// 错误分级：参数错误立即失败；配置错误表示宿主环境缺失；
// 下载错误包裹传输层原因；校验错误表示数据完整性问题，与传输失败严格区分。
var (
	// ErrNoLoraRoot 表示既没有显式 lora 根目录，宿主也未配置 loras 类别。
	ErrNoLoraRoot = errors.New("no loras directory configured")

	// ErrNoDownloader 表示当前环境没有可用的下载传输实现。
	ErrNoDownloader = errors.New("download transport unavailable")

	// ErrChecksumMismatch 表示下载（或重下）后的文件摘要仍与期望不符。
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// InvalidArgumentError 提供字段名与原因，便于调用方与 HTTP 层定位非法输入。
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newInvalidArgument(field, reason string) error {
	return InvalidArgumentError{Field: field, Reason: reason}
}

// DownloadError 包裹传输层错误，并保留触发失败的 repo/filename。
type DownloadError struct {
	RepoID   string
	Filename string
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s from %s: %v", e.Filename, e.RepoID, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}
