// Package integrity 提供托管权重文件的 SHA-256 校验能力。
// 校验始终按固定块流式读取，避免一次性载入大文件。
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// 每次读取 1 MiB，权重文件普遍在数百 MiB 量级。
const chunkSize = 1 << 20

// FileSHA256 流式计算文件的 SHA-256，并返回小写十六进制摘要。
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	digest := sha256.New()
	if _, err := io.CopyBuffer(digest, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("read file for checksum: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// Matches 判断文件摘要是否与期望值一致，比较不区分大小写。
// 文件不可读时返回 I/O 错误。
func Matches(path, expected string) (bool, error) {
	actual, err := FileSHA256(path)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(actual, strings.TrimSpace(expected)), nil
}
