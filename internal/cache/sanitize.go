package cache

import "strings"

// SubDir 是所有托管权重在 loras 目录下的专属子目录，
// 与手动下载的文件隔离，避免命名冲突。
const SubDir = "hf_lora_loader"

// SanitizeRepoID 将 "owner/name" 形式的仓库标识转换为单段目录名：
// 先把路径分隔符替换为 "__"，再把空格替换为 "_"。
// 纯函数，任何输入都有确定输出。
func SanitizeRepoID(repoID string) string {
	slug := strings.ReplaceAll(repoID, "/", "__")
	return strings.ReplaceAll(slug, " ", "_")
}
