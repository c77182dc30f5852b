package hub

import (
	"os"
	"strings"
)

// DefaultEndpoint 是官方 Hugging Face Hub 地址。
const DefaultEndpoint = "https://huggingface.co"

// tokenEnvVars 按优先级列出 token 的环境变量回退顺序。
var tokenEnvVars = []string{"HF_TOKEN", "HUGGINGFACE_TOKEN"}

// ResolveToken 返回生效的访问令牌：显式值优先，其次按固定顺序读取环境变量，
// 全部为空时返回空串（匿名访问）。
func ResolveToken(explicit string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	for _, name := range tokenEnvVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}

// ResolveEndpoint 返回生效的 Hub 端点：配置值优先，其次 HF_ENDPOINT 环境变量，
// 最后回退到官方地址。末尾斜杠会被剥掉，方便后续拼接。
func ResolveEndpoint(configured string) string {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return strings.TrimRight(trimmed, "/")
	}
	if env := strings.TrimSpace(os.Getenv("HF_ENDPOINT")); env != "" {
		return strings.TrimRight(env, "/")
	}
	return DefaultEndpoint
}
