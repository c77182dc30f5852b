package config

import (
	"errors"
	"net/url"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return invalidGlobal("ListenPort", "必须在 1-65535")
	}
	if g.DownloadTimeout.DurationValue() <= 0 {
		return invalidGlobal("DownloadTimeout", "必须大于 0")
	}
	if g.LogMaxSize < 0 {
		return invalidGlobal("LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return invalidGlobal("LogMaxBackups", "不能为负数")
	}
	if err := validateEndpoint(g.Endpoint); err != nil {
		return err
	}

	// Folder 允许为空：一次性 CLI 可以用 -lora-root 显式指定根目录。
	seen := map[string]struct{}{}
	for i := range c.Folders {
		folder := &c.Folders[i]
		category := strings.ToLower(strings.TrimSpace(folder.Category))
		if category == "" {
			return invalidFolder("", "Category", "不能为空")
		}
		if _, exists := seen[category]; exists {
			return invalidFolder(category, "Category", "重复")
		}
		seen[category] = struct{}{}
		folder.Category = category

		hasPath := false
		for _, p := range folder.Paths {
			if strings.TrimSpace(p) != "" {
				hasPath = true
				break
			}
		}
		if !hasPath {
			return invalidFolder(category, "Paths", "至少需要一个目录")
		}
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return invalidGlobal("Endpoint", "必须是合法的 URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return invalidGlobal("Endpoint", "仅支持 http/https")
	}
	return nil
}
