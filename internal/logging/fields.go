package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// EnsureFields 提供 repo/filename/命中状态字段，供 ensure 请求日志复用。
func EnsureFields(repoID, filename string, cacheHit bool) logrus.Fields {
	return logrus.Fields{
		"repo":      repoID,
		"filename":  filename,
		"cache_hit": cacheHit,
	}
}
