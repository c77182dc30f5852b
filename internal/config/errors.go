package config

import "fmt"

// FieldError 标记某个配置项未通过校验，Field 使用 TOML 中的路径写法，
// 方便用户直接对照配置文件修改。
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// invalidGlobal 构造 Global 级配置项的校验错误。
func invalidGlobal(field, reason string) error {
	return FieldError{Field: "Global." + field, Reason: reason}
}

// invalidFolder 构造 Folder 级配置项的校验错误；category 为空表示
// 该条目尚未声明类别。
func invalidFolder(category, field, reason string) error {
	if category == "" {
		return FieldError{Field: "Folder[]." + field, Reason: reason}
	}
	return FieldError{Field: fmt.Sprintf("Folder[%s].%s", category, field), Reason: reason}
}
