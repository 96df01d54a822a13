package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleTW = "zh-TW"
	LocaleEN = "en-US"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleZH

var catalogs = map[string]map[string]string{
	LocaleZH: zhCN,
	LocaleTW: zhTW,
	LocaleEN: enUS,
}

// NormalizeLocale 归一化语言标识，不认识的值回退默认语言。
func NormalizeLocale(locale string) string {
	normalized := strings.TrimSpace(locale)
	if normalized == "" {
		return DefaultLocale
	}
	lower := strings.ToLower(normalized)
	switch {
	case strings.HasPrefix(lower, "zh-tw"), strings.HasPrefix(lower, "zh-hant"):
		return LocaleTW
	case strings.HasPrefix(lower, "zh"):
		return LocaleZH
	case strings.HasPrefix(lower, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// ResolveLocale 从请求中解析语言：query 参数 lang 优先，其次 Accept-Language。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag != "" {
			return NormalizeLocale(tag)
		}
	}
	return DefaultLocale
}

// T 按语言查找文案，缺失时回退默认语言，再缺失时原样返回 key。
func T(locale, key string) string {
	normalized := NormalizeLocale(locale)
	if catalog, ok := catalogs[normalized]; ok {
		if message, ok := catalog[key]; ok {
			return message
		}
	}
	if normalized != DefaultLocale {
		if message, ok := catalogs[DefaultLocale][key]; ok {
			return message
		}
	}
	return key
}

// Sprintf 按语言查找文案并格式化参数。
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
