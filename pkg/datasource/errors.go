package datasource

import (
	"fmt"
	"sort"
	"strings"
)

// LoginError 登录数据源失败。
// 对当前调用是致命错误，不做重试。
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string {
	return "baostock login failed: " + e.Message
}

// NoDataFoundError 查询执行成功但没有匹配到任何数据。
// 对调用方是一种提示性结果，不是故障。
type NoDataFoundError struct {
	Label  string            // 数据类别，仅用于诊断
	Args   map[string]string // 查询参数
	Reason string            // 提供商返回的说明或 "empty result set"
}

func (e *NoDataFoundError) Error() string {
	return fmt.Sprintf("no %s data found (%s): %s", e.Label, formatArgs(e.Args), e.Reason)
}

// DataSourceError 提供商报告了真实故障，或发生了未预期的错误。
// 未分类的错误永远不会穿透到调用方，一律包装成本类型。
type DataSourceError struct {
	Label   string
	Args    map[string]string
	Code    string // 提供商错误码，包装未知错误时为空
	Message string
	Cause   error
}

func (e *DataSourceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("baostock error fetching %s data (%s): %s (code: %s)",
			e.Label, formatArgs(e.Args), e.Message, e.Code)
	}
	return fmt.Sprintf("unexpected error fetching %s data (%s): %s",
		e.Label, formatArgs(e.Args), e.Message)
}

func (e *DataSourceError) Unwrap() error {
	return e.Cause
}

// formatArgs 输出稳定有序的参数串，保证日志与错误信息可复现
func formatArgs(args map[string]string) string {
	if len(args) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+args[k])
	}
	return strings.Join(parts, ", ")
}
