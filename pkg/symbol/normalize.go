// Package symbol 股票代码归一化。
// 把常见的几种 A 股代码写法统一成 Baostock 格式（'sh.600000' / 'sz.000001'）。
package symbol

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// sh600000 / sh.600000 / SH600000
	prefixPattern = regexp.MustCompile(`^(?i)(sh|sz)\.?(\d{6})$`)

	// 600000.SH / 000001sz
	suffixPattern = regexp.MustCompile(`^(\d{6})\.?(?i)(sh|sz)$`)

	// 裸六位数字
	barePattern = regexp.MustCompile(`^\d{6}$`)
)

// Normalize 把股票代码归一化为 'sh.600000' 形式。
//
// 规则：
//   - 裸六位数字按首位判断交易所：'6' 开头归上海，其余归深圳；
//   - 接受 '600000.SH'、'sh600000'、'sh.600000' 等写法，统一小写加点；
//   - 已归一化的输入原样通过（幂等）。
//
// 不认识的形状返回错误。
func Normalize(code string) (string, error) {
	raw := strings.TrimSpace(code)
	if raw == "" {
		return "", fmt.Errorf("stock code is required")
	}

	if m := prefixPattern.FindStringSubmatch(raw); m != nil {
		return strings.ToLower(m[1]) + "." + m[2], nil
	}

	if m := suffixPattern.FindStringSubmatch(raw); m != nil {
		return strings.ToLower(m[2]) + "." + m[1], nil
	}

	if barePattern.MatchString(raw) {
		exchange := "sz"
		if strings.HasPrefix(raw, "6") {
			exchange = "sh"
		}
		return exchange + "." + raw, nil
	}

	return "", fmt.Errorf("unsupported stock code format %q (examples: 'sh.600000', '600000', '000001.SZ')", code)
}
