package datasource

import "strings"

// 提供商状态码约定
const (
	// StatusOK 查询成功
	StatusOK = "0"

	// StatusNoData 部分接口用该码表示查不到数据，属于观测到的行为而非文档契约，
	// 消息匹配是首要信号，该码只作兜底
	StatusNoData = "10002"
)

// noRecordPattern 另一部分接口用状态消息表示查不到数据
const noRecordPattern = "no record found"

// OutcomeKind 查询结果的分类
type OutcomeKind int

const (
	// OutcomeSuccess 查询成功且至少有一行数据
	OutcomeSuccess OutcomeKind = iota

	// OutcomeEmpty 查询成功但没有数据
	OutcomeEmpty

	// OutcomeProviderError 提供商报告了真实故障
	OutcomeProviderError
)

// Outcome 分类后的查询结果
type Outcome struct {
	Kind    OutcomeKind
	Rows    [][]string // 仅 OutcomeSuccess 时非空
	Reason  string     // OutcomeEmpty 时的说明
	Code    string     // OutcomeProviderError 时的状态码
	Message string     // OutcomeProviderError 时的状态消息
}

// Classify 按固定顺序把提供商的状态与读取结果映射为三种结局之一：
//
//  1. 状态码非 "0"：除非消息含 "no record found"（不分大小写）或
//     状态码等于 "10002"（两者任一都表示查不到数据），否则判为提供商故障；
//  2. 状态码为 "0" 但没有读到任何行：判为空结果；
//  3. 其余情况判为成功。
//
// 两层检查缺一不可：提供商在不同接口上对"无数据"用哪种信号并不一致，
// 而且名义成功加零行的组合绝不能当成功返回。
func Classify(code, msg string, rows [][]string) Outcome {
	if code != StatusOK {
		if strings.Contains(strings.ToLower(msg), noRecordPattern) || code == StatusNoData {
			return Outcome{Kind: OutcomeEmpty, Reason: msg}
		}
		return Outcome{Kind: OutcomeProviderError, Code: code, Message: msg}
	}

	if len(rows) == 0 {
		return Outcome{Kind: OutcomeEmpty, Reason: "empty result set"}
	}

	return Outcome{Kind: OutcomeSuccess, Rows: rows}
}
