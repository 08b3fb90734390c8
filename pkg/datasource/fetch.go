package datasource

import (
	"context"
	"errors"

	"ashare/pkg/logger"
)

// Fetch 通用取数模板：开会话、执行查询、读尽游标、分类结局。
// 所有数据类别共用这一份序列，label 只用于日志与错误信息。
//
// 结局映射：
//   - 成功：返回以游标列名为准的 Table（绝不返回零行的成功结果）；
//   - 空结果：返回 *NoDataFoundError；
//   - 提供商故障：返回 *DataSourceError；
//   - 其他任何错误：包装为 *DataSourceError 后返回，保留原始错误。
func Fetch(ctx context.Context, factory SessionFactory, label string, args map[string]string, query QueryFunc) (*Table, error) {
	log := logger.WithComponent("datasource")
	log.Debugf("fetching %s data (%s)", label, formatArgs(args))

	var table *Table
	err := WithSession(ctx, factory, func(s Session) error {
		cur, err := query(s)
		if err != nil {
			return err
		}

		var rows [][]string
		for cur.Next() {
			rows = append(rows, cur.Row())
		}
		if err := cur.Err(); err != nil {
			return err
		}

		outcome := Classify(cur.ErrorCode(), cur.ErrorMsg(), rows)
		switch outcome.Kind {
		case OutcomeEmpty:
			log.Warnf("no %s data found (%s): %s", label, formatArgs(args), outcome.Reason)
			return &NoDataFoundError{Label: label, Args: args, Reason: outcome.Reason}
		case OutcomeProviderError:
			log.Errorf("baostock error (%s): %s (code: %s)", label, outcome.Message, outcome.Code)
			return &DataSourceError{Label: label, Args: args, Code: outcome.Code, Message: outcome.Message}
		}

		// 列名以读尽后的游标为准，不用调用方的字段请求
		table = &Table{Columns: cur.Fields(), Rows: outcome.Rows}
		return nil
	})
	if err != nil {
		return nil, wrapUnknown(label, args, err)
	}

	log.Debugf("retrieved %d %s records", table.Len(), label)
	return table, nil
}

// wrapUnknown 保证调用方只会观测到四类已知错误；
// 其余错误一律包装成 *DataSourceError，消息原样保留。
func wrapUnknown(label string, args map[string]string, err error) error {
	var loginErr *LoginError
	var noData *NoDataFoundError
	var dsErr *DataSourceError
	if errors.As(err, &loginErr) || errors.As(err, &noData) || errors.As(err, &dsErr) {
		return err
	}
	logger.WithComponent("datasource").Errorf("unexpected error fetching %s data: %v", label, err)
	return &DataSourceError{Label: label, Args: args, Message: err.Error(), Cause: err}
}
