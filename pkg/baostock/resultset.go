package baostock

import (
	"fmt"
	"strconv"
	"strings"
)

// resultSet 查询结果游标。持有当前页的行，读尽后用原请求参数
// 带上递增的页码向服务器请求下一页，对调用方完全透明。
// 状态码与状态消息在首个响应返回后即有效；列名以服务器返回为准。
type resultSet struct {
	s       *Session
	msgType string
	params  []string // 页码之后的请求参数，翻页时原样重发

	errCode string
	errMsg  string
	fields  []string

	rows    [][]string
	pos     int
	pageNum int
	hasNext bool

	cur []string
	err error
}

// newResultSet 发起首次查询并解析第一页
func newResultSet(s *Session, msgType string, params []string) (*resultSet, error) {
	rs := &resultSet{s: s, msgType: msgType, params: params, pageNum: 1}
	if err := rs.fetchPage(1); err != nil {
		return nil, err
	}
	return rs, nil
}

// fetchPage 请求第 page 页并替换当前页内容
func (rs *resultSet) fetchPage(page int) error {
	req := append([]string{rs.s.userID, strconv.Itoa(page), strconv.Itoa(defaultPerPage)}, rs.params...)
	resp, err := rs.s.conn.roundTrip(rs.msgType, req)
	if err != nil {
		return err
	}
	if len(resp) < 2 {
		return fmt.Errorf("malformed %s response: %d fields", rs.msgType, len(resp))
	}

	rs.errCode = resp[0]
	rs.errMsg = resp[1]
	rs.pageNum = page
	rs.rows = nil
	rs.pos = 0
	rs.hasNext = false

	// 响应体布局：errorCode, errorMsg, curPageNum, hasNext, 列名串, 数据段
	if rs.errCode == "0" && len(resp) >= 6 {
		rs.hasNext = resp[3] == "1"
		if resp[4] != "" {
			rs.fields = strings.Split(resp[4], ",")
		}
		rs.rows = parseRows(resp[5])
	}
	return nil
}

func (rs *resultSet) ErrorCode() string { return rs.errCode }
func (rs *resultSet) ErrorMsg() string  { return rs.errMsg }
func (rs *resultSet) Fields() []string  { return rs.fields }
func (rs *resultSet) Row() []string     { return rs.cur }
func (rs *resultSet) Err() error        { return rs.err }

// Next 前进到下一行，必要时请求下一页
func (rs *resultSet) Next() bool {
	if rs.err != nil {
		return false
	}

	for rs.pos >= len(rs.rows) {
		if !rs.hasNext {
			return false
		}
		if err := rs.fetchPage(rs.pageNum + 1); err != nil {
			rs.err = err
			return false
		}
		if rs.errCode != "0" {
			// 翻页途中服务端变卦，终止读取，错误状态留给分类器
			return false
		}
	}

	rs.cur = rs.rows[rs.pos]
	rs.pos++
	return true
}
