package baostock

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer 按页码应答查询请求，页码不在表内时直接断开连接
func pagedServer(t *testing.T, server net.Conn, pages map[string]string) {
	t.Helper()
	go func() {
		defer server.Close()
		r := bufio.NewReader(server)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			reqType, _, err := parseHeader([]byte(line[:headerLen]))
			if err != nil {
				return
			}
			// 请求体布局：userID, 页码, 每页行数, 查询参数..., CRC
			fields := strings.Split(strings.TrimSuffix(line[headerLen:], "\n"), delimiter)
			if len(fields) < 3 {
				return
			}
			body, ok := pages[fields[1]]
			if !ok {
				return
			}
			header := fmt.Sprintf("%-8s%-10s%010d", clientVersion, reqType, len(body))
			if _, err := server.Write([]byte(header + body)); err != nil {
				return
			}
		}
	}()
}

func pipeSession(t *testing.T, pages map[string]string) *Session {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close() })
	pagedServer(t, server, pages)
	return &Session{conn: newConn(client), userID: "user_42"}
}

func queryBody(errCode, errMsg, page, hasNext, fields string, rows ...string) string {
	return strings.Join([]string{errCode, errMsg, page, hasNext, fields, strings.Join(rows, rowSep)}, delimiter)
}

func TestResultSetPagination(t *testing.T) {
	s := pipeSession(t, map[string]string{
		"1": queryBody("0", "success", "1", "1", "date,close",
			"2024-05-10"+cellSep+"100.5",
			"2024-05-11"+cellSep+"101.2"),
		"2": queryBody("0", "success", "2", "0", "date,close",
			"2024-05-12"+cellSep+"102.0"),
	})

	rs, err := newResultSet(s, msgQueryHistoryKData, []string{"sh.600000", "date,close"})
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "close"}, rs.Fields())

	var got [][]string
	for rs.Next() {
		got = append(got, rs.Row())
	}
	require.NoError(t, rs.Err())

	assert.Equal(t, [][]string{
		{"2024-05-10", "100.5"},
		{"2024-05-11", "101.2"},
		{"2024-05-12", "102.0"},
	}, got, "两页数据应被完整读出")
	assert.Equal(t, 2, rs.pageNum, "翻页应自动请求第二页")
	assert.Equal(t, "0", rs.ErrorCode())
	assert.False(t, rs.Next(), "读尽后不应再前进")
}

func TestResultSetPaginationErrorStatus(t *testing.T) {
	s := pipeSession(t, map[string]string{
		"1": queryBody("0", "success", "1", "1", "date,close",
			"2024-05-10"+cellSep+"100.5",
			"2024-05-11"+cellSep+"101.2"),
		"2": "10001" + delimiter + "network error",
	})

	rs, err := newResultSet(s, msgQueryHistoryKData, []string{"sh.600000", "date,close"})
	require.NoError(t, err)

	var got [][]string
	for rs.Next() {
		got = append(got, rs.Row())
	}

	assert.Len(t, got, 2, "第一页的行仍应全部返回")
	require.NoError(t, rs.Err(), "服务端状态码异常不是传输错误")
	assert.Equal(t, "10001", rs.ErrorCode(), "翻页中途的错误状态应保留给上层判定")
	assert.Equal(t, "network error", rs.ErrorMsg())
}

func TestResultSetPaginationTransportFailure(t *testing.T) {
	s := pipeSession(t, map[string]string{
		"1": queryBody("0", "success", "1", "1", "date,close",
			"2024-05-10"+cellSep+"100.5"),
	})

	rs, err := newResultSet(s, msgQueryHistoryKData, []string{"sh.600000", "date,close"})
	require.NoError(t, err)

	var got [][]string
	for rs.Next() {
		got = append(got, rs.Row())
	}

	assert.Len(t, got, 1)
	assert.Error(t, rs.Err(), "连接中断应通过 Err 上报")
	assert.False(t, rs.Next())
}
