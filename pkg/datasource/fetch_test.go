package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCursor 预置好状态与行数据的游标
type fakeCursor struct {
	code   string
	msg    string
	fields []string
	rows   [][]string
	err    error

	idx int
}

func (c *fakeCursor) ErrorCode() string { return c.code }
func (c *fakeCursor) ErrorMsg() string  { return c.msg }
func (c *fakeCursor) Fields() []string  { return c.fields }
func (c *fakeCursor) Err() error        { return c.err }

func (c *fakeCursor) Next() bool {
	if c.err != nil || c.idx >= len(c.rows) {
		return false
	}
	c.idx++
	return true
}

func (c *fakeCursor) Row() []string { return c.rows[c.idx-1] }

// fakeSession 只关心 Close 的调用情况，查询方法由测试闭包直接提供游标
type fakeSession struct {
	Session
	closed   bool
	closeErr error
}

func (s *fakeSession) Close() error {
	s.closed = true
	return s.closeErr
}

type fakeFactory struct {
	session *fakeSession
	openErr error
	opens   int
}

func (f *fakeFactory) Open(ctx context.Context) (Session, error) {
	f.opens++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.session, nil
}

func TestFetchSuccess(t *testing.T) {
	cur := &fakeCursor{
		code:   "0",
		msg:    "success",
		fields: []string{"date", "close"},
		rows:   [][]string{{"2024-01-02", "10.5"}, {"2024-01-03", "10.7"}},
	}
	factory := &fakeFactory{session: &fakeSession{}}

	table, err := Fetch(context.Background(), factory, "k_data", nil,
		func(s Session) (Cursor, error) { return cur, nil })

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "close"}, table.Columns)
	assert.Equal(t, 2, table.Len())
	assert.True(t, factory.session.closed, "会话用完必须关闭")
}

func TestFetchEmpty(t *testing.T) {
	tests := []struct {
		name string
		cur  *fakeCursor
	}{
		{"提供商消息标记无数据", &fakeCursor{code: "10001", msg: "no record found"}},
		{"提供商状态码标记无数据", &fakeCursor{code: "10002", msg: "error"}},
		{"名义成功但零行", &fakeCursor{code: "0", msg: "success", fields: []string{"date"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := &fakeFactory{session: &fakeSession{}}
			table, err := Fetch(context.Background(), factory, "dividend", map[string]string{"code": "sh.600000"},
				func(s Session) (Cursor, error) { return tt.cur, nil })

			assert.Nil(t, table)
			var noData *NoDataFoundError
			require.ErrorAs(t, err, &noData)
			assert.Equal(t, "dividend", noData.Label)
			assert.True(t, factory.session.closed)
		})
	}
}

func TestFetchProviderError(t *testing.T) {
	cur := &fakeCursor{code: "10004", msg: "system error"}
	factory := &fakeFactory{session: &fakeSession{}}

	_, err := Fetch(context.Background(), factory, "profit", nil,
		func(s Session) (Cursor, error) { return cur, nil })

	var dsErr *DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "10004", dsErr.Code)
	assert.Equal(t, "system error", dsErr.Message)
	assert.True(t, factory.session.closed)
}

func TestFetchLoginFailure(t *testing.T) {
	factory := &fakeFactory{openErr: &LoginError{Message: "network unreachable"}}

	_, err := Fetch(context.Background(), factory, "k_data", nil,
		func(s Session) (Cursor, error) {
			t.Fatal("登录失败后不应执行查询")
			return nil, nil
		})

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
}

func TestFetchUnknownOpenError(t *testing.T) {
	// 工厂返回的未分类错误也要以登录失败呈现
	factory := &fakeFactory{openErr: errors.New("dial tcp: connection refused")}

	_, err := Fetch(context.Background(), factory, "k_data", nil,
		func(s Session) (Cursor, error) { return nil, nil })

	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Contains(t, loginErr.Message, "connection refused")
}

func TestFetchQueryErrorWrapped(t *testing.T) {
	factory := &fakeFactory{session: &fakeSession{}}
	cause := errors.New("write: broken pipe")

	_, err := Fetch(context.Background(), factory, "trade_dates", nil,
		func(s Session) (Cursor, error) { return nil, cause })

	var dsErr *DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Empty(t, dsErr.Code, "包装未知错误时不应有提供商错误码")
	assert.ErrorIs(t, err, cause, "原始错误必须可追溯")
	assert.True(t, factory.session.closed, "查询出错会话也必须关闭")
}

func TestFetchCursorTransportError(t *testing.T) {
	cur := &fakeCursor{code: "0", msg: "success", err: errors.New("read: connection reset")}
	factory := &fakeFactory{session: &fakeSession{}}

	_, err := Fetch(context.Background(), factory, "all_stock", nil,
		func(s Session) (Cursor, error) { return cur, nil })

	var dsErr *DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.True(t, factory.session.closed)
}

func TestWithSessionCloseErrorDoesNotMask(t *testing.T) {
	session := &fakeSession{closeErr: errors.New("close failed")}
	factory := &fakeFactory{session: session}

	err := WithSession(context.Background(), factory, func(s Session) error {
		return nil
	})

	assert.NoError(t, err, "关闭失败只记日志，不作为错误返回")
	assert.True(t, session.closed)
}
