package baostock

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func gbkBytes(t *testing.T, text string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(text))
	require.NoError(t, err)
	return out
}

func TestDecodeBody(t *testing.T) {
	t.Run("纯ASCII原样通过", func(t *testing.T) {
		out, err := decodeBody([]byte("0\x01success"))
		require.NoError(t, err)
		assert.Equal(t, "0\x01success", out)
	})

	t.Run("GBK转UTF-8", func(t *testing.T) {
		out, err := decodeBody(gbkBytes(t, "浦发银行"))
		require.NoError(t, err)
		assert.Equal(t, "浦发银行", out)
	})

	t.Run("zlib压缩的GBK报文体", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		_, err := zw.Write(gbkBytes(t, "0\x01success\x01贵州茅台"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		require.Equal(t, byte(0x78), buf.Bytes()[0], "zlib 魔数")

		out, err := decodeBody(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "0\x01success\x01贵州茅台", out)
	})

	t.Run("损坏的zlib流报错", func(t *testing.T) {
		_, err := decodeBody([]byte{0x78, 0x9c, 0xff, 0xff, 0xff})
		assert.Error(t, err)
	})
}

// TestConnRoundTrip 用 net.Pipe 模拟服务器完成一次完整收发
func TestConnRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	go func() {
		defer server.Close()
		r := bufio.NewReader(server)

		// 请求以换行结束
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		reqType, _, err := parseHeader([]byte(line[:headerLen]))
		if err != nil || reqType != msgLogin {
			return
		}

		body := "0" + delimiter + "success" + delimiter + "user_42"
		header := fmt.Sprintf("%-8s%-10s%010d", clientVersion, msgLogin, len(body))
		_, _ = server.Write([]byte(header + body))
	}()

	c := newConn(client)
	resp, err := c.roundTrip(msgLogin, []string{"anonymous", "123456", "0"})
	require.NoError(t, err)

	require.Len(t, resp, 3)
	assert.Equal(t, "0", resp[0])
	assert.Equal(t, "success", resp[1])
	assert.Equal(t, "user_42", resp[2])
}
