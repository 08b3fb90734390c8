package baostock

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"net"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// conn 一条与行情服务器的 TCP 连接，串行收发报文。
// 连接不支持并发复用：一次请求必须读完响应才能发下一条。
type conn struct {
	raw net.Conn
	r   *bufio.Reader
}

func newConn(raw net.Conn) *conn {
	return &conn{raw: raw, r: bufio.NewReader(raw)}
}

// send 发送一条请求报文
func (c *conn) send(msgType string, fields []string) error {
	if _, err := c.raw.Write(encodeRequest(msgType, fields)); err != nil {
		return fmt.Errorf("write %s request: %w", msgType, err)
	}
	return nil
}

// recv 读取一条响应报文并拆出报文体字段。
// 压缩的报文体先解 zlib 再解 GBK。
func (c *conn) recv() (msgType string, fields []string, err error) {
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(c.r, header); err != nil {
		return "", nil, fmt.Errorf("read header: %w", err)
	}

	msgType, bodyLen, err := parseHeader(header)
	if err != nil {
		return "", nil, err
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}

	text, err := decodeBody(body)
	if err != nil {
		return "", nil, err
	}
	return msgType, strings.Split(text, delimiter), nil
}

// roundTrip 发送请求并等待响应
func (c *conn) roundTrip(msgType string, fields []string) ([]string, error) {
	if err := c.send(msgType, fields); err != nil {
		return nil, err
	}
	_, resp, err := c.recv()
	return resp, err
}

func (c *conn) close() error {
	return c.raw.Close()
}

// decodeBody 报文体解码：zlib 魔数开头的先解压，然后 GBK 转 UTF-8
func decodeBody(body []byte) (string, error) {
	if len(body) >= 2 && body[0] == 0x78 {
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("zlib init: %w", err)
		}
		defer zr.Close()
		body, err = io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("zlib read: %w", err)
		}
	}

	decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), body)
	if err != nil {
		return "", fmt.Errorf("gbk decode: %w", err)
	}
	return string(decoded), nil
}
