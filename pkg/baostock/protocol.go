// Package baostock 实现 Baostock 行情服务器的有线协议客户端。
//
// 协议是一套自定义的 TCP 报文格式：定宽报文头（版本、消息类型、报文体长度），
// 报文体内字段用 0x01 分隔，结尾带 CRC32 校验；查询响应的报文体可能经过
// zlib 压缩，文本采用 GBK 编码。查询结果按页返回，游标在读尽当前页后
// 自动请求下一页。
package baostock

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
)

const (
	// clientVersion 客户端协议版本号
	clientVersion = "1.0.3"

	// delimiter 报文体内的字段分隔符
	delimiter = "\x01"

	// rowSep / cellSep 查询结果中行与单元格的分隔符
	rowSep  = "\x02"
	cellSep = "\x03"

	// headerLen 报文头定宽长度：版本(8) + 消息类型(10) + 报文体长度(10)
	headerLen = 28

	// defaultPerPage 每页行数，服务端上限
	defaultPerPage = 10000
)

// 请求消息类型
const (
	msgLogin  = "10001001"
	msgLogout = "10001002"

	msgQueryHistoryKData  = "20000010"
	msgQueryStockBasic    = "20000021"
	msgQueryDividend      = "20000022"
	msgQueryAdjustFactor  = "20000023"
	msgQueryProfit        = "20000030"
	msgQueryOperation     = "20000031"
	msgQueryGrowth        = "20000032"
	msgQueryBalance       = "20000033"
	msgQueryCashFlow      = "20000034"
	msgQueryDupont        = "20000035"
	msgQueryPerfExpress   = "20000036"
	msgQueryForecast      = "20000037"
	msgQueryStockIndustry = "20000040"
	msgQuerySZ50          = "20000041"
	msgQueryHS300         = "20000042"
	msgQueryZZ500         = "20000043"
	msgQueryTradeDates    = "20000050"
	msgQueryAllStock      = "20000051"
	msgQueryDepositRate   = "20000060"
	msgQueryLoanRate      = "20000061"
	msgQueryReserveRatio  = "20000062"
	msgQueryMoneyMonth    = "20000063"
	msgQueryMoneyYear     = "20000064"
)

// encodeRequest 组装一条完整请求报文：
// 头(28字节) + 体 + 0x01 + CRC32(头+体) + 换行
func encodeRequest(msgType string, fields []string) []byte {
	body := strings.Join(fields, delimiter)
	header := fmt.Sprintf("%-8s%-10s%010d", clientVersion, msgType, len(body))
	payload := header + body
	crc := crc32.ChecksumIEEE([]byte(payload))
	return []byte(payload + delimiter + strconv.FormatUint(uint64(crc), 10) + "\n")
}

// parseHeader 解析定宽报文头，返回消息类型与报文体长度
func parseHeader(header []byte) (msgType string, bodyLen int, err error) {
	if len(header) != headerLen {
		return "", 0, fmt.Errorf("short header: %d bytes", len(header))
	}
	msgType = strings.TrimSpace(string(header[8:18]))
	bodyLen, err = strconv.Atoi(strings.TrimSpace(string(header[18:28])))
	if err != nil {
		return "", 0, fmt.Errorf("malformed body length %q: %w", header[18:28], err)
	}
	if bodyLen < 0 {
		return "", 0, fmt.Errorf("negative body length %d", bodyLen)
	}
	return msgType, bodyLen, nil
}

// parseRows 把查询响应中的数据段拆成行列
func parseRows(data string) [][]string {
	if data == "" {
		return nil
	}
	lines := strings.Split(data, rowSep)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, cellSep))
	}
	return rows
}
