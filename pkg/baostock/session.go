package baostock

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"

	"ashare/pkg/config"
	"ashare/pkg/datasource"
	"ashare/pkg/logger"
)

// Dialer 会话工厂：每次 Open 建一条独立 TCP 连接并完成登录。
// 并发调用各自持有自己的连接，互不共享登录态。
type Dialer struct {
	cfg config.ProviderConfig
	log *logrus.Entry
}

// NewDialer 创建会话工厂
func NewDialer(cfg config.ProviderConfig) *Dialer {
	return &Dialer{
		cfg: cfg,
		log: logger.WithComponent("BaostockDialer"),
	}
}

// Open 建连并登录。登录失败返回 *datasource.LoginError，连接随即关闭。
func (d *Dialer) Open(ctx context.Context) (datasource.Session, error) {
	nd := net.Dialer{Timeout: d.cfg.DialTimeout}
	raw, err := nd.DialContext(ctx, "tcp", d.cfg.Addr)
	if err != nil {
		return nil, &datasource.LoginError{Message: fmt.Sprintf("dial %s: %v", d.cfg.Addr, err)}
	}

	c := newConn(raw)
	resp, err := c.roundTrip(msgLogin, []string{d.cfg.User, d.cfg.Password, "0"})
	if err != nil {
		_ = c.close()
		return nil, &datasource.LoginError{Message: err.Error()}
	}
	if len(resp) < 2 || resp[0] != "0" {
		_ = c.close()
		msg := "malformed login response"
		if len(resp) >= 2 {
			msg = resp[1]
		}
		d.log.Errorf("login failed: %s", msg)
		return nil, &datasource.LoginError{Message: msg}
	}

	userID := d.cfg.User
	if len(resp) >= 3 && resp[2] != "" {
		userID = resp[2]
	}

	d.log.Debug("baostock login ok")
	return &Session{conn: c, userID: userID, log: d.log}, nil
}

// Session 一次已登录的会话，对应一条连接
type Session struct {
	conn   *conn
	userID string
	log    *logrus.Entry
}

// Close 登出并关闭连接。登出报文尽力而为，连接一定会关。
func (s *Session) Close() error {
	if _, err := s.conn.roundTrip(msgLogout, []string{s.userID}); err != nil {
		s.log.Debugf("logout round trip failed: %v", err)
	}
	return s.conn.close()
}

func (s *Session) query(msgType string, params ...string) (datasource.Cursor, error) {
	return newResultSet(s, msgType, params)
}

func (s *Session) QueryHistoryKData(code, fields, startDate, endDate, frequency, adjustFlag string) (datasource.Cursor, error) {
	return s.query(msgQueryHistoryKData, code, fields, startDate, endDate, frequency, adjustFlag)
}

func (s *Session) QueryStockBasic(code string) (datasource.Cursor, error) {
	return s.query(msgQueryStockBasic, code)
}

func (s *Session) QueryDividendData(code, year, yearType string) (datasource.Cursor, error) {
	return s.query(msgQueryDividend, code, year, yearType)
}

func (s *Session) QueryAdjustFactor(code, startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryAdjustFactor, code, startDate, endDate)
}

func (s *Session) QueryProfitData(code, year string, quarter int) (datasource.Cursor, error) {
	return s.query(msgQueryProfit, code, year, strconv.Itoa(quarter))
}

func (s *Session) QueryOperationData(code, year string, quarter int) (datasource.Cursor, error) {
	return s.query(msgQueryOperation, code, year, strconv.Itoa(quarter))
}

func (s *Session) QueryGrowthData(code, year string, quarter int) (datasource.Cursor, error) {
	return s.query(msgQueryGrowth, code, year, strconv.Itoa(quarter))
}

func (s *Session) QueryBalanceData(code, year string, quarter int) (datasource.Cursor, error) {
	return s.query(msgQueryBalance, code, year, strconv.Itoa(quarter))
}

func (s *Session) QueryCashFlowData(code, year string, quarter int) (datasource.Cursor, error) {
	return s.query(msgQueryCashFlow, code, year, strconv.Itoa(quarter))
}

func (s *Session) QueryDupontData(code, year string, quarter int) (datasource.Cursor, error) {
	return s.query(msgQueryDupont, code, year, strconv.Itoa(quarter))
}

func (s *Session) QueryPerformanceExpressReport(code, startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryPerfExpress, code, startDate, endDate)
}

func (s *Session) QueryForecastReport(code, startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryForecast, code, startDate, endDate)
}

func (s *Session) QueryStockIndustry(code, date string) (datasource.Cursor, error) {
	return s.query(msgQueryStockIndustry, code, date)
}

func (s *Session) QuerySZ50Stocks(date string) (datasource.Cursor, error) {
	return s.query(msgQuerySZ50, date)
}

func (s *Session) QueryHS300Stocks(date string) (datasource.Cursor, error) {
	return s.query(msgQueryHS300, date)
}

func (s *Session) QueryZZ500Stocks(date string) (datasource.Cursor, error) {
	return s.query(msgQueryZZ500, date)
}

func (s *Session) QueryTradeDates(startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryTradeDates, startDate, endDate)
}

func (s *Session) QueryAllStock(day string) (datasource.Cursor, error) {
	return s.query(msgQueryAllStock, day)
}

func (s *Session) QueryDepositRateData(startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryDepositRate, startDate, endDate)
}

func (s *Session) QueryLoanRateData(startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryLoanRate, startDate, endDate)
}

func (s *Session) QueryRequiredReserveRatioData(startDate, endDate, yearType string) (datasource.Cursor, error) {
	return s.query(msgQueryReserveRatio, startDate, endDate, yearType)
}

func (s *Session) QueryMoneySupplyDataMonth(startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryMoneyMonth, startDate, endDate)
}

func (s *Session) QueryMoneySupplyDataYear(startDate, endDate string) (datasource.Cursor, error) {
	return s.query(msgQueryMoneyYear, startDate, endDate)
}

var (
	_ datasource.SessionFactory = (*Dialer)(nil)
	_ datasource.Session        = (*Session)(nil)
)
