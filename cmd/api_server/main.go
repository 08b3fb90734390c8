package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"ashare/pkg/baostock"
	"ashare/pkg/config"
	"ashare/pkg/datasource"
	"ashare/pkg/datasource/decorators"
	"ashare/pkg/logger"
	"ashare/pkg/marketcalendar"
	"ashare/pkg/symbol"
	"ashare/pkg/tools"
)

var (
	logLevel   = flag.String("log-level", "info", "日志级别 (debug, info, warn, error)")
	logFormat  = flag.String("log-format", "json", "日志格式 (json or text)")
	configPath = flag.String("config", "", "配置文件路径 (例如 /app/config/ashare.yaml)")
	provider   = flag.String("provider", "", "Baostock 服务器地址，格式 host:port")
)

type APIServer struct {
	source   datasource.FinancialDataSource
	calendar *marketcalendar.Engine
	logger   *logrus.Logger
	server   *http.Server
	port     string
}

type TableResponse struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func main() {
	flag.Parse()

	_ = godotenv.Load()

	logger.Init(logger.Config{Level: *logLevel, Format: *logFormat})
	log := logger.GetLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *provider != "" {
		cfg.Provider.Addr = *provider
	}

	gin.SetMode(cfg.Server.Mode)

	apiServer := NewAPIServer(cfg, log)
	if err := apiServer.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start API server")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down API server...")
	apiServer.Stop()
}

func NewAPIServer(cfg *config.Config, log *logrus.Logger) *APIServer {
	dialer := baostock.NewDialer(cfg.Provider)
	var source datasource.FinancialDataSource = datasource.NewBaostockDataSource(dialer)
	if cfg.Breaker.Enabled {
		source = decorators.NewCircuitBreakerSource(source, &decorators.CircuitBreakerConfig{
			Name:        "BaostockSource",
			MaxRequests: cfg.Breaker.MaxRequests,
			Interval:    cfg.Breaker.Interval,
			Timeout:     cfg.Breaker.Timeout,
			ReadyToTrip: cfg.Breaker.ReadyToTrip,
		})
		log.Info("API server circuit breaker enabled")
	}

	return &APIServer{
		source:   source,
		calendar: marketcalendar.NewEngine(source, nil),
		logger:   log,
		port:     cfg.Server.Port,
	}
}

func (s *APIServer) Start() error {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(s.corsMiddleware())

	router.GET("/health", s.healthCheck)

	v1 := router.Group("/api/v1")
	{
		// 个股行情
		v1.GET("/stocks/:code/kdata", s.getKData)
		v1.GET("/stocks/:code/basic", s.getBasicInfo)
		v1.GET("/stocks/:code/dividends", s.getDividends)
		v1.GET("/stocks/:code/adjust-factors", s.getAdjustFactors)

		// 财务报表
		v1.GET("/stocks/:code/financials/:kind", s.getFinancials)
		v1.GET("/stocks/:code/reports/express", s.getExpressReports)
		v1.GET("/stocks/:code/reports/forecast", s.getForecastReports)

		// 行业与指数
		v1.GET("/industry", s.getIndustry)
		v1.GET("/indices/:index/constituents", s.getConstituents)

		// 全市场
		v1.GET("/trade-dates", s.getTradeDates)
		v1.GET("/securities", s.getAllStock)
		v1.GET("/search", s.searchStocks)
		v1.GET("/suspensions", s.getSuspensions)

		// 宏观数据
		v1.GET("/macro/deposit-rate", s.rangeHandler(s.source.GetDepositRateData))
		v1.GET("/macro/loan-rate", s.rangeHandler(s.source.GetLoanRateData))
		v1.GET("/macro/reserve-ratio", s.getReserveRatio)
		v1.GET("/macro/money-supply/month", s.rangeHandler(s.source.GetMoneySupplyDataMonth))
		v1.GET("/macro/money-supply/year", s.rangeHandler(s.source.GetMoneySupplyDataYear))

		// 交易日历
		v1.GET("/calendar/latest", s.getLatestTradingDate)
		v1.GET("/calendar/is-trading-day", s.getIsTradingDay)
		v1.GET("/calendar/previous", s.getPreviousTradingDate)
		v1.GET("/calendar/next", s.getNextTradingDate)
		v1.GET("/calendar/timeframe", s.getTimeframe)

		// 辅助
		v1.GET("/normalize", s.normalizeCode)
	}

	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: router,
	}

	s.logger.WithField("port", s.port).Info("Starting API server...")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	return nil
}

func (s *APIServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to gracefully shutdown server")
	}
}

func (s *APIServer) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *APIServer) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now(),
		"services":  map[string]string{},
	}
	services := health["services"].(map[string]string)

	// 用当天的交易日历做一次轻量探活
	today := time.Now().Format("2006-01-02")
	if _, err := s.source.GetTradeDates(ctx, today, today); err != nil {
		var noData *datasource.NoDataFoundError
		if !errors.As(err, &noData) {
			services["baostock"] = "error: " + err.Error()
			health["status"] = "degraded"
			c.JSON(503, health)
			return
		}
	}
	services["baostock"] = "ok"
	c.JSON(200, health)
}

// respondTable 统一的表格响应与错误映射。
func (s *APIServer) respondTable(c *gin.Context, table *datasource.Table, err error) {
	if err != nil {
		var noData *datasource.NoDataFoundError
		var loginErr *datasource.LoginError
		var srcErr *datasource.DataSourceError
		switch {
		case errors.As(err, &noData):
			c.JSON(404, ErrorResponse{Error: "not_found", Message: err.Error()})
		case errors.As(err, &loginErr), errors.As(err, &srcErr):
			s.logger.WithError(err).Error("Data source request failed")
			c.JSON(502, ErrorResponse{Error: "upstream_error", Message: err.Error()})
		default:
			c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		}
		return
	}

	c.JSON(200, TableResponse{
		Columns:   table.Columns,
		Rows:      table.Rows,
		TotalRows: table.Len(),
	})
}

// rangeHandler 适配只接受日期范围参数的查询。
func (s *APIServer) rangeHandler(fetch func(ctx context.Context, startDate, endDate string) (*datasource.Table, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, err := fetch(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
		s.respondTable(c, table, err)
	}
}

func (s *APIServer) getKData(c *gin.Context) {
	code := c.Param("code")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: "start_date and end_date are required"})
		return
	}
	frequency := c.DefaultQuery("frequency", "d")
	adjustFlag := c.DefaultQuery("adjust_flag", "3")
	if err := tools.ValidateFrequency(frequency); err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if err := tools.ValidateAdjustFlag(adjustFlag); err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	var fields []string
	if raw := c.Query("fields"); raw != "" {
		fields = strings.Split(raw, ",")
	}

	table, err := s.source.GetHistoricalKData(c.Request.Context(), code, startDate, endDate, frequency, adjustFlag, fields)
	s.respondTable(c, table, err)
}

func (s *APIServer) getBasicInfo(c *gin.Context) {
	var fields []string
	if raw := c.Query("fields"); raw != "" {
		fields = strings.Split(raw, ",")
	}
	table, err := s.source.GetStockBasicInfo(c.Request.Context(), c.Param("code"), fields)
	s.respondTable(c, table, err)
}

func (s *APIServer) getDividends(c *gin.Context) {
	year := c.Query("year")
	if err := tools.ValidateYear(year); err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	yearType := c.DefaultQuery("year_type", "report")
	if err := tools.ValidateYearType(yearType); err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	table, err := s.source.GetDividendData(c.Request.Context(), c.Param("code"), year, yearType)
	s.respondTable(c, table, err)
}

func (s *APIServer) getAdjustFactors(c *gin.Context) {
	table, err := s.source.GetAdjustFactorData(c.Request.Context(), c.Param("code"), c.Query("start_date"), c.Query("end_date"))
	s.respondTable(c, table, err)
}

func (s *APIServer) getFinancials(c *gin.Context) {
	kind := c.Param("kind")
	year := c.Query("year")
	if err := tools.ValidateYear(year); err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	quarter, err := strconv.Atoi(c.DefaultQuery("quarter", "1"))
	if err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: "quarter must be an integer"})
		return
	}
	if err := tools.ValidateQuarter(quarter); err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	var fetch func(ctx context.Context, code, year string, quarter int) (*datasource.Table, error)
	switch kind {
	case "profit":
		fetch = s.source.GetProfitData
	case "operation":
		fetch = s.source.GetOperationData
	case "growth":
		fetch = s.source.GetGrowthData
	case "balance":
		fetch = s.source.GetBalanceData
	case "cash-flow":
		fetch = s.source.GetCashFlowData
	case "dupont":
		fetch = s.source.GetDupontData
	default:
		c.JSON(400, ErrorResponse{Error: "bad_request",
			Message: fmt.Sprintf("unknown financial kind '%s'", kind)})
		return
	}

	table, err := fetch(c.Request.Context(), c.Param("code"), year, quarter)
	s.respondTable(c, table, err)
}

func (s *APIServer) getExpressReports(c *gin.Context) {
	table, err := s.source.GetPerformanceExpressReport(c.Request.Context(), c.Param("code"), c.Query("start_date"), c.Query("end_date"))
	s.respondTable(c, table, err)
}

func (s *APIServer) getForecastReports(c *gin.Context) {
	table, err := s.source.GetForecastReport(c.Request.Context(), c.Param("code"), c.Query("start_date"), c.Query("end_date"))
	s.respondTable(c, table, err)
}

func (s *APIServer) getIndustry(c *gin.Context) {
	table, err := s.source.GetStockIndustry(c.Request.Context(), c.Query("code"), c.Query("date"))
	s.respondTable(c, table, err)
}

func (s *APIServer) getConstituents(c *gin.Context) {
	date := c.Query("date")

	var table *datasource.Table
	var err error
	switch c.Param("index") {
	case "sz50":
		table, err = s.source.GetSZ50Stocks(c.Request.Context(), date)
	case "hs300":
		table, err = s.source.GetHS300Stocks(c.Request.Context(), date)
	case "zz500":
		table, err = s.source.GetZZ500Stocks(c.Request.Context(), date)
	default:
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: "index must be one of sz50, hs300, zz500"})
		return
	}
	s.respondTable(c, table, err)
}

func (s *APIServer) getTradeDates(c *gin.Context) {
	table, err := s.source.GetTradeDates(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	s.respondTable(c, table, err)
}

func (s *APIServer) getAllStock(c *gin.Context) {
	table, err := s.source.GetAllStock(c.Request.Context(), c.Query("date"))
	s.respondTable(c, table, err)
}

func (s *APIServer) searchStocks(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: "keyword is required"})
		return
	}

	table, err := s.source.GetAllStock(c.Request.Context(), c.Query("date"))
	if err != nil {
		s.respondTable(c, nil, err)
		return
	}

	codeIdx := table.ColumnIndex("code")
	nameIdx := table.ColumnIndex("code_name")
	lower := strings.ToLower(keyword)
	out := &datasource.Table{Columns: table.Columns}
	for _, row := range table.Rows {
		codeHit := codeIdx >= 0 && codeIdx < len(row) && strings.Contains(row[codeIdx], keyword)
		nameHit := nameIdx >= 0 && nameIdx < len(row) && strings.Contains(strings.ToLower(row[nameIdx]), lower)
		if codeHit || nameHit {
			out.Rows = append(out.Rows, row)
		}
	}
	s.respondTable(c, out, nil)
}

func (s *APIServer) getSuspensions(c *gin.Context) {
	table, err := s.source.GetAllStock(c.Request.Context(), c.Query("date"))
	if err != nil {
		s.respondTable(c, nil, err)
		return
	}
	s.respondTable(c, table.FilterRows("tradeStatus", func(v string) bool { return v == "0" }), nil)
}

func (s *APIServer) getReserveRatio(c *gin.Context) {
	table, err := s.source.GetRequiredReserveRatioData(c.Request.Context(),
		c.Query("start_date"), c.Query("end_date"), c.DefaultQuery("year_type", "0"))
	s.respondTable(c, table, err)
}

func (s *APIServer) getLatestTradingDate(c *gin.Context) {
	c.JSON(200, gin.H{"date": s.calendar.LatestTradingDay(c.Request.Context())})
}

func (s *APIServer) getIsTradingDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: "date is required"})
		return
	}

	trading, err := s.calendar.IsTradingDay(c.Request.Context(), date)
	if err != nil {
		s.respondTable(c, nil, err)
		return
	}
	c.JSON(200, gin.H{"date": date, "is_trading_day": trading})
}

func (s *APIServer) getPreviousTradingDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: "date is required"})
		return
	}
	c.JSON(200, gin.H{"date": s.calendar.PreviousTradingDay(c.Request.Context(), date)})
}

func (s *APIServer) getNextTradingDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: "date is required"})
		return
	}
	c.JSON(200, gin.H{"date": s.calendar.NextTradingDay(c.Request.Context(), date)})
}

func (s *APIServer) getTimeframe(c *gin.Context) {
	period := c.DefaultQuery("period", marketcalendar.PeriodRecent)
	tf := s.calendar.AnalysisTimeframe(period)
	c.JSON(200, gin.H{
		"period":      tf.Period,
		"label":       tf.Label,
		"start_date":  tf.StartDate,
		"end_date":    tf.EndDate,
		"description": tf.String(),
	})
}

func (s *APIServer) normalizeCode(c *gin.Context) {
	code := c.Query("code")
	normalized, err := symbol.Normalize(code)
	if err != nil {
		c.JSON(400, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	c.JSON(200, gin.H{"input": code, "normalized": normalized})
}
