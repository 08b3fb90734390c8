package decorators

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ashare/pkg/datasource"
)

// flakySource 按预设的错误序列响应
type flakySource struct {
	datasource.FinancialDataSource
	errs  []error
	calls int
}

func (s *flakySource) GetTradeDates(ctx context.Context, startDate, endDate string) (*datasource.Table, error) {
	defer func() { s.calls++ }()
	if s.calls < len(s.errs) && s.errs[s.calls] != nil {
		return nil, s.errs[s.calls]
	}
	return &datasource.Table{Columns: []string{"calendar_date"}, Rows: [][]string{{"2024-05-15"}}}, nil
}

func testConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:        "test",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: 3,
	}
}

func TestCircuitBreakerPassthrough(t *testing.T) {
	source := &flakySource{}
	cb := NewCircuitBreakerSource(source, testConfig())

	table, err := cb.GetTradeDates(context.Background(), "2024-05-01", "2024-05-28")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreakerTripsOnProviderErrors(t *testing.T) {
	boom := &datasource.DataSourceError{Label: "trade_dates", Code: "10004", Message: "system error"}
	source := &flakySource{errs: []error{boom, boom, boom, boom}}
	cb := NewCircuitBreakerSource(source, testConfig())

	for i := 0; i < 3; i++ {
		_, err := cb.GetTradeDates(context.Background(), "", "")
		var dsErr *datasource.DataSourceError
		require.ErrorAs(t, err, &dsErr)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State(), "连续失败达到阈值后熔断器应打开")

	// 打开状态下不再触达底层数据源，且熔断错误必须以 DataSourceError 的形态上抛
	before := source.calls
	_, err := cb.GetTradeDates(context.Background(), "", "")
	var openErr *datasource.DataSourceError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "circuit breaker open", openErr.Message)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, before, source.calls)
}

func TestCircuitBreakerIgnoresNoData(t *testing.T) {
	noData := &datasource.NoDataFoundError{Label: "trade_dates", Reason: "no record found"}
	source := &flakySource{errs: []error{noData, noData, noData, noData, noData}}
	cb := NewCircuitBreakerSource(source, testConfig())

	for i := 0; i < 5; i++ {
		_, err := cb.GetTradeDates(context.Background(), "", "")
		var nd *datasource.NoDataFoundError
		require.ErrorAs(t, err, &nd, "空结果必须原样透传")
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State(), "空结果不应计入熔断失败")
}

func TestCircuitBreakerNilConfig(t *testing.T) {
	cb := NewCircuitBreakerSource(&flakySource{}, nil)
	_, err := cb.GetTradeDates(context.Background(), "", "")
	assert.NoError(t, err)
}
