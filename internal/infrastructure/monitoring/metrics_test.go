package monitoring

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordPayment(t *testing.T) {
	Business.PaymentsTotal.Reset()

	RecordPayment("success")
	RecordPayment("success")
	RecordPayment("failure_allocation")

	expected := `
		# HELP loan_engine_payments_total Total number of payment attempts by outcome.
		# TYPE loan_engine_payments_total counter
		loan_engine_payments_total{status="failure_allocation"} 1
		loan_engine_payments_total{status="success"} 2
	`
	assert.NoError(t, testutil.CollectAndCompare(Business.PaymentsTotal, strings.NewReader(expected)))
}

func TestRecordAllocation(t *testing.T) {
	Business.AllocatedAmountTotal.Reset()

	RecordAllocation(decimal.RequireFromString("1000.00"), decimal.RequireFromString("500.50"))

	assert.Equal(t, 1000.0, testutil.ToFloat64(Business.AllocatedAmountTotal.WithLabelValues("interest")))
	assert.Equal(t, 500.5, testutil.ToFloat64(Business.AllocatedAmountTotal.WithLabelValues("principal")))
}

func TestRecordDBQuery(t *testing.T) {
	DB.QueryDuration.Reset()

	RecordDBQuery("get_loan_for_update", time.Now(), nil)
	RecordDBQuery("get_loan_for_update", time.Now(), errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(DB.QueryDuration))
}

func TestRecordRequestDecisionAndDelinquency(t *testing.T) {
	Business.RequestDecisionsTotal.Reset()
	Business.DelinquencyMarkedTotal.Reset()

	RecordRequestDecision("approved")
	RecordDelinquencyMarked("marked")
	RecordDelinquencyMarked("failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(Business.RequestDecisionsTotal.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(Business.DelinquencyMarkedTotal.WithLabelValues("failed")))
}
