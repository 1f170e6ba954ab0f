package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	PaymentsTotal          *prometheus.CounterVec
	AllocatedAmountTotal   *prometheus.CounterVec
	LoansCreatedTotal      prometheus.Counter
	RequestDecisionsTotal  *prometheus.CounterVec
	DelinquencyMarkedTotal *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_payments_total",
				Help: "Total number of payment attempts by outcome.",
			},
			[]string{"status"},
		),
		AllocatedAmountTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_allocated_amount_total",
				Help: "Sum of money allocated by successful payments, split by portion.",
			},
			[]string{"portion"},
		),
		LoansCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_engine_loans_created_total",
				Help: "Total number of loans created.",
			},
		),
		RequestDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_loan_request_decisions_total",
				Help: "Total number of loan request decisions.",
			},
			[]string{"decision"},
		),
		DelinquencyMarkedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_delinquency_marked_total",
				Help: "Total number of loans processed by delinquency marking, by result.",
			},
			[]string{"result"},
		),
	}
)

func RecordDBQuery(queryName string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(time.Since(start).Seconds())
}

func RecordPayment(status string) {
	Business.PaymentsTotal.WithLabelValues(status).Inc()
}

func RecordAllocation(interest, principal decimal.Decimal) {
	Business.AllocatedAmountTotal.WithLabelValues("interest").Add(interest.InexactFloat64())
	Business.AllocatedAmountTotal.WithLabelValues("principal").Add(principal.InexactFloat64())
}

func RecordLoanCreated() {
	Business.LoansCreatedTotal.Inc()
}

func RecordRequestDecision(decision string) {
	Business.RequestDecisionsTotal.WithLabelValues(decision).Inc()
}

func RecordDelinquencyMarked(result string) {
	Business.DelinquencyMarkedTotal.WithLabelValues(result).Inc()
}
