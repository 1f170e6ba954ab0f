package loan

import (
	"fmt"
	"strings"
	"time"

	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
)

// PaymentType classifies a payment. It never changes allocation.
type PaymentType string

const (
	PaymentTypeNormal        PaymentType = "normal"
	PaymentTypeAdvance       PaymentType = "advance"
	PaymentTypeDelinquent    PaymentType = "delinquent"
	PaymentTypePrincipalOnly PaymentType = "principal-only"
)

var paymentTypeAliases = map[string]PaymentType{
	"normal":         PaymentTypeNormal,
	"advance":        PaymentTypeAdvance,
	"adelanto":       PaymentTypeAdvance,
	"delinquent":     PaymentTypeDelinquent,
	"atrasado":       PaymentTypeDelinquent,
	"principal-only": PaymentTypePrincipalOnly,
	"solo_capital":   PaymentTypePrincipalOnly,
}

func ParsePaymentType(s string) (PaymentType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return PaymentTypeNormal, nil
	}
	if pt, ok := paymentTypeAliases[key]; ok {
		return pt, nil
	}
	return "", fmt.Errorf("%w: unknown payment type %q", apperrors.ErrInvalidInput, s)
}

// PaymentEvent is an append-only ledger entry.
type PaymentEvent struct {
	ID                uuid.UUID
	LoanID            uuid.UUID
	Timestamp         time.Time
	PaymentDate       time.Time
	Mode              Mode
	PaymentType       PaymentType
	AmountTotal       Money
	AmountInterest    Money
	AmountPrincipal   Money
	InterestDue       Money
	InterestShortfall Money
	AmountExcess      Money
	PrincipalBefore   Money
	PrincipalAfter    Money
	Note              string
}

type PaymentRecord struct {
	LoanID          uuid.UUID
	Allocation      Allocation
	PrincipalBefore Money
	PrincipalAfter  Money
	Mode            Mode
	PaymentType     PaymentType
	Note            string
	PaymentDate     time.Time
	Timestamp       time.Time
}

// NewPaymentEvent builds a ledger entry and checks it balances.
func NewPaymentEvent(rec PaymentRecord) (*PaymentEvent, error) {
	a := rec.Allocation
	if !rec.PrincipalBefore.Sub(a.PrincipalPortion).Equal(rec.PrincipalAfter) {
		return nil, fmt.Errorf("%w: principal before %s minus %s does not equal principal after %s",
			apperrors.ErrInvariantViolation, rec.PrincipalBefore, a.PrincipalPortion, rec.PrincipalAfter)
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	paymentDate := rec.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = ts
	}

	return &PaymentEvent{
		ID:                uuid.New(),
		LoanID:            rec.LoanID,
		Timestamp:         ts,
		PaymentDate:       paymentDate,
		Mode:              rec.Mode,
		PaymentType:       rec.PaymentType,
		AmountTotal:       a.Total(),
		AmountInterest:    a.InterestPortion,
		AmountPrincipal:   a.PrincipalPortion,
		InterestDue:       a.InterestDue,
		InterestShortfall: a.InterestShortfall,
		AmountExcess:      a.Excess,
		PrincipalBefore:   rec.PrincipalBefore,
		PrincipalAfter:    rec.PrincipalAfter,
		Note:              strings.TrimSpace(rec.Note),
	}, nil
}
