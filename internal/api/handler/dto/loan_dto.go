package dto

import (
	"fmt"
	"strings"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateLoanRequest struct {
	ClientID            string          `json:"clientId"`
	Principal           decimal.Decimal `json:"principal"`
	InterestRatePercent decimal.Decimal `json:"interestRatePercent"`
	Frequency           string          `json:"frequency"`
	StartDate           string          `json:"startDate"`
}

func (r *CreateLoanRequest) ToInput() (loan.CreateLoanInput, error) {
	clientID, err := uuid.Parse(strings.TrimSpace(r.ClientID))
	if err != nil {
		return loan.CreateLoanInput{}, apperrors.NewValidationError("clientId", "clientId must be a valid UUID")
	}
	if !r.Principal.IsPositive() {
		return loan.CreateLoanInput{}, apperrors.NewValidationError("principal", "principal must be greater than zero")
	}
	if !r.InterestRatePercent.IsPositive() {
		return loan.CreateLoanInput{}, apperrors.NewValidationError("interestRatePercent", "interestRatePercent must be greater than zero")
	}
	freq, err := parseOptionalFrequency("frequency", r.Frequency, loan.DefaultFrequency)
	if err != nil {
		return loan.CreateLoanInput{}, err
	}
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return loan.CreateLoanInput{}, apperrors.NewValidationError("startDate", err.Error())
	}
	return loan.CreateLoanInput{
		ClientID:            clientID,
		Principal:           r.Principal,
		InterestRatePercent: r.InterestRatePercent,
		Frequency:           freq,
		StartDate:           start,
	}, nil
}

// parseOptionalFrequency returns fallback for an empty value and rejects unknown ones.
func parseOptionalFrequency(field, value string, fallback loan.Frequency) (loan.Frequency, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	f, ok := loan.LookupFrequency(value)
	if !ok {
		return "", apperrors.NewValidationError(field, fmt.Sprintf("unknown frequency %q", value))
	}
	return f, nil
}

// MakePaymentRequest is the payment body. Automatic payments use
// amountTotal; manual payments give amountInterest and amountPrincipal,
// with amountTotal optional and checked against their sum.
type MakePaymentRequest struct {
	LoanID          string           `json:"loanId,omitempty"`
	AmountTotal     *decimal.Decimal `json:"amountTotal,omitempty"`
	AmountInterest  *decimal.Decimal `json:"amountInterest,omitempty"`
	AmountPrincipal *decimal.Decimal `json:"amountPrincipal,omitempty"`
	Mode            string           `json:"mode"`
	PaymentType     string           `json:"paymentType"`
	Note            string           `json:"note"`
	Date            string           `json:"date"`
}

func (r *MakePaymentRequest) ToInput(loanID uuid.UUID) (loan.PaymentInput, error) {
	if id := strings.TrimSpace(r.LoanID); id != "" && id != loanID.String() {
		return loan.PaymentInput{}, apperrors.NewValidationError("loanId", "loanId in body does not match the URL")
	}
	mode, err := loan.ParseMode(r.Mode)
	if err != nil {
		return loan.PaymentInput{}, err
	}
	paymentType, err := loan.ParsePaymentType(r.PaymentType)
	if err != nil {
		return loan.PaymentInput{}, err
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return loan.PaymentInput{}, apperrors.NewValidationError("date", err.Error())
	}

	in := loan.PaymentInput{
		LoanID:      loanID,
		Mode:        mode,
		PaymentType: paymentType,
		Note:        strings.TrimSpace(r.Note),
		Date:        date,
	}

	switch mode {
	case loan.ModeManual:
		if r.AmountInterest == nil && r.AmountPrincipal == nil {
			return loan.PaymentInput{}, apperrors.NewValidationError("amountPrincipal", "manual payments need amountInterest and/or amountPrincipal")
		}
		split := loan.ManualSplit{Interest: decimal.Zero, Principal: decimal.Zero}
		if r.AmountInterest != nil {
			split.Interest = *r.AmountInterest
		}
		if r.AmountPrincipal != nil {
			split.Principal = *r.AmountPrincipal
		}
		sum := split.Interest.Add(split.Principal)
		if r.AmountTotal != nil && !loan.RoundMoney(*r.AmountTotal).Equal(loan.RoundMoney(sum)) {
			return loan.PaymentInput{}, apperrors.NewValidationError("amountTotal", "amountTotal must equal amountInterest + amountPrincipal")
		}
		in.ManualSplit = &split
		in.Amount = sum
	default:
		if r.AmountTotal == nil {
			return loan.PaymentInput{}, apperrors.NewValidationError("amountTotal", "amountTotal is required")
		}
		in.Amount = *r.AmountTotal
	}
	return in, nil
}

type LoanResponse struct {
	ID                  string  `json:"id"`
	ClientID            string  `json:"clientId"`
	RequestID           *string `json:"requestId,omitempty"`
	PrincipalOriginal   string  `json:"principalOriginal"`
	PrincipalRemaining  string  `json:"principalRemaining"`
	InterestRatePercent string  `json:"interestRatePercent"`
	Frequency           string  `json:"frequency"`
	Status              string  `json:"status"`
	DateCreated         string  `json:"dateCreated"`
	DateLastPayment     *string `json:"dateLastPayment,omitempty"`
	DateNextPaymentDue  string  `json:"dateNextPaymentDue"`
	UpdatedAt           string  `json:"updatedAt"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	var requestID *string
	if l.RequestID != nil {
		s := l.RequestID.String()
		requestID = &s
	}
	return LoanResponse{
		ID:                  l.ID.String(),
		ClientID:            l.ClientID.String(),
		RequestID:           requestID,
		PrincipalOriginal:   formatMoney(l.PrincipalOriginal),
		PrincipalRemaining:  formatMoney(l.PrincipalRemaining),
		InterestRatePercent: l.InterestRatePercent.String(),
		Frequency:           string(l.Frequency),
		Status:              string(l.Status),
		DateCreated:         l.DateCreated.Format(time.RFC3339),
		DateLastPayment:     formatOptionalTime(l.DateLastPayment),
		DateNextPaymentDue:  formatDate(l.DateNextPaymentDue),
		UpdatedAt:           l.UpdatedAt.Format(time.RFC3339),
	}
}

func NewLoanListResponse(loans []*loan.Loan) []LoanResponse {
	resp := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		resp = append(resp, NewLoanResponse(l))
	}
	return resp
}

type PaymentResponse struct {
	ID                string `json:"id"`
	LoanID            string `json:"loanId"`
	Timestamp         string `json:"timestamp"`
	PaymentDate       string `json:"paymentDate"`
	Mode              string `json:"mode"`
	PaymentType       string `json:"paymentType"`
	AmountTotal       string `json:"amountTotal"`
	AmountInterest    string `json:"amountInterest"`
	AmountPrincipal   string `json:"amountPrincipal"`
	InterestDue       string `json:"interestDue"`
	InterestShortfall string `json:"interestShortfall"`
	AmountExcess      string `json:"amountExcess"`
	PrincipalBefore   string `json:"principalBefore"`
	PrincipalAfter    string `json:"principalAfter"`
	Note              string `json:"note,omitempty"`
}

func NewPaymentResponse(p *loan.PaymentEvent) PaymentResponse {
	if p == nil {
		return PaymentResponse{}
	}
	return PaymentResponse{
		ID:                p.ID.String(),
		LoanID:            p.LoanID.String(),
		Timestamp:         p.Timestamp.Format(time.RFC3339),
		PaymentDate:       p.PaymentDate.Format(time.RFC3339),
		Mode:              string(p.Mode),
		PaymentType:       string(p.PaymentType),
		AmountTotal:       formatMoney(p.AmountTotal),
		AmountInterest:    formatMoney(p.AmountInterest),
		AmountPrincipal:   formatMoney(p.AmountPrincipal),
		InterestDue:       formatMoney(p.InterestDue),
		InterestShortfall: formatMoney(p.InterestShortfall),
		AmountExcess:      formatMoney(p.AmountExcess),
		PrincipalBefore:   formatMoney(p.PrincipalBefore),
		PrincipalAfter:    formatMoney(p.PrincipalAfter),
		Note:              p.Note,
	}
}

func NewPaymentListResponse(payments []*loan.PaymentEvent) []PaymentResponse {
	resp := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, NewPaymentResponse(p))
	}
	return resp
}

// MakePaymentResponse keeps the field names existing callers rely on.
type MakePaymentResponse struct {
	Success             bool            `json:"success"`
	Pago                PaymentResponse `json:"pago"`
	PrestamoActualizado LoanResponse    `json:"prestamoActualizado"`
}

func NewMakePaymentResponse(res *loan.PaymentResult) MakePaymentResponse {
	return MakePaymentResponse{
		Success:             true,
		Pago:                NewPaymentResponse(res.Payment),
		PrestamoActualizado: NewLoanResponse(res.Loan),
	}
}

type QuoteResponse struct {
	LoanID            string `json:"loanId"`
	Amount            string `json:"amount"`
	InterestDue       string `json:"interestDue"`
	InterestPortion   string `json:"interestPortion"`
	PrincipalPortion  string `json:"principalPortion"`
	InterestShortfall string `json:"interestShortfall"`
	Excess            string `json:"excess"`
}

func NewQuoteResponse(loanID uuid.UUID, amount decimal.Decimal, a *loan.Allocation) QuoteResponse {
	return QuoteResponse{
		LoanID:            loanID.String(),
		Amount:            formatMoney(amount),
		InterestDue:       formatMoney(a.InterestDue),
		InterestPortion:   formatMoney(a.InterestPortion),
		PrincipalPortion:  formatMoney(a.PrincipalPortion),
		InterestShortfall: formatMoney(a.InterestShortfall),
		Excess:            formatMoney(a.Excess),
	}
}
