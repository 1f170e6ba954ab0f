package dto

import (
	"strings"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/domain/request"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubmitLoanRequestRequest struct {
	ClientID           string          `json:"clientId"`
	ApplicantName      string          `json:"applicantName"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	Address            string          `json:"address"`
	Occupation         string          `json:"occupation"`
	MonthlyIncome      decimal.Decimal `json:"monthlyIncome"`
	Purpose            string          `json:"purpose"`
	AmountRequested    decimal.Decimal `json:"amountRequested"`
	FrequencyRequested string          `json:"frequencyRequested"`
}

func (r *SubmitLoanRequestRequest) ToInput() (request.SubmitInput, error) {
	clientID, err := uuid.Parse(strings.TrimSpace(r.ClientID))
	if err != nil {
		return request.SubmitInput{}, apperrors.NewValidationError("clientId", "clientId must be a valid UUID")
	}
	freq, err := parseOptionalFrequency("frequencyRequested", r.FrequencyRequested, loan.DefaultFrequency)
	if err != nil {
		return request.SubmitInput{}, err
	}
	return request.SubmitInput{
		ClientID:           clientID,
		ApplicantName:      r.ApplicantName,
		Phone:              r.Phone,
		Email:              r.Email,
		Address:            r.Address,
		Occupation:         r.Occupation,
		MonthlyIncome:      r.MonthlyIncome,
		Purpose:            r.Purpose,
		AmountRequested:    r.AmountRequested,
		FrequencyRequested: freq,
	}, nil
}

// ApproveLoanRequestRequest keeps the field names existing callers rely on.
type ApproveLoanRequestRequest struct {
	RequestID      string          `json:"requestId,omitempty"`
	MontoAprobado  decimal.Decimal `json:"montoAprobado"`
	InteresPercent decimal.Decimal `json:"interesPercent"`
	Frecuencia     string          `json:"frecuencia"`
	Observaciones  string          `json:"observaciones"`
}

// ToTerms leaves Frequency empty when none was sent so the requested one is used.
func (r *ApproveLoanRequestRequest) ToTerms(requestID uuid.UUID) (request.Terms, error) {
	if id := strings.TrimSpace(r.RequestID); id != "" && id != requestID.String() {
		return request.Terms{}, apperrors.NewValidationError("requestId", "requestId in body does not match the URL")
	}
	freq, err := parseOptionalFrequency("frecuencia", r.Frecuencia, "")
	if err != nil {
		return request.Terms{}, err
	}
	return request.Terms{
		PrincipalApproved: r.MontoAprobado,
		RatePercent:       r.InteresPercent,
		Frequency:         freq,
		Observations:      strings.TrimSpace(r.Observaciones),
	}, nil
}

type RejectLoanRequestRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectLoanRequestRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return apperrors.NewValidationError("reason", "a rejection reason is required")
	}
	return nil
}

type LoanRequestResponse struct {
	ID                 string    `json:"id"`
	ClientID           string    `json:"clientId"`
	ApplicantName      string    `json:"applicantName"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	Address            string    `json:"address,omitempty"`
	Occupation         string    `json:"occupation,omitempty"`
	MonthlyIncome      string    `json:"monthlyIncome"`
	Purpose            string    `json:"purpose,omitempty"`
	AmountRequested    string    `json:"amountRequested"`
	FrequencyRequested string    `json:"frequencyRequested"`
	Status             string    `json:"status"`
	Observations       string    `json:"observations,omitempty"`
	DecidedBy          string    `json:"decidedBy,omitempty"`
	DecidedAt          *string   `json:"decidedAt,omitempty"`
	LoanID             *string   `json:"loanId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func NewLoanRequestResponse(req *request.LoanRequest) LoanRequestResponse {
	if req == nil {
		return LoanRequestResponse{}
	}
	var loanID *string
	if req.LoanID != nil {
		s := req.LoanID.String()
		loanID = &s
	}
	return LoanRequestResponse{
		ID:                 req.ID.String(),
		ClientID:           req.ClientID.String(),
		ApplicantName:      req.ApplicantName,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		Occupation:         req.Occupation,
		MonthlyIncome:      formatMoney(req.MonthlyIncome),
		Purpose:            req.Purpose,
		AmountRequested:    formatMoney(req.AmountRequested),
		FrequencyRequested: string(req.FrequencyRequested),
		Status:             string(req.Status),
		Observations:       req.Observations,
		DecidedBy:          req.DecidedBy,
		DecidedAt:          formatOptionalTime(req.DecidedAt),
		LoanID:             loanID,
		CreatedAt:          req.CreatedAt,
		UpdatedAt:          req.UpdatedAt,
	}
}

func NewLoanRequestListResponse(reqs []*request.LoanRequest) []LoanRequestResponse {
	resp := make([]LoanRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		resp = append(resp, NewLoanRequestResponse(r))
	}
	return resp
}

type ApproveLoanRequestResponse struct {
	Success   bool                `json:"success"`
	Prestamo  LoanResponse        `json:"prestamo"`
	Solicitud LoanRequestResponse `json:"solicitud"`
}

func NewApproveLoanRequestResponse(l *loan.Loan, req *request.LoanRequest) ApproveLoanRequestResponse {
	return ApproveLoanRequestResponse{
		Success:   true,
		Prestamo:  NewLoanResponse(l),
		Solicitud: NewLoanRequestResponse(req),
	}
}
