package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/domain/request"
	"loan-engine/internal/pkg/apperrors"
)

type RequestHandler struct {
	service request.RequestService
	logger  *slog.Logger
}

func NewRequestHandler(s request.RequestService, l *slog.Logger) *RequestHandler {
	return &RequestHandler{
		service: s,
		logger:  l.With("component", "RequestHandler"),
	}
}

// SubmitRequest handles POST /loan-requests
// @Summary Submit a loan request
// @Description Records an application for a loan by an existing, active client. It starts out pending.
// @Tags Loan Requests
// @Accept json
// @Produce json
// @Param request body dto.SubmitLoanRequestRequest true "Application"
// @Success 201 {object} dto.LoanRequestResponse "Request recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-requests [post]
// @Security BearerAuth
func (h *RequestHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitLoanRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	in, err := req.ToInput()
	if err != nil {
		respondError(w, err)
		return
	}

	created, err := h.service.SubmitRequest(r.Context(), in)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to submit loan request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan request submitted", slog.String("requestID", created.ID.String()))
	respondJSON(w, http.StatusCreated, dto.NewLoanRequestResponse(created))
}

// ListRequests handles GET /loan-requests
// @Summary List loan requests
// @Tags Loan Requests
// @Produce json
// @Param status query string false "Only requests in this status" Enums(pending, approved, rejected)
// @Success 200 {array} dto.LoanRequestResponse "Requests"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-requests [get]
// @Security BearerAuth
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	var status *request.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		s := request.Status(strings.ToLower(raw))
		if !s.IsValid() {
			respondError(w, apperrors.NewValidationError("status", fmt.Sprintf("unknown request status %q", raw)))
			return
		}
		status = &s
	}

	reqs, err := h.service.ListRequests(r.Context(), status)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list loan requests", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanRequestListResponse(reqs))
}

// GetRequest handles GET /loan-requests/{requestID}
// @Summary Retrieve a loan request
// @Tags Loan Requests
// @Produce json
// @Param requestID path string true "Request ID" Format(uuid)
// @Success 200 {object} dto.LoanRequestResponse "Request"
// @Failure 400 {object} dto.ErrorResponse "Invalid request ID"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-requests/{requestID} [get]
// @Security BearerAuth
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuidFromURL(r, "requestID")
	if err != nil {
		respondError(w, err)
		return
	}

	req, err := h.service.GetRequest(r.Context(), requestID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get loan request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanRequestResponse(req))
}

// ApproveRequest handles POST /loan-requests/{requestID}/approve
// @Summary Approve a loan request
// @Description Approves a pending request and creates its loan in the same transaction. When frecuencia is omitted the requested frequency is used.
// @Tags Loan Requests
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID" Format(uuid)
// @Param Idempotency-Key header string false "Client chosen key for safe retries"
// @Param request body dto.ApproveLoanRequestRequest true "Approved terms"
// @Success 201 {object} dto.ApproveLoanRequestResponse "Loan created and request approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid terms"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-requests/{requestID}/approve [post]
// @Security BearerAuth
func (h *RequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuidFromURL(r, "requestID")
	if err != nil {
		respondError(w, err)
		return
	}

	var body dto.ApproveLoanRequestRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	terms, err := body.ToTerms(requestID)
	if err != nil {
		respondError(w, err)
		return
	}

	decidedBy := approver(r)
	l, req, err := h.service.ApproveRequest(r.Context(), requestID, terms, decidedBy)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to approve loan request", slog.Any("error", err), slog.String("requestID", requestID.String()))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan request approved",
		slog.String("requestID", requestID.String()),
		slog.String("loanID", l.ID.String()),
		slog.String("approver", decidedBy))
	respondJSON(w, http.StatusCreated, dto.NewApproveLoanRequestResponse(l, req))
}

// RejectRequest handles POST /loan-requests/{requestID}/reject
// @Summary Reject a loan request
// @Tags Loan Requests
// @Accept json
// @Produce json
// @Param requestID path string true "Request ID" Format(uuid)
// @Param request body dto.RejectLoanRequestRequest true "Rejection reason"
// @Success 200 {object} dto.LoanRequestResponse "Rejected request"
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-requests/{requestID}/reject [post]
// @Security BearerAuth
func (h *RequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuidFromURL(r, "requestID")
	if err != nil {
		respondError(w, err)
		return
	}

	var body dto.RejectLoanRequestRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if err := body.Validate(); err != nil {
		respondError(w, err)
		return
	}

	req, err := h.service.RejectRequest(r.Context(), requestID, strings.TrimSpace(body.Reason), approver(r))
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to reject loan request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanRequestResponse(req))
}
