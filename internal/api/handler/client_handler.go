package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/domain/client"
	"loan-engine/internal/pkg/apperrors"
)

type ClientHandler struct {
	service client.ClientService
	logger  *slog.Logger
}

func NewClientHandler(s client.ClientService, l *slog.Logger) *ClientHandler {
	if s == nil {
		panic("client service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ClientHandler{
		service: s,
		logger:  l.With("component", "ClientHandler"),
	}
}

// CreateClient handles POST /clients
// @Summary Create a new client
// @Description Registers a borrower with contact details.
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body dto.CreateClientRequest true "Client creation request"
// @Success 201 {object} dto.ClientResponse "Client successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload (e.g., empty name or phone)"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during creation"
// @Router /clients [post]
// @Security BearerAuth
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create client request")

	var req dto.CreateClientRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Client validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.CreateClient(r.Context(), req.Name, req.Phone, req.Email, req.Address)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create client", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewClientResponse(created)
	h.logger.InfoContext(r.Context(), "Client created successfully", slog.String("clientID", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// GetClient handles GET /clients/{clientID}
// @Summary Retrieve client details
// @Tags Clients
// @Produce json
// @Param clientID path string true "Client ID" Format(uuid)
// @Success 200 {object} dto.ClientResponse "Client details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid client ID format"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clients/{clientID} [get]
// @Security BearerAuth
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidFromURL(r, "clientID")
	if err != nil {
		respondError(w, err)
		return
	}

	c, err := h.service.GetClient(r.Context(), clientID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get client", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewClientResponse(c))
}

// ListClients handles GET /clients
// @Summary List clients
// @Description Lists active clients unless active=false is given.
// @Tags Clients
// @Produce json
// @Param active query bool false "Only active clients (default true)"
// @Success 200 {array} dto.ClientResponse "List of clients"
// @Failure 400 {object} dto.ErrorResponse "Invalid active flag"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clients [get]
// @Security BearerAuth
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, apperrors.NewValidationError("active", "active must be true or false"))
			return
		}
		activeOnly = parsed
	}

	clients, err := h.service.ListClients(r.Context(), activeOnly)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list clients", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewClientListResponse(clients)
	h.logger.InfoContext(r.Context(), "Clients listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// UpdateClientContact handles PATCH /clients/{clientID}
// @Summary Update client contact details
// @Description Updates only the fields present in the body.
// @Tags Clients
// @Accept json
// @Produce json
// @Param clientID path string true "Client ID" Format(uuid)
// @Param request body dto.UpdateClientContactRequest true "Contact fields to change"
// @Success 200 {object} dto.ClientResponse "Updated client"
// @Failure 400 {object} dto.ErrorResponse "Invalid client ID or payload"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clients/{clientID} [patch]
// @Security BearerAuth
func (h *ClientHandler) UpdateClientContact(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidFromURL(r, "clientID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateClientContactRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.service.UpdateClientContact(r.Context(), clientID, req.ToContactUpdate())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update client contact", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Client contact updated successfully", slog.String("clientID", clientID.String()))
	respondJSON(w, http.StatusOK, dto.NewClientResponse(updated))
}

// UpdateDelinquency handles PUT /clients/{clientID}/delinquency
// @Summary Update client delinquency flag
// @Tags Clients
// @Accept json
// @Produce json
// @Param clientID path string true "Client ID" Format(uuid)
// @Param request body dto.UpdateDelinquencyRequest true "Delinquency flag"
// @Success 204 "Delinquency status successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid client ID or payload"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clients/{clientID}/delinquency [put]
// @Security BearerAuth
func (h *ClientHandler) UpdateDelinquency(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidFromURL(r, "clientID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateDelinquencyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	if err := h.service.UpdateDelinquency(r.Context(), clientID, req.IsDelinquent); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update delinquency status", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Client delinquency status updated successfully")
	respondJSON(w, http.StatusNoContent, nil)
}

// DeactivateClient handles DELETE /clients/{clientID}
// @Summary Deactivate a client
// @Tags Clients
// @Produce json
// @Param clientID path string true "Client ID" Format(uuid)
// @Success 204 "Client successfully deactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid client ID"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clients/{clientID} [delete]
// @Security BearerAuth
func (h *ClientHandler) DeactivateClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidFromURL(r, "clientID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeactivateClient(r.Context(), clientID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to deactivate client", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Client deactivated successfully")
	respondJSON(w, http.StatusNoContent, nil)
}

// ReactivateClient handles PUT /clients/{clientID}/reactivate
// @Summary Reactivate a client
// @Tags Clients
// @Produce json
// @Param clientID path string true "Client ID" Format(uuid)
// @Success 204 "Client successfully reactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid client ID"
// @Failure 404 {object} dto.ErrorResponse "Client not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /clients/{clientID}/reactivate [put]
// @Security BearerAuth
func (h *ClientHandler) ReactivateClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidFromURL(r, "clientID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.ReactivateClient(r.Context(), clientID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to reactivate client", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Client reactivated successfully")
	respondJSON(w, http.StatusNoContent, nil)
}
