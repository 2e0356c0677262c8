package handler

import (
	"deposit-reconciler/internal/adapter/http/dto"
	"deposit-reconciler/internal/adapter/http/middleware"
	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"
	"deposit-reconciler/pkg/response"

	"github.com/gin-gonic/gin"
)

// DepositHandler serves the Deposit Registry and one-shot verification.
type DepositHandler struct {
	registry   ports.RegistryService
	dispatcher ports.VerificationDispatcher
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(registry ports.RegistryService, dispatcher ports.VerificationDispatcher) *DepositHandler {
	return &DepositHandler{registry: registry, dispatcher: dispatcher}
}

// List handles GET /api/v1/deposits?status=.
func (h *DepositHandler) List(c *gin.Context) {
	var status *domain.DepositStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.DepositStatus(raw)
		status = &s
	}

	deposits, err := h.registry.List(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.DepositResponse, 0, len(deposits))
	for i := range deposits {
		items = append(items, dto.ToDepositResponse(&deposits[i]))
	}
	response.OK(c, dto.DepositListResponse{Deposits: items, Total: len(items)})
}

// Get handles GET /api/v1/deposits/:id.
func (h *DepositHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", "deposit")
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.registry.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToDepositDetailsResponse(details))
}

// Submit handles POST /api/v1/deposits.
func (h *DepositHandler) Submit(c *gin.Context) {
	var req dto.SubmitDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	deposit, err := h.registry.Submit(c.Request.Context(), ports.SubmitDepositRequest{
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		ChatID:        req.ChatID,
		Bank:          req.Bank,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToDepositResponse(deposit))
}

// Verify handles POST /api/v1/deposits/:id/verify. It checks the claim with
// one provider and changes nothing.
func (h *DepositHandler) Verify(c *gin.Context) {
	id, err := pathID(c, "id", "deposit")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	choice, err := domain.ParseProviderChoice(req.Provider)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.dispatcher.Verify(c.Request.Context(), id, choice)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAudit(c, middleware.AuditEntry{
		Action:       domain.AuditActionVerify,
		ResourceType: "deposit",
		ResourceID:   id.String(),
		Details:      map[string]interface{}{"provider": string(choice), "reference": result.Outcome.Reference},
	})
	response.OK(c, dto.ToVerificationResponse(result))
}
