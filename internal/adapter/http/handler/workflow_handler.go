package handler

import (
	"deposit-reconciler/internal/adapter/http/dto"
	"deposit-reconciler/internal/adapter/http/middleware"
	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"
	"deposit-reconciler/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkflowHandler drives operator interactions: propose, verify, confirm, cancel.
type WorkflowHandler struct {
	workflows ports.WorkflowController
}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler(workflows ports.WorkflowController) *WorkflowHandler {
	return &WorkflowHandler{workflows: workflows}
}

// Start handles POST /api/v1/workflows.
func (h *WorkflowHandler) Start(c *gin.Context) {
	var req dto.StartWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wf, err := h.workflows.Start(c.Request.Context(), ports.StartWorkflowRequest{
		DepositID:        uuid.MustParse(req.DepositID),
		Kind:             domain.WorkflowKind(req.Kind),
		NewTransactionID: req.NewTransactionID,
		OperatorID:       middleware.OperatorID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToWorkflowResponse(wf))
}

// Get handles GET /api/v1/workflows/:id.
func (h *WorkflowHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", "workflow")
	if err != nil {
		response.Error(c, err)
		return
	}

	wf, err := h.workflows.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToWorkflowResponse(wf))
}

// SelectProvider handles POST /api/v1/workflows/:id/provider.
func (h *WorkflowHandler) SelectProvider(c *gin.Context) {
	id, err := pathID(c, "id", "workflow")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SelectProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	choice, err := domain.ParseProviderChoice(req.Provider)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wf, err := h.workflows.SelectProvider(c.Request.Context(), id, choice)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAudit(c, middleware.AuditEntry{
		Action:       domain.AuditActionVerify,
		ResourceType: "deposit",
		ResourceID:   wf.DepositID.String(),
		Details:      map[string]interface{}{"workflow_id": wf.ID.String(), "provider": string(choice)},
	})
	response.OK(c, dto.ToWorkflowResponse(wf))
}

// Confirm handles POST /api/v1/workflows/:id/confirm.
func (h *WorkflowHandler) Confirm(c *gin.Context) {
	id, err := pathID(c, "id", "workflow")
	if err != nil {
		response.Error(c, err)
		return
	}

	wf, err := h.workflows.Confirm(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	action, message := confirmAudit(wf)
	if wf.State == domain.WorkflowCancelled {
		message = "Interaction cancelled after the decision was committed"
	}
	details := map[string]interface{}{"workflow_id": wf.ID.String(), "state": string(wf.State)}
	if wf.Kind == domain.WorkflowKindCorrection {
		details["new_transaction_id"] = wf.NewTransactionID
	}
	middleware.SetAudit(c, middleware.AuditEntry{
		Action:       action,
		ResourceType: "deposit",
		ResourceID:   wf.DepositID.String(),
		Details:      details,
	})
	response.OKWithMessage(c, message, dto.ToWorkflowResponse(wf))
}

// Cancel handles POST /api/v1/workflows/:id/cancel.
func (h *WorkflowHandler) Cancel(c *gin.Context) {
	id, err := pathID(c, "id", "workflow")
	if err != nil {
		response.Error(c, err)
		return
	}

	wf, err := h.workflows.Cancel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAudit(c, middleware.AuditEntry{
		Action:       domain.AuditActionCancel,
		ResourceType: "deposit",
		ResourceID:   wf.DepositID.String(),
		Details:      map[string]interface{}{"workflow_id": wf.ID.String(), "kind": string(wf.Kind)},
	})
	response.OKWithMessage(c, "Interaction cancelled", dto.ToWorkflowResponse(wf))
}

func confirmAudit(wf *domain.Workflow) (domain.AuditAction, string) {
	switch wf.Kind {
	case domain.WorkflowKindRejection:
		return domain.AuditActionReject, "Deposit rejected"
	case domain.WorkflowKindCorrection:
		return domain.AuditActionCorrect, "Transaction ID updated"
	}
	return domain.AuditActionApprove, "Deposit approved"
}
