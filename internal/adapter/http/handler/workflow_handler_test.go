package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"deposit-reconciler/internal/adapter/http/dto"
	"deposit-reconciler/internal/adapter/http/middleware"
	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/internal/core/ports/mocks"
	"deposit-reconciler/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func workflowRouter(ctrl ports.WorkflowController, auditSvc ports.AuditService) *gin.Engine {
	h := NewWorkflowHandler(ctrl)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.CtxOperatorID, "op-1")
		c.Next()
	})
	if auditSvc != nil {
		r.Use(middleware.AuditLog(auditSvc))
	}
	r.POST("/workflows", h.Start)
	r.GET("/workflows/:id", h.Get)
	r.POST("/workflows/:id/provider", h.SelectProvider)
	r.POST("/workflows/:id/confirm", h.Confirm)
	r.POST("/workflows/:id/cancel", h.Cancel)
	return r
}

func sampleWorkflow(kind domain.WorkflowKind, state domain.WorkflowState) *domain.Workflow {
	wf := domain.NewWorkflow(uuid.New(), kind, "op-1", time.Now().UTC())
	wf.State = state
	return wf
}

func TestWorkflowStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)
	depositID := uuid.New()
	wf := domain.NewWorkflow(depositID, domain.WorkflowKindCorrection, "op-1", time.Now().UTC())
	workflows.EXPECT().Start(gomock.Any(), ports.StartWorkflowRequest{
		DepositID:        depositID,
		Kind:             domain.WorkflowKindCorrection,
		NewTransactionID: "TX-new",
		OperatorID:       "op-1",
	}).Return(wf, nil)

	w, env := doJSON(t, workflowRouter(workflows, nil), http.MethodPost, "/workflows", dto.StartWorkflowRequest{
		DepositID:        depositID.String(),
		Kind:             "CORRECTION",
		NewTransactionID: "TX-new",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var got dto.WorkflowResponse
	decodeData(t, env, &got)
	assert.Equal(t, "AWAITING_CONFIRMATION", got.State)
	assert.Equal(t, depositID.String(), got.DepositID)
}

func TestWorkflowStart_BadBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)

	w, _ := doJSON(t, workflowRouter(workflows, nil), http.MethodPost, "/workflows", map[string]string{
		"deposit_id": "123",
		"kind":       "APPROVAL",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkflowStart_ClaimNotPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)
	workflows.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrClaimNotPending())

	w, env := doJSON(t, workflowRouter(workflows, nil), http.MethodPost, "/workflows", dto.StartWorkflowRequest{
		DepositID: uuid.NewString(),
		Kind:      "REJECTION",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeConflict, env.ErrorCode)
}

func TestWorkflowGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)
	workflows.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrNotFound("workflow"))

	w, _ := doJSON(t, workflowRouter(workflows, nil), http.MethodGet, "/workflows/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkflowSelectProvider_AuditsVerify(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)
	auditSvc := mocks.NewMockAuditService(ctrl)

	wf := sampleWorkflow(domain.WorkflowKindApproval, domain.WorkflowAwaitingConfirmation)
	wf.Provider = domain.ProviderCrossProvider
	wf.Outcome = &domain.VerificationOutcome{Success: true, Provider: domain.ProviderCrossProvider}
	workflows.EXPECT().SelectProvider(gomock.Any(), wf.ID, domain.ProviderCrossProvider).Return(wf, nil)

	logged := make(chan *domain.AuditLog, 1)
	auditSvc.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.AuditLog) {
		logged <- e
	})

	w, env := doJSON(t, workflowRouter(workflows, auditSvc), http.MethodPost,
		"/workflows/"+wf.ID.String()+"/provider", dto.SelectProviderRequest{Provider: "cross_provider"})

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.WorkflowResponse
	decodeData(t, env, &got)
	require.NotNil(t, got.Outcome)

	e := <-logged
	assert.Equal(t, domain.AuditActionVerify, e.Action)
	assert.Equal(t, wf.DepositID.String(), e.ResourceID)
	assert.Equal(t, "op-1", e.OperatorID)
}

func TestWorkflowSelectProvider_Aborted(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)
	auditSvc := mocks.NewMockAuditService(ctrl)
	workflows.EXPECT().SelectProvider(gomock.Any(), gomock.Any(), domain.ProviderSameBank).
		Return(nil, apperror.ErrConfirmationAborted())

	w, env := doJSON(t, workflowRouter(workflows, auditSvc), http.MethodPost,
		"/workflows/"+uuid.NewString()+"/provider", dto.SelectProviderRequest{Provider: "SAME_BANK"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeConfirmationAborted, env.ErrorCode)
}

func TestWorkflowConfirm_AuditActionPerKind(t *testing.T) {
	tests := []struct {
		kind    domain.WorkflowKind
		action  domain.AuditAction
		message string
	}{
		{domain.WorkflowKindApproval, domain.AuditActionApprove, "Deposit approved"},
		{domain.WorkflowKindRejection, domain.AuditActionReject, "Deposit rejected"},
		{domain.WorkflowKindCorrection, domain.AuditActionCorrect, "Transaction ID updated"},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			workflows := mocks.NewMockWorkflowController(ctrl)
			auditSvc := mocks.NewMockAuditService(ctrl)

			wf := sampleWorkflow(tc.kind, domain.WorkflowCompleted)
			workflows.EXPECT().Confirm(gomock.Any(), wf.ID).Return(wf, nil)
			logged := make(chan *domain.AuditLog, 1)
			auditSvc.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.AuditLog) {
				logged <- e
			})

			w, env := doJSON(t, workflowRouter(workflows, auditSvc), http.MethodPost,
				"/workflows/"+wf.ID.String()+"/confirm", nil)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.message, env.Message)
			assert.Equal(t, tc.action, (<-logged).Action)
		})
	}
}

func TestWorkflowConfirm_InvalidStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)
	workflows.EXPECT().Confirm(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidStep(domain.ErrInvalidWorkflowTransition))

	w, env := doJSON(t, workflowRouter(workflows, nil), http.MethodPost, "/workflows/"+uuid.NewString()+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeInvalidStep, env.ErrorCode)
}

func TestWorkflowCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	workflows := mocks.NewMockWorkflowController(ctrl)
	wf := sampleWorkflow(domain.WorkflowKindApproval, domain.WorkflowCancelled)
	workflows.EXPECT().Cancel(gomock.Any(), wf.ID).Return(wf, nil)

	w, env := doJSON(t, workflowRouter(workflows, nil), http.MethodPost, "/workflows/"+wf.ID.String()+"/cancel", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.WorkflowResponse
	decodeData(t, env, &got)
	assert.Equal(t, "CANCELLED", got.State)
}
