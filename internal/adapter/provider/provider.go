// Package provider holds the HTTP adapters of the external verification
// endpoints. All three speak the same envelope: {success, message, data, user}.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"deposit-reconciler/config"
	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// paymentDateLayouts are tried in order.
var paymentDateLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05"}

type verifyRequest struct {
	TransactionReference string `json:"transactionReference"`
	ClaimantID           string `json:"claimantId"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
}

type outcomePayload struct {
	Payer             string           `json:"payer"`
	PayerAccount      string           `json:"payerAccount"`
	Receiver          string           `json:"receiver"`
	ReceiverAccount   *string          `json:"receiverAccount"`
	TransferredAmount *decimal.Decimal `json:"transferredAmount"`
	Reference         string           `json:"reference"`
	PaymentDate       string           `json:"paymentDate"`
}

type claimantPayload struct {
	ChatID      string          `json:"chatId"`
	Username    string          `json:"username"`
	PhoneNumber string          `json:"phoneNumber"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewClient builds the resty client shared by every provider adapter.
func NewClient(cfg config.ProvidersConfig) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
}

// HTTPProvider verifies transfers against one external endpoint.
type HTTPProvider struct {
	client *resty.Client
	choice domain.ProviderChoice
	path   string
	log    zerolog.Logger
}

func newHTTPProvider(client *resty.Client, choice domain.ProviderChoice, path string, log zerolog.Logger) *HTTPProvider {
	return &HTTPProvider{
		client: client,
		choice: choice,
		path:   path,
		log:    log.With().Str("provider", string(choice)).Logger(),
	}
}

// NewSameBankProvider verifies bank-to-bank transfers.
func NewSameBankProvider(client *resty.Client, cfg config.ProvidersConfig, log zerolog.Logger) *HTTPProvider {
	return newHTTPProvider(client, domain.ProviderSameBank, cfg.SameBankPath, log)
}

// NewSameWalletProvider verifies wallet-to-wallet transfers.
func NewSameWalletProvider(client *resty.Client, cfg config.ProvidersConfig, log zerolog.Logger) *HTTPProvider {
	return newHTTPProvider(client, domain.ProviderSameWallet, cfg.SameWalletPath, log)
}

// NewCrossProvider verifies transfers between a bank and a wallet.
func NewCrossProvider(client *resty.Client, cfg config.ProvidersConfig, log zerolog.Logger) *HTTPProvider {
	return newHTTPProvider(client, domain.ProviderCrossProvider, cfg.CrossProviderPath, log)
}

// NewProviders builds all three adapters over one client.
func NewProviders(cfg config.ProvidersConfig, log zerolog.Logger) []ports.VerifyProvider {
	client := NewClient(cfg)
	return []ports.VerifyProvider{
		NewSameBankProvider(client, cfg, log),
		NewSameWalletProvider(client, cfg, log),
		NewCrossProvider(client, cfg, log),
	}
}

// Choice returns the provider this adapter serves.
func (p *HTTPProvider) Choice() domain.ProviderChoice {
	return p.choice
}

// Verify looks up one transfer. Transport failures and non-2xx answers are
// network errors; a body that does not match the envelope is a validation error.
func (p *HTTPProvider) Verify(ctx context.Context, req ports.ProviderRequest) (*ports.ProviderResult, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(verifyRequest{
			TransactionReference: req.TransactionReference,
			ClaimantID:           req.ClaimantID,
		}).
		Post(p.path)
	if err != nil {
		return nil, apperror.ErrNetwork(fmt.Errorf("post %s: %w", p.path, err))
	}
	if !resp.IsSuccess() {
		p.log.Debug().Int("status", resp.StatusCode()).Msg("Provider answered with non-2xx status")
		return nil, apperror.ErrNetwork(fmt.Errorf("post %s: unexpected status %d", p.path, resp.StatusCode()))
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, apperror.ErrValidation(fmt.Errorf("decode envelope: %w", err))
	}
	if !env.Success {
		return &ports.ProviderResult{Success: false, Message: env.Message}, nil
	}

	outcome, err := decodeOutcome(env.Data)
	if err != nil {
		return nil, apperror.ErrValidation(err)
	}
	claimant, err := decodeClaimant(env.User)
	if err != nil {
		return nil, apperror.ErrValidation(err)
	}

	return &ports.ProviderResult{
		Success:  true,
		Message:  env.Message,
		Outcome:  outcome,
		Claimant: claimant,
	}, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeOutcome(raw json.RawMessage) (*domain.VerificationOutcome, error) {
	if isAbsent(raw) {
		return nil, errors.New("response has no data")
	}
	var p outcomePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if p.ReceiverAccount == nil {
		return nil, errors.New("data has no receiverAccount")
	}
	if p.TransferredAmount == nil {
		return nil, errors.New("data has no transferredAmount")
	}
	paidAt, err := parsePaymentDate(p.PaymentDate)
	if err != nil {
		return nil, err
	}

	return &domain.VerificationOutcome{
		Success:           true,
		Payer:             p.Payer,
		PayerAccount:      p.PayerAccount,
		Receiver:          p.Receiver,
		ReceiverAccount:   *p.ReceiverAccount,
		TransferredAmount: *p.TransferredAmount,
		Reference:         p.Reference,
		PaymentDate:       paidAt,
	}, nil
}

func decodeClaimant(raw json.RawMessage) (*domain.ClaimantSnapshot, error) {
	if isAbsent(raw) {
		return nil, errors.New("response has no user")
	}
	var p claimantPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &domain.ClaimantSnapshot{
		ChatID:      p.ChatID,
		Username:    p.Username,
		PhoneNumber: p.PhoneNumber,
		Balance:     p.Balance,
	}, nil
}

// parsePaymentDate accepts RFC3339 or "2006-01-02 15:04:05" (UTC). Empty is zero.
func parsePaymentDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range paymentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable paymentDate %q", s)
}
