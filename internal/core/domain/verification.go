package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinReceiverAccountLen is the shortest receiver account the same-wallet
// provider returns for a genuine transfer. Shorter values come from a known
// degenerate response shape and are never trusted.
const MinReceiverAccountLen = 5

// ProviderChoice selects which external verification endpoint checks a claim.
type ProviderChoice string

const (
	ProviderSameBank      ProviderChoice = "SAME_BANK"
	ProviderSameWallet    ProviderChoice = "SAME_WALLET"
	ProviderCrossProvider ProviderChoice = "CROSS_PROVIDER"
)

// ProviderChoices lists every supported provider in display order.
var ProviderChoices = []ProviderChoice{ProviderSameBank, ProviderSameWallet, ProviderCrossProvider}

// ParseProviderChoice parses a provider name case-insensitively.
func ParseProviderChoice(s string) (ProviderChoice, error) {
	normalized := ProviderChoice(strings.ToUpper(strings.TrimSpace(s)))
	for _, p := range ProviderChoices {
		if p == normalized {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// VerificationOutcome is the answer of one provider call. It lives only for
// the duration of one workflow and is never persisted on its own.
type VerificationOutcome struct {
	Success           bool            `json:"success"`
	Payer             string          `json:"payer"`
	PayerAccount      string          `json:"payer_account"`
	Receiver          string          `json:"receiver"`
	ReceiverAccount   string          `json:"receiver_account"`
	TransferredAmount decimal.Decimal `json:"transferred_amount"`
	Reference         string          `json:"reference"`
	PaymentDate       time.Time       `json:"payment_date"`

	// Dispatch provenance, stamped by the dispatcher.
	DepositID         uuid.UUID      `json:"deposit_id"`
	Provider          ProviderChoice `json:"provider"`
	VerifiedReference string         `json:"verified_reference"`
	ClaimRevision     time.Time      `json:"claim_revision"`
	ObtainedAt        time.Time      `json:"obtained_at"`
}

// HasDegenerateReceiver reports whether the receiver account is too short to
// be a real account number. Length is counted in characters.
func (o *VerificationOutcome) HasDegenerateReceiver() bool {
	return utf8.RuneCountInString(o.ReceiverAccount) < MinReceiverAccountLen
}

// ClaimantSnapshot is the claimant's account as seen at verification time.
type ClaimantSnapshot struct {
	ChatID      string          `json:"chat_id"`
	Username    string          `json:"username"`
	PhoneNumber string          `json:"phone_number"`
	Balance     decimal.Decimal `json:"balance"`
}
