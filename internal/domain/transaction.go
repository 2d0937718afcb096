package domain

import "time"

// TransactionType classifies a cash-flow entry.
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxAdjustment TransactionType = "adjustment"
	TxRevenue    TransactionType = "revenue"
	TxExpense    TransactionType = "expense"
	TxPayout     TransactionType = "payout" // partner commission transfer
)

// TransactionStatus is the clearing state of a cash-flow entry.
type TransactionStatus string

const (
	TxPending TransactionStatus = "pending"
	TxSettled TransactionStatus = "settled"
)

// Transaction is one cash-flow ledger entry. Value is positive for money in,
// negative for money out. Payouts created when an operation settles carry the
// source operation and partner so they can be reconciled.
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Value       float64           `json:"value"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	OperationID string            `json:"operation_id,omitempty"`
	PartnerID   string            `json:"partner_id,omitempty"`
	Method      string            `json:"method,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
