package models

// DepositStatus is the lifecycle state of an on-chain deposit.
type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositConfirmed DepositStatus = "confirmed"
	DepositError     DepositStatus = "error"
)

// User is a ledger account. Balance is in litoshis (10^-8 LTC).
type User struct {
	UserID    int64  `json:"userId"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"createdAt"`
}

// DepositAddress links a user to their derived deposit address.
type DepositAddress struct {
	UserID       int64  `json:"userId"`
	AddressIndex uint32 `json:"addressIndex"`
	Address      string `json:"address"`
	CreatedAt    string `json:"createdAt"`
}

// Deposit is one observed on-chain payment to a deposit address.
// Amount is in litoshis.
type Deposit struct {
	TxID          string        `json:"txid"`
	UserID        int64         `json:"userId"`
	Address       string        `json:"address"`
	Amount        int64         `json:"amount"`
	Confirmations int           `json:"confirmations"`
	Status        DepositStatus `json:"status"`
	CreatedAt     string        `json:"createdAt"`
	ConfirmedAt   string        `json:"confirmedAt,omitempty"`
}

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Data interface{} `json:"data,omitempty"`
}

// APIError is the standard error response.
type APIError struct {
	Error APIErrorDetail `json:"error"`
}

// APIErrorDetail contains error code and message.
type APIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
