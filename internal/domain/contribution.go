package domain

import "time"

// Contribution is one confirmed payment from a supporter to a creator. A row
// is written only after gateway signature verification succeeds and is
// immutable afterwards. PaymentID is unique across all contributions, which
// is what makes the write retry-safe.
type Contribution struct {
	ID                string
	RecipientUsername string
	PayerName         string
	Message           string
	Amount            int64 // minor currency units, always > 0
	Currency          string
	OrderID           string
	PaymentID         string
	Country           string // best-effort supporter country, may be empty
	CreatedAt         time.Time
}
