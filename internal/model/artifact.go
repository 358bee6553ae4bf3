package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which template produced a document.
type Kind string

const (
	KindProposal Kind = "proposal"
	KindContract Kind = "contract"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindProposal || k == KindContract
}

// Artifact is the stored record of a generated PDF.
// The bytes live in object storage under StoragePath; this is the row that points to them.
type Artifact struct {
	ID             int64           `json:"id"`
	Kind           Kind            `json:"kind"`
	ClientName     string          `json:"client_name"`
	DocumentNumber string          `json:"document_number"`
	Model          string          `json:"model"`
	Allowance      int64           `json:"allowance"`
	Amount         decimal.Decimal `json:"amount"`
	Filename       string          `json:"filename"`
	StoragePath    string          `json:"storage_path"`
	Size           int64           `json:"size"`
	CreatedAt      time.Time       `json:"created_at"`
}
