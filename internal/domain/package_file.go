package domain

import "time"

// FileKind classifies uploaded evidence documents.
type FileKind string

const (
	FileKindReceiptProof  FileKind = "RECEIPT_PROOF"
	FileKindShippingProof FileKind = "SHIPPING_PROOF"
	FileKindPaymentProof  FileKind = "PAYMENT_PROOF"
	FileKindDocument      FileKind = "DOCUMENT"
)

// PackageFile stores metadata for an uploaded artifact attached to a
// package. Append-only; files are evidence, never an input to the
// transition logic.
type PackageFile struct {
	ID         string
	PackageID  string
	UploaderID string
	Kind       FileKind
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
