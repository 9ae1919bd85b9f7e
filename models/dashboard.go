// models/dashboard.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment is an opaque base64-encoded blob with upload metadata. Used for
// company presentation PDFs and signature images.
type Attachment struct {
	Title        string    `bson:"title,omitempty" json:"title,omitempty"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	FounderName  string    `bson:"founderName,omitempty" json:"founderName,omitempty"`
	FounderTitle string    `bson:"founderTitle,omitempty" json:"founderTitle,omitempty"`
	Filename     string    `bson:"filename,omitempty" json:"filename,omitempty"`
	OriginalName string    `bson:"originalName" json:"originalName"`
	Mimetype     string    `bson:"mimetype" json:"mimetype"`
	Size         int64     `bson:"size" json:"size"`
	Data         string    `bson:"data" json:"-"` // base64 payload, kept out of JSON listings
	UploadedAt   time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Dashboard is the per-company aggregate document. One exists per userId
// (unique index); it is created lazily on first read or write.
//
// Section payloads are semi-structured and live under sections keyed by the
// enumerated section name. Which sections accept writes is controlled by the
// approvals map; the audit array is append-only.
type Dashboard struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID     `bson:"userId" json:"userId"`
	Sections  map[string]interface{} `bson:"sections" json:"sections"`
	Approvals map[string]string      `bson:"approvals" json:"approvals"`

	IsDisplayedOnWebsite bool    `bson:"isDisplayedOnWebsite" json:"isDisplayedOnWebsite"`
	PublicAmount         float64 `bson:"publicAmount" json:"publicAmount"`

	PDFDocument      *Attachment `bson:"pdfDocument,omitempty" json:"pdfDocument,omitempty"`
	CompanySignature *Attachment `bson:"companySignature,omitempty" json:"companySignature,omitempty"`

	CompletionPercentage int       `bson:"completionPercentage" json:"completionPercentage"`
	IsComplete           bool      `bson:"isComplete" json:"isComplete"`
	LastUpdated          time.Time `bson:"lastUpdated" json:"lastUpdated"`

	Audit []AuditEntry `bson:"audit" json:"audit"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Section returns the stored payload for a section, or nil.
func (d *Dashboard) Section(name string) interface{} {
	if d.Sections == nil {
		return nil
	}
	return d.Sections[name]
}

// ApprovalState returns the stored approval state for a section; unset gated
// sections read as locked.
func (d *Dashboard) ApprovalState(name string) string {
	if d.Approvals != nil {
		if s, ok := d.Approvals[name]; ok && s != "" {
			return s
		}
	}
	return "locked"
}

// SectionMeta is one row of the completion-status breakdown.
type SectionMeta struct {
	Component   string    `json:"component"`
	IsComplete  bool      `json:"isComplete"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// SectionPayloadAsMap coerces a stored section payload into a bson.M when it
// is an object, returning nil otherwise. Handles both JSON-decoded maps and
// the driver's bson.D documents.
func SectionPayloadAsMap(v interface{}) bson.M {
	switch m := v.(type) {
	case bson.M:
		return m
	case map[string]interface{}:
		return bson.M(m)
	case bson.D:
		out := make(bson.M, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	default:
		return nil
	}
}
