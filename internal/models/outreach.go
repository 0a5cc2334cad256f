// internal/models/outreach.go
package models

import "time"

// Preferred contact methods for an outreach packet.
const (
	ContactMethodEmail       = "email"
	ContactMethodWebsiteForm = "website_form"
	ContactMethodPhone       = "phone"
)

// OutreachPartner identifies the partner an outreach packet targets.
type OutreachPartner struct {
	PartnerID   string  `json:"partnerId"`
	Name        string  `json:"name"`
	PartnerType string  `json:"partnerType"`
	Contact     Contact `json:"contact"`
}

// MoneyRange is an estimated value band in a single currency.
type MoneyRange struct {
	CurrencyCode string   `json:"currencyCode"`
	Low          *float64 `json:"low,omitempty"`
	Likely       *float64 `json:"likely,omitempty"`
	High         *float64 `json:"high,omitempty"`
}

// ItemSummary describes the item an outreach packet is about.
type ItemSummary struct {
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Category      string      `json:"category,omitempty"`
	Quantity      int         `json:"quantity,omitempty"`
	ValueEstimate *MoneyRange `json:"valueEstimate,omitempty"`
}

// PacketScope controls which artifacts the outreach packet references.
type PacketScope struct {
	Kind                string `json:"kind"` // single_item
	IncludePhotos       bool   `json:"includePhotos"`
	IncludeInventoryPDF bool   `json:"includeInventoryPdf"`
	IncludePlanSummary  bool   `json:"includePlanSummary"`
}

// OutreachComposeRequest asks for a ready-to-send outreach packet. The
// engine composes text only; it never contacts the partner.
type OutreachComposeRequest struct {
	SchemaVersion int             `json:"schemaVersion"`
	Scope         string          `json:"scope"`
	ItemID        string          `json:"itemId"`
	PlanID        string          `json:"planId,omitempty"`
	Partner       OutreachPartner `json:"partner"`
	PacketScope   *PacketScope    `json:"packetScope,omitempty"`
	ItemSummary   ItemSummary     `json:"itemSummary"`
	Location      Location        `json:"location"`
}

// Attachment is one entry of the outreach packet checklist.
type Attachment struct {
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// OutreachComposeResponse is the composed packet.
type OutreachComposeResponse struct {
	SchemaVersion          int          `json:"schemaVersion"`
	GeneratedAt            time.Time    `json:"generatedAt"`
	PreferredContactMethod string       `json:"preferredContactMethod"`
	Subject                string       `json:"subject"`
	EmailBody              string       `json:"emailBody"`
	Attachments            []Attachment `json:"attachments,omitempty"`
	FollowUps              []string     `json:"followUps,omitempty"`
	Instructions           string       `json:"instructions,omitempty"`
}
