// internal/workers/disposition/compose-outreach/handler.go

// Package composeoutreach builds ready-to-send outreach packets for a
// chosen partner: a subject line, an email body, an attachment checklist,
// and follow-up prompts. Composition only; nothing is ever sent.
package composeoutreach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	commonerrors "disposition-engine/internal/common/errors"
	"disposition-engine/internal/common/logger"
	"disposition-engine/internal/common/metrics"
	"disposition-engine/internal/models"
)

const (
	TaskType = "compose-outreach"

	schemaVersion = 1
)

type Handler struct {
	config       *Config
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		parseErr := commonerrors.NewParseError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(commonerrors.CodeOf(parseErr))).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job, parseErr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(commonerrors.CodeOf(err))).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	req := input.OutreachComposeRequest
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	packet := &models.OutreachComposeResponse{
		SchemaVersion:          schemaVersion,
		GeneratedAt:            time.Now().UTC(),
		PreferredContactMethod: preferredContactMethod(req.Partner.Contact),
		Subject:                subjectLine(req),
		EmailBody:              emailBody(req),
		Attachments:            attachments(req.PacketScope),
		FollowUps:              followUps(req.Partner.PartnerType),
		Instructions:           instructions(req.Partner),
	}

	h.logger.Info("outreach packet composed", map[string]interface{}{
		"partnerId":     req.Partner.PartnerID,
		"partnerType":   req.Partner.PartnerType,
		"contactMethod": packet.PreferredContactMethod,
	})

	return &Output{OutreachPacket: packet}, nil
}

// Execute exposes the core logic for tests and embedded callers.
func (h *Handler) Execute(ctx context.Context, req models.OutreachComposeRequest) (*Output, error) {
	return h.execute(ctx, &Input{OutreachComposeRequest: req})
}

func validateRequest(req models.OutreachComposeRequest) error {
	switch {
	case strings.TrimSpace(req.Partner.Name) == "":
		return commonerrors.NewInvalidScenarioError("partner.name is required")
	case strings.TrimSpace(req.ItemSummary.Title) == "":
		return commonerrors.NewInvalidScenarioError("itemSummary.title is required")
	}
	return nil
}

// preferredContactMethod picks the richest channel the partner exposes.
func preferredContactMethod(contact models.Contact) string {
	switch {
	case contact.Email != "":
		return models.ContactMethodEmail
	case contact.Website != "":
		return models.ContactMethodWebsiteForm
	default:
		return models.ContactMethodPhone
	}
}

func subjectLine(req models.OutreachComposeRequest) string {
	item := req.ItemSummary.Title
	switch req.Partner.PartnerType {
	case models.PartnerTypeConsignment:
		return fmt.Sprintf("Consignment inquiry: %s", item)
	case models.PartnerTypeEstateSale:
		return fmt.Sprintf("Estate sale inquiry: %s", item)
	case models.PartnerTypeAuction:
		return fmt.Sprintf("Auction consignment inquiry: %s", item)
	case models.PartnerTypeDonation:
		return fmt.Sprintf("Donation inquiry: %s", item)
	case models.PartnerTypeJunkHaul:
		return fmt.Sprintf("Removal quote request: %s", item)
	case models.PartnerTypeLuxuryMailin:
		return fmt.Sprintf("Mail-in consignment inquiry: %s", item)
	default:
		return fmt.Sprintf("Inquiry about: %s", item)
	}
}

func emailBody(req models.OutreachComposeRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", req.Partner.Name)
	fmt.Fprintf(&b, "I'm looking for help with the following item in %s, %s:\n\n", req.Location.City, req.Location.Region)
	fmt.Fprintf(&b, "  Item: %s\n", req.ItemSummary.Title)
	if req.ItemSummary.Category != "" {
		fmt.Fprintf(&b, "  Category: %s\n", req.ItemSummary.Category)
	}
	if req.ItemSummary.Quantity > 1 {
		fmt.Fprintf(&b, "  Quantity: %d\n", req.ItemSummary.Quantity)
	}
	if req.ItemSummary.Description != "" {
		fmt.Fprintf(&b, "  Details: %s\n", req.ItemSummary.Description)
	}
	if est := req.ItemSummary.ValueEstimate; est != nil && est.Likely != nil {
		fmt.Fprintf(&b, "  Estimated value: around %.0f %s\n", *est.Likely, est.CurrencyCode)
	}

	b.WriteString("\n")
	switch req.Partner.PartnerType {
	case models.PartnerTypeConsignment, models.PartnerTypeAuction, models.PartnerTypeLuxuryMailin:
		b.WriteString("Could you let me know your terms, commission structure, and whether this item would be a fit for you?\n")
	case models.PartnerTypeEstateSale:
		b.WriteString("Could you let me know whether you take on items like this, and what your process and fees look like?\n")
	case models.PartnerTypeDonation:
		b.WriteString("Would you be able to accept this as a donation, and do you offer pickup or provide a tax receipt?\n")
	case models.PartnerTypeJunkHaul:
		b.WriteString("Could you provide a quote for removal, including any volume or access considerations?\n")
	default:
		b.WriteString("Could you let me know whether you handle items like this and what the next steps would be?\n")
	}

	b.WriteString("\nThank you,\n")
	return b.String()
}

// attachments builds the packet checklist from the requested scope.
func attachments(scope *models.PacketScope) []models.Attachment {
	if scope == nil {
		return []models.Attachment{
			{Kind: "photos", Label: "Photos of the item", Required: true},
		}
	}

	var out []models.Attachment
	if scope.IncludePhotos {
		out = append(out, models.Attachment{Kind: "photos", Label: "Photos of the item", Required: true})
	}
	if scope.IncludeInventoryPDF {
		out = append(out, models.Attachment{Kind: "inventory_pdf", Label: "Inventory summary (PDF)", Required: false})
	}
	if scope.IncludePlanSummary {
		out = append(out, models.Attachment{Kind: "plan_summary", Label: "Disposition plan summary", Required: false})
	}
	return out
}

func followUps(partnerType string) []string {
	switch partnerType {
	case models.PartnerTypeConsignment, models.PartnerTypeAuction:
		return []string{
			"If no reply in 3 business days, follow up by phone.",
			"Confirm the commission split in writing before dropping anything off.",
		}
	case models.PartnerTypeDonation:
		return []string{
			"Ask for the tax receipt at drop-off or pickup.",
		}
	case models.PartnerTypeJunkHaul:
		return []string{
			"Get the quote confirmed as binding before the crew arrives.",
		}
	default:
		return []string{
			"If no reply in 3 business days, follow up by phone.",
		}
	}
}

func instructions(partner models.OutreachPartner) string {
	switch preferredContactMethod(partner.Contact) {
	case models.ContactMethodEmail:
		return fmt.Sprintf("Send the email to %s with the listed attachments.", partner.Contact.Email)
	case models.ContactMethodWebsiteForm:
		return fmt.Sprintf("Paste the message into the contact form at %s. Attach photos if the form allows uploads.", partner.Contact.Website)
	default:
		if partner.Contact.Phone != "" {
			return fmt.Sprintf("Call %s and use the message as a talking script.", partner.Contact.Phone)
		}
		return "No direct contact details available; use the message as a talking script when you reach them."
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}
