package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendQuotationMail delivers a rendered quotation email.
	TaskTypeSendQuotationMail = "mail:send_quotation"
)

// SendQuotationMailPayload carries a fully rendered message. Rendering
// happens at enqueue time so the worker needs no database access.
type SendQuotationMailPayload struct {
	QuotationID int64  `json:"quotation_id"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	TextBody    string `json:"text_body"`
	HTMLBody    string `json:"html_body"`
}

// NewSendQuotationMailTask constructs an Asynq task.
func NewSendQuotationMailTask(payload SendQuotationMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendQuotationMail, data, asynq.MaxRetry(5)), nil
}
