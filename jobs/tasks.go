package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeDelinquencyScan walks active leases and flags tenants in arrears.
	TaskTypeDelinquencyScan = "ledger:delinquency_scan"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// DelinquencyScanPayload configures one scan run. An empty AsOf means "now";
// MinMonthsBehind below 1 is clamped to 1.
type DelinquencyScanPayload struct {
	AsOf            string `json:"as_of,omitempty"`
	MinMonthsBehind int    `json:"min_months_behind,omitempty"`
}

// NewDelinquencyScanTask constructs the scheduled scan task.
func NewDelinquencyScanTask(payload DelinquencyScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDelinquencyScan, data), nil
}
