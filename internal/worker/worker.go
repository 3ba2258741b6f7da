package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/chiplogic-academy/backend/internal/emailer"
	"github.com/chiplogic-academy/backend/internal/models"
	"github.com/chiplogic-academy/backend/internal/sheets"
	"github.com/chiplogic-academy/backend/pkg/queue"
)

// Processor consumes form-followup jobs: spreadsheet-append rows and
// acknowledgement emails.
type Processor struct {
	queue     *queue.Queue
	sheets    *sheets.Client
	email     *emailer.Client
	emailRepo *emailer.Repository
	logger    *zap.Logger
}

// NewProcessor creates a followup job processor.
func NewProcessor(q *queue.Queue, sheetsClient *sheets.Client, emailClient *emailer.Client, emailRepo *emailer.Repository, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{queue: q, sheets: sheetsClient, email: emailClient, emailRepo: emailRepo, logger: logger}
}

// Run consumes jobs until ctx is cancelled. Failed jobs are retried by the
// queue and end up in the DLQ after the retry budget.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.String("type", string(job.Type)), zap.Error(err))
			if rErr := p.queue.Retry(ctx, job); rErr != nil {
				p.logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(rErr))
			}
		}
	}
}

// Process executes one job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeSheetAppend:
		return p.processSheetAppend(ctx, job)
	case queue.JobTypeEmail:
		return p.processEmail(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *Processor) processSheetAppend(ctx context.Context, job *queue.Job) error {
	var payload queue.SheetAppendPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := p.sheets.Append(ctx, payload.FormType, payload.Row); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	p.logger.Info("sheet row appended",
		zap.String("form", payload.FormType),
		zap.String("lead_id", payload.LeadID.String()),
	)
	return nil
}

func (p *Processor) processEmail(ctx context.Context, job *queue.Job) error {
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	sendErr := p.email.Send(ctx, payload.Recipient, payload.Name, payload.Subject, payload.BodyHTML)

	if p.emailRepo != nil {
		log := &models.EmailLog{
			Recipient: payload.Recipient,
			EmailType: payload.EmailType,
			Subject:   payload.Subject,
			Status:    models.EmailStatusSent,
		}
		if sendErr != nil {
			log.Status = models.EmailStatusFailed
			log.Error = sendErr.Error()
		}
		if err := p.emailRepo.Log(ctx, log); err != nil {
			p.logger.Error("email log failed", zap.String("recipient", payload.Recipient), zap.Error(err))
		}
	}
	if sendErr != nil {
		return fmt.Errorf("send email: %w", sendErr)
	}
	return nil
}
