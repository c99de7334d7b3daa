package campaign

import (
	"context"

	"go.uber.org/zap"
)

// MailSender delivers one outreach email. Implementations make exactly
// one delivery attempt per call; the dispatcher never retries.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher selects leads by priority threshold under a send budget and
// hands them to the mail transport.
type Dispatcher struct {
	sender    MailSender
	threshold int
	budget    int
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher. A budget <= 0 means unlimited.
func NewDispatcher(sender MailSender, threshold, budget int, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, threshold: threshold, budget: budget, logger: logger}
}

// Dispatch walks leads in ingestion order and attempts delivery for each
// pending lead whose priority meets the threshold while budget remains.
// Only successful sends consume budget. Every pending lead leaves with a
// terminal status; leads already past pending are never touched, which
// keeps delivery at most once even across reruns. Returns the number sent.
func (d *Dispatcher) Dispatch(ctx context.Context, leads []*Lead) int {
	sent := 0
	for _, lead := range leads {
		if lead.Status != StatusPending {
			continue
		}
		if lead.Priority < d.threshold || (d.budget > 0 && sent >= d.budget) {
			lead.Status = StatusSkipped
			continue
		}

		if err := d.sender.Send(ctx, lead.Email, lead.EmailSubject, lead.EmailBody); err != nil {
			lead.Status = StatusSendFailed
			lead.SendError = err.Error()
			d.logger.Warn("Delivery failed",
				zap.String("lead", lead.Email),
				zap.Error(err))
			continue
		}

		lead.Status = StatusSent
		sent++
		d.logger.Info("Outreach sent",
			zap.String("lead", lead.Email),
			zap.Int("priority", lead.Priority))
	}
	return sent
}
