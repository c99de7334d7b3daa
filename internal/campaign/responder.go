package campaign

import (
	"context"

	"go.uber.org/zap"

	"leadpilot/internal/gateway"
)

// ReplySource produces the prospect's reply for a sent lead. A real
// inbound-mail integration would implement this; the default source
// simulates replies through the model gateway.
type ReplySource interface {
	GetReply(ctx context.Context, lead *Lead) (text string, category gateway.Category, err error)
}

// SimulatedReplySource plays the prospect: it generates a reply to the
// outreach email and then classifies that reply.
type SimulatedReplySource struct {
	gateway ModelGateway
	logger  *zap.Logger
}

// NewSimulatedReplySource creates the default reply source.
func NewSimulatedReplySource(gw ModelGateway, logger *zap.Logger) *SimulatedReplySource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedReplySource{gateway: gw, logger: logger}
}

// GetReply runs the two-step simulation. If either call fails the lead is
// treated as silent: empty text, no_response category, nil error.
func (s *SimulatedReplySource) GetReply(ctx context.Context, lead *Lead) (string, gateway.Category, error) {
	reply, err := s.gateway.Complete(ctx, ReplyPrompt(lead), gateway.DefaultCallOptions())
	if err != nil {
		s.logger.Warn("Reply simulation degraded",
			zap.String("lead", lead.Email),
			zap.Error(err))
		return "", gateway.CategoryNoResponse, nil
	}

	category, err := s.gateway.CompleteCategory(ctx, ClassifyPrompt(reply), gateway.DefaultCallOptions())
	if err != nil {
		s.logger.Warn("Reply classification degraded",
			zap.String("lead", lead.Email),
			zap.Error(err))
		return "", gateway.CategoryNoResponse, nil
	}

	return reply, category, nil
}
