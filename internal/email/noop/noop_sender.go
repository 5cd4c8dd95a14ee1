package noop

import (
	"context"
	"log"

	"agriverify/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReviewNeeded(_ context.Context, toEmail string, n port.ReviewNotification) error {
	log.Printf("[NOOP EMAIL] Review needed for document %s (%s) to %s: %s", n.FileName, n.DocumentID, toEmail, n.Summary)
	return nil
}
