package port

import "context"

// ReviewNotification describes a verification that needs a human look.
type ReviewNotification struct {
	DocumentID string
	FileName   string
	FarmerName string
	Summary    string
	Issues     []string
	Warnings   []string
}

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	SendReviewNeeded(ctx context.Context, toEmail string, n ReviewNotification) error
}
