package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"agriverify/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendReviewNeeded(ctx context.Context, toEmail string, n port.ReviewNotification) error {
	subject := fmt.Sprintf("Document %s needs manual review", n.FileName)
	htmlBody := buildReviewHTML(n)
	textBody := buildReviewText(n)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReviewText(n port.ReviewNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A verification document needs manual review.\n\n")
	fmt.Fprintf(&b, "Document: %s (%s)\n", n.FileName, n.DocumentID)
	if n.FarmerName != "" {
		fmt.Fprintf(&b, "Closest farmer match: %s\n", n.FarmerName)
	}
	fmt.Fprintf(&b, "Summary: %s\n", n.Summary)
	if len(n.Issues) > 0 {
		fmt.Fprintf(&b, "\nIssues:\n")
		for _, issue := range n.Issues {
			fmt.Fprintf(&b, "  - %s\n", issue)
		}
	}
	if len(n.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings:\n")
		for _, w := range n.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	b.WriteString("\nAgriVerify Team")
	return b.String()
}

func buildReviewHTML(n port.ReviewNotification) string {
	var items strings.Builder
	for _, issue := range n.Issues {
		fmt.Fprintf(&items, `<li style="color: #B91C1C;">%s</li>`, html.EscapeString(issue))
	}
	for _, w := range n.Warnings {
		fmt.Fprintf(&items, `<li style="color: #92400E;">%s</li>`, html.EscapeString(w))
	}

	farmerLine := ""
	if n.FarmerName != "" {
		farmerLine = fmt.Sprintf(`<p>Closest farmer match: <strong>%s</strong></p>`, html.EscapeString(n.FarmerName))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Document needs manual review</h2>
  <p>Document <strong>%s</strong> (%s) could not be verified automatically.</p>
  %s
  <p>%s</p>
  <ul>%s</ul>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">AgriVerify - Farmer Onboarding Platform</p>
</body>
</html>`, html.EscapeString(n.FileName), html.EscapeString(n.DocumentID), farmerLine, html.EscapeString(n.Summary), items.String())
}
