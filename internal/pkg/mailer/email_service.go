package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"ai-procurement-be/internal/entity"
)

type IEmailService interface {
	SendApprovalRequest(toEmail string, rec *entity.ProcurementRecommendation) error
	SendRunDegradedAlert(toEmail, query string, errors []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendApprovalRequest notifies a human reviewer that a recommendation
// fell below the auto-approval confidence bar.
func (s *emailService) SendApprovalRequest(toEmail string, rec *entity.ProcurementRecommendation) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Approval needed: %s", rec.ProductName))

	best := "no viable offer found"
	if rec.BestOption != nil {
		best = fmt.Sprintf("%s on %s at KES %.2f", rec.BestOption.Seller, rec.BestOption.Platform, rec.BestOption.PriceKES)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Procurement approval required</h2>
			<p><b>Product:</b> %s (%s)</p>
			<p><b>Best option:</b> %s</p>
			<p><b>Confidence:</b> %.0f%%</p>
			<p><b>Reason:</b> %s</p>
			<p>%s</p>
		</div>
	`, rec.ProductName, rec.Category, best, rec.ConfidenceScore*100, rec.ApprovalReason, rec.FinalRecommendation)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send approval request to %s: %w", toEmail, err)
	}
	return nil
}

// SendRunDegradedAlert flags a run that completed with recorded errors.
func (s *emailService) SendRunDegradedAlert(toEmail, query string, errors []string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Degraded procurement run: %s", query))

	list := ""
	for _, e := range errors {
		list += fmt.Sprintf("<li>%s</li>", e)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Run completed with errors</h2>
			<p><b>Query:</b> %s</p>
			<ul>%s</ul>
		</div>
	`, query, list)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send degraded alert to %s: %w", toEmail, err)
	}
	return nil
}
