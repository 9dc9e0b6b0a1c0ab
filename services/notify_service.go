package services

import (
	"fmt"
	"log"

	"fiber-wms/config"

	"gopkg.in/gomail.v2"
)

// Notifier sends mail on document decisions. When SMTP_HOST is not
// configured every send is a silent no-op so local setups work without a
// mail server.
type Notifier struct {
	dialer *gomail.Dialer
}

func NewNotifier() *Notifier {
	if config.SMTPHost == "" {
		return &Notifier{}
	}
	return &Notifier{
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword),
	}
}

// DocumentDecision mails the configured recipient that a document was
// approved, rejected, completed or reopened.
func (n *Notifier) DocumentDecision(docType, docNo, action, reason string) error {
	if n.dialer == nil || config.NotifyTo == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.SMTPSender)
	m.SetHeader("To", config.NotifyTo)
	m.SetHeader("Subject", fmt.Sprintf("[WMS] %s %s %s", docType, docNo, action))

	body := fmt.Sprintf("Document %s (%s) was %s.", docNo, docType, action)
	if reason != "" {
		body += "\nReason: " + reason
	}
	m.SetBody("text/plain", body)

	return n.dialer.DialAndSend(m)
}

// NotifyAsync fires the mail without holding up the request.
func (n *Notifier) NotifyAsync(docType, docNo, action, reason string) {
	if n.dialer == nil || config.NotifyTo == "" {
		return
	}
	go func() {
		if err := n.DocumentDecision(docType, docNo, action, reason); err != nil {
			log.Printf("notify: failed to send %s %s mail: %v", docType, docNo, err)
		}
	}()
}
