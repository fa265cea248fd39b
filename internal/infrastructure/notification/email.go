package notification

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type SMTPConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPNotifier sends seat availability notices to tenant admins.
// When Enabled is false every send is a logged no-op.
type SMTPNotifier struct {
	config SMTPConfig
	dialer *gomail.Dialer
	logger logger.Interface
}

func NewSMTPNotifier(config SMTPConfig, log logger.Interface) *SMTPNotifier {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPNotifier{
		config: config,
		dialer: dialer,
		logger: log,
	}
}

func (s *SMTPNotifier) SendSeatAssignedNotice(to, displayName, applicationName, licenseTypeName string) error {
	if !s.config.Enabled {
		s.logger.Debugw("email disabled, skipping seat assigned notice",
			"to", to,
			"application", applicationName)
		return nil
	}

	subject := fmt.Sprintf("You now have access to %s", applicationName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>License Assigned</h2>
			<p>Hi %s,</p>
			<p>A <b>%s</b> license for <b>%s</b> has been assigned to you.</p>
			<p>You can start using the application right away.</p>
		</body>
		</html>
	`, displayName, licenseTypeName, applicationName)

	plainBody := fmt.Sprintf(`
License Assigned

Hi %s,

A %s license for %s has been assigned to you.

You can start using the application right away.
	`, displayName, licenseTypeName, applicationName)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) SendSeatsExhaustedNotice(to, tenantName, applicationName, licenseTypeName string, purchased int) error {
	if !s.config.Enabled {
		s.logger.Debugw("email disabled, skipping seats exhausted notice",
			"to", to,
			"application", applicationName)
		return nil
	}

	subject := fmt.Sprintf("No seats left for %s", applicationName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>License Pool Exhausted</h2>
			<p>All %d purchased seats of <b>%s</b> for <b>%s</b> in tenant <b>%s</b> are now assigned.</p>
			<p>New members cannot be granted a license until seats are freed or more are purchased.</p>
		</body>
		</html>
	`, purchased, licenseTypeName, applicationName, tenantName)

	plainBody := fmt.Sprintf(`
License Pool Exhausted

All %d purchased seats of %s for %s in tenant %s are now assigned.

New members cannot be granted a license until seats are freed or more are purchased.
	`, purchased, licenseTypeName, applicationName, tenantName)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) SendSubscriptionExpiredNotice(to, tenantName, applicationName string, revokedSeats int) error {
	if !s.config.Enabled {
		s.logger.Debugw("email disabled, skipping subscription expired notice",
			"to", to,
			"application", applicationName)
		return nil
	}

	subject := fmt.Sprintf("Subscription expired for %s", applicationName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Expired</h2>
			<p>The subscription for <b>%s</b> in tenant <b>%s</b> has expired.</p>
			<p>%d license assignments were revoked. Renew the subscription to restore access.</p>
		</body>
		</html>
	`, applicationName, tenantName, revokedSeats)

	plainBody := fmt.Sprintf(`
Subscription Expired

The subscription for %s in tenant %s has expired.

%d license assignments were revoked. Renew the subscription to restore access.
	`, applicationName, tenantName, revokedSeats)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
