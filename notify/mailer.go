// Package notify mails payslips to employees after a payroll run.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"payroll/models"

	"gopkg.in/gomail.v2"
)

// Sender delivers a composed message.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	sender Sender
	from   string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	d := gomail.NewDialer(host, port, user, pass)
	d.TLSConfig = &tls.Config{ServerName: host}
	if from == "" {
		from = user
	}
	return &Mailer{sender: d, from: from}
}

func NewMailerWithSender(sender Sender, from string) *Mailer {
	return &Mailer{sender: sender, from: from}
}

// NotifyPayroll sends the payslip for record. Employees without an email
// address are skipped silently.
func (m *Mailer) NotifyPayroll(ctx context.Context, emp *models.Employee, record models.PayrollRecord) error {
	if strings.TrimSpace(emp.Email) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", emp.Email)
	msg.SetHeader("Subject", Subject(record))
	msg.SetBody("text/plain", Body(emp, record))

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send payslip to %s: %w", emp.Email, err)
	}
	return nil
}

func Subject(record models.PayrollRecord) string {
	if record.Kind == models.KindFee {
		return fmt.Sprintf("Fee statement %s", record.Period)
	}
	return fmt.Sprintf("Payslip %s", record.Period)
}

func Body(emp *models.Employee, record models.PayrollRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", emp.DisplayName())
	switch record.Kind {
	case models.KindFee:
		fmt.Fprintf(&b, "Your fee for %s is %.2f.\n", record.Period, record.Amount)
	default:
		hours := 0.0
		if record.HoursWorked != nil {
			hours = *record.HoursWorked
		}
		fmt.Fprintf(&b, "Hours worked in %s: %.2f\n", record.Period, hours)
		fmt.Fprintf(&b, "Salary: %.2f\n", record.Amount)
	}
	fmt.Fprintf(&b, "\nReference: %s\n", record.ID)
	return b.String()
}
