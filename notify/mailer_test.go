package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"payroll/models"

	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m...)
	return nil
}

func TestNotifyPayroll(t *testing.T) {
	sender := &captureSender{}
	m := NewMailerWithSender(sender, "payroll@example.com")
	emp := &models.Employee{ID: "emp", FirstName: "Alice", LastName: "Martin", Email: "alice@example.com"}
	hours := 9.5
	record := models.PayrollRecord{ID: "r1", EmployeeID: "emp", Kind: models.KindSalary, Amount: 142.5, HoursWorked: &hours, Period: "2025-10"}

	if err := m.NotifyPayroll(context.Background(), emp, record); err != nil {
		t.Fatalf("NotifyPayroll: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if to := msg.GetHeader("To"); len(to) != 1 || to[0] != "alice@example.com" {
		t.Errorf("To = %v", to)
	}
	if subj := msg.GetHeader("Subject"); len(subj) != 1 || subj[0] != "Payslip 2025-10" {
		t.Errorf("Subject = %v", subj)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Alice Martin", "9.50", "142.50", "r1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("message does not mention %q", want)
		}
	}
}

func TestNotifyPayroll_SkipsWithoutEmail(t *testing.T) {
	sender := &captureSender{}
	m := NewMailerWithSender(sender, "payroll@example.com")
	if err := m.NotifyPayroll(context.Background(), &models.Employee{ID: "emp"}, models.PayrollRecord{}); err != nil {
		t.Fatalf("NotifyPayroll: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("nothing should be sent")
	}
}

func TestNotifyPayroll_SendError(t *testing.T) {
	sender := &captureSender{err: errors.New("535 auth failed")}
	m := NewMailerWithSender(sender, "payroll@example.com")
	err := m.NotifyPayroll(context.Background(), &models.Employee{Email: "a@example.com"}, models.PayrollRecord{})
	if !errors.Is(err, sender.err) {
		t.Errorf("error = %v, want wrapped send error", err)
	}
}

func TestSubjectAndBody_Fee(t *testing.T) {
	record := models.PayrollRecord{ID: "f1", Kind: models.KindFee, Amount: 300, Period: "2025-10"}
	if got := Subject(record); got != "Fee statement 2025-10" {
		t.Errorf("Subject = %q", got)
	}
	body := Body(&models.Employee{FirstName: "Bob"}, record)
	if !strings.Contains(body, "Your fee for 2025-10 is 300.00.") {
		t.Errorf("unexpected body %q", body)
	}
	if strings.Contains(body, "Hours worked") {
		t.Errorf("fee body should not mention hours")
	}
}
