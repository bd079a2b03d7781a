package ledger

import "payroll/models"

// FinancialSummary totals payroll records: fees are money coming in,
// salaries money going out.
type FinancialSummary struct {
	Incoming float64 `json:"incoming"`
	Outgoing float64 `json:"outgoing"`
	Net      float64 `json:"net"`
	Records  int     `json:"records"`
	Skipped  int     `json:"skipped"`
}

func Summarize(records []models.PayrollRecord) FinancialSummary {
	var s FinancialSummary
	for _, r := range records {
		if r.Amount <= 0 {
			s.Skipped++
			continue
		}
		switch r.Kind {
		case models.KindFee:
			s.Incoming += r.Amount
		case models.KindSalary:
			s.Outgoing += r.Amount
		default:
			s.Skipped++
			continue
		}
		s.Records++
	}
	s.Net = s.Incoming - s.Outgoing
	return s
}
