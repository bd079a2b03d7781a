package ledger

import (
	"context"
	"fmt"
	"log"

	"payroll/models"
)

// afterRecord pushes a freshly stored record and notifies the employee in
// the background. Neither step affects the outcome of the payroll run.
func (l *Ledger) afterRecord(emp *models.Employee, record models.PayrollRecord) {
	if l.client != nil {
		l.background.Add(1)
		go func() {
			defer l.background.Done()
			ctx, cancel := context.WithTimeout(context.Background(), l.syncTimeout)
			defer cancel()
			if err := l.push(ctx, record); err != nil {
				log.Printf("Sync of payroll record %s failed, kept for later: %v", record.ID, err)
			}
		}()
	}
	if l.notifier != nil {
		empCopy := *emp
		l.background.Add(1)
		go func() {
			defer l.background.Done()
			ctx, cancel := context.WithTimeout(context.Background(), l.syncTimeout)
			defer cancel()
			if err := l.notifier.NotifyPayroll(ctx, &empCopy, record); err != nil {
				log.Printf("Payroll notification for %s failed: %v", empCopy.ID, err)
			}
		}()
	}
}

// Wait blocks until background syncs and notifications have finished.
func (l *Ledger) Wait() {
	l.background.Wait()
}

func (l *Ledger) push(ctx context.Context, record models.PayrollRecord) error {
	if err := l.client.Push(ctx, record); err != nil {
		return err
	}
	if err := l.store.MarkSynced(ctx, record.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

type SyncReport struct {
	Pending int `json:"pending"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
}

// SyncPending pushes every unsynced record once. Failures are counted and
// left unsynced; nothing is retried.
func (l *Ledger) SyncPending(ctx context.Context) (SyncReport, error) {
	var report SyncReport
	if l.client == nil {
		return report, fmt.Errorf("no sync client configured")
	}
	records, err := l.store.UnsyncedPayrollRecords(ctx)
	if err != nil {
		return report, fmt.Errorf("load unsynced records: %w", err)
	}
	report.Pending = len(records)
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := l.push(ctx, r); err != nil {
			log.Printf("Sync of payroll record %s failed: %v", r.ID, err)
			report.Failed++
			continue
		}
		report.Synced++
	}
	return report, nil
}

type MergeReport struct {
	Received int `json:"received"`
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// PullHistory merges the remote payroll history into the local store.
// Unknown records are added as synced, local records still awaiting sync are
// replaced by the remote copy, and already synced ones are kept as they are.
func (l *Ledger) PullHistory(ctx context.Context) (MergeReport, error) {
	var report MergeReport
	if l.client == nil {
		return report, fmt.Errorf("no sync client configured")
	}
	remote, err := l.client.FetchHistory(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch history: %w", err)
	}
	report.Received = len(remote)

	for _, r := range remote {
		if !r.IsValid() || r.ID == "" {
			log.Printf("Ignoring invalid remote payroll record %q (employee=%q amount=%.2f)", r.ID, r.EmployeeID, r.Amount)
			report.Skipped++
			continue
		}
		local, err := l.store.PayrollRecordByID(ctx, r.ID)
		if err != nil {
			return report, fmt.Errorf("load record %s: %w", r.ID, err)
		}
		r.Synced = true
		switch {
		case local == nil:
			if err := l.store.AddPayrollRecord(ctx, &r); err != nil {
				return report, fmt.Errorf("add record %s: %w", r.ID, err)
			}
			report.Added++
		case !local.Synced:
			if err := l.store.SavePayrollRecord(ctx, &r); err != nil {
				return report, fmt.Errorf("update record %s: %w", r.ID, err)
			}
			report.Updated++
		}
	}
	return report, nil
}
