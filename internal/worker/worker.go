// Package worker executes background jobs published by the API: OTP
// mail delivery and monthly report snapshots.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/report"
)

// Mailer sends the outbound mail the worker produces.
type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
	SendReportSnapshot(ctx context.Context, to, name, month, balance string) error
}

// SnapshotExporter persists a report outside the API, typically a
// spreadsheet.
type SnapshotExporter interface {
	Append(ctx context.Context, ownerEmail string, rep *report.Report) error
}

// Store is the slice of persistence the worker needs directly. Report
// queries go through the assembler instead.
type Store interface {
	UserByID(ctx context.Context, id string) (core.User, error)
	VerifiedUsers(ctx context.Context) ([]core.User, error)
	PurgeExpiredOTPs(ctx context.Context) (int64, error)
}

// Publisher puts jobs back on the queue, used by the scheduled snapshot
// fan-out.
type Publisher interface {
	Publish(ctx context.Context, job *amqp.Job) error
}

type Worker struct {
	store     Store
	reports   *report.Assembler
	mailer    Mailer
	sheets    SnapshotExporter
	publisher Publisher
	now       func() time.Time
}

// New builds a worker. sheets may be nil when no spreadsheet is
// configured; snapshot jobs then only send mail. publisher may be nil
// when the snapshot schedule is not used.
func New(store Store, reports *report.Assembler, mailer Mailer, sheets SnapshotExporter, publisher Publisher) *Worker {
	return &Worker{
		store:     store,
		reports:   reports,
		mailer:    mailer,
		sheets:    sheets,
		publisher: publisher,
		now:       time.Now,
	}
}

// HandleJob dispatches one queued job. Errors propagate to the consumer
// loop, which nacks and requeues; unknown job types are logged and
// acked so they do not cycle forever.
func (w *Worker) HandleJob(ctx context.Context, job *amqp.Job) error {
	switch job.Type {
	case amqp.JobOTPMail:
		return w.handleOTPMail(ctx, job)
	case amqp.JobReportSnapshot:
		return w.handleReportSnapshot(ctx, job)
	default:
		slog.WarnContext(ctx, "Dropping job with unknown type", "type", job.Type)
		return nil
	}
}

func (w *Worker) handleOTPMail(ctx context.Context, job *amqp.Job) error {
	slog.InfoContext(ctx, "Processing OTP mail job", "email", job.Email)

	if err := w.mailer.SendOTP(ctx, job.Email, job.Name, job.Code); err != nil {
		return fmt.Errorf("send OTP mail: %w", err)
	}
	return nil
}

func (w *Worker) handleReportSnapshot(ctx context.Context, job *amqp.Job) error {
	slog.InfoContext(ctx, "Processing report snapshot job",
		"user_id", job.UserID,
		"month", job.Month)

	user, err := w.store.UserByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	rep, err := w.reports.Monthly(ctx, job.UserID, job.Month)
	if err != nil {
		return fmt.Errorf("assemble monthly report: %w", err)
	}

	if w.sheets != nil {
		if err := w.sheets.Append(ctx, user.Email, rep); err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
	} else {
		slog.WarnContext(ctx, "No snapshot exporter configured, skipping spreadsheet export",
			"user_id", job.UserID)
	}

	if err := w.mailer.SendReportSnapshot(ctx, user.Email, user.Name, rep.Label, rep.Balance.String()); err != nil {
		return fmt.Errorf("send snapshot mail: %w", err)
	}

	slog.InfoContext(ctx, "Report snapshot delivered",
		"user_id", job.UserID,
		"month", rep.Label,
		"balance", rep.Balance.String())
	return nil
}

// EnqueueMonthlySnapshots publishes one snapshot job per verified user
// for the month that just ended.
func (w *Worker) EnqueueMonthlySnapshots(ctx context.Context) error {
	if w.publisher == nil {
		return fmt.Errorf("no publisher configured")
	}

	users, err := w.store.VerifiedUsers(ctx)
	if err != nil {
		return fmt.Errorf("list verified users: %w", err)
	}

	month := previousMonth(w.now())
	for _, u := range users {
		if err := w.publisher.Publish(ctx, amqp.NewReportSnapshotJob(u.ID, month)); err != nil {
			return fmt.Errorf("enqueue snapshot for user %s: %w", u.ID, err)
		}
	}

	slog.InfoContext(ctx, "Monthly snapshots enqueued",
		"month", month,
		"users", len(users))
	return nil
}

// StartSchedules runs the periodic maintenance jobs: expired OTP purges
// and, when snapshotSpec is non-empty, the monthly snapshot fan-out. The
// returned cron is already running; callers stop it during shutdown.
func (w *Worker) StartSchedules(ctx context.Context, purgeSpec, snapshotSpec string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(purgeSpec, func() {
		n, err := w.store.PurgeExpiredOTPs(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to purge expired OTPs", "error", err)
			return
		}
		if n > 0 {
			slog.InfoContext(ctx, "Purged expired OTPs", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule OTP purge: %w", err)
	}

	if snapshotSpec != "" && w.publisher != nil {
		_, err := c.AddFunc(snapshotSpec, func() {
			if err := w.EnqueueMonthlySnapshots(ctx); err != nil {
				slog.ErrorContext(ctx, "Failed to enqueue monthly snapshots", "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule monthly snapshots: %w", err)
		}
	}

	c.Start()
	slog.InfoContext(ctx, "Maintenance schedules started",
		"otp_purge", purgeSpec,
		"snapshots", snapshotSpec)
	return c, nil
}

func previousMonth(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.AddDate(0, 0, -1).Format("2006-01")
}
