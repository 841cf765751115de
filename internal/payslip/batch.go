package payslip

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go-fleetpay/internal/bootstrap"
	drivererrors "go-fleetpay/internal/driver/errors"
	"go-fleetpay/internal/events"
	"go-fleetpay/internal/invoice"
	"go-fleetpay/internal/messaging/kafka"
	ratecarderrors "go-fleetpay/internal/ratecard/errors"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/statement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SystemActor is recorded as generated_by when no user is on the context.
const SystemActor = "system"

type batchJob struct {
	invoice invoice.Invoice
	total   invoice.OperatorTotal
}

type batchOutcome struct {
	payslip *Payslip
	warning string
}

// ComputeBatch generates one payslip per operator billed on the invoice, or
// on every invoice when no number is given. Per-operator failures become
// warnings. Identical runs already in flight are joined rather than repeated.
func (s *service) ComputeBatch(ctx context.Context, req ComputeBatchPayslipsRequest) (BatchPayslipsResponse, error) {
	key := "invoice:" + req.InvoiceNumber
	if req.InvoiceNumber == "" {
		key = "invoice:*"
	}

	// Joined callers share the run, so it must outlive the caller that
	// started it.
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.batches.Do(key, func() (any, error) {
		return s.runBatch(runCtx, req.InvoiceNumber)
	})
	if err != nil {
		return BatchPayslipsResponse{}, err
	}
	if shared {
		contextutil.GetLogger(ctx, s.logger).Info("joined in-flight payslip batch", zap.String("key", key))
	}
	return v.(BatchPayslipsResponse), nil
}

func (s *service) runBatch(ctx context.Context, invoiceNumber string) (BatchPayslipsResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	started := s.now()

	invoices, err := s.loadInvoices(ctx, invoiceNumber)
	if err != nil {
		return BatchPayslipsResponse{}, err
	}

	var (
		warnings []string
		jobs     []batchJob
	)
	for _, inv := range invoices {
		rows, err := s.deps.Invoices.ListQuantities(ctx, inv.InvoiceNumber)
		if err != nil {
			log.Warn("failed to load invoice quantities", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("invoice %s: failed to load operator quantities", inv.InvoiceNumber))
			continue
		}
		if len(rows) == 0 {
			warnings = append(warnings, fmt.Sprintf("invoice %s: no operator quantities", inv.InvoiceNumber))
			continue
		}
		for _, total := range invoice.GroupByOperator(rows) {
			jobs = append(jobs, batchJob{invoice: inv, total: total})
		}
	}

	actor := contextutil.GetUserID(ctx)
	if actor == "" {
		actor = SystemActor
	}

	outcomes := make([]batchOutcome, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(max(s.cfg.BatchConcurrency, 1))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			outcomes[i] = s.generate(ctx, job, actor)
			return nil
		})
	}
	_ = g.Wait()

	resp := BatchPayslipsResponse{
		Success:  true,
		Payslips: make([]PayslipResponse, 0, len(jobs)),
	}
	for _, o := range outcomes {
		if o.warning != "" {
			warnings = append(warnings, o.warning)
			continue
		}
		resp.Payslips = append(resp.Payslips, mapToResponse(*o.payslip))
	}
	resp.PayslipsGenerated = len(resp.Payslips)
	resp.Warnings = warnings

	log.Info("payslip batch finished",
		zap.String("invoice_number", invoiceNumber),
		zap.Int("invoices", len(invoices)),
		zap.Int("operators", len(jobs)),
		zap.Int("payslips_generated", resp.PayslipsGenerated),
		zap.Int("warnings", len(warnings)),
		zap.Duration("took", s.now().Sub(started)),
	)
	if s.deps.Audit != nil {
		s.deps.Audit.Log(ctx, bootstrap.AuditLog{
			Action:  "PAYSLIP_BATCH",
			Message: "Payslip batch completed",
			Meta: map[string]any{
				"invoice_number":     invoiceNumber,
				"generated_by":       actor,
				"payslips_generated": resp.PayslipsGenerated,
				"warnings":           len(warnings),
			},
		})
	}

	return resp, nil
}

func (s *service) loadInvoices(ctx context.Context, invoiceNumber string) ([]invoice.Invoice, error) {
	if invoiceNumber != "" {
		inv, err := s.deps.Invoices.FindByNumber(ctx, invoiceNumber)
		if err != nil {
			return nil, apperror.PersistenceOr(err, "failed to load invoice")
		}
		return []invoice.Invoice{*inv}, nil
	}

	invoices, err := s.deps.Invoices.ListAll(ctx)
	if err != nil {
		return nil, apperror.Persistence(err, "failed to list invoices")
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].InvoiceNumber < invoices[j].InvoiceNumber
	})
	return invoices, nil
}

// generate never returns an error; anything that stops one operator is
// reported as its warning.
func (s *service) generate(ctx context.Context, job batchJob, actor string) batchOutcome {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("invoice_number", job.invoice.InvoiceNumber),
		zap.String("operator_id", job.total.OperatorID),
	)
	skip := func(reason string, err error) batchOutcome {
		fields := []zap.Field{zap.String("reason", reason)}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Warn("operator skipped in payslip batch", fields...)
		return batchOutcome{
			warning: fmt.Sprintf("operator %s (invoice %s): %s", job.total.OperatorID, job.invoice.InvoiceNumber, reason),
		}
	}

	d, err := s.deps.Drivers.FindByOperatorID(ctx, job.total.OperatorID)
	if errors.Is(err, drivererrors.ErrOperatorNotLinked) {
		return skip("no driver linked to operator", nil)
	}
	if err != nil {
		return skip("failed to load driver", err)
	}

	asOf := job.invoice.PeriodEnd
	res, err := s.deps.Rates.Resolve(ctx, job.total.OperatorID, asOf)
	if errors.Is(err, ratecarderrors.ErrRateUnavailable) {
		return skip(fmt.Sprintf("no rate available as of %s", request.FormatDate(asOf)), nil)
	}
	if err != nil {
		return skip("failed to resolve rate", err)
	}
	if !res.Rate.IsPositive() {
		return skip(fmt.Sprintf("rate is zero as of %s", request.FormatDate(asOf)), nil)
	}

	formula := statement.BatchPayslip{
		GrossPay:   money.Mul(job.total.Quantity, res.Rate),
		Deductions: decimal.Zero,
	}

	now := s.now().UTC()
	row := &Payslip{
		ID:            uuid.New(),
		DriverID:      d.ID,
		InvoiceNumber: job.invoice.InvoiceNumber,
		InvoiceDate:   job.invoice.InvoiceDate,
		PeriodStart:   job.invoice.PeriodStart,
		PeriodEnd:     job.invoice.PeriodEnd,
		OperatorID:    job.total.OperatorID,
		Quantity:      job.total.Quantity,
		Rate:          res.Rate,
		GrossPay:      formula.Gross(),
		Deductions:    formula.Deductions,
		NetPay:        formula.Net(),
		GeneratedBy:   actor,
		GeneratedAt:   now,
		UpdatedAt:     now,
	}

	stored, err := s.persist(ctx, row)
	if err != nil {
		return skip("failed to save payslip", err)
	}
	return batchOutcome{payslip: stored}
}

// persist writes one payslip and its outbox event in their own transaction.
func (s *service) persist(ctx context.Context, row *Payslip) (*Payslip, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Upsert(ctx, row); err != nil {
		return nil, err
	}

	stored, err := qtx.FindByInvoice(ctx, row.DriverID, row.InvoiceNumber)
	if err != nil {
		return nil, err
	}

	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		events.AggregatePayslip,
		stored.ID.String(),
		events.EventTypePayslipGenerated,
		events.PayslipGeneratedTopic,
		events.PayslipGeneratedEvent{
			EventType:     events.EventTypePayslipGenerated,
			PayslipID:     stored.ID.String(),
			DriverID:      stored.DriverID.String(),
			OperatorID:    stored.OperatorID,
			InvoiceNumber: stored.InvoiceNumber,
			GrossPay:      stored.GrossPay.StringFixed(2),
			NetPay:        stored.NetPay.StringFixed(2),
			GeneratedBy:   stored.GeneratedBy,
			OccurredAt:    stored.GeneratedAt,
		},
	)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Outbox.WithTx(tx).Create(ctx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}
