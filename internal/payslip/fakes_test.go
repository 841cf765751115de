package payslip_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/driver"
	drivererrors "go-fleetpay/internal/driver/errors"
	"go-fleetpay/internal/earnings"
	"go-fleetpay/internal/invoice"
	invoiceerrors "go-fleetpay/internal/invoice/errors"
	"go-fleetpay/internal/messaging/kafka"
	"go-fleetpay/internal/payslip"
	paysliperrors "go-fleetpay/internal/payslip/errors"
	"go-fleetpay/internal/ratecard"
	ratecarderrors "go-fleetpay/internal/ratecard/errors"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakePayslipRepository struct {
	mu        sync.Mutex
	rows      map[string]*payslip.Payslip
	upsertErr map[string]error
	upserts   int
}

func newFakePayslipRepository() *fakePayslipRepository {
	return &fakePayslipRepository{
		rows:      map[string]*payslip.Payslip{},
		upsertErr: map[string]error{},
	}
}

func payslipKey(driverID uuid.UUID, invoiceNumber string) string {
	return driverID.String() + "|" + invoiceNumber
}

func (f *fakePayslipRepository) WithTx(tx *sql.Tx) payslip.Repository {
	return f
}

func (f *fakePayslipRepository) Upsert(ctx context.Context, p *payslip.Payslip) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.upsertErr[p.OperatorID]; err != nil {
		return err
	}
	f.upserts++

	key := payslipKey(p.DriverID, p.InvoiceNumber)
	row := *p
	if existing, ok := f.rows[key]; ok {
		row.ID = existing.ID
	}
	f.rows[key] = &row
	return nil
}

func (f *fakePayslipRepository) FindByID(ctx context.Context, id uuid.UUID) (*payslip.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.ID == id {
			out := *row
			return &out, nil
		}
	}
	return nil, paysliperrors.ErrPayslipNotFound
}

func (f *fakePayslipRepository) FindByInvoice(ctx context.Context, driverID uuid.UUID, invoiceNumber string) (*payslip.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[payslipKey(driverID, invoiceNumber)]
	if !ok {
		return nil, paysliperrors.ErrPayslipNotFound
	}
	out := *row
	return &out, nil
}

func (f *fakePayslipRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeDrivers struct {
	byID        map[uuid.UUID]*driver.Driver
	byOperator  map[string]*driver.Driver
	dispatchers map[uuid.UUID]driver.Dispatcher
}

func newFakeDrivers() *fakeDrivers {
	return &fakeDrivers{
		byID:        map[uuid.UUID]*driver.Driver{},
		byOperator:  map[string]*driver.Driver{},
		dispatchers: map[uuid.UUID]driver.Dispatcher{},
	}
}

func (f *fakeDrivers) add(name, operatorID string) *driver.Driver {
	d := &driver.Driver{ID: uuid.New(), Name: name, Email: name + "@fleet.test"}
	if operatorID != "" {
		op := operatorID
		d.OperatorID = &op
		f.byOperator[operatorID] = d
	}
	f.byID[d.ID] = d
	return d
}

func (f *fakeDrivers) FindByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, drivererrors.ErrDriverNotFound
	}
	return d, nil
}

func (f *fakeDrivers) FindByOperatorID(ctx context.Context, operatorID string) (*driver.Driver, error) {
	d, ok := f.byOperator[operatorID]
	if !ok {
		return nil, drivererrors.ErrOperatorNotLinked
	}
	return d, nil
}

func (f *fakeDrivers) FindDispatchersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]driver.Dispatcher, error) {
	out := map[uuid.UUID]driver.Dispatcher{}
	for _, id := range ids {
		if d, ok := f.dispatchers[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

type fakeRates struct {
	mu    sync.Mutex
	rates map[string]string
	asOf  map[string]time.Time
}

func newFakeRates(rates map[string]string) *fakeRates {
	return &fakeRates{rates: rates, asOf: map[string]time.Time{}}
}

func (f *fakeRates) Resolve(ctx context.Context, operatorID string, asOf time.Time) (ratecard.Resolution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.asOf[operatorID] = asOf
	rate, ok := f.rates[operatorID]
	if !ok {
		return ratecard.Resolution{}, apperror.WithCause(ratecarderrors.ErrRateUnavailable,
			fmt.Errorf("operator %s as of %s", operatorID, request.FormatDate(asOf)))
	}
	return ratecard.Resolution{
		OperatorID:    operatorID,
		Rate:          decimal.RequireFromString(rate),
		EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Source:        ratecard.SourceSchedule,
	}, nil
}

type fakeInvoices struct {
	invoices   []invoice.Invoice
	quantities map[string][]invoice.InvoiceOperatorQuantity

	// when gate is set, ListQuantities signals entered once and waits on it.
	gate      chan struct{}
	entered   chan struct{}
	enterOnce sync.Once
}

func (f *fakeInvoices) FindByNumber(ctx context.Context, invoiceNumber string) (*invoice.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			out := inv
			return &out, nil
		}
	}
	return nil, invoiceerrors.ErrInvoiceNotFound
}

func (f *fakeInvoices) ListAll(ctx context.Context) ([]invoice.Invoice, error) {
	return append([]invoice.Invoice(nil), f.invoices...), nil
}

func (f *fakeInvoices) ListQuantities(ctx context.Context, invoiceNumber string) ([]invoice.InvoiceOperatorQuantity, error) {
	if f.gate != nil {
		f.enterOnce.Do(func() { close(f.entered) })
		<-f.gate
	}
	return f.quantities[invoiceNumber], nil
}

type fakeRoutes struct {
	routes []earnings.Route
}

func (f fakeRoutes) ListCompletedRoutes(ctx context.Context, driverID uuid.UUID, period request.Period) ([]earnings.Route, error) {
	return f.routes, nil
}

type fakeExpenses struct {
	total decimal.Decimal
}

func (f fakeExpenses) SumApprovedExpenses(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error) {
	return f.total, nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func (f *fakeOutbox) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func quantity(invoiceNumber, operatorID string, day int, qty int64) invoice.InvoiceOperatorQuantity {
	return invoice.InvoiceOperatorQuantity{
		ID:                uuid.New(),
		InvoiceNumber:     invoiceNumber,
		OperatorID:        operatorID,
		ServiceDate:       time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		QuantityDelivered: qty,
	}
}

type recordingAudit struct {
	actions []string
}

func (r *recordingAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	r.actions = append(r.actions, entry.Action)
}
