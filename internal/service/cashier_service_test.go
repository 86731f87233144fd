package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pabloh4516/sellx-sub001/internal/apierror"
	"github.com/pabloh4516/sellx-sub001/internal/config"
	"github.com/pabloh4516/sellx-sub001/internal/dto"
	"github.com/pabloh4516/sellx-sub001/internal/model"
	"github.com/pabloh4516/sellx-sub001/internal/repository"
	"github.com/pabloh4516/sellx-sub001/internal/service"
)

// ── In-memory repositories ───────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	movements []model.CashMovement
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, s *model.CashSession) error {
	// Mirror the partial unique index: one open session per scope.
	for _, existing := range r.sessions {
		if existing.ScopeKey == s.ScopeKey && existing.Status == model.SessionOpen {
			return repository.ErrOpenSessionExists
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindOpenByScope(_ context.Context, scopeKey string) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.ScopeKey == scopeKey && s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) UpdateSession(_ context.Context, s *model.CashSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) ListClosed(_ context.Context, page, limit int) ([]model.CashSession, int64, error) {
	var all []model.CashSession
	for _, s := range r.sessions {
		if s.Status == model.SessionClosed {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeSessionRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeSessionRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.SessionRepository = (*fakeSessionRepo)(nil)

type fakeSaleRepo struct {
	sales map[uuid.UUID][]model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID][]model.Sale)}
}

func (r *fakeSaleRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Sale, error) {
	return r.sales[sessionID], nil
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

type fakeMethodRepo struct {
	methods []model.PaymentMethod
}

func (r *fakeMethodRepo) List(_ context.Context) ([]model.PaymentMethod, error) {
	return r.methods, nil
}

var _ repository.PaymentMethodRepository = (*fakeMethodRepo)(nil)

// ── Fixtures ─────────────────────────────────────────────────────────────────

type fixture struct {
	sessions *fakeSessionRepo
	sales    *fakeSaleRepo
	svc      service.CashierService
}

func newFixture(scope string) *fixture {
	sessions := newFakeSessionRepo()
	sales := newFakeSaleRepo()
	methods := &fakeMethodRepo{}
	return &fixture{
		sessions: sessions,
		sales:    sales,
		svc:      service.NewCashierService(sessions, sales, methods, scope, nil),
	}
}

func manager() service.Operator {
	return service.Operator{ID: uuid.New(), Role: model.RoleManager}
}

func operator() service.Operator {
	return service.Operator{ID: uuid.New(), Role: model.RoleOperator}
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func errCode(t *testing.T, err error) apierror.Code {
	t.Helper()
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Code
}

// addCashSale wires one sale with a single cash payment into the fixture.
func (f *fixture) addCashSale(sessionID uuid.UUID, total, paid float64) {
	f.sales.sales[sessionID] = append(f.sales.sales[sessionID], model.Sale{
		ID:        uuid.New(),
		SessionID: sessionID,
		Total:     dec(total),
		Payments: []model.SalePayment{
			{MethodName: "Dinheiro", Amount: dec(paid)},
		},
	})
}

func mustOpen(t *testing.T, f *fixture, op service.Operator, opening float64) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Open(context.Background(), op, dto.OpenSessionRequest{OpeningBalance: dec(opening)})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

// ── Open ─────────────────────────────────────────────────────────────────────

func TestOpenSession(t *testing.T) {
	f := newFixture(config.ScopeShared)

	resp, err := f.svc.Open(context.Background(), manager(), dto.OpenSessionRequest{OpeningBalance: dec(100)})
	require.NoError(t, err)
	assert.Equal(t, model.SessionOpen, resp.Status)
	assert.Equal(t, "100", resp.OpeningBalance.String())
	assert.Nil(t, resp.ClosedAt)
}

func TestOpenSession_DefaultsToZeroBalance(t *testing.T) {
	f := newFixture(config.ScopeShared)

	resp, err := f.svc.Open(context.Background(), manager(), dto.OpenSessionRequest{})
	require.NoError(t, err)
	assert.True(t, resp.OpeningBalance.IsZero())
}

func TestOpenSession_NegativeBalanceRejected(t *testing.T) {
	f := newFixture(config.ScopeShared)

	_, err := f.svc.Open(context.Background(), manager(), dto.OpenSessionRequest{OpeningBalance: dec(-1)})
	assert.Equal(t, apierror.CodeValidation, errCode(t, err))
}

func TestOpenSession_DuplicateRejected(t *testing.T) {
	f := newFixture(config.ScopeShared)
	mustOpen(t, f, manager(), 100)

	_, err := f.svc.Open(context.Background(), manager(), dto.OpenSessionRequest{OpeningBalance: dec(50)})
	assert.Equal(t, apierror.CodeStateConflict, errCode(t, err))
	assert.Len(t, f.sessions.sessions, 1, "no second session may be created")
}

func TestOpenSession_SharedModeRequiresManager(t *testing.T) {
	f := newFixture(config.ScopeShared)

	_, err := f.svc.Open(context.Background(), operator(), dto.OpenSessionRequest{})
	assert.Equal(t, apierror.CodeUnauthorized, errCode(t, err))
}

func TestOpenSession_PerOperatorScopes(t *testing.T) {
	f := newFixture(config.ScopePerOperator)
	alice, bob := operator(), operator()

	mustOpen(t, f, alice, 50)
	// A different operator gets their own scope.
	mustOpen(t, f, bob, 80)
	assert.Len(t, f.sessions.sessions, 2)

	// But the same operator cannot open twice.
	_, err := f.svc.Open(context.Background(), alice, dto.OpenSessionRequest{})
	assert.Equal(t, apierror.CodeStateConflict, errCode(t, err))
}

// ── Movements ────────────────────────────────────────────────────────────────

func TestRecordMovement(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)

	err := f.svc.RecordMovement(context.Background(), op, dto.MovementRequest{
		SessionID:   sessionID.String(),
		Type:        model.MovementWithdrawal,
		Amount:      dec(30),
		Description: "troco trocado",
	})
	require.NoError(t, err)

	require.Len(t, f.sessions.movements, 1)
	assert.Equal(t, model.MovementWithdrawal, f.sessions.movements[0].Type)
	assert.Equal(t, "30", f.sessions.movements[0].Amount.String())
	assert.Equal(t, op.ID, f.sessions.movements[0].UserID)
}

func TestRecordMovement_Validations(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)

	cases := []struct {
		name string
		req  dto.MovementRequest
		code apierror.Code
	}{
		{"zero amount", dto.MovementRequest{SessionID: sessionID.String(), Type: model.MovementDeposit, Amount: dec(0), Description: "x"}, apierror.CodeValidation},
		{"negative amount", dto.MovementRequest{SessionID: sessionID.String(), Type: model.MovementDeposit, Amount: dec(-5), Description: "x"}, apierror.CodeValidation},
		{"empty description", dto.MovementRequest{SessionID: sessionID.String(), Type: model.MovementDeposit, Amount: dec(5)}, apierror.CodeValidation},
		{"bad session id", dto.MovementRequest{SessionID: "nope", Type: model.MovementDeposit, Amount: dec(5), Description: "x"}, apierror.CodeValidation},
		{"unknown session", dto.MovementRequest{SessionID: uuid.NewString(), Type: model.MovementDeposit, Amount: dec(5), Description: "x"}, apierror.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.svc.RecordMovement(context.Background(), op, tc.req)
			assert.Equal(t, tc.code, errCode(t, err))
		})
	}
	assert.Empty(t, f.sessions.movements, "rejected movements must not be persisted")
}

func TestRecordMovement_RequiresOpenSession(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)

	_, err := f.svc.Close(context.Background(), op, dto.CloseSessionRequest{SessionID: sessionID.String()})
	require.NoError(t, err)

	err = f.svc.RecordMovement(context.Background(), op, dto.MovementRequest{
		SessionID:   sessionID.String(),
		Type:        model.MovementDeposit,
		Amount:      dec(10),
		Description: "late deposit",
	})
	assert.Equal(t, apierror.CodeStateConflict, errCode(t, err))
}

// ── Snapshot ─────────────────────────────────────────────────────────────────

func TestSnapshot(t *testing.T) {
	// Opening 100.00, one sale of 76.00 paid with 100.00 cash: 24.00 change,
	// 76.00 retained, expected balance 176.00.
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)
	f.addCashSale(sessionID, 76, 100)

	snap, err := f.svc.Snapshot(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "76", snap.TotalSales.String())
	assert.Equal(t, "76", snap.CashSales.String())
	assert.Equal(t, "0", snap.NonCashSales.String())
	assert.Equal(t, "176", snap.ExpectedBalance.String())

	// Unchanged inputs yield identical output.
	again, err := f.svc.Snapshot(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, snap, again)
}

func TestSnapshot_WithMovements(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)
	f.addCashSale(sessionID, 76, 100)

	require.NoError(t, f.svc.RecordMovement(context.Background(), op, dto.MovementRequest{
		SessionID: sessionID.String(), Type: model.MovementWithdrawal, Amount: dec(30), Description: "troco trocado",
	}))

	snap, err := f.svc.Snapshot(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "30", snap.TotalWithdrawals.String())
	assert.Equal(t, "146", snap.ExpectedBalance.String())
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestCloseSession_Shortfall(t *testing.T) {
	// Expected 176.00, declared 170.00 → difference −6.00.
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)
	f.addCashSale(sessionID, 76, 100)

	declared := dec(170)
	report, err := f.svc.Close(context.Background(), op, dto.CloseSessionRequest{
		SessionID:       sessionID.String(),
		DeclaredBalance: &declared,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionClosed, report.Session.Status)
	require.NotNil(t, report.Session.ExpectedBalance)
	assert.Equal(t, "176", report.Session.ExpectedBalance.String())
	assert.Equal(t, "170", report.Session.ClosingBalance.String())
	assert.Equal(t, "-6", report.Session.Difference.String())
	assert.NotNil(t, report.Session.ClosedAt)
	assert.NotNil(t, report.Session.ClosedBy)
}

func TestCloseSession_WithDenominationCount(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)
	f.addCashSale(sessionID, 76, 100)

	report, err := f.svc.Close(context.Background(), op, dto.CloseSessionRequest{
		SessionID:     sessionID.String(),
		Denominations: map[string]int{"100": 1, "50": 1, "20": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "170", report.Session.ClosingBalance.String())
	assert.Equal(t, "-6", report.Session.Difference.String())
}

func TestCloseSession_NoDeclarationReconcilesAgainstZero(t *testing.T) {
	// Omitting the declaration must not skip reconciliation: it declares
	// 0.00 and reports the full expected balance as a shortfall.
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)
	f.addCashSale(sessionID, 76, 100)

	report, err := f.svc.Close(context.Background(), op, dto.CloseSessionRequest{SessionID: sessionID.String()})
	require.NoError(t, err)
	assert.True(t, report.Session.ClosingBalance.IsZero())
	assert.Equal(t, "-176", report.Session.Difference.String())
}

func TestCloseSession_AlreadyClosed(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()
	sessionID := mustOpen(t, f, op, 100)

	_, err := f.svc.Close(context.Background(), op, dto.CloseSessionRequest{SessionID: sessionID.String()})
	require.NoError(t, err)

	_, err = f.svc.Close(context.Background(), op, dto.CloseSessionRequest{SessionID: sessionID.String()})
	assert.Equal(t, apierror.CodeStateConflict, errCode(t, err))
}

func TestCloseSession_SharedModeRequiresManager(t *testing.T) {
	f := newFixture(config.ScopeShared)
	sessionID := mustOpen(t, f, manager(), 100)

	_, err := f.svc.Close(context.Background(), operator(), dto.CloseSessionRequest{SessionID: sessionID.String()})
	assert.Equal(t, apierror.CodeUnauthorized, errCode(t, err))
}

func TestCloseSession_PerOperatorOwnership(t *testing.T) {
	f := newFixture(config.ScopePerOperator)
	alice, mallory := operator(), operator()
	sessionID := mustOpen(t, f, alice, 100)

	// Another operator may not close Alice's session.
	_, err := f.svc.Close(context.Background(), mallory, dto.CloseSessionRequest{SessionID: sessionID.String()})
	assert.Equal(t, apierror.CodeUnauthorized, errCode(t, err))

	// An admin may.
	admin := service.Operator{ID: uuid.New(), Role: model.RoleAdmin}
	report, err := f.svc.Close(context.Background(), admin, dto.CloseSessionRequest{SessionID: sessionID.String()})
	require.NoError(t, err)
	assert.Equal(t, admin.ID.String(), *report.Session.ClosedBy)
}

func TestCloseThenReopen(t *testing.T) {
	// Closed sessions are terminal; a fresh session is opened instead.
	f := newFixture(config.ScopeShared)
	op := manager()
	first := mustOpen(t, f, op, 100)
	_, err := f.svc.Close(context.Background(), op, dto.CloseSessionRequest{SessionID: first.String()})
	require.NoError(t, err)

	second := mustOpen(t, f, op, 200)
	assert.NotEqual(t, first, second)
}

// ── Active & History ─────────────────────────────────────────────────────────

func TestActive(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()

	resp, err := f.svc.Active(context.Background(), op)
	require.NoError(t, err)
	assert.Nil(t, resp, "no session open yet")

	sessionID := mustOpen(t, f, op, 100)
	resp, err = f.svc.Active(context.Background(), op)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, sessionID.String(), resp.ID)
}

func TestHistory(t *testing.T) {
	f := newFixture(config.ScopeShared)
	op := manager()

	for i := 0; i < 3; i++ {
		id := mustOpen(t, f, op, 100)
		_, err := f.svc.Close(context.Background(), op, dto.CloseSessionRequest{SessionID: id.String()})
		require.NoError(t, err)
	}

	page, total, err := f.svc.History(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)

	for _, s := range page {
		assert.Equal(t, model.SessionClosed, s.Status)
	}
}
