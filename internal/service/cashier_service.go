package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pabloh4516/sellx-sub001/internal/apierror"
	"github.com/pabloh4516/sellx-sub001/internal/cashflow"
	"github.com/pabloh4516/sellx-sub001/internal/config"
	"github.com/pabloh4516/sellx-sub001/internal/dto"
	"github.com/pabloh4516/sellx-sub001/internal/model"
	"github.com/pabloh4516/sellx-sub001/internal/repository"
	"github.com/pabloh4516/sellx-sub001/internal/worker"
)

// Operator is the authenticated caller, extracted from JWT claims.
type Operator struct {
	ID   uuid.UUID
	Role string
}

// sharedScopeKey is the single scope bucket used in shared mode.
const sharedScopeKey = "store"

type CashierService interface {
	Open(ctx context.Context, op Operator, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	RecordMovement(ctx context.Context, op Operator, req dto.MovementRequest) error
	Snapshot(ctx context.Context, sessionID uuid.UUID) (*dto.SnapshotResponse, error)
	Close(ctx context.Context, op Operator, req dto.CloseSessionRequest) (*dto.ClosingReportResponse, error)
	Active(ctx context.Context, op Operator) (*dto.SessionResponse, error)
	Report(ctx context.Context, sessionID uuid.UUID) (*dto.ClosingReportResponse, error)
	History(ctx context.Context, page, limit int) ([]dto.SessionResponse, int64, error)
}

type cashierService struct {
	sessions   repository.SessionRepository
	sales      repository.SaleRepository
	methods    repository.PaymentMethodRepository
	scope      string
	dispatcher *worker.Dispatcher
}

// NewCashierService builds the drawer lifecycle controller. scope must be
// config.ScopeShared or config.ScopePerOperator; dispatcher may be nil when
// async closing reports are disabled (tests, CLI tools).
func NewCashierService(
	sessions repository.SessionRepository,
	sales repository.SaleRepository,
	methods repository.PaymentMethodRepository,
	scope string,
	dispatcher *worker.Dispatcher,
) CashierService {
	return &cashierService{
		sessions:   sessions,
		sales:      sales,
		methods:    methods,
		scope:      scope,
		dispatcher: dispatcher,
	}
}

func (s *cashierService) scopeKey(op Operator) string {
	if s.scope == config.ScopePerOperator {
		return op.ID.String()
	}
	return sharedScopeKey
}

// canManage reports whether the operator may open/close in shared mode.
func canManage(role string) bool {
	return role == model.RoleManager || role == model.RoleAdmin
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *cashierService) Open(ctx context.Context, op Operator, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if s.scope == config.ScopeShared && !canManage(op.Role) {
		return nil, apierror.Unauthorized("only managers may open the store drawer")
	}
	if req.OpeningBalance.IsNegative() {
		return nil, apierror.Validation("opening balance must not be negative")
	}

	session := &model.CashSession{
		ScopeKey:       s.scopeKey(op),
		Status:         model.SessionOpen,
		OpeningBalance: req.OpeningBalance,
		OpenedBy:       op.ID,
		OpenedAt:       time.Now(),
	}

	// No read-then-write guard here: the partial unique index makes the
	// insert itself the "open if none open" check, so two racing opens
	// cannot both slip through.
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		if err == repository.ErrOpenSessionExists {
			return nil, apierror.StateConflict("a session is already open in this scope")
		}
		return nil, err
	}

	resp := sessionToResponse(session)
	return &resp, nil
}

// ── RecordMovement ───────────────────────────────────────────────────────────
// Deposits (suprimento) and withdrawals (sangria) are immutable ledger rows —
// there is no update or delete path, by interface.

func (s *cashierService) RecordMovement(ctx context.Context, op Operator, req dto.MovementRequest) error {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return apierror.Validation("invalid session_id")
	}
	if !req.Amount.IsPositive() {
		return apierror.Validation("amount must be greater than zero")
	}
	if req.Description == "" {
		return apierror.Validation("description is required")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return apierror.NotFound("session not found")
		}
		return err
	}
	if session.Status != model.SessionOpen {
		return apierror.StateConflict("session is not open")
	}

	return s.sessions.CreateMovement(ctx, &model.CashMovement{
		SessionID:   sessionID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		UserID:      op.ID,
	})
}

// ── Snapshot ─────────────────────────────────────────────────────────────────

// Snapshot recomputes the live drawer view from scratch on every call. The
// computation is pure over the fetched collections, so repeated calls with
// unchanged data yield identical output.
func (s *cashierService) Snapshot(ctx context.Context, sessionID uuid.UUID) (*dto.SnapshotResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("session not found")
		}
		return nil, err
	}

	flow, err := s.computeFlow(ctx, session)
	if err != nil {
		return nil, err
	}

	return &dto.SnapshotResponse{
		SessionID:        session.ID.String(),
		Status:           session.Status,
		OpeningBalance:   session.OpeningBalance,
		TotalSales:       flow.TotalSales,
		CashSales:        flow.CashSales,
		NonCashSales:     flow.NonCashSales,
		Breakdown:        flow.Breakdown,
		TotalDeposits:    flow.TotalDeposits,
		TotalWithdrawals: flow.TotalWithdrawals,
		ExpectedBalance:  cashflow.ExpectedBalance(session.OpeningBalance, flow),
	}, nil
}

// ── Close ────────────────────────────────────────────────────────────────────

func (s *cashierService) Close(ctx context.Context, op Operator, req dto.CloseSessionRequest) (*dto.ClosingReportResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apierror.Validation("invalid session_id")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("session not found")
		}
		return nil, err
	}
	if session.Status != model.SessionOpen {
		return nil, apierror.StateConflict("session is already closed")
	}

	if s.scope == config.ScopePerOperator {
		if session.OpenedBy != op.ID && op.Role != model.RoleAdmin {
			return nil, apierror.Unauthorized("only the owning operator or an admin may close this session")
		}
	} else if !canManage(op.Role) {
		return nil, apierror.Unauthorized("only managers may close the store drawer")
	}

	// The declared balance comes from the physical count when one was taken.
	// A missing declaration counts as 0.00 so the reconciliation always runs
	// and the full expected balance surfaces as a shortfall.
	declared := decimal.Zero
	if len(req.Denominations) > 0 {
		declared = cashflow.CountDenominations(req.Denominations)
	} else if req.DeclaredBalance != nil {
		declared = *req.DeclaredBalance
	}
	if declared.IsNegative() {
		return nil, apierror.Validation("declared balance must not be negative")
	}

	flow, err := s.computeFlow(ctx, session)
	if err != nil {
		return nil, err
	}
	expected := cashflow.ExpectedBalance(session.OpeningBalance, flow)
	difference := cashflow.Reconcile(declared, expected)

	now := time.Now()
	closedBy := op.ID
	session.Status = model.SessionClosed
	session.ClosingBalance = &declared
	session.ExpectedBalance = &expected
	session.Difference = &difference
	session.ClosedBy = &closedBy
	session.ClosedAt = &now

	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	report := buildReport(session, flow)

	// Async PDF + email, best-effort fire and forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReport(ctx, report)
	}

	return report, nil
}

// ── Active ───────────────────────────────────────────────────────────────────

// Active returns the open session for the caller's scope, or nil when the
// drawer is closed.
func (s *cashierService) Active(ctx context.Context, op Operator) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindOpenByScope(ctx, s.scopeKey(op))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	resp := sessionToResponse(session)
	return &resp, nil
}

// ── Report ───────────────────────────────────────────────────────────────────

func (s *cashierService) Report(ctx context.Context, sessionID uuid.UUID) (*dto.ClosingReportResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apierror.NotFound("session not found")
		}
		return nil, err
	}
	flow, err := s.computeFlow(ctx, session)
	if err != nil {
		return nil, err
	}
	return buildReport(session, flow), nil
}

// ── History ──────────────────────────────────────────────────────────────────

func (s *cashierService) History(ctx context.Context, page, limit int) ([]dto.SessionResponse, int64, error) {
	sessions, total, err := s.sessions.ListClosed(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessionToResponse(&sessions[i]))
	}
	return out, total, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *cashierService) computeFlow(ctx context.Context, session *model.CashSession) (cashflow.Flow, error) {
	sales, err := s.sales.ListBySession(ctx, session.ID)
	if err != nil {
		return cashflow.Flow{}, err
	}
	movements, err := s.sessions.ListMovements(ctx, session.ID)
	if err != nil {
		return cashflow.Flow{}, err
	}
	methods, err := s.methods.List(ctx)
	if err != nil {
		return cashflow.Flow{}, err
	}
	return cashflow.Compute(sales, movements, methods), nil
}

func sessionToResponse(s *model.CashSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:              s.ID.String(),
		Status:          s.Status,
		OpeningBalance:  s.OpeningBalance,
		OpenedBy:        s.OpenedBy.String(),
		OpenedAt:        s.OpenedAt.UTC().Format(time.RFC3339),
		ClosingBalance:  s.ClosingBalance,
		ExpectedBalance: s.ExpectedBalance,
		Difference:      s.Difference,
	}
	if s.ClosedBy != nil {
		v := s.ClosedBy.String()
		resp.ClosedBy = &v
	}
	if s.ClosedAt != nil {
		v := s.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}

func buildReport(session *model.CashSession, flow cashflow.Flow) *dto.ClosingReportResponse {
	return &dto.ClosingReportResponse{
		Session:          sessionToResponse(session),
		TotalSales:       flow.TotalSales,
		CashSales:        flow.CashSales,
		NonCashSales:     flow.NonCashSales,
		Breakdown:        flow.Breakdown,
		TotalDeposits:    flow.TotalDeposits,
		TotalWithdrawals: flow.TotalWithdrawals,
	}
}
