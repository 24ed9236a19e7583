package accountcore

import (
	"context"
	"time"

	"github.com/halcyonweb/accountcore/claims"
	"github.com/halcyonweb/accountcore/internal/audit"
	"github.com/halcyonweb/accountcore/password"
	"github.com/halcyonweb/accountcore/session"
	"github.com/halcyonweb/accountcore/token"
)

// Engine defines a public type used by accountcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	accounts AccountStore
	sessions SessionTransport
	email    EmailSender
	hasher   *password.Hasher
	tokens   token.Registry
	audit    *audit.Dispatcher
	metrics  *Metrics
	now      func() time.Time
}

// Close describes the close operation and its observable behavior.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Logout clears both session schemes: the full application session and any
// pending two-factor session.
func (e *Engine) Logout(ctx context.Context) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}

	if err := e.sessions.Clear(ctx, SchemeTwoFactor); err != nil {
		return err
	}
	if err := e.sessions.Clear(ctx, SchemeApplication); err != nil {
		return err
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, 0, "", nil, nil)
	return nil
}

// currentAccount resolves the account behind the live application session.
// A missing session or an account the store no longer knows yields
// (nil, nil, nil) so flows can answer with their not-logged-in outcome.
func (e *Engine) currentAccount(ctx context.Context) (*Account, *session.Ticket, error) {
	ticket, err := e.sessions.Get(ctx, SchemeApplication)
	if err != nil {
		return nil, nil, err
	}
	if ticket == nil || ticket.Assertion == nil {
		return nil, nil, nil
	}

	accountID, ok := claims.ExtractAccountID(ticket.Assertion, SchemeApplication)
	if !ok {
		return nil, nil, nil
	}
	account, err := e.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, nil
	}

	return account, ticket, nil
}
