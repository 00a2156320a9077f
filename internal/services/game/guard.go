package game

import (
	"context"

	"github.com/mcoot/kmapgame/internal/model"
)

// SessionGuard vets caller-supplied state before the controller acts on it.
//
// Sessions and time attack runs travel through the client on every request,
// so a caller can claim any score, mode or puzzle. Implementations that
// re-verify against server-side records plug in here without changing the
// wire contract. Rejections should wrap model.ErrSessionRejected.
type SessionGuard interface {
	CheckAdvance(ctx context.Context, session model.Session) error
	CheckSubmit(ctx context.Context, session model.Session) error
	CheckTimeAttack(ctx context.Context, state TimeAttackState) error
}

// TrustingGuard accepts everything the client sends
type TrustingGuard struct{}

var _ SessionGuard = TrustingGuard{}

func (TrustingGuard) CheckAdvance(ctx context.Context, session model.Session) error { return nil }

func (TrustingGuard) CheckSubmit(ctx context.Context, session model.Session) error { return nil }

func (TrustingGuard) CheckTimeAttack(ctx context.Context, state TimeAttackState) error { return nil }
