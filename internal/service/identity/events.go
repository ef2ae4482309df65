package identity

import (
	"context"
	"log/slog"

	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
)

// adopt installs a session as the current identity and notifies subscribers
// of the resulting transition. BecameReal is set only the first time a given
// anonymous id upgrades; repeated adoptions of the same upgrade are quiet on
// that flag.
func (s *Service) adopt(ctx context.Context, session *domain.Session) domain.Transition {
	s.mu.Lock()

	from := s.identity
	to := session.Identity

	becameReal := from.IsAnonymous() && !to.IsAnonymous() && from.ID != to.ID
	if becameReal {
		if _, done := s.upgradedFrom[from.ID]; done {
			becameReal = false
		} else {
			s.upgradedFrom[from.ID] = struct{}{}
		}
	}

	s.identity = to
	s.session = session
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	s.persistSession(ctx, session)

	tr := domain.Transition{From: from, To: to, BecameReal: becameReal}
	s.dispatch(ctx, subs, tr)
	return tr
}

// persistSession stores the session tokens on device so the identity
// survives a process restart. Best effort; a failed write only costs the
// next start a fresh sign-in.
func (s *Service) persistSession(ctx context.Context, session *domain.Session) {
	if err := s.local.Set(ctx, localstore.KeyAccessToken, session.AccessToken); err != nil {
		s.log.WarnContext(ctx, "persist access token failed", slog.String("error", err.Error()))
	}
	if session.RefreshToken == "" {
		return
	}
	if err := s.local.Set(ctx, localstore.KeyRefreshToken, session.RefreshToken); err != nil {
		s.log.WarnContext(ctx, "persist refresh token failed", slog.String("error", err.Error()))
	}
}

// dropStoredSession removes the persisted tokens, keeping the stored guest
// id intact.
func (s *Service) dropStoredSession(ctx context.Context) {
	_ = s.local.Delete(ctx, localstore.KeyAccessToken)
	_ = s.local.Delete(ctx, localstore.KeyRefreshToken)
}

// adoptLocal installs a sessionless local identity and notifies subscribers.
func (s *Service) adoptLocal(ctx context.Context, id domain.Identity) {
	s.mu.Lock()
	from := s.identity
	s.identity = id
	s.session = nil
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	s.dispatch(ctx, subs, domain.Transition{From: from, To: id})
}

// clear drops the current identity and session, including the persisted
// tokens, and notifies subscribers.
func (s *Service) clear(ctx context.Context) {
	s.dropStoredSession(ctx)

	s.mu.Lock()
	from := s.identity
	s.identity = domain.Identity{}
	s.session = nil
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	if from.IsZero() {
		return
	}
	s.dispatch(ctx, subs, domain.Transition{From: from})
}

// dispatch delivers a transition to each subscriber in order. A failing
// subscriber is logged and the rest still run; transitions are state changes
// that already happened, not requests that can be vetoed.
func (s *Service) dispatch(ctx context.Context, subs []Subscriber, tr domain.Transition) {
	for _, fn := range subs {
		if fn == nil {
			continue
		}
		if err := fn(ctx, tr); err != nil {
			s.log.ErrorContext(ctx, "transition subscriber failed",
				slog.String("from", tr.From.ID),
				slog.String("to", tr.To.ID),
				slog.Bool("became_real", tr.BecameReal),
				slog.String("error", err.Error()))
		}
	}
}

// HandleAuthEvent applies a session change observed outside this service,
// such as an OAuth redirect completing or the auth service revoking a
// session. A nil session means signed out.
func (s *Service) HandleAuthEvent(ctx context.Context, session *domain.Session) {
	if session == nil {
		s.clear(ctx)
		return
	}

	tr := s.adopt(ctx, session)
	if tr.BecameReal {
		s.log.InfoContext(ctx, "external auth event upgraded identity",
			slog.String("from", tr.From.ID),
			slog.String("to", tr.To.ID))
	}
}
