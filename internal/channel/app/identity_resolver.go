package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

// ResolutionOutcome tags which branch of the identity resolution fired.
type ResolutionOutcome string

const (
	ResolvedByMobile   ResolutionOutcome = "mobile"
	ResolvedByCallerID ResolutionOutcome = "caller_id"
	CreatedFallback    ResolutionOutcome = "fallback"
)

// Resolution is the result of resolving a sender address to a user.
type Resolution struct {
	User    *domain.User
	Outcome ResolutionOutcome
}

// IdentityResolver maps a sender address to a customer record. The strategy
// is ordered: exact mobile-number match first, then the contact-preference
// log, and as a last resort a fallback user is created carrying the raw
// sender address as both name and mobile number. A fallback user is not a
// verified identity.
type IdentityResolver struct {
	users     domain.UserRepository
	callerIDs domain.CallerIDRepository
	logger    *slog.Logger
}

func NewIdentityResolver(users domain.UserRepository, callerIDs domain.CallerIDRepository, logger *slog.Logger) *IdentityResolver {
	return &IdentityResolver{
		users:     users,
		callerIDs: callerIDs,
		logger:    logger.With("component", "identity_resolver"),
	}
}

// Resolve finds or creates the user for the given sender address.
func (r *IdentityResolver) Resolve(ctx context.Context, from string) (Resolution, error) {
	user, err := r.users.FindByMobile(ctx, from)
	if err != nil {
		return Resolution{}, fmt.Errorf("looking up user by mobile: %w", err)
	}
	if user != nil {
		identityResolutionCounter.WithLabelValues(string(ResolvedByMobile)).Inc()
		return Resolution{User: user, Outcome: ResolvedByMobile}, nil
	}

	user, err = r.resolveViaCallerID(ctx, from)
	if err != nil {
		return Resolution{}, err
	}
	if user != nil {
		identityResolutionCounter.WithLabelValues(string(ResolvedByCallerID)).Inc()
		return Resolution{User: user, Outcome: ResolvedByCallerID}, nil
	}

	user, err = r.users.Create(ctx, domain.SystemActor(), &domain.User{
		Firstname: from,
		Mobile:    from,
		Active:    true,
	})
	if err != nil {
		return Resolution{}, fmt.Errorf("creating fallback user: %w", err)
	}
	r.logger.InfoContext(ctx, "Created fallback user for unknown sender", "user_id", user.ID, "mobile", from)
	identityResolutionCounter.WithLabelValues(string(CreatedFallback)).Inc()
	return Resolution{User: user, Outcome: CreatedFallback}, nil
}

// resolveViaCallerID consults the contact-preference log. Only the first
// entry is considered, and only when its confidence level is "known" and it
// points at a user record that still exists.
func (r *IdentityResolver) resolveViaCallerID(ctx context.Context, from string) (*domain.User, error) {
	entries, err := r.callerIDs.PreferencesFor(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("looking up caller id preferences: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	entry := entries[0]
	if entry.Level != domain.CallerIDLevelKnown || entry.Object != domain.CallerIDObjectUser {
		return nil, nil
	}

	user, err := r.users.GetByID(ctx, entry.ObjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading user %d from caller id entry: %w", entry.ObjectID, err)
	}
	return user, nil
}
