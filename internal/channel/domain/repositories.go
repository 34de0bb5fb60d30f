package domain

import "context"

// The repositories below are the ticketing-system collaborator surface the
// pipeline requires. Find* lookups return (nil, nil) when nothing matches;
// Get* lookups return ErrNotFound. Mutating calls take an explicit Actor for
// audit attribution.

// UserRepository looks up and creates customer records.
type UserRepository interface {
	// FindByMobile returns the most recently updated user with the given
	// mobile number.
	FindByMobile(ctx context.Context, mobile string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, actor Actor, user *User) (*User, error)
}

// CallerIDRepository resolves a caller id against the ticketing system's
// contact-preference log.
type CallerIDRepository interface {
	// PreferencesFor returns the entries recorded for the caller id, most
	// relevant first.
	PreferencesFor(ctx context.Context, callerID string) ([]CallerIDEntry, error)
}

// TicketRepository looks up, creates and updates tickets.
type TicketRepository interface {
	// FindOpenByCustomer returns the most recently updated ticket of the
	// customer whose create-channel article type matches articleTypeID and
	// whose state is not one of excludedStateIDs.
	FindOpenByCustomer(ctx context.Context, customerID, articleTypeID int64, excludedStateIDs []int64) (*Ticket, error)
	Create(ctx context.Context, actor Actor, ticket *Ticket) (*Ticket, error)
	UpdateState(ctx context.Context, actor Actor, ticketID, stateID int64) error
}

// ArticleRepository looks up and creates ticket articles.
type ArticleRepository interface {
	// FindByMessageID returns the article carrying the provider message id,
	// if one was ever recorded. This is the dedup lookup.
	FindByMessageID(ctx context.Context, messageID string) (*Article, error)
	Create(ctx context.Context, actor Actor, article *Article) (*Article, error)
}

// GroupRepository resolves destination groups.
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*Group, error)
}

// TicketMetaRepository resolves the named defaults of the ticketing system:
// article types, sender roles, states and priorities.
type TicketMetaRepository interface {
	ArticleTypeByName(ctx context.Context, name string) (*ArticleType, error)
	SenderByName(ctx context.Context, name string) (*ArticleSender, error)
	DefaultCreateState(ctx context.Context) (*TicketState, error)
	DefaultFollowUpState(ctx context.Context) (*TicketState, error)
	DefaultCreatePriority(ctx context.Context) (*TicketPriority, error)
	StateIDsByName(ctx context.Context, names []string) ([]int64, error)
}

// ChannelRepository loads channel configurations.
type ChannelRepository interface {
	GetByID(ctx context.Context, id int64) (*Channel, error)
	// GetByWebhookToken returns the active channel owning the token, or
	// (nil, nil) when no channel matches.
	GetByWebhookToken(ctx context.Context, token string) (*Channel, error)
}
