package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

// Terminal statuses and reasons of the inbound pipeline.
const (
	StatusRejected  = "rejected"
	StatusProcessed = "processed"
	ActionCreated   = "created"
	ActionUpdated   = "updated"

	ReasonContent   = "content"
	ReasonSender    = "sender"
	ReasonDuplicate = "duplicate"
)

// ResponseContentType is returned to the gateway verbatim for every terminal
// branch of the pipeline.
const ResponseContentType = "application/json; charset=UTF-8;"

const (
	articleTypeName    = "sms"
	senderRoleName     = "Customer"
	articleContentType = "text/plain"
)

// Acknowledgement is the JSON body the gateway receives. TicketID is the
// numeric ticket id for created/updated outcomes and the empty string for
// rejected/duplicate ones.
type Acknowledgement struct {
	Status   string `json:"status"`
	Reason   string `json:"reason"`
	TicketID any    `json:"ticket_id"`
}

// Result is the structured response of one processing call.
type Result struct {
	ContentType string
	Ack         Acknowledgement
}

// JSON renders the acknowledgement body.
func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r.Ack)
}

func rejected(reason string) Result {
	return Result{ContentType: ResponseContentType, Ack: Acknowledgement{Status: StatusRejected, Reason: reason, TicketID: ""}}
}

func duplicate() Result {
	return Result{ContentType: ResponseContentType, Ack: Acknowledgement{Status: StatusProcessed, Reason: ReasonDuplicate, TicketID: ""}}
}

func acknowledged(action string, ticketID int64) Result {
	return Result{ContentType: ResponseContentType, Ack: Acknowledgement{Status: action, Reason: "", TicketID: ticketID}}
}

// Processor runs the inbound pipeline: content rejection, sender rejection,
// deduplication, identity resolution and conversation resolution, ending in
// an article append. Each callback is one synchronous unit of work; the
// processor holds no state across calls beyond the compiled filter cache.
//
// The processor performs no internal recovery. Rejections and duplicates are
// successful classifications; configuration failures surface as
// UnprocessableEntityError; everything else propagates to the caller
// unmodified. Correctness of dedup and ticket reuse under concurrent
// deliveries for the same sender rests on the storage layer's unique
// constraint on the provider message id; the pipeline itself opens no
// transaction.
type Processor struct {
	users    domain.UserRepository
	tickets  domain.TicketRepository
	articles domain.ArticleRepository
	groups   domain.GroupRepository
	meta     domain.TicketMetaRepository
	resolver *IdentityResolver
	filters  *FilterCache
	events   EventPublisher
	logger   *slog.Logger
}

// NewProcessor wires the pipeline. events may be nil.
func NewProcessor(
	users domain.UserRepository,
	callerIDs domain.CallerIDRepository,
	tickets domain.TicketRepository,
	articles domain.ArticleRepository,
	groups domain.GroupRepository,
	meta domain.TicketMetaRepository,
	events EventPublisher,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		users:    users,
		tickets:  tickets,
		articles: articles,
		groups:   groups,
		meta:     meta,
		resolver: NewIdentityResolver(users, callerIDs, logger),
		filters:  NewFilterCache(),
		events:   events,
		logger:   logger.With("component", "inbound_processor"),
	}
}

// Process runs one inbound message through the pipeline. Stages run strictly
// in order, first match wins.
func (p *Processor) Process(ctx context.Context, channel *domain.Channel, msg domain.InboundMessage) (Result, error) {
	start := time.Now()
	logger := p.logger.With("channel_id", channel.ID, "from", msg.From, "message_id", msg.MessageID)
	logger.InfoContext(ctx, "Receiving SMS", "to", msg.To)

	outcome := "error"
	defer func() {
		inboundProcessedCounter.WithLabelValues(outcome).Inc()
		inboundProcessingDurationHist.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	contentFilter, senderFilter, err := p.filters.For(channel)
	if err != nil {
		return Result{}, err
	}

	if contentFilter != nil && contentFilter.MatchString(msg.Body) {
		logger.InfoContext(ctx, "Rejected inbound SMS", "reason", ReasonContent)
		outcome = "rejected_content"
		return rejected(ReasonContent), nil
	}

	// The sender filter is matched against the message body, not the sender
	// address. Deployed channels rely on this behavior; do not change it
	// without product sign-off.
	if senderFilter != nil && senderFilter.MatchString(msg.Body) {
		logger.InfoContext(ctx, "Rejected inbound SMS", "reason", ReasonSender)
		outcome = "rejected_sender"
		return rejected(ReasonSender), nil
	}

	existing, err := p.articles.FindByMessageID(ctx, msg.MessageID)
	if err != nil {
		return Result{}, fmt.Errorf("dedup lookup for message %q: %w", msg.MessageID, err)
	}
	if existing != nil {
		logger.InfoContext(ctx, "Duplicate inbound SMS, already processed", "article_id", existing.ID)
		outcome = ReasonDuplicate
		return duplicate(), nil
	}

	resolution, err := p.resolver.Resolve(ctx, msg.From)
	if err != nil {
		return Result{}, err
	}
	user := resolution.User
	actor := domain.Actor{UserID: user.ID}
	logger = logger.With("user_id", user.ID)
	logger.DebugContext(ctx, "Resolved sender identity", "branch", resolution.Outcome)

	articleType, err := p.meta.ArticleTypeByName(ctx, articleTypeName)
	if err != nil {
		return Result{}, fmt.Errorf("loading %q article type: %w", articleTypeName, err)
	}

	ticket, action, err := p.resolveTicket(ctx, logger, channel, msg, user, actor, articleType)
	if err != nil {
		return Result{}, err
	}

	if err := p.appendArticle(ctx, channel, msg, ticket, actor, articleType); err != nil {
		return Result{}, err
	}

	logger.InfoContext(ctx, "Processed inbound SMS", "action", action, "ticket_id", ticket.ID)
	p.publishProcessed(ctx, action, ticket.ID, msg.From, msg.To, msg.MessageID)
	outcome = action
	return acknowledged(action, ticket.ID), nil
}

// resolveTicket reuses the customer's open SMS ticket when one exists, moving
// it to the follow-up state if it had drifted away from the create state;
// otherwise it creates a fresh ticket in the channel's destination group.
func (p *Processor) resolveTicket(ctx context.Context, logger *slog.Logger, channel *domain.Channel, msg domain.InboundMessage, user *domain.User, actor domain.Actor, articleType *domain.ArticleType) (*domain.Ticket, string, error) {
	closedStateIDs, err := p.meta.StateIDsByName(ctx, domain.ClosedStateNames)
	if err != nil {
		return nil, "", fmt.Errorf("loading closed state ids: %w", err)
	}

	ticket, err := p.tickets.FindOpenByCustomer(ctx, user.ID, articleType.ID, closedStateIDs)
	if err != nil {
		return nil, "", fmt.Errorf("looking up open ticket for customer %d: %w", user.ID, err)
	}

	createState, err := p.meta.DefaultCreateState(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("loading default create state: %w", err)
	}

	if ticket != nil {
		if ticket.StateID != createState.ID {
			followUp, err := p.meta.DefaultFollowUpState(ctx)
			if err != nil {
				return nil, "", fmt.Errorf("loading default follow-up state: %w", err)
			}
			if err := p.tickets.UpdateState(ctx, actor, ticket.ID, followUp.ID); err != nil {
				return nil, "", fmt.Errorf("moving ticket %d to follow-up state: %w", ticket.ID, err)
			}
			ticket.StateID = followUp.ID
		}
		return ticket, ActionUpdated, nil
	}

	if channel.GroupID == 0 {
		return nil, "", domain.NewUnprocessableEntity("Group needed in channel definition!")
	}
	group, err := p.groups.GetByID(ctx, channel.GroupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.NewUnprocessableEntity("Group is invalid!")
		}
		return nil, "", fmt.Errorf("loading group %d: %w", channel.GroupID, err)
	}

	createPriority, err := p.meta.DefaultCreatePriority(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("loading default create priority: %w", err)
	}

	ticket, err = p.tickets.Create(ctx, actor, &domain.Ticket{
		GroupID:             group.ID,
		Title:               domain.TicketTitle(msg.Body),
		StateID:             createState.ID,
		PriorityID:          createPriority.ID,
		CustomerID:          user.ID,
		CreateArticleTypeID: articleType.ID,
		Preferences: domain.TicketPreferences{
			ChannelID: channel.ID,
			SMS: domain.SMSPreferences{
				AccountSid: msg.AccountID,
				From:       msg.From,
				To:         msg.To,
			},
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("creating ticket: %w", err)
	}
	logger.InfoContext(ctx, "Created ticket for inbound SMS", "ticket_id", ticket.ID, "group_id", group.ID)
	return ticket, ActionCreated, nil
}

func (p *Processor) appendArticle(ctx context.Context, channel *domain.Channel, msg domain.InboundMessage, ticket *domain.Ticket, actor domain.Actor, articleType *domain.ArticleType) error {
	sender, err := p.meta.SenderByName(ctx, senderRoleName)
	if err != nil {
		return fmt.Errorf("loading %q sender role: %w", senderRoleName, err)
	}

	_, err = p.articles.Create(ctx, actor, &domain.Article{
		TicketID:    ticket.ID,
		TypeID:      articleType.ID,
		SenderID:    sender.ID,
		From:        msg.From,
		To:          msg.To,
		Body:        msg.Body,
		MessageID:   msg.MessageID,
		ContentType: articleContentType,
		Preferences: domain.TicketPreferences{
			ChannelID: channel.ID,
			SMS: domain.SMSPreferences{
				AccountSid: msg.AccountID,
				From:       msg.From,
				To:         msg.To,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating article on ticket %d: %w", ticket.ID, err)
	}
	return nil
}
