package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

// --- Mocks for the ticketing collaborator interfaces ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, actor domain.Actor, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, actor, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockCallerIDRepository struct {
	mock.Mock
}

func (m *MockCallerIDRepository) PreferencesFor(ctx context.Context, callerID string) ([]domain.CallerIDEntry, error) {
	args := m.Called(ctx, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CallerIDEntry), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) FindOpenByCustomer(ctx context.Context, customerID, articleTypeID int64, excludedStateIDs []int64) (*domain.Ticket, error) {
	args := m.Called(ctx, customerID, articleTypeID, excludedStateIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Create(ctx context.Context, actor domain.Actor, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, actor, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateState(ctx context.Context, actor domain.Actor, ticketID, stateID int64) error {
	args := m.Called(ctx, actor, ticketID, stateID)
	return args.Error(0)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByMessageID(ctx context.Context, messageID string) (*domain.Article, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

func (m *MockArticleRepository) Create(ctx context.Context, actor domain.Actor, article *domain.Article) (*domain.Article, error) {
	args := m.Called(ctx, actor, article)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

type MockTicketMetaRepository struct {
	mock.Mock
}

func (m *MockTicketMetaRepository) ArticleTypeByName(ctx context.Context, name string) (*domain.ArticleType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleType), args.Error(1)
}

func (m *MockTicketMetaRepository) SenderByName(ctx context.Context, name string) (*domain.ArticleSender, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleSender), args.Error(1)
}

func (m *MockTicketMetaRepository) DefaultCreateState(ctx context.Context) (*domain.TicketState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketState), args.Error(1)
}

func (m *MockTicketMetaRepository) DefaultFollowUpState(ctx context.Context) (*domain.TicketState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketState), args.Error(1)
}

func (m *MockTicketMetaRepository) DefaultCreatePriority(ctx context.Context) (*domain.TicketPriority, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketPriority), args.Error(1)
}

func (m *MockTicketMetaRepository) StateIDsByName(ctx context.Context, names []string) ([]int64, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}
