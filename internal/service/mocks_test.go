package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
)

// mockTransactor hands the same repositories to every transaction and counts outcomes.
type mockTransactor struct {
	repos repository.Repositories

	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (m *mockTransactor) InTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	err := fn(m.repos)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

// MockGoalRepository is a mock type for the GoalRepository interface
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) CreateMany(ctx context.Context, goals []*model.Goal) error {
	args := m.Called(ctx, goals)
	return args.Error(0)
}

func (m *MockGoalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goal), args.Error(1)
}

func (m *MockGoalRepository) Goals(ctx context.Context, userID string, kind model.GoalKind) ([]*model.Goal, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Goal), args.Error(1)
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *model.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	args := m.Called(ctx, userID, goalID)
	return args.Error(0)
}

// MockActivityRepository is a mock type for the ActivityRepository interface
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Activities(ctx context.Context, userID string, unit model.Unit, from, to time.Time) ([]*model.Activity, error) {
	args := m.Called(ctx, userID, unit, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Activity), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGroupRepository is a mock type for the GroupRepository interface
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *model.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) ByID(ctx context.Context, groupID string) (*model.Group, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, member *model.GroupMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockGroupRepository) Member(ctx context.Context, groupID, userID string) (*model.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupMember), args.Error(1)
}

func (m *MockGroupRepository) Members(ctx context.Context, groupID string) ([]*model.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.GroupMember), args.Error(1)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

// MockTokenRepository is a mock type for the TokenRepository interface
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *model.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) Consume(ctx context.Context, tokenType, hash string) (*model.Token, error) {
	args := m.Called(ctx, tokenType, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Token), args.Error(1)
}

func (m *MockTokenRepository) DeleteUnused(ctx context.Context, userID, tokenType, subject string) error {
	args := m.Called(ctx, userID, tokenType, subject)
	return args.Error(0)
}

func (m *MockTokenRepository) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// stubHistory serves fixed answers to GoalHistory queries.
type stubHistory struct {
	intakes   map[model.Unit]float64
	completed []model.Unit
	rates     map[model.Unit]float64
	err       error
}

func (s *stubHistory) RecommendedIntake(ctx context.Context, unit model.Unit, age int, sex model.Sex) (float64, error) {
	return s.intakes[unit], s.err
}

func (s *stubHistory) CompletedUnits(ctx context.Context, userID string, since time.Time) ([]model.Unit, error) {
	return s.completed, s.err
}

func (s *stubHistory) AverageWorkRate(ctx context.Context, userID string, unit model.Unit, windowDays int) (float64, error) {
	return s.rates[unit], s.err
}

// stubLister returns a fixed set of system goals.
type stubLister struct {
	goals []*model.Goal
	err   error
}

func (s *stubLister) Goals(ctx context.Context, userID string, kind model.GoalKind) ([]*model.Goal, error) {
	return s.goals, s.err
}

// recordingNotifier captures notifications from any goroutine.
type recordingNotifier struct {
	mu             sync.Mutex
	completed      []*model.Goal
	groupCompleted []*model.Goal
	welcomed       []*model.User
	resets         map[string]string
	assigned       []*model.Goal
	invites        map[string]string
	reached        []*model.User
	err            error
}

func (n *recordingNotifier) GoalCompleted(ctx context.Context, user *model.User, goal *model.Goal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, goal)
	return n.err
}

func (n *recordingNotifier) GroupGoalCompleted(ctx context.Context, member *model.User, goal *model.Goal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.groupCompleted = append(n.groupCompleted, goal)
	return n.err
}

func (n *recordingNotifier) SendWelcomeEmail(ctx context.Context, user *model.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, user)
	return n.err
}

func (n *recordingNotifier) SendPasswordResetEmail(ctx context.Context, user *model.User, secret string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.resets == nil {
		n.resets = map[string]string{}
	}
	n.resets[user.Email] = secret
	return n.err
}

func (n *recordingNotifier) GroupGoalAssigned(ctx context.Context, user *model.User, group *model.Group, goal *model.Goal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, goal)
	return n.err
}

func (n *recordingNotifier) GroupInvite(ctx context.Context, user *model.User, group *model.Group, secret string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.invites == nil {
		n.invites = map[string]string{}
	}
	n.invites[user.Email] = secret
	return n.err
}

func (n *recordingNotifier) GroupGoalReached(ctx context.Context, recipient *model.User, group *model.Group, achiever *model.User, goal *model.Goal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reached = append(n.reached, recipient)
	return n.err
}
