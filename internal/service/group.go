package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
	"github.com/templui/goalkeeper/internal/validation"
)

var (
	ErrNotGroupMember   = errors.New("not a member of this group")
	ErrNotGroupManager  = errors.New("only group owners and admins can do this")
	ErrOwnerCannotLeave = errors.New("the group owner cannot leave the group")
	ErrInvalidInvite    = errors.New("invitation is invalid or has expired")
)

const inviteExpiry = 7 * 24 * time.Hour

// GroupNotifier is told about invitations, group goals being set and members reaching
// them. Calls are fire-and-forget.
type GroupNotifier interface {
	GroupInvite(ctx context.Context, user *model.User, group *model.Group, secret string) error
	GroupGoalAssigned(ctx context.Context, user *model.User, group *model.Group, goal *model.Goal) error
	GroupGoalReached(ctx context.Context, recipient *model.User, group *model.Group, achiever *model.User, goal *model.Goal) error
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

type GroupService struct {
	tx        repository.Transactor
	groupRepo repository.GroupRepository
	goalRepo  repository.GoalRepository
	userRepo  repository.UserRepository
	notifier  GroupNotifier

	pending sync.WaitGroup
}

func NewGroupService(
	tx repository.Transactor,
	groupRepo repository.GroupRepository,
	goalRepo repository.GoalRepository,
	userRepo repository.UserRepository,
	notifier GroupNotifier,
) *GroupService {
	return &GroupService{
		tx:        tx,
		groupRepo: groupRepo,
		goalRepo:  goalRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

func (s *GroupService) Create(ctx context.Context, ownerID string, req CreateGroupRequest) (*model.Group, error) {
	req.Name = strings.TrimSpace(req.Name)

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	group := &model.Group{
		ID:        uuid.New().String(),
		Name:      req.Name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}

	err = s.groupRepo.Create(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("group created", "group_id", group.ID, "owner_id", ownerID)
	return group, nil
}

func (s *GroupService) ByID(ctx context.Context, userID, groupID string) (*model.Group, error) {
	_, err := s.membership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	return s.groupRepo.ByID(ctx, groupID)
}

// Invite emails a single-use invitation to the user registered under email. Only
// owners and admins can invite, and the user joins once they accept. Inviting again
// replaces any pending invitation to the same group.
func (s *GroupService) Invite(ctx context.Context, actorID, groupID, email string) (*model.Token, error) {
	group, err := s.managedGroup(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.ByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, err
	}

	_, err = s.groupRepo.Member(ctx, groupID, user.ID)
	if err == nil {
		return nil, repository.ErrAlreadyMember
	}
	if !errors.Is(err, repository.ErrMemberNotFound) {
		return nil, err
	}

	secret, err := model.NewTokenSecret()
	if err != nil {
		return nil, err
	}

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeGroupInvite,
		Hash:      model.HashToken(secret),
		Subject:   groupID,
		ExpiresAt: time.Now().Add(inviteExpiry),
	}

	err = s.tx.InTx(ctx, func(repos repository.Repositories) error {
		err := repos.Tokens.DeleteUnused(ctx, user.ID, model.TokenTypeGroupInvite, groupID)
		if err != nil {
			return err
		}
		return repos.Tokens.Create(ctx, token)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.notify(ctx, "group_invite", user.ID, func(ctx context.Context) error {
		return s.notifier.GroupInvite(ctx, user, group, secret)
	})

	slog.Info("group invitation sent", "group_id", groupID, "user_id", user.ID)
	return token, nil
}

// AcceptInvite enrols userID in the group named by the invitation secret. The
// invitation is only used up when the membership is stored.
func (s *GroupService) AcceptInvite(ctx context.Context, userID, secret string) (*model.GroupMember, error) {
	var member *model.GroupMember
	err := s.tx.InTx(ctx, func(repos repository.Repositories) error {
		token, err := repos.Tokens.Consume(ctx, model.TokenTypeGroupInvite, model.HashToken(secret))
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidInvite
		}
		if err != nil {
			return err
		}
		if token.UserID != userID {
			return ErrInvalidInvite
		}

		member = &model.GroupMember{
			GroupID:  token.Subject,
			UserID:   userID,
			Role:     model.GroupRoleMember,
			JoinedAt: time.Now(),
		}
		return repos.Groups.AddMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("group invitation accepted", "group_id", member.GroupID, "user_id", userID)
	return member, nil
}

func (s *GroupService) Members(ctx context.Context, userID, groupID string) ([]*model.GroupMember, error) {
	_, err := s.membership(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	return s.groupRepo.Members(ctx, groupID)
}

func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	member, err := s.membership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member.Role == model.GroupRoleOwner {
		return ErrOwnerCannotLeave
	}
	return s.groupRepo.RemoveMember(ctx, groupID, userID)
}

// CreateGoal sets a goal for the whole group. Every member gets an unaccepted copy that
// tracks their own progress once accepted.
func (s *GroupService) CreateGoal(ctx context.Context, actorID, groupID string, target float64, unit model.Unit, endDate time.Time) ([]*model.Goal, error) {
	group, err := s.managedGroup(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.groupRepo.Members(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	goals := make([]*model.Goal, 0, len(members))
	for _, member := range members {
		goal, err := model.NewGroupGoal(target, unit, endDate, groupID, false)
		if err != nil {
			return nil, err
		}
		stampGoal(goal, member.UserID)
		goals = append(goals, goal)
	}

	err = s.goalRepo.CreateMany(ctx, goals)
	if err != nil {
		return nil, fmt.Errorf("failed to store group goals: %w", err)
	}

	for _, goal := range goals {
		if goal.UserID == actorID {
			continue
		}
		s.notify(ctx, "group_goal", goal.UserID, func(ctx context.Context) error {
			user, err := s.userRepo.ByID(ctx, goal.UserID)
			if err != nil {
				return err
			}
			return s.notifier.GroupGoalAssigned(ctx, user, group, goal)
		})
	}

	slog.Info("group goal created", "group_id", groupID, "members", len(goals))
	return goals, nil
}

// GroupGoalCompleted tells the other members that member finished their copy of a
// group goal. It runs inline; callers are expected to be off the request path.
func (s *GroupService) GroupGoalCompleted(ctx context.Context, member *model.User, goal *model.Goal) error {
	if s.notifier == nil {
		return nil
	}

	group, err := s.groupRepo.ByID(ctx, goal.GroupID)
	if err != nil {
		return err
	}

	members, err := s.groupRepo.Members(ctx, goal.GroupID)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}

	var errs []error
	for _, m := range members {
		if m.UserID == member.ID {
			continue
		}

		recipient, err := s.userRepo.ByID(ctx, m.UserID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = s.notifier.GroupGoalReached(ctx, recipient, group, member, goal)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Wait blocks until in-flight notifications are done.
func (s *GroupService) Wait() {
	s.pending.Wait()
}

func (s *GroupService) membership(ctx context.Context, groupID, userID string) (*model.GroupMember, error) {
	member, err := s.groupRepo.Member(ctx, groupID, userID)
	if errors.Is(err, repository.ErrMemberNotFound) {
		return nil, ErrNotGroupMember
	}
	return member, err
}

func (s *GroupService) managedGroup(ctx context.Context, actorID, groupID string) (*model.Group, error) {
	member, err := s.membership(ctx, groupID, actorID)
	if err != nil {
		return nil, err
	}
	if !member.CanManageGoals() {
		return nil, ErrNotGroupManager
	}
	return s.groupRepo.ByID(ctx, groupID)
}

func (s *GroupService) notify(ctx context.Context, kind, userID string, send func(context.Context) error) {
	if s.notifier == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		err := send(context.WithoutCancel(ctx))
		if err != nil {
			slog.Error("failed to send group notification", "error", err, "type", kind, "user_id", userID)
		}
	}()
}
