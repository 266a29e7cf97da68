package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalkeeper/internal/model"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("group member not found")
	ErrAlreadyMember  = errors.New("user is already a group member")
)

type GroupRepository interface {
	// Create stores the group and enrols its owner.
	Create(ctx context.Context, group *model.Group) error
	ByID(ctx context.Context, groupID string) (*model.Group, error)
	AddMember(ctx context.Context, member *model.GroupMember) error
	Member(ctx context.Context, groupID, userID string) (*model.GroupMember, error)
	Members(ctx context.Context, groupID string) ([]*model.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID string) error
}

type groupRepository struct {
	db dbtx
}

func NewGroupRepository(db *sqlx.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	return inTx(ctx, r.db, func(q dbtx) error {
		_, err := q.ExecContext(ctx, `INSERT INTO user_groups (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
			group.ID, group.Name, group.OwnerID, group.CreatedAt)
		if err != nil {
			return err
		}

		_, err = q.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`,
			group.ID, group.OwnerID, model.GroupRoleOwner, group.CreatedAt)
		return err
	})
}

func (r *groupRepository) ByID(ctx context.Context, groupID string) (*model.Group, error) {
	group := &model.Group{}
	query := `SELECT * FROM user_groups WHERE id = $1`

	err := r.db.GetContext(ctx, group, query, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}

	return group, nil
}

func (r *groupRepository) AddMember(ctx context.Context, member *model.GroupMember) error {
	query := `INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, member.GroupID, member.UserID, member.Role, member.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyMember
		}
		return err
	}

	return nil
}

func (r *groupRepository) Member(ctx context.Context, groupID, userID string) (*model.GroupMember, error) {
	member := &model.GroupMember{}
	query := `SELECT * FROM group_members WHERE group_id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, member, query, groupID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (r *groupRepository) Members(ctx context.Context, groupID string) ([]*model.GroupMember, error) {
	var members []*model.GroupMember
	query := `SELECT * FROM group_members WHERE group_id = $1 ORDER BY joined_at ASC`

	err := r.db.SelectContext(ctx, &members, query, groupID)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrMemberNotFound)
}
