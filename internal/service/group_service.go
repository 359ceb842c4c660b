package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/splitpal/splitpal/internal/ledger"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

// GroupService manages groups and the group credits that gate their creation.
type GroupService struct {
	store  storage.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, opts ...Option) *GroupService {
	s := newSettings(opts)
	return &GroupService{store: store, now: s.now, logger: s.logger}
}

// CreateGroupRequest describes a new group. Members are phone numbers.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

// CreateGroupResult is the new group and the admin's remaining credits.
type CreateGroupResult struct {
	Group            *models.Group `json:"group"`
	RemainingCredits int           `json:"remaining_credits"`
}

// CreateGroup creates a group administered by adminID and spends one of
// their group credits. The admin's phone number is always a member.
func (s *GroupService) CreateGroup(ctx context.Context, adminID string, req *CreateGroupRequest) (*CreateGroupResult, error) {
	s.logger.Info("CreateGroup request received",
		"user_id", adminID,
		"name", req.Name,
		"members_count", len(req.Members),
	)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name cannot be blank", ledger.ErrValidation)
	}

	admin, err := s.store.GetUserByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: user %s", ledger.ErrNotFound, adminID)
	}
	if admin.GroupCredits <= 0 {
		s.logger.Warn("CreateGroup refused, no credits left", "user_id", adminID)
		return nil, fmt.Errorf("%w: all %d free group creations used", ledger.ErrInsufficientCredits, models.DefaultGroupCredits)
	}

	group := &models.Group{
		Name:        name,
		Description: req.Description,
		AdminID:     admin.ID,
		Members:     memberList(req.Members, admin.PhoneNumber),
		CreatedAt:   s.now(),
	}

	// Save to storage (generates ID)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	admin.GroupCredits--
	if err := s.store.UpdateUser(ctx, admin); err != nil {
		s.logger.Error("CreateGroup failed to spend credit", "user_id", adminID, "group_id", group.ID, "error", err)
		return nil, err
	}

	s.logger.Info("Group created", "group_id", group.ID, "remaining_credits", admin.GroupCredits)

	return &CreateGroupResult{Group: group, RemainingCredits: admin.GroupCredits}, nil
}

// memberList trims and deduplicates phone numbers, keeping the first
// occurrence, and appends the admin's number if it is missing.
func memberList(phones []string, adminPhone string) []string {
	seen := make(map[string]bool, len(phones)+1)
	members := make([]string, 0, len(phones)+1)
	for _, p := range append(append([]string(nil), phones...), adminPhone) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		members = append(members, p)
	}
	return members
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if err := ledger.ValidateID("group", groupID); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("GetGroup failed", "group_id", groupID, "error", err)
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: group %s", ledger.ErrNotFound, groupID)
	}
	return group, nil
}

// AddMember adds phoneNumber to a group. The number must belong to a user
// and the actor must already be a member. Adding an existing member is a no-op.
func (s *GroupService) AddMember(ctx context.Context, actorPhone, groupID, phoneNumber string) (*models.Group, error) {
	s.logger.Info("AddMember request received", "group_id", groupID)

	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorPhone) {
		return nil, fmt.Errorf("%w: only members can add to group %s", ledger.ErrNotAuthorized, groupID)
	}

	phoneNumber = strings.TrimSpace(phoneNumber)
	if group.HasMember(phoneNumber) {
		return group, nil
	}

	user, err := s.store.GetUserByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no user with phone number %s", ledger.ErrNotFound, phoneNumber)
	}

	group.Members = append(group.Members, phoneNumber)
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		s.logger.Error("AddMember failed", "group_id", groupID, "error", err)
		return nil, err
	}

	s.logger.Info("Member added", "group_id", groupID, "user_id", user.ID)
	return group, nil
}

// ListGroups returns one page of the groups phoneNumber belongs to, newest first.
func (s *GroupService) ListGroups(ctx context.Context, phoneNumber string, req storage.PageRequest) (*models.GroupPage, error) {
	page, err := s.store.ListGroupsByMemberPage(ctx, phoneNumber, req)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, err
	}

	content := page.Items
	if content == nil {
		content = []*models.Group{}
	}
	return &models.GroupPage{
		Content:     content,
		CurrentPage: page.PageIndex,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
		HasMore:     ledger.HasMore(page.PageIndex, page.TotalPages),
	}, nil
}

// RemainingCredits reports how many more groups userID may create.
func (s *GroupService) RemainingCredits(ctx context.Context, userID string) (int, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("%w: user %s", ledger.ErrNotFound, userID)
	}
	return user.GroupCredits, nil
}
