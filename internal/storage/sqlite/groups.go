package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

// CreateGroup persists a new group and its member list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate ID if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, admin_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		group.ID, group.Name, nullString(group.Description), group.AdminID, toNanos(group.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateGroup overwrites a group's name, description and member list.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE groups SET name = ?, description = ? WHERE id = ?`,
		group.Name, nullString(group.Description), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("group not found: %s", group.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = ?`, group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	if err := insertMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, members []string) error {
	for i, phone := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, phone_number, position) VALUES (?, ?, ?)`,
			groupID, phone, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

// GetGroup retrieves a group by ID, including its ordered member list.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, admin_id, created_at FROM groups WHERE id = ?`,
		groupID,
	)

	group, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadMembers(ctx, []*models.Group{group}); err != nil {
		return nil, err
	}

	return group, nil
}

// ListGroupsByMember retrieves all groups containing the phone number, newest first.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, phoneNumber string) ([]*models.Group, error) {
	return s.queryGroups(ctx,
		`SELECT g.id, g.name, g.description, g.admin_id, g.created_at
		 FROM groups g JOIN group_members m ON m.group_id = g.id
		 WHERE m.phone_number = ?
		 ORDER BY g.created_at DESC, g.id DESC`,
		phoneNumber,
	)
}

// ListGroupsByMemberPage retrieves one page of the groups containing the phone number.
func (s *SQLiteStore) ListGroupsByMemberPage(ctx context.Context, phoneNumber string, req storage.PageRequest) (*storage.Page[*models.Group], error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM group_members WHERE phone_number = ?`,
		phoneNumber,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count groups: %w", err)
	}

	groups, err := s.queryGroups(ctx,
		`SELECT g.id, g.name, g.description, g.admin_id, g.created_at
		 FROM groups g JOIN group_members m ON m.group_id = g.id
		 WHERE m.phone_number = ?
		 ORDER BY g.created_at DESC, g.id DESC
		 LIMIT ? OFFSET ?`,
		phoneNumber, req.Size, req.Offset(),
	)
	if err != nil {
		return nil, err
	}

	return storage.NewPage(groups, req, total), nil
}

func (s *SQLiteStore) queryGroups(ctx context.Context, query string, args ...interface{}) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	rows.Close()

	if err := s.loadMembers(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// loadMembers fills the member lists of groups in stored order.
func (s *SQLiteStore) loadMembers(ctx context.Context, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	byID := make(map[string]*models.Group, len(groups))
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, phone_number FROM group_members
		 WHERE group_id IN (`+placeholders(len(ids))+`)
		 ORDER BY group_id, position`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, phone string
		if err := rows.Scan(&groupID, &phone); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		g := byID[groupID]
		g.Members = append(g.Members, phone)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString
	var createdAt int64

	if err := row.Scan(&group.ID, &group.Name, &description, &group.AdminID, &createdAt); err != nil {
		return nil, err
	}
	if description.Valid {
		group.Description = description.String
	}
	group.CreatedAt = fromNanos(createdAt)
	return group, nil
}
