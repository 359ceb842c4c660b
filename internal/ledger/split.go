package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitpal/splitpal/internal/models"
)

// Member is a group member resolved to an account.
type Member struct {
	UserID      string
	PhoneNumber string
}

// ResolveMembers maps the group's member phone numbers onto users.
// The result follows the order of phoneNumbers, not the order of users, so
// allocation is stable regardless of how the store returned them.
func ResolveMembers(phoneNumbers []string, users []*models.User) ([]Member, error) {
	byPhone := make(map[string]*models.User, len(users))
	for _, u := range users {
		if u != nil {
			byPhone[u.PhoneNumber] = u
		}
	}

	members := make([]Member, 0, len(phoneNumbers))
	for _, phone := range phoneNumbers {
		u, ok := byPhone[phone]
		if !ok {
			return nil, fmt.Errorf("%w: no user with phone number %s", ErrGroupResolution, phone)
		}
		members = append(members, Member{UserID: u.ID, PhoneNumber: phone})
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: group has no members", ErrGroupResolution)
	}
	return members, nil
}

// AllocateEven splits amount evenly across members, one split per member.
//
// Every split gets amount / len(members) using integer division; any
// remainder is not redistributed. The creator's own split starts settled
// at now, all others start unsettled.
func AllocateEven(members []Member, creatorID string, amount int64, now time.Time) ([]models.Split, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: must have at least one member", ErrGroupResolution)
	}

	share := amount / int64(len(members))
	splits := make([]models.Split, 0, len(members))
	for _, m := range members {
		split := models.Split{
			ID:      uuid.New().String(),
			Amount:  share,
			PayedBy: creatorID,
			OwedBy:  m.UserID,
		}
		if m.UserID == creatorID {
			settledAt := now
			split.Settled = true
			split.SettledAt = &settledAt
		}
		splits = append(splits, split)
	}
	return splits, nil
}

// ReplaceSplit returns a copy of splits with the split matching splitID
// replaced by update(old). The input slice is never modified.
func ReplaceSplit(splits []models.Split, splitID string, update func(models.Split) models.Split) ([]models.Split, bool) {
	out := make([]models.Split, len(splits))
	copy(out, splits)
	for i := range out {
		if out[i].ID == splitID {
			out[i] = update(out[i])
			return out, true
		}
	}
	return nil, false
}

// ReplacementSplits checks a caller-supplied split list that is to replace
// current. Every split keeps an id from current or has none and gets a
// fresh one; ids may not repeat. Both parties must be well-formed user ids.
// The returned slice is a copy.
func ReplacementSplits(current, next []models.Split) ([]models.Split, error) {
	owned := make(map[string]bool, len(current))
	for _, s := range current {
		owned[s.ID] = true
	}

	seen := make(map[string]bool, len(next))
	out := make([]models.Split, len(next))
	for i, s := range next {
		switch {
		case s.ID == "":
			s.ID = uuid.New().String()
		case seen[s.ID]:
			return nil, fmt.Errorf("%w: split %s appears more than once", ErrValidation, s.ID)
		default:
			if err := ValidateID("split", s.ID); err != nil {
				return nil, err
			}
			if !owned[s.ID] {
				return nil, fmt.Errorf("%w: split %s does not belong to this transaction", ErrValidation, s.ID)
			}
		}
		seen[s.ID] = true

		if err := ValidateID("user", s.OwedBy); err != nil {
			return nil, err
		}
		if err := ValidateID("user", s.PayedBy); err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
