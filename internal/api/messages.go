package api

import "github.com/splitpal/splitpal/internal/models"

// Empty is the request of RPCs that take nothing but the caller's identity.
type Empty struct{}

type RegisterRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PageParams selects a page. A nil Size means the server default.
type PageParams struct {
	Page int  `json:"page"`
	Size *int `json:"size,omitempty"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type AddMemberRequest struct {
	GroupID     string `json:"group_id"`
	PhoneNumber string `json:"phone_number"`
}

type ListGroupsRequest struct {
	PageParams
}

type CreditsResponse struct {
	RemainingCredits int `json:"remaining_credits"`
}

type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type TimelineRequest struct {
	OtherUserID string `json:"other_user_id"`
}

type TimelineResponse struct {
	Entries []models.TimelineEntry `json:"entries"`
}

type TimelinePageRequest struct {
	OtherUserID string `json:"other_user_id"`
	PageParams
}

type GroupTimelineRequest struct {
	GroupID string `json:"group_id"`
	PageParams
}
