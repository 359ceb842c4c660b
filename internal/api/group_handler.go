package api

import (
	"context"

	"connectrpc.com/connect"

	"github.com/splitpal/splitpal/internal/middleware"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/service"
)

// GroupHandler implements the Connect GroupService.
type GroupHandler struct {
	svc   *service.GroupService
	pages pager
}

// CreateGroup creates a group administered by the caller.
func (h *GroupHandler) CreateGroup(ctx context.Context, req *connect.Request[service.CreateGroupRequest]) (*connect.Response[service.CreateGroupResult], error) {
	result, err := h.svc.CreateGroup(ctx, middleware.GetUserID(ctx), req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(result), nil
}

// GetGroup retrieves a group by ID.
func (h *GroupHandler) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[models.Group], error) {
	group, err := h.svc.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(group), nil
}

// AddMember adds a phone number to a group the caller belongs to.
func (h *GroupHandler) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[models.Group], error) {
	group, err := h.svc.AddMember(ctx, middleware.GetPhoneNumber(ctx), req.Msg.GroupID, req.Msg.PhoneNumber)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(group), nil
}

// ListGroups pages through the caller's groups, newest first.
func (h *GroupHandler) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[models.GroupPage], error) {
	pageReq, err := h.pages.request(req.Msg.PageParams)
	if err != nil {
		return nil, connectError(err)
	}
	page, err := h.svc.ListGroups(ctx, middleware.GetPhoneNumber(ctx), pageReq)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(page), nil
}

// RemainingCredits reports how many more groups the caller may create.
func (h *GroupHandler) RemainingCredits(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[CreditsResponse], error) {
	credits, err := h.svc.RemainingCredits(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&CreditsResponse{RemainingCredits: credits}), nil
}
