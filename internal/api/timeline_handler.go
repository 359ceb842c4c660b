package api

import (
	"context"

	"connectrpc.com/connect"

	"github.com/splitpal/splitpal/internal/middleware"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/service"
)

// TimelineHandler implements the Connect TimelineService. The viewer is
// always the caller.
type TimelineHandler struct {
	svc   *service.TimelineService
	pages pager
}

func (h *TimelineHandler) GetTimeline(ctx context.Context, req *connect.Request[TimelineRequest]) (*connect.Response[TimelineResponse], error) {
	entries, err := h.svc.Timeline(ctx, middleware.GetUserID(ctx), req.Msg.OtherUserID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&TimelineResponse{Entries: entries}), nil
}

func (h *TimelineHandler) GetTimelinePage(ctx context.Context, req *connect.Request[TimelinePageRequest]) (*connect.Response[models.TimelinePage], error) {
	pageReq, err := h.pages.request(req.Msg.PageParams)
	if err != nil {
		return nil, connectError(err)
	}
	page, err := h.svc.TimelinePage(ctx, middleware.GetUserID(ctx), req.Msg.OtherUserID, pageReq)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(page), nil
}

func (h *TimelineHandler) GetGroupTimeline(ctx context.Context, req *connect.Request[GroupTimelineRequest]) (*connect.Response[models.TimelinePage], error) {
	pageReq, err := h.pages.request(req.Msg.PageParams)
	if err != nil {
		return nil, connectError(err)
	}
	page, err := h.svc.GroupTimelinePage(ctx, req.Msg.GroupID, middleware.GetUserID(ctx), pageReq)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(page), nil
}
