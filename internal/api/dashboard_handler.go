package api

import (
	"context"

	"connectrpc.com/connect"

	"github.com/splitpal/splitpal/internal/middleware"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/service"
)

// DashboardHandler implements the Connect DashboardService.
type DashboardHandler struct {
	svc *service.DashboardService
}

// GetDashboard builds the caller's home screen.
func (h *DashboardHandler) GetDashboard(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[models.Dashboard], error) {
	dashboard, err := h.svc.Dashboard(ctx, middleware.GetUserID(ctx), middleware.GetPhoneNumber(ctx))
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(dashboard), nil
}
