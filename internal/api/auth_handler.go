package api

import (
	"context"

	"connectrpc.com/connect"

	"github.com/splitpal/splitpal/internal/middleware"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/service"
)

// AuthHandler implements the Connect AuthService.
type AuthHandler struct {
	svc *service.AuthService
}

// Register signs up a new user and returns their first token pair.
func (h *AuthHandler) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[service.Session], error) {
	session, err := h.svc.Register(ctx, req.Msg.Name, req.Msg.PhoneNumber, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(session), nil
}

// Login exchanges a phone number and password for a token pair.
func (h *AuthHandler) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[service.Session], error) {
	session, err := h.svc.Login(ctx, req.Msg.PhoneNumber, req.Msg.Password)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(session), nil
}

// Refresh rotates a refresh token.
func (h *AuthHandler) Refresh(ctx context.Context, req *connect.Request[RefreshRequest]) (*connect.Response[service.Session], error) {
	session, err := h.svc.Refresh(ctx, req.Msg.RefreshToken)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(session), nil
}

// CurrentUser returns the authenticated caller.
func (h *AuthHandler) CurrentUser(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[models.User], error) {
	user, err := h.svc.CurrentUser(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(user), nil
}
