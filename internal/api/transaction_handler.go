package api

import (
	"context"

	"connectrpc.com/connect"

	"github.com/splitpal/splitpal/internal/middleware"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/service"
)

// TransactionHandler implements the Connect TransactionService.
type TransactionHandler struct {
	svc *service.TransactionService
}

func (h *TransactionHandler) CreateTransaction(ctx context.Context, req *connect.Request[service.CreateTransactionRequest]) (*connect.Response[models.Transaction], error) {
	tx, err := h.svc.Create(ctx, middleware.GetUserID(ctx), req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(tx), nil
}

func (h *TransactionHandler) EditTransaction(ctx context.Context, req *connect.Request[service.EditTransactionRequest]) (*connect.Response[models.Transaction], error) {
	tx, err := h.svc.Edit(ctx, middleware.GetUserID(ctx), req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(tx), nil
}

func (h *TransactionHandler) EditSplit(ctx context.Context, req *connect.Request[service.EditSplitRequest]) (*connect.Response[models.Transaction], error) {
	tx, err := h.svc.EditSplit(ctx, middleware.GetUserID(ctx), req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(tx), nil
}

func (h *TransactionHandler) GetTransaction(ctx context.Context, req *connect.Request[GetTransactionRequest]) (*connect.Response[models.TransactionDetail], error) {
	detail, err := h.svc.Details(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(detail), nil
}
