package api

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"

	"github.com/splitpal/splitpal/internal/auth"
	"github.com/splitpal/splitpal/internal/config"
	"github.com/splitpal/splitpal/internal/ledger"
	"github.com/splitpal/splitpal/internal/metrics"
	"github.com/splitpal/splitpal/internal/middleware"
	"github.com/splitpal/splitpal/internal/service"
	"github.com/splitpal/splitpal/internal/storage"
)

const (
	AuthServiceRegisterProcedure    = "/splitpal.v1.AuthService/Register"
	AuthServiceLoginProcedure       = "/splitpal.v1.AuthService/Login"
	AuthServiceRefreshProcedure     = "/splitpal.v1.AuthService/Refresh"
	AuthServiceCurrentUserProcedure = "/splitpal.v1.AuthService/CurrentUser"

	GroupServiceCreateGroupProcedure      = "/splitpal.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure         = "/splitpal.v1.GroupService/GetGroup"
	GroupServiceAddMemberProcedure        = "/splitpal.v1.GroupService/AddMember"
	GroupServiceListGroupsProcedure       = "/splitpal.v1.GroupService/ListGroups"
	GroupServiceRemainingCreditsProcedure = "/splitpal.v1.GroupService/RemainingCredits"

	TransactionServiceCreateTransactionProcedure = "/splitpal.v1.TransactionService/CreateTransaction"
	TransactionServiceEditTransactionProcedure   = "/splitpal.v1.TransactionService/EditTransaction"
	TransactionServiceEditSplitProcedure         = "/splitpal.v1.TransactionService/EditSplit"
	TransactionServiceGetTransactionProcedure    = "/splitpal.v1.TransactionService/GetTransaction"

	TimelineServiceGetTimelineProcedure      = "/splitpal.v1.TimelineService/GetTimeline"
	TimelineServiceGetTimelinePageProcedure  = "/splitpal.v1.TimelineService/GetTimelinePage"
	TimelineServiceGetGroupTimelineProcedure = "/splitpal.v1.TimelineService/GetGroupTimeline"

	DashboardServiceGetDashboardProcedure = "/splitpal.v1.DashboardService/GetDashboard"
)

// Services are the domain services the transport dispatches to.
type Services struct {
	Auth         *service.AuthService
	Groups       *service.GroupService
	Transactions *service.TransactionService
	Timeline     *service.TimelineService
	Dashboard    *service.DashboardService
}

// Config wires the transport. Metrics is optional.
type Config struct {
	Services
	JWTManager *auth.JWTManager
	Paging     config.PagingConfig
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Server holds one Connect handler type per service.
type Server struct {
	auth         *AuthHandler
	groups       *GroupHandler
	transactions *TransactionHandler
	timeline     *TimelineHandler
	dashboard    *DashboardHandler

	jwtManager *auth.JWTManager
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewServer builds the handlers for every service.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pages := pager{defaultSize: cfg.Paging.DefaultSize, maxSize: cfg.Paging.MaxSize}

	return &Server{
		auth:         &AuthHandler{svc: cfg.Auth},
		groups:       &GroupHandler{svc: cfg.Groups, pages: pages},
		transactions: &TransactionHandler{svc: cfg.Transactions},
		timeline:     &TimelineHandler{svc: cfg.Timeline, pages: pages},
		dashboard:    &DashboardHandler{svc: cfg.Dashboard},
		jwtManager:   cfg.JWTManager,
		logger:       logger,
		metrics:      cfg.Metrics,
	}
}

// Mount registers every procedure on r. Everything except signup, login
// and refresh requires an access token.
func (s *Server) Mount(r chi.Router) {
	public := []connect.HandlerOption{WithCodec(), connect.WithInterceptors(s.interceptors(false)...)}
	protected := []connect.HandlerOption{WithCodec(), connect.WithInterceptors(s.interceptors(true)...)}

	handle := func(procedure string, h http.Handler) {
		r.Method(http.MethodPost, procedure, h)
	}

	handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, s.auth.Register, public...))
	handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, s.auth.Login, public...))
	handle(AuthServiceRefreshProcedure, connect.NewUnaryHandler(AuthServiceRefreshProcedure, s.auth.Refresh, public...))
	handle(AuthServiceCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceCurrentUserProcedure, s.auth.CurrentUser, protected...))

	handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, s.groups.CreateGroup, protected...))
	handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, s.groups.GetGroup, protected...))
	handle(GroupServiceAddMemberProcedure, connect.NewUnaryHandler(GroupServiceAddMemberProcedure, s.groups.AddMember, protected...))
	handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, s.groups.ListGroups, protected...))
	handle(GroupServiceRemainingCreditsProcedure, connect.NewUnaryHandler(GroupServiceRemainingCreditsProcedure, s.groups.RemainingCredits, protected...))

	handle(TransactionServiceCreateTransactionProcedure, connect.NewUnaryHandler(TransactionServiceCreateTransactionProcedure, s.transactions.CreateTransaction, protected...))
	handle(TransactionServiceEditTransactionProcedure, connect.NewUnaryHandler(TransactionServiceEditTransactionProcedure, s.transactions.EditTransaction, protected...))
	handle(TransactionServiceEditSplitProcedure, connect.NewUnaryHandler(TransactionServiceEditSplitProcedure, s.transactions.EditSplit, protected...))
	handle(TransactionServiceGetTransactionProcedure, connect.NewUnaryHandler(TransactionServiceGetTransactionProcedure, s.transactions.GetTransaction, protected...))

	handle(TimelineServiceGetTimelineProcedure, connect.NewUnaryHandler(TimelineServiceGetTimelineProcedure, s.timeline.GetTimeline, protected...))
	handle(TimelineServiceGetTimelinePageProcedure, connect.NewUnaryHandler(TimelineServiceGetTimelinePageProcedure, s.timeline.GetTimelinePage, protected...))
	handle(TimelineServiceGetGroupTimelineProcedure, connect.NewUnaryHandler(TimelineServiceGetGroupTimelineProcedure, s.timeline.GetGroupTimeline, protected...))

	handle(DashboardServiceGetDashboardProcedure, connect.NewUnaryHandler(DashboardServiceGetDashboardProcedure, s.dashboard.GetDashboard, protected...))
}

// interceptors run outermost first: metrics, then auth, then logging so the
// log line carries the caller.
func (s *Server) interceptors(requireAuth bool) []connect.Interceptor {
	var out []connect.Interceptor
	if s.metrics != nil {
		out = append(out, s.metrics.Interceptor())
	}
	if requireAuth {
		out = append(out, middleware.RequireAuth(s.jwtManager))
	}
	return append(out, middleware.LoggingInterceptor(s.logger))
}

// pager turns wire page parameters into a store request.
type pager struct {
	defaultSize int
	maxSize     int
}

// request applies the default size and caps it at the maximum.
func (p pager) request(params PageParams) (storage.PageRequest, error) {
	size := p.defaultSize
	if params.Size != nil {
		size = *params.Size
	}
	if params.Page < 0 {
		return storage.PageRequest{}, fmt.Errorf("%w: page must not be negative", ledger.ErrValidation)
	}
	if size < 1 {
		return storage.PageRequest{}, fmt.Errorf("%w: size must be positive", ledger.ErrValidation)
	}
	if p.maxSize > 0 && size > p.maxSize {
		size = p.maxSize
	}
	if params.Page > math.MaxInt/size {
		return storage.PageRequest{}, fmt.Errorf("%w: page %d is out of range", ledger.ErrValidation, params.Page)
	}
	return storage.PageRequest{Page: params.Page, Size: size}, nil
}
