package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/core/domain/services/transition"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

type OrderCreator interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type ActionApplier interface {
	Handle(ctx context.Context, cmd commands.ApplyOrderActionCommand) (*order.Order, error)
}

type OrderViewer interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

type ActiveOrdersLister interface {
	Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
}

type PriceQuoter interface {
	Handle(ctx context.Context, query queries.QuotePriceQuery) (financial.Quote, error)
}

// NextActionPlanner lists what a role may do with an order; the lifecycle engine
// implements it.
type NextActionPlanner interface {
	ValidNextStates(o *order.Order, role kernel.Role, now time.Time) []transition.Option
}

// Server serves the order lifecycle API. Handlers only translate between the wire
// and the use cases.
type Server struct {
	// Command handlers
	createOrder OrderCreator
	applyAction ActionApplier

	// Query handlers
	getOrder     OrderViewer
	activeOrders ActiveOrdersLister
	quotePrice   PriceQuoter

	planner NextActionPlanner
	clock   ports.Clock
}

func NewServer(
	createOrder OrderCreator,
	applyAction ActionApplier,
	getOrder OrderViewer,
	activeOrders ActiveOrdersLister,
	quotePrice PriceQuoter,
	planner NextActionPlanner,
	clock ports.Clock,
) *Server {
	return &Server{
		createOrder:  createOrder,
		applyAction:  applyAction,
		getOrder:     getOrder,
		activeOrders: activeOrders,
		quotePrice:   quotePrice,
		planner:      planner,
		clock:        clock,
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	urgency, err := order.ParseUrgency(body.Urgency)
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), body.details(), urgency, body.Publish)
	if err != nil {
		return writeError(ctx, err)
	}

	created, err := s.createOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, s.view(created, kernel.RoleAdmin))
}

// GetActiveOrders handles GET /api/v1/orders.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	rows, err := s.activeOrders.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderSummary, len(rows))
	for i, row := range rows {
		response[i] = toOrderSummary(row)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context) error {
	resp, err := s.readOrder(ctx, false)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Order{
		Order:       resp.Order,
		NextActions: toTransitionOptions(resp.NextActions),
	})
}

// GetTransitions handles GET /api/v1/orders/{orderId}/transitions.
func (s *Server) GetTransitions(ctx echo.Context) error {
	resp, err := s.readOrder(ctx, true)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toTransitionOptions(resp.NextActions))
}

// ApplyAction handles POST /api/v1/orders/{orderId}/actions.
func (s *Server) ApplyAction(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body ActionRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	role, err := kernel.ParseRole(body.Role)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewApplyOrderActionCommand(
		orderID,
		order.Action(body.Action),
		role,
		transition.NewPayload(body.Fields, filesToDomain(body.Files)...),
	)
	if err != nil {
		return writeError(ctx, err)
	}

	next, err := s.applyAction.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, s.view(next, role))
}

// GetQuote handles GET /api/v1/quote.
func (s *Server) GetQuote(ctx echo.Context) error {
	var pages int
	if err := runtime.BindQueryParameter("form", true, true, "pages", ctx.QueryParams(), &pages); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("pages", err))
	}
	var urgency *string
	if err := runtime.BindQueryParameter("form", true, false, "urgency", ctx.QueryParams(), &urgency); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("urgency", err))
	}
	var u order.Urgency
	if urgency != nil {
		u = order.Urgency(*urgency)
	}

	query, err := queries.NewQuotePriceQuery(pages, u)
	if err != nil {
		return writeError(ctx, err)
	}
	quote, err := s.quotePrice.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toQuote(quote))
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

func (s *Server) readOrder(ctx echo.Context, roleRequired bool) (queries.GetOrderQueryResponse, error) {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return queries.GetOrderQueryResponse{}, err
	}

	rawRole, err := bindRole(ctx, roleRequired)
	if err != nil {
		return queries.GetOrderQueryResponse{}, err
	}
	role := kernel.RoleAdmin
	if rawRole != nil {
		if role, err = kernel.ParseRole(*rawRole); err != nil {
			return queries.GetOrderQueryResponse{}, err
		}
	}

	query, err := queries.NewGetOrderQuery(orderID, role)
	if err != nil {
		return queries.GetOrderQueryResponse{}, err
	}
	return s.getOrder.Handle(ctx.Request().Context(), query)
}

func (s *Server) view(o *order.Order, role kernel.Role) Order {
	return Order{
		Order:       o.Snapshot(),
		NextActions: toTransitionOptions(s.planner.ValidNextStates(o, role, s.clock.Now())),
	}
}

// bindRole binds the role query parameter. Required parameters bind into a value,
// optional ones into a pointer left nil when absent.
func bindRole(ctx echo.Context, required bool) (*string, error) {
	if required {
		var role string
		if err := runtime.BindQueryParameter("form", true, true, "role", ctx.QueryParams(), &role); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("role", err)
		}
		return &role, nil
	}

	var role *string
	if err := runtime.BindQueryParameter("form", true, false, "role", ctx.QueryParams(), &role); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("role", err)
	}
	return role, nil
}

func bindOrderID(ctx echo.Context) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return id, nil
}
