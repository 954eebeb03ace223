package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"marketplace/internal/adapters/out/metrics"
)

// RequestObserver records finished requests; metrics.HTTPMetrics implements it.
type RequestObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// NewRouter builds the echo instance serving the API, its contract, the swagger UI,
// health and metrics.
func NewRouter(
	server *Server,
	doc *openapi3.T,
	observer RequestObserver,
	gatherer prometheus.Gatherer,
) (*echo.Echo, error) {
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}
	spec, err := newSpecDoc(doc)
	if err != nil {
		return nil, err
	}
	registerSwagger(spec)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(observeRequests(observer))

	e.GET("/health", server.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/api/v1/openapi.json", spec.serve)

	api := e.Group("/api/v1", validator)
	api.POST("/orders", server.CreateOrder)
	api.GET("/orders", server.GetActiveOrders)
	api.GET("/orders/:orderId", server.GetOrder)
	api.GET("/orders/:orderId/transitions", server.GetTransitions)
	api.POST("/orders/:orderId/actions", server.ApplyAction)
	api.GET("/quote", server.GetQuote)

	return e, nil
}

func observeRequests(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					status = httpErr.Code
				}
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			observer.Observe(ctx.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
