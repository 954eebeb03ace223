package cmd

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/clock"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/metrics"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services/lifecycle"
	"marketplace/internal/jobs"
)

// CompositionRoot owns the long-lived dependencies and builds use case handlers,
// the HTTP router and the jobs from them.
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	engine     *lifecycle.Engine
	clock      clock.UTC

	registry          *prometheus.Registry
	transitionMetrics *metrics.TransitionMetrics
	httpMetrics       *metrics.HTTPMetrics

	producer *kafka.Producer
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	engine, err := lifecycle.NewEngine(config.Rules, config.Policy)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	producer := kafka.NewProducer(kafka.NewWriter(config.KafkaHost), kafka.Topics{
		Events:        config.KafkaOrderChangedTopic,
		Notifications: config.KafkaNotificationsTopic,
		Ledger:        config.KafkaLedgerTopic,
	})

	return &CompositionRoot{
		config:            config,
		logger:            logger,
		gormDB:            gormDB,
		uowFactory:        postgres.NewGormUnitOfWorkFactory(gormDB),
		engine:            engine,
		registry:          registry,
		transitionMetrics: metrics.NewTransitionMetrics(registry),
		httpMetrics:       metrics.NewHTTPMetrics(registry),
		producer:          producer,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateEventDispatcher() commands.EventDispatcher {
	return commands.NewDomainEventDispatcher(c.producer, c.producer, c.producer)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.engine, c.transitionMetrics, c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateApplyOrderActionCommandHandler() *commands.ApplyOrderActionCommandHandler {
	h := commands.NewApplyOrderActionCommandHandler(
		c.orderUoWFactory(), c.engine, c.transitionMetrics, c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateReevaluateOrdersCommandHandler() *commands.ReevaluateOrdersCommandHandler {
	h := commands.NewReevaluateOrdersCommandHandler(
		c.orderUoWFactory(), c.engine, c.transitionMetrics, c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() *commands.RelayOutboxCommandHandler {
	h := commands.NewRelayOutboxCommandHandler(c.orderUoWFactory(), c.CreateEventDispatcher(), c.clock, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil), c.engine, c.clock)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateQuotePriceQueryHandler() queries.QuotePriceQueryHandler {
	return queries.NewQuotePriceQueryHandler(c.engine.Policy())
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateApplyOrderActionCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.CreateQuotePriceQueryHandler(),
		c.engine,
		c.clock,
	)
}

func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	doc, err := httpin.LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	return httpin.NewRouter(c.CreateServer(), doc, c.httpMetrics, c.registry)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewReevaluationJob(c.CreateReevaluateOrdersCommandHandler(), c.config.ReevaluationSchedule, c.logger),
		jobs.NewOutboxRelayJob(c.CreateRelayOutboxCommandHandler(), c.config.OutboxRelaySchedule, c.config.OutboxBatchSize, c.logger),
	)
}

// Close releases the Kafka writer.
func (c *CompositionRoot) Close() error {
	return c.producer.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
