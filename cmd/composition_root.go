package cmd

import (
	"log/slog"
	"os"

	"relay/internal/adapters/out/geo"
	"relay/internal/adapters/out/kafka"
	"relay/internal/adapters/out/postgres"
	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/ports"
	"relay/internal/jobs"
	"relay/internal/pkg/keymutex"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, use cases and jobs together. The parcel
// lock set and the outbound adapters are created once and shared: every
// handler that mutates a parcel must serialize on the same mutex instance.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	geocoder   ports.Geocoder
	publisher  *kafka.SettlementPublisher
	locks      *keymutex.KeyMutex
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var geocoder ports.Geocoder = geo.NewHTTPGeocoder(config.GeocoderBaseURL)
	if config.RedisAddr != "" {
		geocoder = geo.NewCachedGeocoder(geocoder, redis.NewClient(&redis.Options{
			Addr: config.RedisAddr,
		}))
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		geocoder:   geocoder,
		publisher:  kafka.NewSettlementPublisher(config.KafkaHost, config.KafkaSettlementTopic),
		locks:      keymutex.New(),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	return commands.NewCreateParcelCommandHandler(c.parcelUoWFactory())
}

func (c *CompositionRoot) CreateTakeParcelCommandHandler() commands.TakeParcelCommandHandler {
	return commands.NewTakeParcelCommandHandler(c.parcelUoWFactory())
}

func (c *CompositionRoot) CreateInitiateHandoffCommandHandler() commands.InitiateHandoffCommandHandler {
	return commands.NewInitiateHandoffCommandHandler(
		c.relayUoWFactory(),
		c.geocoder,
		c.publisher,
		c.locks,
		c.logger,
	)
}

func (c *CompositionRoot) CreateConfirmHandoffCommandHandler() commands.ConfirmHandoffCommandHandler {
	return commands.NewConfirmHandoffCommandHandler(c.relayUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateRecomputeSettlementCommandHandler() commands.RecomputeSettlementCommandHandler {
	return commands.NewRecomputeSettlementCommandHandler(
		c.relayUoWFactory(),
		c.publisher,
		c.locks,
		c.logger,
	)
}

func (c *CompositionRoot) CreateMarkParcelDeliveredCommandHandler() commands.MarkParcelDeliveredCommandHandler {
	return commands.NewMarkParcelDeliveredCommandHandler(c.parcelUoWFactory())
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	return commands.NewRegisterCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateReportCourierLocationCommandHandler() commands.ReportCourierLocationCommandHandler {
	return commands.NewReportCourierLocationCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateDeclareMovementCommandHandler() commands.DeclareMovementCommandHandler {
	return commands.NewDeclareMovementCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateGetProgressQueryHandler() queries.GetProgressQueryHandler {
	return queries.NewGetProgressQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetParcelsNearCourierQueryHandler() queries.GetParcelsNearCourierQueryHandler {
	return queries.NewGetParcelsNearCourierQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetParcelsOnCourierRouteQueryHandler() queries.GetParcelsOnCourierRouteQueryHandler {
	return queries.NewGetParcelsOnCourierRouteQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	reconciliation := jobs.NewSettlementReconciliationJob(
		c.parcelUoWFactory(),
		c.CreateRecomputeSettlementCommandHandler(),
		c.logger,
	)
	return jobs.NewJobManager(reconciliation)
}

// ClosePublisher releases the Kafka writer on shutdown.
func (c *CompositionRoot) ClosePublisher() error {
	return c.publisher.Close()
}

func (c *CompositionRoot) parcelUoWFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) relayUoWFactory() commands.RelayUoWFactory {
	return FuncRelayUoWFactory(func() commands.RelayUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncRelayUoWFactory func() commands.RelayUoW

func (f FuncRelayUoWFactory) Create() commands.RelayUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}
