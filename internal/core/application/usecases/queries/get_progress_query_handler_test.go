package queries_test

import (
	"context"
	"testing"
	"time"

	"relay/internal/adapters/out/postgres/parcelrepo"
	"relay/internal/adapters/out/postgres/relayrepo"
	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the repository's aggregate tracker without a unit of
// work.
type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type GetProgressQueryHandlerTestSuite struct {
	suite.Suite
	container   *postgres.PostgresContainer
	db          *gorm.DB
	handler     queries.GetProgressQueryHandler
	parcelRepo  *parcelrepo.GormParcelRepository
	segmentRepo *relayrepo.GormSegmentRepository
}

func (suite *GetProgressQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&parcelrepo.ParcelDTO{}, &relayrepo.SegmentDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetProgressQueryHandler(db)
	suite.parcelRepo = parcelrepo.NewGormParcelRepository(db, noopTracker{})
	suite.segmentRepo = relayrepo.NewGormSegmentRepository(db, noopTracker{})
}

func (suite *GetProgressQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetProgressQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE parcels, relay_segments CASCADE").Error
	suite.Require().NoError(err)
}

// createParcel persists a parcel routed along a single meridian so expected
// percentages are exact.
func (suite *GetProgressQueryHandlerTestSuite) createParcel() *parcel.Parcel {
	origin, err := kernel.NewGeoPoint(0, 0)
	suite.Require().NoError(err)
	destination, err := kernel.NewGeoPoint(1, 0)
	suite.Require().NoError(err)

	p, err := parcel.NewParcel(kernel.NewUUID(), kernel.NewUUID(), origin, destination)
	suite.Require().NoError(err)

	err = suite.parcelRepo.Add(context.Background(), p)
	suite.Require().NoError(err)

	return p
}

func (suite *GetProgressQueryHandlerTestSuite) createSegment(
	p *parcel.Parcel,
	lat float64,
	shares relay.Shares,
	createdAt time.Time,
) *relay.Segment {
	point, err := kernel.NewGeoPoint(lat, 0)
	suite.Require().NoError(err)

	code, err := relay.NewConfirmationCode()
	suite.Require().NoError(err)

	segment, err := relay.NewSegment(
		kernel.NewUUID(), p.ID(), kernel.NewUUID(), kernel.NewUUID(),
		"Main St 1",
		point, code, shares,
		createdAt,
	)
	suite.Require().NoError(err)

	err = suite.segmentRepo.Add(context.Background(), segment)
	suite.Require().NoError(err)

	return segment
}

func (suite *GetProgressQueryHandlerTestSuite) TestHandle_SingleHandoff_ReportsLegProgress() {
	p := suite.createParcel()
	suite.createSegment(p, 0.7, relay.Shares{Outgoing: 70, Incoming: 30}, time.Now().UTC())

	query, err := queries.NewGetProgressQuery(p.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(70, result.CurrentLegProgress)
	suite.Equal(30, result.RemainingProgress)
	suite.InDelta(0.7, result.LastHandoffLocation.Lat(), 1e-6)
}

func (suite *GetProgressQueryHandlerTestSuite) TestHandle_UsesLatestSegment() {
	p := suite.createParcel()
	now := time.Now().UTC()
	suite.createSegment(p, 0.3, relay.Shares{Outgoing: 30, Incoming: 70}, now.Add(-time.Hour))
	suite.createSegment(p, 0.8, relay.Shares{Outgoing: 50, Incoming: 20}, now)

	query, err := queries.NewGetProgressQuery(p.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(80, result.CurrentLegProgress)
	suite.Equal(20, result.RemainingProgress)
}

func (suite *GetProgressQueryHandlerTestSuite) TestHandle_CountsUnconfirmedSegments() {
	p := suite.createParcel()
	segment := suite.createSegment(p, 0.5, relay.Shares{Outgoing: 50, Incoming: 50}, time.Now().UTC())
	suite.False(segment.Confirmed())

	query, err := queries.NewGetProgressQuery(p.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(50, result.CurrentLegProgress)
}

func (suite *GetProgressQueryHandlerTestSuite) TestHandle_ParcelNotFound_ReturnsError() {
	query, err := queries.NewGetProgressQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetProgressQueryHandlerTestSuite) TestHandle_ParcelWithoutSegments_ReturnsError() {
	p := suite.createParcel()

	query, err := queries.NewGetProgressQuery(p.ID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetProgressQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetProgressQuery{})

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetProgressQuery constructor")
}

func TestGetProgressQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(GetProgressQueryHandlerTestSuite))
}
