// Package http exposes the relay commands and queries over an echo HTTP API.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/relay"
	"relay/internal/core/domain/model/settlement"
	"relay/internal/core/ports"
	"relay/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createParcelHandler        commands.CreateParcelCommandHandler
	takeParcelHandler          commands.TakeParcelCommandHandler
	initiateHandoffHandler     commands.InitiateHandoffCommandHandler
	confirmHandoffHandler      commands.ConfirmHandoffCommandHandler
	recomputeSettlementHandler commands.RecomputeSettlementCommandHandler
	markDeliveredHandler       commands.MarkParcelDeliveredCommandHandler
	registerCourierHandler     commands.RegisterCourierCommandHandler
	reportLocationHandler      commands.ReportCourierLocationCommandHandler
	declareMovementHandler     commands.DeclareMovementCommandHandler

	getProgressHandler       queries.GetProgressQueryHandler
	getParcelsNearHandler    queries.GetParcelsNearCourierQueryHandler
	getParcelsOnRouteHandler queries.GetParcelsOnCourierRouteQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	createParcelHandler commands.CreateParcelCommandHandler,
	takeParcelHandler commands.TakeParcelCommandHandler,
	initiateHandoffHandler commands.InitiateHandoffCommandHandler,
	confirmHandoffHandler commands.ConfirmHandoffCommandHandler,
	recomputeSettlementHandler commands.RecomputeSettlementCommandHandler,
	markDeliveredHandler commands.MarkParcelDeliveredCommandHandler,
	registerCourierHandler commands.RegisterCourierCommandHandler,
	reportLocationHandler commands.ReportCourierLocationCommandHandler,
	declareMovementHandler commands.DeclareMovementCommandHandler,
	getProgressHandler queries.GetProgressQueryHandler,
	getParcelsNearHandler queries.GetParcelsNearCourierQueryHandler,
	getParcelsOnRouteHandler queries.GetParcelsOnCourierRouteQueryHandler,
) *Server {
	return &Server{
		createParcelHandler:        createParcelHandler,
		takeParcelHandler:          takeParcelHandler,
		initiateHandoffHandler:     initiateHandoffHandler,
		confirmHandoffHandler:      confirmHandoffHandler,
		recomputeSettlementHandler: recomputeSettlementHandler,
		markDeliveredHandler:       markDeliveredHandler,
		registerCourierHandler:     registerCourierHandler,
		reportLocationHandler:      reportLocationHandler,
		declareMovementHandler:     declareMovementHandler,
		getProgressHandler:         getProgressHandler,
		getParcelsNearHandler:      getParcelsNearHandler,
		getParcelsOnRouteHandler:   getParcelsOnRouteHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/parcels", s.CreateParcel)
	api.POST("/parcels/:parcelId/take", s.TakeParcel)
	api.POST("/parcels/:parcelId/handoffs", s.InitiateHandoff)
	api.POST("/parcels/:parcelId/handoffs/confirm", s.ConfirmHandoff)
	api.GET("/parcels/:parcelId/progress", s.GetProgress)
	api.POST("/parcels/:parcelId/settlement", s.RecomputeSettlement)
	api.POST("/parcels/:parcelId/delivered", s.MarkDelivered)
	api.POST("/couriers", s.RegisterCourier)
	api.POST("/couriers/:courierId/location", s.ReportCourierLocation)
	api.POST("/couriers/:courierId/movements", s.DeclareMovement)
	api.GET("/couriers/:courierId/parcels/nearby", s.GetParcelsNearby)
	api.GET("/couriers/:courierId/parcels/on-route", s.GetParcelsOnRoute)

	e.GET("/health", s.Health)
}

// Error is the uniform error payload of the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GeoPoint is the wire representation of coordinates.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Segment is the wire representation of a handoff segment. The confirmation
// code is only present in the initiation response; it travels to the
// incoming courier out-of-band.
type Segment struct {
	ID               string    `json:"id"`
	ParcelID         string    `json:"parcelId"`
	FromCourierID    string    `json:"fromCourierId"`
	ToCourierID      string    `json:"toCourierId"`
	Address          string    `json:"address"`
	Point            GeoPoint  `json:"point"`
	ConfirmationCode string    `json:"confirmationCode,omitempty"`
	Confirmed        bool      `json:"confirmed"`
	OutgoingShare    int       `json:"outgoingShare"`
	IncomingShare    int       `json:"incomingShare"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SettlementRecord is the wire representation of a settlement record.
type SettlementRecord struct {
	ID              string `json:"id"`
	PayeeCourierID  string `json:"payeeCourierId"`
	PayerClientID   string `json:"payerClientId"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
	ClientValidated bool   `json:"clientValidated"`
}

// CreateParcel handles POST /api/v1/parcels.
func (s *Server) CreateParcel(ctx echo.Context) error {
	var body struct {
		PayerClientID string   `json:"payerClientId"`
		Origin        GeoPoint `json:"origin"`
		Destination   GeoPoint `json:"destination"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	payerClientID, err := kernel.UUIDFromString(body.PayerClientID)
	if err != nil {
		return badRequest(ctx, "Invalid payer client id")
	}

	origin, err := kernel.NewGeoPoint(body.Origin.Lat, body.Origin.Lon)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	destination, err := kernel.NewGeoPoint(body.Destination.Lat, body.Destination.Lon)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewCreateParcelCommand(payerClientID, origin, destination)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	created, err := s.createParcelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, struct {
		ID            string   `json:"id"`
		PayerClientID string   `json:"payerClientId"`
		Origin        GeoPoint `json:"origin"`
		Destination   GeoPoint `json:"destination"`
		Phase         string   `json:"phase"`
	}{
		ID:            created.ID().String(),
		PayerClientID: created.PayerClientID().String(),
		Origin:        GeoPoint{Lat: created.Origin().Lat(), Lon: created.Origin().Lon()},
		Destination:   GeoPoint{Lat: created.Destination().Lat(), Lon: created.Destination().Lon()},
		Phase:         created.Phase().String(),
	})
}

// TakeParcel handles POST /api/v1/parcels/:parcelId/take.
func (s *Server) TakeParcel(ctx echo.Context) error {
	parcelID, err := parseUUIDParam(ctx, "parcelId")
	if err != nil {
		return badRequest(ctx, "Invalid parcel id")
	}

	var body struct {
		CourierID string `json:"courierId"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(body.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewTakeParcelCommand(parcelID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.takeParcelHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// InitiateHandoff handles POST /api/v1/parcels/:parcelId/handoffs.
func (s *Server) InitiateHandoff(ctx echo.Context) error {
	parcelID, err := parseUUIDParam(ctx, "parcelId")
	if err != nil {
		return badRequest(ctx, "Invalid parcel id")
	}

	var body struct {
		FromCourierID string `json:"fromCourierId"`
		ToCourierID   string `json:"toCourierId"`
		Address       string `json:"address"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	fromCourierID, err := kernel.UUIDFromString(body.FromCourierID)
	if err != nil {
		return badRequest(ctx, "Invalid outgoing courier id")
	}

	toCourierID, err := kernel.UUIDFromString(body.ToCourierID)
	if err != nil {
		return badRequest(ctx, "Invalid incoming courier id")
	}

	cmd, err := commands.NewInitiateHandoffCommand(parcelID, fromCourierID, toCourierID, body.Address)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	segment, err := s.initiateHandoffHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, segmentResponse(segment, true))
}

// ConfirmHandoff handles POST /api/v1/parcels/:parcelId/handoffs/confirm.
func (s *Server) ConfirmHandoff(ctx echo.Context) error {
	parcelID, err := parseUUIDParam(ctx, "parcelId")
	if err != nil {
		return badRequest(ctx, "Invalid parcel id")
	}

	var body struct {
		CourierID string `json:"courierId"`
		Code      string `json:"code"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(body.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewConfirmHandoffCommand(parcelID, courierID, body.Code)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	segment, err := s.confirmHandoffHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, segmentResponse(segment, false))
}

// GetProgress handles GET /api/v1/parcels/:parcelId/progress.
func (s *Server) GetProgress(ctx echo.Context) error {
	parcelID, err := parseUUIDParam(ctx, "parcelId")
	if err != nil {
		return badRequest(ctx, "Invalid parcel id")
	}

	query, err := queries.NewGetProgressQuery(parcelID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	progress, err := s.getProgressHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		CurrentLegProgress  int      `json:"currentLegProgress"`
		RemainingProgress   int      `json:"remainingProgress"`
		LastHandoffLocation GeoPoint `json:"lastHandoffLocation"`
	}{
		CurrentLegProgress: progress.CurrentLegProgress,
		RemainingProgress:  progress.RemainingProgress,
		LastHandoffLocation: GeoPoint{
			Lat: progress.LastHandoffLocation.Lat(),
			Lon: progress.LastHandoffLocation.Lon(),
		},
	})
}

// RecomputeSettlement handles POST /api/v1/parcels/:parcelId/settlement.
func (s *Server) RecomputeSettlement(ctx echo.Context) error {
	parcelID, err := parseUUIDParam(ctx, "parcelId")
	if err != nil {
		return badRequest(ctx, "Invalid parcel id")
	}

	var body struct {
		TotalAmount   string `json:"totalAmount"`
		PayerClientID string `json:"payerClientId"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	totalAmount, err := decimal.NewFromString(body.TotalAmount)
	if err != nil {
		return badRequest(ctx, "Invalid total amount")
	}

	payerClientID, err := kernel.UUIDFromString(body.PayerClientID)
	if err != nil {
		return badRequest(ctx, "Invalid payer client id")
	}

	cmd, err := commands.NewRecomputeSettlementCommand(parcelID, totalAmount, payerClientID)
	if err != nil {
		return writeError(ctx, err)
	}

	records, err := s.recomputeSettlementHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]SettlementRecord, 0, len(records))
	for _, record := range records {
		response = append(response, SettlementRecord{
			ID:              record.ID().String(),
			PayeeCourierID:  record.PayeeCourierID().String(),
			PayerClientID:   record.PayerClientID().String(),
			Amount:          record.Amount().StringFixed(2),
			Status:          record.Status().String(),
			ClientValidated: record.ClientValidated(),
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// MarkDelivered handles POST /api/v1/parcels/:parcelId/delivered.
func (s *Server) MarkDelivered(ctx echo.Context) error {
	parcelID, err := parseUUIDParam(ctx, "parcelId")
	if err != nil {
		return badRequest(ctx, "Invalid parcel id")
	}

	cmd, err := commands.NewMarkParcelDeliveredCommand(parcelID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.markDeliveredHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRegisterCourierCommand(body.Name)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	created, err := s.registerCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   created.ID().String(),
		Name: created.Name(),
	})
}

// ReportCourierLocation handles POST /api/v1/couriers/:courierId/location.
func (s *Server) ReportCourierLocation(ctx echo.Context) error {
	courierID, err := parseUUIDParam(ctx, "courierId")
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	var body GeoPoint
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := kernel.NewGeoPoint(body.Lat, body.Lon)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewReportCourierLocationCommand(courierID, location)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeclareMovement handles POST /api/v1/couriers/:courierId/movements.
func (s *Server) DeclareMovement(ctx echo.Context) error {
	courierID, err := parseUUIDParam(ctx, "courierId")
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	var body struct {
		Origin      GeoPoint `json:"origin"`
		Destination GeoPoint `json:"destination"`
	}
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	origin, err := kernel.NewGeoPoint(body.Origin.Lat, body.Origin.Lon)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	destination, err := kernel.NewGeoPoint(body.Destination.Lat, body.Destination.Lon)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewDeclareMovementCommand(courierID, origin, destination)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	movement, err := s.declareMovementHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, struct {
		ID          string   `json:"id"`
		Origin      GeoPoint `json:"origin"`
		Destination GeoPoint `json:"destination"`
		Active      bool     `json:"active"`
	}{
		ID:          movement.ID().String(),
		Origin:      GeoPoint{Lat: movement.Origin().Lat(), Lon: movement.Origin().Lon()},
		Destination: GeoPoint{Lat: movement.Destination().Lat(), Lon: movement.Destination().Lon()},
		Active:      movement.IsActive(),
	})
}

// GetParcelsNearby handles GET /api/v1/couriers/:courierId/parcels/nearby.
func (s *Server) GetParcelsNearby(ctx echo.Context) error {
	courierID, err := parseUUIDParam(ctx, "courierId")
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	radiusKm, err := strconv.ParseFloat(ctx.QueryParam("radiusKm"), 64)
	if err != nil {
		return badRequest(ctx, "Invalid radiusKm query parameter")
	}

	query, err := queries.NewGetParcelsNearCourierQuery(courierID, radiusKm)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	parcels, err := s.getParcelsNearHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	type nearbyParcel struct {
		ParcelID        string   `json:"parcelId"`
		CurrentLocation GeoPoint `json:"currentLocation"`
		DistanceKm      float64  `json:"distanceKm"`
	}

	response := make([]nearbyParcel, 0, len(parcels))
	for _, p := range parcels {
		response = append(response, nearbyParcel{
			ParcelID: p.ID.String(),
			CurrentLocation: GeoPoint{
				Lat: p.CurrentLocation.Lat(),
				Lon: p.CurrentLocation.Lon(),
			},
			DistanceKm: p.DistanceKm,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetParcelsOnRoute handles GET /api/v1/couriers/:courierId/parcels/on-route.
func (s *Server) GetParcelsOnRoute(ctx echo.Context) error {
	courierID, err := parseUUIDParam(ctx, "courierId")
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	query, err := queries.NewGetParcelsOnCourierRouteQuery(courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	parcels, err := s.getParcelsOnRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	type routeParcel struct {
		ParcelID    string   `json:"parcelId"`
		Origin      GeoPoint `json:"origin"`
		Destination GeoPoint `json:"destination"`
		MovementID  string   `json:"movementId"`
	}

	response := make([]routeParcel, 0, len(parcels))
	for _, p := range parcels {
		response = append(response, routeParcel{
			ParcelID:    p.ID.String(),
			Origin:      GeoPoint{Lat: p.Origin.Lat(), Lon: p.Origin.Lon()},
			Destination: GeoPoint{Lat: p.Destination.Lat(), Lon: p.Destination.Lon()},
			MovementID:  p.MovementID.String(),
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func segmentResponse(segment *relay.Segment, includeCode bool) Segment {
	response := Segment{
		ID:            segment.ID().String(),
		ParcelID:      segment.ParcelID().String(),
		FromCourierID: segment.FromCourierID().String(),
		ToCourierID:   segment.ToCourierID().String(),
		Address:       segment.Address(),
		Point: GeoPoint{
			Lat: segment.Point().Lat(),
			Lon: segment.Point().Lon(),
		},
		Confirmed:     segment.Confirmed(),
		OutgoingShare: segment.OutgoingShare(),
		IncomingShare: segment.IncomingShare(),
		CreatedAt:     segment.CreatedAt(),
	}

	if includeCode {
		response.ConfirmationCode = segment.Code().String()
	}

	return response
}

func parseUUIDParam(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps domain and application errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, parcel.ErrParcelAlreadyHeld),
		errors.Is(err, relay.ErrNotCurrentHolder),
		errors.Is(err, relay.ErrInvalidCode),
		errors.Is(err, relay.ErrHandoffToSelf):
		status = http.StatusConflict
	case errors.Is(err, ports.ErrGeocodingFailed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, settlement.ErrInvalidAmount),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}
