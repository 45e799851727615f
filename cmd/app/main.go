package main

import (
	"fmt"
	"os"

	"relay/cmd"
	relayhttp "relay/internal/adapters/in/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB)
	defer func() {
		if closeErr := app.ClosePublisher(); closeErr != nil {
			log.Errorf("Error closing settlement publisher: %v", closeErr)
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:             goDotEnvVariable("HTTP_PORT"),
		DBHost:               goDotEnvVariable("DB_HOST"),
		DBPort:               goDotEnvVariable("DB_PORT"),
		DBUser:               goDotEnvVariable("DB_USER"),
		DBPassword:           goDotEnvVariable("DB_PASSWORD"),
		DBName:               goDotEnvVariable("DB_NAME"),
		DBSslMode:            goDotEnvVariable("DB_SSLMODE"),
		GeocoderBaseURL:      goDotEnvVariable("GEOCODER_BASE_URL"),
		RedisAddr:            goDotEnvVariable("REDIS_ADDR"),
		KafkaHost:            goDotEnvVariable("KAFKA_HOST"),
		KafkaSettlementTopic: goDotEnvVariable("KAFKA_SETTLEMENT_TOPIC"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := relayhttp.NewServer(
		app.CreateCreateParcelCommandHandler(),
		app.CreateTakeParcelCommandHandler(),
		app.CreateInitiateHandoffCommandHandler(),
		app.CreateConfirmHandoffCommandHandler(),
		app.CreateRecomputeSettlementCommandHandler(),
		app.CreateMarkParcelDeliveredCommandHandler(),
		app.CreateRegisterCourierCommandHandler(),
		app.CreateReportCourierLocationCommandHandler(),
		app.CreateDeclareMovementCommandHandler(),
		app.CreateGetProgressQueryHandler(),
		app.CreateGetParcelsNearCourierQueryHandler(),
		app.CreateGetParcelsOnCourierRouteQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
