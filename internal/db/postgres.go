package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/utils"
)

type PostgresService struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(baseLog *logger.Logger) (*PostgresService, error) {
	log := baseLog.With("service", "PostgresService")

	host := utils.GetEnv("DB_HOST", "localhost", log)
	port := utils.GetEnv("DB_PORT", "5432", log)
	user := utils.GetEnv("DB_USER", "postgres", log)
	password := utils.GetEnv("DB_PASSWORD", "", log)
	name := utils.GetEnv("DB_NAME", "pulsefit", log)
	sslmode := utils.GetEnv("DB_SSLMODE", "disable", log)

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		host, port, user, password, name, sslmode,
	)

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Error("failed to connect to postgres", "host", host, "db", name, "error", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(utils.GetEnvAsInt("DB_MAX_OPEN_CONNS", 25, log))
	sqlDB.SetMaxIdleConns(utils.GetEnvAsInt("DB_MAX_IDLE_CONNS", 5, log))
	sqlDB.SetConnMaxLifetime(time.Duration(utils.GetEnvAsInt("DB_CONN_MAX_LIFETIME_MIN", 30, log)) * time.Minute)

	log.Info("connected to postgres", "host", host, "db", name)
	return &PostgresService{DB: gdb, log: log}, nil
}

func (s *PostgresService) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
