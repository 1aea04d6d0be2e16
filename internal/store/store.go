package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-api/internal"
	employeeDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/user"
	"github.com/frahmantamala/employee-api/internal/employee"
	employeeMongo "github.com/frahmantamala/employee-api/internal/employee/mongo"
	employeePostgres "github.com/frahmantamala/employee-api/internal/employee/postgres"
	"github.com/frahmantamala/employee-api/internal/user"
	userMongo "github.com/frahmantamala/employee-api/internal/user/mongo"
	userPostgres "github.com/frahmantamala/employee-api/internal/user/postgres"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

type cleaner interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// Store owns the database handle for the configured driver and the
// repositories built on top of it.
type Store struct {
	Driver    string
	Employees employee.RepositoryAPI
	Users     user.RepositoryAPI

	logger      *slog.Logger
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	gormDB      *gorm.DB
	cleaners    []cleaner
}

// Open connects to the backend named by cfg.Driver and verifies it with a ping.
func Open(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case internal.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case internal.DriverPostgres:
		return openGorm(ctx, cfg, postgres.Open(cfg.Source), logger)
	case internal.DriverSQLite:
		return openGorm(ctx, cfg, sqlite.Open(cfg.Source), logger)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.Source)
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: ping mongo: %w", err)
	}

	db := client.Database(cfg.Name())
	employees := employeeMongo.NewEmployeeRepository(db)
	users := userMongo.NewUserRepository(db)

	logger.Info("connected to mongodb", "database", db.Name())

	return &Store{
		Driver:      internal.DriverMongo,
		Employees:   employees,
		Users:       users,
		logger:      logger,
		mongoClient: client,
		mongoDB:     db,
		cleaners:    []cleaner{employees, users},
	}, nil
}

func openGorm(ctx context.Context, cfg internal.DatabaseConfig, dialector gorm.Dialector, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Driver, err)
	}

	return NewGormStore(ctx, cfg, db, logger)
}

// NewGormStore wraps an already opened gorm handle. The handle must have
// TranslateError enabled so unique violations map to ErrEmailTaken.
func NewGormStore(ctx context.Context, cfg internal.DatabaseConfig, db *gorm.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	// every sqlite :memory: connection is its own database
	if cfg.Driver == internal.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store: ping %s: %w", cfg.Driver, err)
	}

	employees := employeePostgres.NewEmployeeRepository(db)
	users := userPostgres.NewUserRepository(db)

	logger.Info("connected to sql database", "driver", cfg.Driver)

	return &Store{
		Driver:    cfg.Driver,
		Employees: employees,
		Users:     users,
		logger:    logger,
		gormDB:    db,
		cleaners:  []cleaner{employees, users},
	}, nil
}

// Ping checks the backend is reachable. It backs the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	if s.mongoClient != nil {
		return s.mongoClient.Ping(ctx, readpref.Primary())
	}
	sqlDB, err := s.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate prepares the schema: unique indexes on mongo, goose migrations on
// postgres and AutoMigrate on sqlite. It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	switch s.Driver {
	case internal.DriverMongo:
		indexers := []interface {
			EnsureIndexes(ctx context.Context) error
		}{
			employeeMongo.NewEmployeeRepository(s.mongoDB),
			userMongo.NewUserRepository(s.mongoDB),
		}
		for _, ix := range indexers {
			if err := ix.EnsureIndexes(ctx); err != nil {
				return err
			}
		}
	case internal.DriverPostgres:
		sqlDB, err := s.gormDB.DB()
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}
		if err := MigrateUp(ctx, sqlDB); err != nil {
			return err
		}
	case internal.DriverSQLite:
		if err := s.gormDB.WithContext(ctx).AutoMigrate(&employeeDatamodel.Employee{}, &userDatamodel.User{}); err != nil {
			return fmt.Errorf("store: automigrate: %w", err)
		}
	}

	s.logger.Info("schema ready", "driver", s.Driver)
	return nil
}

// Clear deletes every employee and user. Used by `seed --clear`.
func (s *Store) Clear(ctx context.Context) error {
	for _, c := range s.cleaners {
		n, err := c.DeleteAll(ctx)
		if err != nil {
			return err
		}
		s.logger.Info("cleared records", "count", n)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.mongoClient != nil {
		return s.mongoClient.Disconnect(ctx)
	}
	if s.gormDB == nil {
		return nil
	}
	sqlDB, err := s.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
