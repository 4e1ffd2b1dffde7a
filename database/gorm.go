package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/nicebott/docencia-api/config"
	"github.com/nicebott/docencia-api/model"
)

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	return s.db.AutoMigrate(
		&model.Course{},
		&model.Section{},
	)
}

// ReplaceCourseData upserts a freshly fetched dataset in one transaction.
// Sections no longer present in the dataset are removed so a reload never
// leaves stale offerings behind.
func (s *GORMStore) ReplaceCourseData(courses []model.Course, sections []model.Section) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(courses) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&courses).Error; err != nil {
				return err
			}
		}
		if len(sections) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sections).Error; err != nil {
				return err
			}
		}

		ids := make([]string, 0, len(sections))
		for _, sec := range sections {
			ids = append(ids, sec.ID)
		}
		if len(ids) > 0 {
			if err := tx.Where("id NOT IN ?", ids).Delete(&model.Section{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services/handlers
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
