package testutils

import (
	"io"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB returns a gorm handle backed by sqlmock plus a cleanup func.
func SetupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %s", err)
	}

	silent := logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{LogLevel: logger.Silent},
	)

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: silent})
	if err != nil {
		t.Fatalf("failed to open gorm connection: %s", err)
	}

	cleanup := func() { sqlDB.Close() }
	return gormDB, mock, cleanup
}

// SetupTestRouter returns a bare gin engine in test mode.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
