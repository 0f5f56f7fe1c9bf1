package database

import (
	"log"

	"github.com/mansij47/Optiven-Backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.StockMovement{},
		&model.SalesOrder{},
		&model.SalesOrderLine{},
		&model.ReturnOrder{},
		&model.ReturnOrderLine{},
		&model.ReturnToVendor{},
		&model.LossOrder{},
		&model.RequestedOrder{},
		&model.PurchaseOrder{},
		&model.Contract{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
