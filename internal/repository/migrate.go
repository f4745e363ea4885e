package repository

import (
	outbox "resortdesk/internal/notification"

	"gorm.io/gorm"
)

// AutoMigrate builds the schema for SQLite development databases. Postgres
// deployments use the SQL migrations instead, which also install the
// booking overlap exclusion constraint; SQLite relies on the service-level
// availability pre-check alone.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&resourceModel{},
		&bookingModel{},
		&creditModel{},
		&paymentModel{},
		&refundModel{},
		&outbox.Notification{},
	)
}
