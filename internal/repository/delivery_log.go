package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushDelivery is the operational record kept per inbound push. The protocol
// itself stays fire-and-forget; this table only exists for diagnostics.
type PushDelivery struct {
	RequestID         string `gorm:"primaryKey"`
	Status            string
	TabsReached       int
	NotificationShown bool
	Detail            string
	UpdatedAt         time.Time
}

type DeliveryLog struct {
	db        *gorm.DB
	tableName string
}

func NewDeliveryLog(db *gorm.DB, tableName string) *DeliveryLog {
	if tableName == "" {
		tableName = "push_deliveries"
	}

	if err := db.Table(tableName).AutoMigrate(&PushDelivery{}); err != nil {
		// AutoMigrate error is ignored here to keep constructor signature simple.
		// The caller is expected to have validated connectivity beforehand.
	}

	return &DeliveryLog{
		db:        db,
		tableName: tableName,
	}
}

func (l *DeliveryLog) Record(ctx context.Context, rec PushDelivery) error {
	rec.UpdatedAt = time.Now()
	return l.db.WithContext(ctx).Table(l.tableName).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "tabs_reached", "notification_shown", "detail", "updated_at"}),
		}).Create(&rec).Error
}
