package repo

import (
	"context"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
	"gorm.io/gorm"
)

const orderEventTable = "order_events"

type OrderEventSQLRepo struct {
	db *gorm.DB
}

func NewOrderEventSQLRepo(db *gorm.DB) *OrderEventSQLRepo {
	return &OrderEventSQLRepo{
		db: db,
	}
}

func (r *OrderEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(orderEventTable)
}

func (r *OrderEventSQLRepo) Create(ctx context.Context, record *gateway.OrderEvent) (*gateway.OrderEvent, error) {
	return record, r.dbWithContext(ctx).Create(record).Error
}

func (r *OrderEventSQLRepo) BulkCreate(ctx context.Context, records []*gateway.OrderEvent) ([]*gateway.OrderEvent, error) {
	return records, r.dbWithContext(ctx).Create(records).Error
}
