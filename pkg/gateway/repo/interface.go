package repo

import (
	"context"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

type IOrderEvent interface {
	Create(ctx context.Context, record *gateway.OrderEvent) (*gateway.OrderEvent, error)
	BulkCreate(ctx context.Context, records []*gateway.OrderEvent) ([]*gateway.OrderEvent, error)
}
