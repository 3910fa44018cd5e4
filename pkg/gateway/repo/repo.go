package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	OrderEvent() IOrderEvent
}

type Repo struct {
	auditDB *gorm.DB
}

func NewRepo(auditDB *gorm.DB) IRepo {
	return &Repo{
		auditDB: auditDB,
	}
}

func (r *Repo) OrderEvent() IOrderEvent {
	return NewOrderEventSQLRepo(r.auditDB)
}
