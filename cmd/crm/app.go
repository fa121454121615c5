package main

import (
	"github.com/vasiliy-maslov/crm-service/internal/config"
	"github.com/vasiliy-maslov/crm-service/internal/customer"
	"github.com/vasiliy-maslov/crm-service/internal/db"
	"github.com/vasiliy-maslov/crm-service/internal/order"
	"github.com/vasiliy-maslov/crm-service/internal/product"
)

// services is the domain layer wired over one database connection.
type services struct {
	db        *db.Database
	customers customer.Service
	products  product.Service
	orders    order.Service
}

func openServices(cfg *config.Config) (*services, error) {
	d, err := db.New(cfg.Database)
	if err != nil {
		return nil, err
	}

	customers := customer.NewService(customer.NewRepository(d.Gorm))
	return &services{
		db:        d,
		customers: customers,
		products:  product.NewService(product.NewRepository(d.Gorm), cfg.Inventory),
		orders:    order.NewService(order.NewRepository(d.Gorm), customers),
	}, nil
}

func (s *services) Close() {
	s.db.Close()
}
