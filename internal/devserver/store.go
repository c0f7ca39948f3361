// Package devserver is a self-contained stand-in for the production shipyard
// backend: the same endpoint surface, signed credentials, and summary
// aggregation, backed by seeded in-memory data or Postgres. It exists so the
// console and its synchronization engine can run and be tested offline.
package devserver

import (
	"context"
	"errors"

	"github.com/blackpearl/shipyard-console/models"
)

var (
	// ErrNotFound is returned for unknown resource ids.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail is returned when registering an existing address.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the persistence boundary for the dev server.
type Store interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	CreateUser(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserActive(ctx context.Context, id int64, active bool) error

	Summary(ctx context.Context) (*models.Summary, error)

	ListShipOrders(ctx context.Context) ([]models.ShipOrder, error)
	CreateShipOrder(ctx context.Context, o models.ShipOrder) (*models.ShipOrder, error)
	SetShipOrderStatus(ctx context.Context, id int64, status string) error

	ListShipRepairs(ctx context.Context) ([]models.ShipRepair, error)
	SetShipRepairStatus(ctx context.Context, id int64, status string) error

	ListTenders(ctx context.Context) ([]models.Tender, error)
	SetTenderStatus(ctx context.Context, id int64, status string) error

	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	Restock(ctx context.Context, id int64, quantity int) error

	ListStockExports(ctx context.Context) ([]models.StockExport, error)
	CreateStockExport(ctx context.Context, e models.StockExport) (*models.StockExport, error)
	SetStockExportStatus(ctx context.Context, id int64, status string) error

	ListPayments(ctx context.Context) ([]models.Payment, error)
	SetPaymentStatus(ctx context.Context, id int64, status string) error

	ListNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}
