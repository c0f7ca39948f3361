package apiclient

import (
	"context"
	"fmt"

	"github.com/blackpearl/shipyard-console/models"
)

// AuthService wraps the /auth endpoints.
type AuthService struct{ c *Client }

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := s.c.post(ctx, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	return s.c.post(ctx, "/auth/register", req, nil)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.post(ctx, "/auth/logout", nil, nil)
}

func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := s.c.get(ctx, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UsersService wraps the /users endpoints.
type UsersService struct{ c *Client }

func (s *UsersService) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.c.get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UsersService) Update(ctx context.Context, id int64, u models.User) error {
	return s.c.put(ctx, fmt.Sprintf("/users/%d", id), u, nil)
}

func (s *UsersService) Activate(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/users/%d/activate", id), nil, nil)
}

func (s *UsersService) Deactivate(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/users/%d/deactivate", id), nil, nil)
}

func (s *UsersService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/users/%d", id))
}

// ShipOrdersService wraps the /ship-orders endpoints.
type ShipOrdersService struct{ c *Client }

func (s *ShipOrdersService) List(ctx context.Context) ([]models.ShipOrder, error) {
	var out []models.ShipOrder
	if err := s.c.get(ctx, "/ship-orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ShipOrdersService) Mine(ctx context.Context) ([]models.ShipOrder, error) {
	var out []models.ShipOrder
	if err := s.c.get(ctx, "/ship-orders/my", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ShipOrdersService) Create(ctx context.Context, o models.ShipOrder) error {
	return s.c.post(ctx, "/ship-orders", o, nil)
}

func (s *ShipOrdersService) Approve(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/ship-orders/%d/approve", id), nil, nil)
}

func (s *ShipOrdersService) Reject(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/ship-orders/%d/reject", id), nil, nil)
}

// ShipRepairsService wraps the /ship-repairs endpoints.
type ShipRepairsService struct{ c *Client }

func (s *ShipRepairsService) List(ctx context.Context) ([]models.ShipRepair, error) {
	var out []models.ShipRepair
	if err := s.c.get(ctx, "/ship-repairs", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ShipRepairsService) Create(ctx context.Context, r models.ShipRepair) error {
	return s.c.post(ctx, "/ship-repairs", r, nil)
}

func (s *ShipRepairsService) UpdateStatus(ctx context.Context, id int64, status string) error {
	body := map[string]string{"status": status}
	return s.c.patch(ctx, fmt.Sprintf("/ship-repairs/%d/status", id), body, nil)
}

// TendersService wraps the /tenders endpoints.
type TendersService struct{ c *Client }

func (s *TendersService) List(ctx context.Context) ([]models.Tender, error) {
	var out []models.Tender
	if err := s.c.get(ctx, "/tenders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TendersService) Create(ctx context.Context, t models.Tender) error {
	return s.c.post(ctx, "/tenders", t, nil)
}

func (s *TendersService) Close(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/tenders/%d/close", id), nil, nil)
}

func (s *TendersService) Apply(ctx context.Context, id int64, body any) error {
	return s.c.post(ctx, fmt.Sprintf("/tenders/%d/apply", id), body, nil)
}

// InventoryService wraps the /inventory endpoints.
type InventoryService struct{ c *Client }

func (s *InventoryService) List(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	if err := s.c.get(ctx, "/inventory", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *InventoryService) Create(ctx context.Context, item models.InventoryItem) error {
	return s.c.post(ctx, "/inventory", item, nil)
}

func (s *InventoryService) Restock(ctx context.Context, id int64, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return s.c.patch(ctx, fmt.Sprintf("/inventory/%d/restock", id), body, nil)
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	return s.c.delete(ctx, fmt.Sprintf("/inventory/%d", id))
}

// StockExportsService wraps the /stock-exports endpoints.
type StockExportsService struct{ c *Client }

func (s *StockExportsService) List(ctx context.Context) ([]models.StockExport, error) {
	var out []models.StockExport
	if err := s.c.get(ctx, "/stock-exports", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *StockExportsService) Create(ctx context.Context, e models.StockExport) error {
	return s.c.post(ctx, "/stock-exports", e, nil)
}

func (s *StockExportsService) Approve(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/stock-exports/%d/approve", id), nil, nil)
}

func (s *StockExportsService) Dispatch(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/stock-exports/%d/dispatch", id), nil, nil)
}

func (s *StockExportsService) Reject(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/stock-exports/%d/reject", id), nil, nil)
}

// PaymentsService wraps the /payments endpoints.
type PaymentsService struct{ c *Client }

func (s *PaymentsService) List(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	if err := s.c.get(ctx, "/payments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PaymentsService) Create(ctx context.Context, p models.Payment) error {
	return s.c.post(ctx, "/payments", p, nil)
}

func (s *PaymentsService) UpdateStatus(ctx context.Context, id int64, status string) error {
	body := map[string]string{"status": status}
	return s.c.patch(ctx, fmt.Sprintf("/payments/%d/status", id), body, nil)
}

// NotificationsService wraps the /notifications endpoints.
type NotificationsService struct{ c *Client }

func (s *NotificationsService) List(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.c.get(ctx, "/notifications", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NotificationsService) MarkRead(ctx context.Context, id int64) error {
	return s.c.patch(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil)
}

func (s *NotificationsService) Send(ctx context.Context, n models.Notification) error {
	return s.c.post(ctx, "/notifications/send", n, nil)
}

// PublicService wraps the endpoints reachable without a credential.
type PublicService struct{ c *Client }

// OpenTenders lists the tenders published for outside bidders.
func (s *PublicService) OpenTenders(ctx context.Context) ([]models.Tender, error) {
	var out []models.Tender
	if err := s.c.get(ctx, "/public/tenders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DashboardService wraps the /dashboard endpoints.
type DashboardService struct{ c *Client }

// Summary fetches the aggregate dashboard object. A missing or null
// aggregate yields (nil, nil); callers treat that as "nothing to render".
func (s *DashboardService) Summary(ctx context.Context) (*models.Summary, error) {
	var out *models.Summary
	if err := s.c.get(ctx, "/dashboard/summary", &out); err != nil {
		return nil, err
	}
	return out, nil
}
