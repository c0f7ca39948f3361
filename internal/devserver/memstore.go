package devserver

import (
	"context"
	"sync"
	"time"

	"github.com/blackpearl/shipyard-console/models"
)

// MemStore is the seeded in-memory Store. Passwords are kept in the clear;
// this store backs local development only.
type MemStore struct {
	mu        sync.RWMutex
	nextID    int64
	users     []models.User
	passwords map[string]string
	orders    []models.ShipOrder
	repairs   []models.ShipRepair
	tenders   []models.Tender
	inventory []models.InventoryItem
	exports   []models.StockExport
	payments  []models.Payment
	notices   []models.Notification
}

// NewMemStore creates a store seeded with the standard demo accounts and a
// small slice of yard activity.
func NewMemStore() *MemStore {
	s := &MemStore{nextID: 100, passwords: map[string]string{}}
	s.seed()
	return s
}

func (s *MemStore) seed() {
	s.users = []models.User{
		{ID: 1, FirstName: "Admin", LastName: "User", Email: "admin@blackpearl.com", Role: models.RoleAdmin, Department: "Administration", Active: true},
		{ID: 2, FirstName: "Arjun", LastName: "Engineer", Email: "eng@blackpearl.com", Role: models.RoleUser, Department: "Engineering", Active: true},
		{ID: 3, FirstName: "Priya", LastName: "Finance", Email: "finance@blackpearl.com", Role: models.RoleUser, Department: "Finance", Active: true},
		{ID: 4, FirstName: "John", LastName: "Doe", Email: "user@blackpearl.com", Role: models.RoleUser, Department: "Operations", Active: true},
	}
	s.passwords = map[string]string{
		"admin@blackpearl.com":   "admin123",
		"eng@blackpearl.com":     "user123",
		"finance@blackpearl.com": "user123",
		"user@blackpearl.com":    "user123",
	}
	s.orders = []models.ShipOrder{
		{ID: 1, UserID: 2, UserEmail: "eng@blackpearl.com", ShipType: "Cargo Vessel", Tonnage: 12000, Material: "Steel", Status: "PENDING"},
		{ID: 2, UserID: 4, UserEmail: "user@blackpearl.com", ShipType: "Tugboat", Tonnage: 300, Material: "Aluminium", Status: "COMPLETED"},
	}
	s.repairs = []models.ShipRepair{
		{ID: 1, UserID: 4, UserEmail: "user@blackpearl.com", VesselName: "Interceptor", IssueType: "Hull breach", Priority: "HIGH", Status: "IN_PROGRESS"},
	}
	s.tenders = []models.Tender{
		{ID: 1, TenderNo: "BP-2024-001", Title: "Dry dock expansion", Category: "Civil", Value: 4_500_000, Status: "OPEN"},
		{ID: 2, TenderNo: "BP-2024-002", Title: "Crane overhaul", Category: "Mechanical", Value: 750_000, Status: "CLOSED"},
	}
	s.inventory = []models.InventoryItem{
		{ID: 1, ItemCode: "STL-001", Name: "Steel plate 10mm", Category: "Raw Material", Quantity: 420, Unit: "sheets", UnitPrice: 5400, Status: "IN_STOCK"},
		{ID: 2, ItemCode: "PNT-014", Name: "Marine paint", Category: "Consumable", Quantity: 12, Unit: "drums", UnitPrice: 8200, Status: "LOW_STOCK"},
	}
	s.exports = []models.StockExport{
		{ID: 1, UserID: 2, UserEmail: "eng@blackpearl.com", InventoryID: 1, ItemName: "Steel plate 10mm", Quantity: 40, Unit: "sheets", Status: "PENDING"},
	}
	s.payments = []models.Payment{
		{ID: 1, UserID: 4, UserEmail: "user@blackpearl.com", PaymentRef: "PAY-7001", Amount: 1_200_000, Method: "BANK_TRANSFER", Status: "COMPLETED"},
		{ID: 2, UserID: 3, UserEmail: "finance@blackpearl.com", PaymentRef: "PAY-7002", Amount: 300_000, Method: "UPI", Status: "PENDING"},
	}
	s.notices = []models.Notification{
		{ID: 1, UserID: 2, Title: "Order update", Message: "Ship order #1 is under review", Type: "INFO", CreatedAt: time.Now()},
	}
}

func (s *MemStore) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.passwords[email] != password || password == "" {
		return nil, ErrInvalidCredentials
	}
	for i := range s.users {
		if s.users[i].Email == email && s.users[i].Active {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (s *MemStore) CreateUser(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == req.Email {
			return nil, ErrDuplicateEmail
		}
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	s.nextID++
	u := models.User{
		ID:         s.nextID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Role:       role,
		Active:     true,
	}
	s.users = append(s.users, u)
	s.passwords[req.Email] = req.Password
	return &u, nil
}

func (s *MemStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *MemStore) SetUserActive(_ context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Active = active
			return nil
		}
	}
	return ErrNotFound
}

// Summary aggregates the dashboard counters from current state: total users
// and orders, open tenders, completed-payment revenue, a revenue-by-month
// series, and the orders-by-status breakdown.
func (s *MemStore) Summary(_ context.Context) (*models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &models.Summary{
		TotalUsers:     int64(len(s.users)),
		TotalOrders:    int64(len(s.orders)),
		OrdersByStatus: make(map[string]int64),
	}
	for i := range s.tenders {
		if s.tenders[i].Status == "OPEN" {
			summary.ActiveTenders++
		}
	}
	byMonth := make(map[string]float64)
	var months []string
	for i := range s.payments {
		p := &s.payments[i]
		if p.Status != "COMPLETED" {
			continue
		}
		summary.TotalRevenue += p.Amount
		month := monthOf(p.CreatedAt)
		if _, seen := byMonth[month]; !seen {
			months = append(months, month)
		}
		byMonth[month] += p.Amount
	}
	for _, m := range months {
		summary.RevenueByMonth = append(summary.RevenueByMonth, models.MonthRevenue{Month: m, Revenue: byMonth[m]})
	}
	for i := range s.orders {
		summary.OrdersByStatus[s.orders[i].Status]++
	}
	return summary, nil
}

func monthOf(createdAt string) string {
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return t.Format("Jan")
	}
	return time.Now().Format("Jan")
}

func (s *MemStore) ListShipOrders(_ context.Context) ([]models.ShipOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ShipOrder, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

func (s *MemStore) CreateShipOrder(_ context.Context, o models.ShipOrder) (*models.ShipOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	if o.Status == "" {
		o.Status = "PENDING"
	}
	s.orders = append(s.orders, o)
	return &o, nil
}

func (s *MemStore) SetShipOrderStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) ListShipRepairs(_ context.Context) ([]models.ShipRepair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ShipRepair, len(s.repairs))
	copy(out, s.repairs)
	return out, nil
}

func (s *MemStore) SetShipRepairStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.repairs {
		if s.repairs[i].ID == id {
			s.repairs[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) ListTenders(_ context.Context) ([]models.Tender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tender, len(s.tenders))
	copy(out, s.tenders)
	return out, nil
}

func (s *MemStore) SetTenderStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenders {
		if s.tenders[i].ID == id {
			s.tenders[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) ListInventory(_ context.Context) ([]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InventoryItem, len(s.inventory))
	copy(out, s.inventory)
	return out, nil
}

func (s *MemStore) Restock(_ context.Context, id int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inventory {
		if s.inventory[i].ID == id {
			s.inventory[i].Quantity += quantity
			s.inventory[i].Status = "IN_STOCK"
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) ListStockExports(_ context.Context) ([]models.StockExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StockExport, len(s.exports))
	copy(out, s.exports)
	return out, nil
}

func (s *MemStore) CreateStockExport(_ context.Context, e models.StockExport) (*models.StockExport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	if e.Status == "" {
		e.Status = "PENDING"
	}
	s.exports = append(s.exports, e)
	return &e, nil
}

func (s *MemStore) SetStockExportStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exports {
		if s.exports[i].ID == id {
			s.exports[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) ListPayments(_ context.Context) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Payment, len(s.payments))
	copy(out, s.payments)
	return out, nil
}

func (s *MemStore) SetPaymentStatus(_ context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemStore) ListNotifications(_ context.Context) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notices))
	copy(out, s.notices)
	return out, nil
}

func (s *MemStore) MarkNotificationRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notices {
		if s.notices[i].ID == id {
			s.notices[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}
