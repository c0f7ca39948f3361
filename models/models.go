// Package models defines the wire-level data types shared by the API client
// and the development server. Field names follow the backend's JSON contract.
package models

import "time"

// Role values assigned by the backend.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is the account record returned by auth and user endpoints.
type User struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	Password   string `json:"password" validate:"required,min=6"`
}

// LoginResponse carries the signed credential plus the user record. The user
// record is the fallback identity source when the credential cannot be
// decoded.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// MonthRevenue is one point of the revenue-by-month series.
type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// Summary is the aggregate returned by GET /dashboard/summary.
type Summary struct {
	TotalUsers     int64            `json:"totalUsers"`
	TotalOrders    int64            `json:"totalOrders"`
	ActiveTenders  int64            `json:"activeTenders"`
	TotalRevenue   float64          `json:"totalRevenue"`
	RevenueByMonth []MonthRevenue   `json:"revenueByMonth"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
}

// ShipOrder is a new-build work order.
type ShipOrder struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"userId"`
	UserEmail        string `json:"userEmail"`
	ShipType         string `json:"shipType"`
	Tonnage          int    `json:"tonnage"`
	Material         string `json:"material"`
	Specifications   string `json:"specifications,omitempty"`
	ExpectedDelivery string `json:"expectedDelivery,omitempty"`
	Status           string `json:"status"`
	AdminNotes       string `json:"adminNotes,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
}

// ShipRepair is a vessel repair request.
type ShipRepair struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	UserEmail       string `json:"userEmail"`
	VesselName      string `json:"vesselName"`
	IssueType       string `json:"issueType"`
	Description     string `json:"description,omitempty"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	TechnicianNotes string `json:"technicianNotes,omitempty"`
}

// Tender is a published procurement tender.
type Tender struct {
	ID          int64   `json:"id"`
	TenderNo    string  `json:"tenderNo"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Value       float64 `json:"value"`
	PublishedAt string  `json:"publishedDate,omitempty"`
	ClosingDate string  `json:"closingDate,omitempty"`
	Status      string  `json:"status"`
}

// InventoryItem is a stocked yard item.
type InventoryItem struct {
	ID        int64   `json:"id"`
	ItemCode  string  `json:"itemCode"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice"`
	Status    string  `json:"status"`
}

// StockExport is an outbound inventory movement.
type StockExport struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	UserEmail       string `json:"userEmail"`
	InventoryID     int64  `json:"inventoryId"`
	ItemName        string `json:"itemName"`
	Quantity        int    `json:"quantity"`
	Unit            string `json:"unit"`
	Purpose         string `json:"purpose,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	Status          string `json:"status"`
}

// Payment is an invoice or settlement record.
type Payment struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	UserEmail   string  `json:"userEmail"`
	UserName    string  `json:"userName,omitempty"`
	PaymentRef  string  `json:"paymentRef"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// Notification is a user-facing message.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	UserEmail string    `json:"userEmail,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}
