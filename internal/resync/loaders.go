package resync

import (
	"context"
	"fmt"

	"github.com/blackpearl/shipyard-console/internal/apiclient"
	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/internal/view"
)

// BuildLoaders returns the standard loader for every refreshable section,
// each fetching its resource collection and re-rendering that section's
// table.
func BuildLoaders(client *apiclient.Client, dash *view.Dashboard) map[authz.Section]Loader {
	return map[authz.Section]Loader{
		authz.SectionUsers: func(ctx context.Context) (func(), error) {
			users, err := client.Users.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(users))
			for i, u := range users {
				active := "Inactive"
				if u.Active {
					active = "Active"
				}
				rows[i] = []string{
					fmt.Sprintf("%d", u.ID),
					u.FirstName + " " + u.LastName,
					u.Email, u.Department, u.Role, active,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionUsers,
					[]string{"ID", "Name", "Email", "Department", "Role", "Status"}, rows)
			}, nil
		},

		authz.SectionShipOrders: func(ctx context.Context) (func(), error) {
			orders, err := client.ShipOrders.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(orders))
			for i, o := range orders {
				rows[i] = []string{
					fmt.Sprintf("%d", o.ID), o.UserEmail, o.ShipType,
					fmt.Sprintf("%d", o.Tonnage), o.Material, o.Status,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionShipOrders,
					[]string{"ID", "Requested By", "Ship Type", "Tonnage", "Material", "Status"}, rows)
			}, nil
		},

		authz.SectionRepairs: func(ctx context.Context) (func(), error) {
			repairs, err := client.ShipRepairs.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(repairs))
			for i, r := range repairs {
				rows[i] = []string{
					fmt.Sprintf("%d", r.ID), r.VesselName, r.IssueType, r.Priority, r.Status,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionRepairs,
					[]string{"ID", "Vessel", "Issue", "Priority", "Status"}, rows)
			}, nil
		},

		authz.SectionTenders: func(ctx context.Context) (func(), error) {
			tenders, err := client.Tenders.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(tenders))
			for i, t := range tenders {
				rows[i] = []string{
					t.TenderNo, t.Title, t.Category,
					fmt.Sprintf("%.2f", t.Value), t.ClosingDate, t.Status,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionTenders,
					[]string{"Tender No", "Title", "Category", "Value", "Closing", "Status"}, rows)
			}, nil
		},

		authz.SectionInventory: func(ctx context.Context) (func(), error) {
			items, err := client.Inventory.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(items))
			for i, item := range items {
				rows[i] = []string{
					item.ItemCode, item.Name, item.Category,
					fmt.Sprintf("%d %s", item.Quantity, item.Unit), item.Status,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionInventory,
					[]string{"Code", "Name", "Category", "Stock", "Status"}, rows)
			}, nil
		},

		authz.SectionStockExports: func(ctx context.Context) (func(), error) {
			exports, err := client.StockExports.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(exports))
			for i, e := range exports {
				rows[i] = []string{
					fmt.Sprintf("%d", e.ID), e.ItemName,
					fmt.Sprintf("%d %s", e.Quantity, e.Unit), e.UserEmail, e.Status,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionStockExports,
					[]string{"ID", "Item", "Quantity", "Requested By", "Status"}, rows)
			}, nil
		},

		authz.SectionPayments: func(ctx context.Context) (func(), error) {
			payments, err := client.Payments.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(payments))
			for i, p := range payments {
				rows[i] = []string{
					p.PaymentRef, p.UserEmail,
					fmt.Sprintf("%.2f", p.Amount), p.Method, p.Status,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionPayments,
					[]string{"Ref", "User", "Amount", "Method", "Status"}, rows)
			}, nil
		},

		authz.SectionNotifications: func(ctx context.Context) (func(), error) {
			notifications, err := client.Notifications.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, len(notifications))
			for i, n := range notifications {
				read := "unread"
				if n.Read {
					read = "read"
				}
				rows[i] = []string{
					fmt.Sprintf("%d", n.ID), n.Title, n.Type, read,
				}
			}
			return func() {
				dash.ApplyTable(authz.SectionNotifications,
					[]string{"ID", "Title", "Type", "Read"}, rows)
			}, nil
		},
	}
}
