package dashboard

import (
	"context"
	"fmt"

	"github.com/goliatone/go-admin-dashboard/components/datatable"
)

// Definition codes of the interactive widgets.
const (
	OrderListCode     = "admin.widget.order_list"
	TopProductsCode   = "admin.widget.top_products"
	ProductPickerCode = "admin.widget.product_picker"

	orderListCode     = OrderListCode
	topProductsCode   = TopProductsCode
	productPickerCode = ProductPickerCode
)

// DefaultTablePageSize is the order list page size when the instance does not
// set one.
const DefaultTablePageSize = 5

// OrderColumns are the order list columns. All of them sort.
func OrderColumns() []datatable.Column[Order] {
	return []datatable.Column[Order]{
		{Key: "id", Label: "Order ID", Sortable: true},
		{Key: "user", Label: "User", Sortable: true},
		{Key: "project", Label: "Project", Sortable: true},
		{Key: "address", Label: "Address", Sortable: true},
		{Key: "date", Label: "Date", Sortable: true},
		{Key: "status", Label: "Status", Sortable: true},
	}
}

// ProductColumns are the top products columns. Money columns sort by amount
// and render with two decimals.
func ProductColumns() []datatable.Column[Product] {
	return []datatable.Column[Product]{
		{Key: "name", Label: "Name", Sortable: true},
		{
			Key: "price", Label: "Price", Sortable: true,
			Value:  func(p Product) any { return p.Price },
			Render: func(p Product) string { return "$" + p.Price.StringFixed(2) },
		},
		{Key: "quantity", Label: "Quantity", Sortable: true},
		{
			Key: "amount", Label: "Amount", Sortable: true,
			Value:  func(p Product) any { return p.Amount },
			Render: func(p Product) string { return "$" + p.Amount.StringFixed(2) },
		},
	}
}

// NewOrderTableFactory builds order list sessions. The whole list is loaded
// and filtered in memory across every column.
func NewOrderTableFactory(repo OrderRepository, pageSize int) TableFactory {
	if pageSize <= 0 {
		pageSize = DefaultTablePageSize
	}
	return func(ctx context.Context, instance WidgetInstance) (TableSession, error) {
		if repo == nil {
			return nil, fmt.Errorf("dashboard: order table: repository is required")
		}
		columns := OrderColumns()
		keys := make([]string, len(columns))
		for i, c := range columns {
			keys[i] = c.Key
		}
		return NewTableSession(ctx, TableSessionConfig[Order]{
			WidgetID:     instance.ID,
			Title:        stringValue(instance.Configuration["title"], "Order List"),
			Columns:      columns,
			ItemsPerPage: configInt(instance.Configuration, "page_size", pageSize),
			SearchKeys:   keys,
			Load:         repo.ListOrders,
			Attributes: func(o Order) map[string]string {
				return map[string]string{"tone": o.Status.Tone()}
			},
		})
	}
}

// NewTopProductsTableFactory builds top selling product sessions.
func NewTopProductsTableFactory(source ProductOptionSource) TableFactory {
	return func(ctx context.Context, instance WidgetInstance) (TableSession, error) {
		if source == nil {
			return nil, fmt.Errorf("dashboard: top products table: source is required")
		}
		limit := configInt(instance.Configuration, "limit", 5)
		return NewTableSession(ctx, TableSessionConfig[Product]{
			WidgetID:     instance.ID,
			Title:        stringValue(instance.Configuration["title"], "Top Selling Products"),
			Columns:      ProductColumns(),
			ItemsPerPage: limit,
			Load: func(ctx context.Context) ([]Product, error) {
				return source.TopProducts(ctx, limit)
			},
		})
	}
}

// DefaultTableFactories wires the table widgets to their data sources.
func DefaultTableFactories(orders OrderRepository, products ProductOptionSource, pageSize int) map[string]TableFactory {
	return map[string]TableFactory{
		orderListCode:   NewOrderTableFactory(orders, pageSize),
		topProductsCode: NewTopProductsTableFactory(products),
	}
}

// RegisterInteractiveWidgets registers the session backed providers for the
// table and select widgets. Either manager may be nil.
func RegisterInteractiveWidgets(reg ProviderRegistry, tables *TableSessions, selects *SelectSessions) error {
	if reg == nil {
		return fmt.Errorf("dashboard: registry is required")
	}
	if tables != nil {
		for _, code := range []string{orderListCode, topProductsCode} {
			if !tables.Handles(code) {
				continue
			}
			if err := reg.RegisterProvider(code, tables.Provider()); err != nil {
				return err
			}
		}
	}
	if selects != nil {
		if err := reg.RegisterProvider(productPickerCode, selects.Provider()); err != nil {
			return err
		}
	}
	return nil
}
