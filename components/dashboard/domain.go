package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-admin-dashboard/components/datatable"
)

// OrderStatus is the workflow state shown in the order list.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "In Progress"
	OrderComplete   OrderStatus = "Complete"
	OrderPending    OrderStatus = "Pending"
	OrderApproved   OrderStatus = "Approved"
	OrderRejected   OrderStatus = "Rejected"
)

// Tone maps a status to the semantic color templates use for it.
func (s OrderStatus) Tone() string {
	switch s {
	case OrderInProgress:
		return "info"
	case OrderComplete:
		return "success"
	case OrderPending:
		return "warning"
	case OrderApproved:
		return "accent"
	case OrderRejected:
		return "danger"
	default:
		return "muted"
	}
}

// Order is a row of the order list widget.
type Order struct {
	ID      string      `json:"id" gorm:"primaryKey"`
	User    string      `json:"user"`
	Project string      `json:"project"`
	Address string      `json:"address"`
	Date    string      `json:"date"`
	Status  OrderStatus `json:"status"`
}

// RowID implements datatable.Row.
func (o Order) RowID() string { return o.ID }

// Product is a catalog entry. Amount is the revenue booked for the product.
type Product struct {
	ID       string          `json:"id" gorm:"primaryKey"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
}

// RowID implements datatable.Row.
func (p Product) RowID() string { return p.ID }

// KPI is a headline metric card.
type KPI struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Value  string  `json:"value"`
	Change float64 `json:"change"`
}

// Trend returns "up", "down" or "flat" from the sign of Change.
func (k KPI) Trend() string {
	switch {
	case k.Change > 0:
		return "up"
	case k.Change < 0:
		return "down"
	default:
		return "flat"
	}
}

var (
	_ datatable.Row = Order{}
	_ datatable.Row = Product{}
)

// OrderRepository lists orders for the order table widget.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]Order, error)
}

// ProductQuery pages through products matching Term.
type ProductQuery struct {
	Term   string
	Offset int
	Limit  int
}

// ProductPage is one page of a product search.
type ProductPage struct {
	Products []Product
	Total    int
	HasMore  bool
}

// ProductOptionSource searches products for the product picker and lists the
// best sellers for the top products table.
type ProductOptionSource interface {
	SearchProducts(ctx context.Context, query ProductQuery) (ProductPage, error)
	TopProducts(ctx context.Context, limit int) ([]Product, error)
}

// StaticOrderRepository serves a fixed order list.
type StaticOrderRepository struct {
	Orders []Order
}

// ListOrders returns a copy of the configured orders.
func (r StaticOrderRepository) ListOrders(context.Context) ([]Order, error) {
	return append([]Order(nil), r.Orders...), nil
}

// StaticProductCatalog searches an in-memory product list.
type StaticProductCatalog struct {
	mu       sync.RWMutex
	products []Product
}

// NewStaticProductCatalog builds a catalog over products.
func NewStaticProductCatalog(products []Product) *StaticProductCatalog {
	return &StaticProductCatalog{products: append([]Product(nil), products...)}
}

// SearchProducts filters by a case-insensitive name match and pages the result.
func (c *StaticProductCatalog) SearchProducts(_ context.Context, query ProductQuery) (ProductPage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	term := strings.ToLower(strings.TrimSpace(query.Term))
	var matched []Product
	for _, p := range c.products {
		if term == "" || strings.Contains(strings.ToLower(p.Name), term) {
			matched = append(matched, p)
		}
	}
	total := len(matched)
	start := min(max(query.Offset, 0), total)
	end := total
	if query.Limit > 0 {
		end = min(start+query.Limit, total)
	}
	return ProductPage{
		Products: append([]Product(nil), matched[start:end]...),
		Total:    total,
		HasMore:  end < total,
	}, nil
}

// TopProducts returns products ordered by amount, highest first.
func (c *StaticProductCatalog) TopProducts(_ context.Context, limit int) ([]Product, error) {
	c.mu.RLock()
	products := append([]Product(nil), c.products...)
	c.mu.RUnlock()
	col := datatable.Column[Product]{Key: "amount", Value: func(p Product) any { return p.Amount }}
	sorted := datatable.SortRows(products, col, datatable.Descending)
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// DefaultOrders returns the demo orders shown in the order list.
func DefaultOrders() []Order {
	return []Order{
		{ID: "CMB801", User: "Natalie Craig", Project: "Landing Page", Address: "Meadow Lane Oakland", Date: "Just now", Status: OrderInProgress},
		{ID: "CMB802", User: "Kate Morrison", Project: "CRM Admin pages", Address: "Larry San Francisco", Date: "A minute ago", Status: OrderComplete},
		{ID: "CMB803", User: "Drew Cano", Project: "Client Project", Address: "Bogwell Avenue Cocoa", Date: "1 hour ago", Status: OrderPending},
		{ID: "CMB804", User: "Orlando Diggs", Project: "Admin Dashboard", Address: "Washburn Baton Rouge", Date: "Yesterday", Status: OrderApproved},
		{ID: "CMB805", User: "Andi Lane", Project: "App Landing Page", Address: "Nest Lane Olivette", Date: "Feb 2, 2023", Status: OrderRejected},
		{ID: "CMB806", User: "Natalie Craig", Project: "Landing Page", Address: "Meadow Lane Oakland", Date: "Just now", Status: OrderInProgress},
		{ID: "CMB807", User: "Kate Morrison", Project: "CRM Admin pages", Address: "Larry San Francisco", Date: "A minute ago", Status: OrderComplete},
		{ID: "CMB808", User: "Drew Cano", Project: "Client Project", Address: "Bogwell Avenue Cocoa", Date: "1 hour ago", Status: OrderPending},
		{ID: "CMB809", User: "Orlando Diggs", Project: "Admin Dashboard", Address: "Washburn Baton Rouge", Date: "Yesterday", Status: OrderApproved},
		{ID: "CMB810", User: "Andi Lane", Project: "App Landing Page", Address: "Nest Lane Olivette", Date: "Feb 2, 2023", Status: OrderRejected},
	}
}

// DefaultProducts returns the demo catalog.
func DefaultProducts() []Product {
	return []Product{
		newProduct("P-1001", "ASOS Ridley High Waist", "75.49", 82),
		newProduct("P-1002", "Marco Lightweight Shirt", "128.50", 37),
		newProduct("P-1003", "Half Sleeve Shirt", "33.99", 64),
		newProduct("P-1004", "Lightweight Jacket", "20.00", 184),
		newProduct("P-1005", "Marco Shoes", "75.49", 64),
		newProduct("P-1006", "Denim Trucker Jacket", "89.00", 21),
		newProduct("P-1007", "Canvas Low Sneakers", "54.25", 48),
		newProduct("P-1008", "Merino Crew Sweater", "96.00", 17),
		newProduct("P-1009", "Linen Summer Shorts", "29.95", 73),
		newProduct("P-1010", "Leather Card Holder", "18.50", 120),
		newProduct("P-1011", "Striped Oxford Shirt", "64.00", 39),
		newProduct("P-1012", "Wool Blend Overcoat", "219.00", 9),
	}
}

// DefaultKPIs returns the headline cards of the demo dashboard.
func DefaultKPIs() []KPI {
	return []KPI{
		{Code: "customers", Label: "Customers", Value: "3,781", Change: 11.01},
		{Code: "orders", Label: "Orders", Value: "1,219", Change: -0.03},
		{Code: "revenue", Label: "Revenue", Value: "$695", Change: 15.03},
		{Code: "growth", Label: "Growth", Value: "30.1%", Change: 0.08},
	}
}

func newProduct(id, name, price string, quantity int) Product {
	p := decimal.RequireFromString(price)
	return Product{
		ID:       id,
		Name:     name,
		Price:    p,
		Quantity: quantity,
		Amount:   p.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
