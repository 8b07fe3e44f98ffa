package dashboard

import (
	"github.com/go-echarts/go-echarts/v2/types"
)

var defaultAreaDefinitions = []WidgetAreaDefinition{
	{Code: "admin.dashboard.main", Name: "Admin Dashboard (Main)", Description: "Primary dashboard canvas"},
	{Code: "admin.dashboard.sidebar", Name: "Admin Dashboard (Sidebar)", Description: "Secondary widgets"},
	{Code: "admin.dashboard.footer", Name: "Admin Dashboard (Footer)", Description: "Footer widgets"},
}

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code: kpiCardsCode,
		Name: "KPI Cards",
		NameLocalized: map[string]string{
			"es": "Indicadores clave",
		},
		Description: "Customers, orders, revenue and growth with their change",
		Category:    "stats",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"metrics": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "enum": []string{"customers", "orders", "revenue", "growth"}},
					"uniqueItems": true,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        projectionsChartCode,
		Name:        "Projections vs Actuals",
		Description: "Monthly projected and actual revenue",
		Category:    "charts",
		Schema:      revenueChartSchema(),
	},
	{
		Code: revenueChartCode,
		Name: "Revenue",
		NameLocalized: map[string]string{
			"es": "Ingresos",
		},
		Description: "Revenue of the current week against the previous one",
		Category:    "charts",
		Schema:      revenueChartSchema(),
	},
	{
		Code:        revenueLocationCode,
		Name:        "Revenue by Location",
		Description: "Revenue split by city",
		Category:    "charts",
		Schema:      revenueChartSchema(),
	},
	{
		Code:        totalSalesCode,
		Name:        "Total Sales",
		Description: "Sales by acquisition channel",
		Category:    "charts",
		Schema:      revenueChartSchema(),
	},
	{
		Code: topProductsCode,
		Name: "Top Selling Products",
		NameLocalized: map[string]string{
			"es": "Productos más vendidos",
		},
		Description: "Best sellers by amount, sortable by any column",
		Category:    "tables",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": 5},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: orderListCode,
		Name: "Order List",
		NameLocalized: map[string]string{
			"es": "Pedidos",
		},
		Description: "Searchable, sortable and paginated orders",
		DescriptionLocalized: map[string]string{
			"es": "Pedidos con búsqueda, orden y paginación",
		},
		Category: "tables",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":     map[string]any{"type": "string"},
				"page_size": map[string]any{"type": "integer", "minimum": 1, "maximum": 100, "default": DefaultTablePageSize},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        productPickerCode,
		Name:        "Product Picker",
		Description: "Remote product search with incremental loading",
		Category:    "forms",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label":              map[string]any{"type": "string"},
				"placeholder":        map[string]any{"type": "string"},
				"search_placeholder": map[string]any{"type": "string"},
				"no_options_message": map[string]any{"type": "string"},
				"required":           map[string]any{"type": "boolean", "default": false},
				"page_size":          map[string]any{"type": "integer", "minimum": 1, "maximum": 100, "default": DefaultSelectPageSize},
			},
			"additionalProperties": false,
		},
	},
	{
		Code: recentActivityCode,
		Name: "Recent Activity",
		NameLocalized: map[string]string{
			"es": "Actividad reciente",
		},
		Description: "Latest activity feed entries",
		DescriptionLocalized: map[string]string{
			"es": "Últimos eventos registrados",
		},
		Category: "activity",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": 10},
			},
		},
	},
}

func revenueChartSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string"},
			"subtitle": map[string]any{"type": "string"},
			"theme": map[string]any{
				"type": "string",
				"enum": []string{
					string(types.ThemeWesteros),
					string(types.ThemeWalden),
					string(types.ThemeWonderland),
					string(types.ThemeChalk),
				},
			},
			"show_chart_title": map[string]any{"type": "boolean", "default": false},
		},
		"additionalProperties": false,
	}
}

var defaultSeedConfigs = []AddWidgetRequest{
	{DefinitionID: kpiCardsCode, AreaCode: "admin.dashboard.main", Configuration: map[string]any{}},
	{DefinitionID: projectionsChartCode, AreaCode: "admin.dashboard.main", Configuration: map[string]any{}},
	{DefinitionID: revenueChartCode, AreaCode: "admin.dashboard.main", Configuration: map[string]any{}},
	{DefinitionID: revenueLocationCode, AreaCode: "admin.dashboard.main", Configuration: map[string]any{}},
	{DefinitionID: topProductsCode, AreaCode: "admin.dashboard.main", Configuration: map[string]any{"limit": 5}},
	{DefinitionID: totalSalesCode, AreaCode: "admin.dashboard.main", Configuration: map[string]any{}},
	{DefinitionID: orderListCode, AreaCode: "admin.dashboard.main", Configuration: map[string]any{"page_size": DefaultTablePageSize}},
	{DefinitionID: productPickerCode, AreaCode: "admin.dashboard.sidebar", Configuration: map[string]any{"label": "Product", "required": true}},
	{DefinitionID: recentActivityCode, AreaCode: "admin.dashboard.sidebar", Configuration: map[string]any{"limit": 10}},
}

// DefaultAreaDefinitions returns copies of built-in area definitions.
func DefaultAreaDefinitions() []WidgetAreaDefinition {
	out := make([]WidgetAreaDefinition, len(defaultAreaDefinitions))
	copy(out, defaultAreaDefinitions)
	return out
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultSeedWidgets returns starter widget configurations.
func DefaultSeedWidgets() []AddWidgetRequest {
	out := make([]AddWidgetRequest, len(defaultSeedConfigs))
	for i, cfg := range defaultSeedConfigs {
		seed := cfg
		seed.Configuration = make(map[string]any, len(cfg.Configuration))
		for k, v := range cfg.Configuration {
			seed.Configuration[k] = v
		}
		out[i] = seed
	}
	return out
}
