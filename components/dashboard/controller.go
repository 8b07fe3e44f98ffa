package dashboard

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
)

// DefaultDashboardTemplate is the page template rendered by the controller.
const DefaultDashboardTemplate = "dashboard.html"

// LayoutResolver resolves the widgets of every area for a viewer.
type LayoutResolver interface {
	ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error)
}

// ControllerOptions wires the controller.
type ControllerOptions struct {
	Service     LayoutResolver
	Renderer    Renderer
	Template    string
	Title       string
	Description string
}

// Controller turns a resolved layout into template payloads and HTML.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = DefaultDashboardTemplate
	}
	if opts.Title == "" {
		opts.Title = "Dashboard"
	}
	return &Controller{opts: opts}
}

// Render resolves the layout for a viewer and returns it to the caller.
func (c *Controller) Render(ctx context.Context, viewer ViewerContext) (Layout, error) {
	if c.opts.Service == nil {
		return Layout{}, nil
	}
	return c.opts.Service.ConfigureLayout(ctx, viewer)
}

// LayoutPayload builds the template data for the viewer's dashboard. Areas
// are keyed by the last segment of their code ("main", "sidebar", ...).
func (c *Controller) LayoutPayload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	layout, err := c.Render(ctx, viewer)
	if err != nil {
		return nil, err
	}
	areas := make(map[string]any, len(layout.Areas))
	order := make([]string, 0, len(layout.Areas))
	list := make([]map[string]any, 0, len(layout.Areas))
	for _, code := range areaCodes(layout) {
		widths := slotWidths(layout.Rows[code])
		widgets := make([]map[string]any, 0, len(layout.Areas[code]))
		for _, inst := range layout.Areas[code] {
			widgets = append(widgets, widgetPayload(inst, widths[inst.ID]))
		}
		key := areaKey(code)
		order = append(order, key)
		area := map[string]any{
			"key":     key,
			"code":    code,
			"widgets": widgets,
			"rows":    layout.Rows[code],
		}
		areas[key] = area
		list = append(list, area)
	}
	return map[string]any{
		"title":       c.opts.Title,
		"description": c.opts.Description,
		"locale":      viewer.Locale,
		"viewer":      viewer,
		"area_order":  order,
		"areas":       areas,
		"area_list":   list,
	}, nil
}

// RenderTemplate renders the dashboard page into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	payload, err := c.LayoutPayload(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, payload, out)
	return err
}

func widgetPayload(inst WidgetInstance, width int) map[string]any {
	if width == 0 {
		width = gridColumns
	}
	var data any
	if inst.Metadata != nil {
		data = inst.Metadata["data"]
	}
	return map[string]any{
		"id":         inst.ID,
		"definition": inst.DefinitionID,
		"template":   WidgetTemplate(inst.DefinitionID),
		"area":       inst.AreaCode,
		"config":     inst.Configuration,
		"data":       data,
		"width":      width,
	}
}

// WidgetTemplate maps a definition code to its template path, e.g.
// "admin.widget.order_list" to "widgets/order_list.html".
func WidgetTemplate(definitionID string) string {
	short := definitionID
	if idx := strings.LastIndex(short, "."); idx >= 0 {
		short = short[idx+1:]
	}
	return "widgets/" + short + ".html"
}

func areaKey(code string) string {
	if idx := strings.LastIndex(code, "."); idx >= 0 {
		return code[idx+1:]
	}
	return code
}

// areaCodes lists the built-in areas first, then any other area by code.
func areaCodes(layout Layout) []string {
	codes := make([]string, 0, len(layout.Areas))
	for _, code := range defaultAreas {
		if _, ok := layout.Areas[code]; ok {
			codes = append(codes, code)
		}
	}
	var extra []string
	for code := range layout.Areas {
		if !slices.Contains(defaultAreas, code) {
			extra = append(extra, code)
		}
	}
	slices.Sort(extra)
	return append(codes, extra...)
}

func slotWidths(rows []LayoutRow) map[string]int {
	widths := map[string]int{}
	for _, row := range rows {
		for _, slot := range row.Widgets {
			widths[slot.ID] = slot.Width
		}
	}
	return widths
}
