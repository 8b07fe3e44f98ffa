package queries

import (
	"context"
	"fmt"
	"strings"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// WidgetAreaInput names one area of the viewer's dashboard.
type WidgetAreaInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	AreaCode string                  `json:"area_code"`
}

type areaService interface {
	ResolveArea(ctx context.Context, viewer dashboard.ViewerContext, areaCode string) (dashboard.ResolvedArea, error)
}

// WidgetAreaQuery fetches the widgets placed in one area, e.g. the sidebar
// holding the product picker.
type WidgetAreaQuery struct {
	service areaService
}

// NewWidgetAreaQuery builds the query.
func NewWidgetAreaQuery(service areaService) *WidgetAreaQuery {
	return &WidgetAreaQuery{service: service}
}

var _ gocommand.Querier[WidgetAreaInput, dashboard.ResolvedArea] = (*WidgetAreaQuery)(nil)

// Query resolves the area. A blank code reports ErrWidgetNotFound.
func (q *WidgetAreaQuery) Query(ctx context.Context, input WidgetAreaInput) (dashboard.ResolvedArea, error) {
	code := strings.TrimSpace(input.AreaCode)
	if code == "" {
		return dashboard.ResolvedArea{}, fmt.Errorf("%w: area code required", dashboard.ErrWidgetNotFound)
	}
	return q.service.ResolveArea(ctx, input.Viewer, code)
}
