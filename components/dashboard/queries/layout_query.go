package queries

import (
	"context"
	"fmt"
	"sort"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

type layoutService interface {
	ConfigureLayout(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error)
}

// LayoutQuery resolves the viewer's layout with preferences applied.
type LayoutQuery struct {
	service layoutService
}

// NewLayoutQuery builds the query.
func NewLayoutQuery(service layoutService) *LayoutQuery {
	return &LayoutQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Layout] = (*LayoutQuery)(nil)

// Query resolves the layout for the viewer.
func (q *LayoutQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error) {
	return q.service.ConfigureLayout(ctx, viewer)
}

// Locate returns the id of the first widget built from definitionCode,
// scanning areas in code order. Hidden widgets are not found.
func (q *LayoutQuery) Locate(ctx context.Context, viewer dashboard.ViewerContext, definitionCode string) (string, error) {
	layout, err := q.Query(ctx, viewer)
	if err != nil {
		return "", err
	}
	areas := make([]string, 0, len(layout.Areas))
	for area := range layout.Areas {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	for _, area := range areas {
		for _, widget := range layout.Areas[area] {
			if widget.DefinitionID == definitionCode {
				return widget.ID, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no %s widget in layout", dashboard.ErrWidgetNotFound, definitionCode)
}
