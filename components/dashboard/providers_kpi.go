package dashboard

import (
	"context"
	"fmt"
)

// KPIRepository lists the headline metrics.
type KPIRepository interface {
	ListKPIs(ctx context.Context) ([]KPI, error)
}

// StaticKPIRepository serves a fixed KPI list.
type StaticKPIRepository struct {
	KPIs []KPI
}

// ListKPIs returns a copy of the configured KPIs.
func (r StaticKPIRepository) ListKPIs(context.Context) ([]KPI, error) {
	return append([]KPI(nil), r.KPIs...), nil
}

// NewKPIProvider renders KPI cards. The instance's "metrics" setting limits
// and orders the cards by code.
func NewKPIProvider(repo KPIRepository) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		if repo == nil {
			return nil, fmt.Errorf("dashboard: kpi provider: repository is required")
		}
		kpis, err := repo.ListKPIs(ctx)
		if err != nil {
			return nil, fmt.Errorf("dashboard: kpi provider: %w", err)
		}
		if codes := stringSliceValue(meta.Instance.Configuration["metrics"]); len(codes) > 0 {
			kpis = selectKPIs(kpis, codes)
		}
		cards := make([]map[string]any, 0, len(kpis))
		for _, kpi := range kpis {
			key := fmt.Sprintf("dashboard.widget.kpi.%s", kpi.Code)
			cards = append(cards, map[string]any{
				"code":   kpi.Code,
				"label":  translateOrFallback(ctx, meta.Translator, key, meta.Viewer.Locale, kpi.Label, nil),
				"value":  kpi.Value,
				"change": formatChange(kpi.Change),
				"trend":  kpi.Trend(),
			})
		}
		return WidgetData{"cards": cards}, nil
	})
}

func selectKPIs(kpis []KPI, codes []string) []KPI {
	byCode := make(map[string]KPI, len(kpis))
	for _, kpi := range kpis {
		byCode[kpi.Code] = kpi
	}
	out := make([]KPI, 0, len(codes))
	for _, code := range codes {
		if kpi, ok := byCode[code]; ok {
			out = append(out, kpi)
		}
	}
	return out
}

// formatChange renders a signed percentage, e.g. "+11.01%".
func formatChange(change float64) string {
	return fmt.Sprintf("%+.2f%%", change)
}
