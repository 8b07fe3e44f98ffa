package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKPIProviderFormatsCards(t *testing.T) {
	t.Parallel()
	provider := NewKPIProvider(StaticKPIRepository{KPIs: DefaultKPIs()})
	data, err := provider.Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{DefinitionID: kpiCardsCode},
	})
	require.NoError(t, err)

	cards := data["cards"].([]map[string]any)
	require.Len(t, cards, 4)
	assert.Equal(t, "customers", cards[0]["code"])
	assert.Equal(t, "+11.01%", cards[0]["change"])
	assert.Equal(t, "up", cards[0]["trend"])
	assert.Equal(t, "-0.03%", cards[1]["change"])
	assert.Equal(t, "down", cards[1]["trend"])
}

func TestKPIProviderMetricsSelectAndOrder(t *testing.T) {
	t.Parallel()
	provider := NewKPIProvider(StaticKPIRepository{KPIs: DefaultKPIs()})
	data, err := provider.Fetch(context.Background(), WidgetContext{
		Instance: WidgetInstance{
			DefinitionID:  kpiCardsCode,
			Configuration: map[string]any{"metrics": []string{"revenue", "customers", "unknown"}},
		},
		Viewer:     ViewerContext{Locale: "es"},
		Translator: keyTranslator{"es:dashboard.widget.kpi.revenue": "Ingresos"},
	})
	require.NoError(t, err)

	cards := data["cards"].([]map[string]any)
	require.Len(t, cards, 2)
	assert.Equal(t, "Ingresos", cards[0]["label"])
	assert.Equal(t, "Customers", cards[1]["label"])
}

func TestKPIProviderRequiresRepository(t *testing.T) {
	_, err := NewKPIProvider(nil).Fetch(context.Background(), WidgetContext{})
	require.Error(t, err)
}

func TestKPITrendFlat(t *testing.T) {
	assert.Equal(t, "flat", KPI{}.Trend())
	assert.Equal(t, "+0.00%", formatChange(0))
}
