package commands

import dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"

// Telemetry is the sink commands report to after a successful Execute.
type Telemetry = dashboard.Telemetry

func normalizeTelemetry(t Telemetry) Telemetry {
	return dashboard.NormalizeTelemetry(t)
}
