package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-admin-dashboard/pkg/activity"
)

var defaultAreas = []string{
	"admin.dashboard.main",
	"admin.dashboard.sidebar",
	"admin.dashboard.footer",
}

var (
	errMissingWidgetStore = errors.New("dashboard: widget store not configured")
	errInvalidArea        = errors.New("dashboard: area code is required")
	errInvalidDefinition  = errors.New("dashboard: definition id is required")
	errMissingWidgetID    = errors.New("dashboard: widget id is required")

	// ErrWidgetNotFound is returned when a widget instance or session does not exist.
	ErrWidgetNotFound = errors.New("dashboard: widget not found")
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	WidgetStore     WidgetStore
	Authorizer      Authorizer
	PreferenceStore PreferenceStore
	Providers       ProviderRegistry
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	Translator      TranslationService
	Logger          *slog.Logger
	Areas           []string

	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Service orchestrates dashboard widgets: placement, layout resolution and
// provider data.
type Service struct {
	opts     Options
	logger   *slog.Logger
	activity *activity.Emitter
}

var _ InstanceResolver = (*Service)(nil)

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		opts:     opts,
		logger:   opts.Logger.With("component", "dashboard"),
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// AddWidgetRequest captures the data required to create widget assignments.
type AddWidgetRequest struct {
	DefinitionID  string         `json:"definition_id"`
	AreaCode      string         `json:"area_code"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Position      *int           `json:"position,omitempty"`
	Roles         []string       `json:"roles,omitempty"`
	StartAt       *time.Time     `json:"start_at,omitempty"`
	EndAt         *time.Time     `json:"end_at,omitempty"`
	ActorID       string         `json:"actor_id,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	TenantID      string         `json:"tenant_id,omitempty"`
}

// UpdateWidgetRequest replaces an instance configuration and merges metadata.
type UpdateWidgetRequest struct {
	Configuration map[string]any
	Metadata      map[string]any
	ActorID       string
	UserID        string
	TenantID      string
}

// AddWidget creates a widget instance and assigns it to an area.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if req.AreaCode == "" {
		return errInvalidArea
	}
	if req.DefinitionID == "" {
		return errInvalidDefinition
	}
	if err := s.validateConfiguration(req.DefinitionID, req.Configuration); err != nil {
		return err
	}
	instance, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		DefinitionID:  req.DefinitionID,
		Configuration: req.Configuration,
		Visibility: WidgetVisibility{
			Roles:   req.Roles,
			StartAt: req.StartAt,
			EndAt:   req.EndAt,
		},
		Metadata: map[string]any{
			"user_id": req.UserID,
		},
	})
	if err != nil {
		return fmt.Errorf("dashboard: create instance: %w", err)
	}
	if err := store.AssignInstance(ctx, AssignWidgetInput{
		AreaCode:   req.AreaCode,
		InstanceID: instance.ID,
		Position:   req.Position,
	}); err != nil {
		return fmt.Errorf("dashboard: assign instance %s: %w", instance.ID, err)
	}
	instance.AreaCode = req.AreaCode
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: req.AreaCode,
		Instance: instance,
		Reason:   "add",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"area_code":     req.AreaCode,
		"definition_id": req.DefinitionID,
	}
	s.recordTelemetry(ctx, "dashboard.widget.add", meta)
	s.emitActivity(ctx, actorFrom(ctx, req.ActorID, req.UserID, req.TenantID), "dashboard.widget.add", instance.ID, req.DefinitionID, meta)
	return nil
}

// UpdateWidget validates and stores a new configuration for an instance.
func (s *Service) UpdateWidget(ctx context.Context, widgetID string, req UpdateWidgetRequest) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errMissingWidgetID
	}
	current, err := store.GetInstance(ctx, widgetID)
	if err != nil {
		return fmt.Errorf("dashboard: load instance %s: %w", widgetID, err)
	}
	if req.Configuration != nil {
		if err := s.validateConfiguration(current.DefinitionID, req.Configuration); err != nil {
			return err
		}
	}
	updated, err := store.UpdateInstance(ctx, UpdateWidgetInstanceInput{
		InstanceID:    widgetID,
		Configuration: req.Configuration,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return fmt.Errorf("dashboard: update instance %s: %w", widgetID, err)
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: updated.AreaCode,
		Instance: updated,
		Reason:   "update",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"definition_id": current.DefinitionID,
		"area_code":     current.AreaCode,
	}
	s.recordTelemetry(ctx, "dashboard.widget.update", map[string]any{"widget_id": widgetID})
	s.emitActivity(ctx, actorFrom(ctx, req.ActorID, req.UserID, req.TenantID), "dashboard.widget.update", widgetID, current.DefinitionID, meta)
	return nil
}

// RemoveWidget deletes the widget instance.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if widgetID == "" {
		return errMissingWidgetID
	}
	// The lookup only enriches the activity event; a missing instance is not fatal.
	instance, lookupErr := store.GetInstance(ctx, widgetID)
	if lookupErr != nil {
		instance = WidgetInstance{ID: widgetID}
	}
	if err := store.DeleteInstance(ctx, widgetID); err != nil {
		return fmt.Errorf("dashboard: delete instance %s: %w", widgetID, err)
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: instance.AreaCode,
		Instance: WidgetInstance{ID: widgetID},
		Reason:   "delete",
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.remove", map[string]any{"widget_id": widgetID})
	s.emitActivity(ctx, activityContextFrom(ctx), "dashboard.widget.remove", widgetID, instance.DefinitionID, map[string]any{
		"definition_id": instance.DefinitionID,
		"area_code":     instance.AreaCode,
	})
	return nil
}

// ReorderWidgets changes widget ordering within an area.
func (s *Service) ReorderWidgets(ctx context.Context, areaCode string, widgetIDs []string) error {
	store, err := s.widgetStore()
	if err != nil {
		return err
	}
	if areaCode == "" {
		return errInvalidArea
	}
	if err := store.ReorderArea(ctx, ReorderAreaInput{
		AreaCode:  areaCode,
		WidgetIDs: widgetIDs,
	}); err != nil {
		return fmt.Errorf("dashboard: reorder %s: %w", areaCode, err)
	}
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: areaCode,
		Reason:   "reorder",
	}); err != nil {
		return err
	}
	meta := map[string]any{
		"area_code": areaCode,
		"count":     len(widgetIDs),
	}
	s.recordTelemetry(ctx, "dashboard.widget.reorder", meta)
	s.emitActivity(ctx, activityContextFrom(ctx), "dashboard.widget.reorder", areaCode, "", meta)
	return nil
}

// ConfigureLayout resolves widgets for each dashboard area respecting preferences + auth.
func (s *Service) ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error) {
	store, err := s.widgetStore()
	if err != nil {
		return Layout{}, err
	}
	overrides, err := s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
	if err != nil {
		return Layout{}, fmt.Errorf("dashboard: load preferences: %w", err)
	}
	if viewer.Locale == "" {
		viewer.Locale = overrides.Locale
	}
	layout := Layout{
		Areas: make(map[string][]WidgetInstance),
		Rows:  make(map[string][]LayoutRow),
	}
	for _, area := range s.areaList() {
		resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
			AreaCode: area,
			Audience: viewer.Roles,
			Locale:   viewer.Locale,
		})
		if err != nil {
			return Layout{}, fmt.Errorf("dashboard: resolve area %s: %w", area, err)
		}
		for i := range resolved.Widgets {
			resolved.Widgets[i].AreaCode = area
		}
		ordered := applyOrderOverride(resolved.Widgets, overrides.AreaOrder[area])
		visible := applyHiddenFilter(ordered, overrides.HiddenWidgets)
		widgets := s.filterAuthorized(ctx, viewer, visible)
		layout.Areas[area] = widgets
		layout.Rows[area] = buildRows(widgets, overrides.AreaRows[area])
	}
	s.recordTelemetry(ctx, "dashboard.layout.resolve", map[string]any{
		"viewer": viewer.UserID,
	})
	return layout, nil
}

// ResolveArea retrieves a single area layout for the viewer.
func (s *Service) ResolveArea(ctx context.Context, viewer ViewerContext, areaCode string) (ResolvedArea, error) {
	store, err := s.widgetStore()
	if err != nil {
		return ResolvedArea{}, err
	}
	resolved, err := store.ResolveArea(ctx, ResolveAreaInput{
		AreaCode: areaCode,
		Audience: viewer.Roles,
		Locale:   viewer.Locale,
	})
	if err != nil {
		return ResolvedArea{}, fmt.Errorf("dashboard: resolve area %s: %w", areaCode, err)
	}
	resolved.Widgets = s.filterAuthorized(ctx, viewer, resolved.Widgets)
	s.recordTelemetry(ctx, "dashboard.area.resolve", map[string]any{
		"viewer":   viewer.UserID,
		"areaCode": areaCode,
	})
	return resolved, nil
}

// Widget loads a single instance with its provider data attached, honoring
// the authorizer.
func (s *Service) Widget(ctx context.Context, viewer ViewerContext, widgetID string) (WidgetInstance, error) {
	store, err := s.widgetStore()
	if err != nil {
		return WidgetInstance{}, err
	}
	if widgetID == "" {
		return WidgetInstance{}, errMissingWidgetID
	}
	instance, err := store.GetInstance(ctx, widgetID)
	if err != nil {
		return WidgetInstance{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	widgets := s.filterAuthorized(ctx, viewer, []WidgetInstance{instance})
	if len(widgets) == 0 {
		return WidgetInstance{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	return widgets[0], nil
}

// Instance loads a single instance without provider data, honoring the
// authorizer. Widget sessions resolve their instances through it.
func (s *Service) Instance(ctx context.Context, viewer ViewerContext, widgetID string) (WidgetInstance, error) {
	store, err := s.widgetStore()
	if err != nil {
		return WidgetInstance{}, err
	}
	if widgetID == "" {
		return WidgetInstance{}, errMissingWidgetID
	}
	instance, err := store.GetInstance(ctx, widgetID)
	if err != nil || !s.opts.Authorizer.CanViewWidget(ctx, viewer, instance) {
		return WidgetInstance{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	return instance, nil
}

// Definitions lists the registered widget definitions.
func (s *Service) Definitions() []WidgetDefinition {
	return s.opts.Providers.Definitions()
}

func (s *Service) widgetStore() (WidgetStore, error) {
	if s.opts.WidgetStore == nil {
		return nil, errMissingWidgetStore
	}
	return s.opts.WidgetStore, nil
}

func (s *Service) validateConfiguration(definitionID string, config map[string]any) error {
	if s.opts.ConfigValidator == nil || s.opts.Providers == nil {
		return nil
	}
	def, ok := s.opts.Providers.Definition(definitionID)
	if !ok {
		return nil
	}
	return s.opts.ConfigValidator.Validate(def, config)
}

func (s *Service) areaList() []string {
	if len(s.opts.Areas) > 0 {
		return s.opts.Areas
	}
	return defaultAreas
}

func (s *Service) filterAuthorized(ctx context.Context, viewer ViewerContext, widgets []WidgetInstance) []WidgetInstance {
	if len(widgets) == 0 {
		return widgets
	}
	var filtered []WidgetInstance
	for _, w := range widgets {
		if s.opts.Authorizer.CanViewWidget(ctx, viewer, w) {
			filtered = append(filtered, w)
		}
	}
	return s.attachProviderData(ctx, viewer, filtered)
}

func (s *Service) attachProviderData(ctx context.Context, viewer ViewerContext, widgets []WidgetInstance) []WidgetInstance {
	if len(widgets) == 0 || s.opts.Providers == nil {
		return widgets
	}
	enriched := make([]WidgetInstance, len(widgets))
	copy(enriched, widgets)
	for i, inst := range enriched {
		provider, ok := s.opts.Providers.Provider(inst.DefinitionID)
		if !ok || provider == nil {
			continue
		}
		data, err := provider.Fetch(ctx, WidgetContext{
			Instance:   inst,
			Viewer:     viewer,
			Translator: s.opts.Translator,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "widget provider failed",
				"definition_id", inst.DefinitionID,
				"widget_id", inst.ID,
				"error", err,
			)
			s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
				"definition_id": inst.DefinitionID,
				"error":         err.Error(),
			})
			continue
		}
		metadata := make(map[string]any, len(inst.Metadata)+1)
		for k, v := range inst.Metadata {
			metadata[k] = v
		}
		metadata["data"] = data
		enriched[i].Metadata = metadata
	}
	return enriched
}

// NotifyWidgetUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyWidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.event", map[string]any{
		"area_code": event.AreaCode,
		"widget_id": event.Instance.ID,
		"reason":    event.Reason,
	})
	return nil
}

// RecordActivity emits an activity event on behalf of widget sessions.
func (s *Service) RecordActivity(ctx context.Context, verb, objectID, definitionCode string, meta map[string]any) {
	s.emitActivity(ctx, activityContextFrom(ctx), verb, objectID, definitionCode, meta)
}

// SavePreferences persists per-viewer layout overrides.
func (s *Service) SavePreferences(ctx context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return errors.New("dashboard: viewer context missing user id")
	}
	s.normalizeOverrides(&overrides)
	if overrides.TableSorts == nil {
		// Layout editors do not send table state; keep what sessions stored.
		if current, err := s.opts.PreferenceStore.LayoutOverrides(ctx, viewer); err == nil {
			overrides.TableSorts = current.TableSorts
		}
	}
	if err := s.opts.PreferenceStore.SaveLayoutOverrides(ctx, viewer, overrides); err != nil {
		return fmt.Errorf("dashboard: save preferences: %w", err)
	}
	s.recordTelemetry(ctx, "dashboard.preferences.save", map[string]any{"viewer": viewer.UserID})
	return nil
}

// Preferences returns the stored overrides for the viewer.
func (s *Service) Preferences(ctx context.Context, viewer ViewerContext) (LayoutOverrides, error) {
	return s.opts.PreferenceStore.LayoutOverrides(ctx, viewer)
}

func (s *Service) normalizeOverrides(overrides *LayoutOverrides) {
	if overrides.AreaOrder == nil {
		overrides.AreaOrder = map[string][]string{}
	}
	if overrides.AreaRows == nil {
		overrides.AreaRows = map[string][]LayoutRow{}
	}
	if overrides.HiddenWidgets == nil {
		overrides.HiddenWidgets = map[string]bool{}
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) emitActivity(ctx context.Context, actor ActivityContext, verb, objectID, definitionCode string, meta map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	objectType := "widget_instance"
	if verb == "dashboard.widget.reorder" {
		objectType = "widget_area"
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:           verb,
		ActorID:        actor.ActorID,
		UserID:         actor.UserID,
		TenantID:       actor.TenantID,
		ObjectType:     objectType,
		ObjectID:       objectID,
		DefinitionCode: definitionCode,
		Metadata:       meta,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "activity hook failed", "verb", verb, "error", err)
	}
}

type allowAllAuthorizer struct{}

func (allowAllAuthorizer) CanViewWidget(context.Context, ViewerContext, WidgetInstance) bool {
	return true
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
