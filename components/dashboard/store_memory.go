package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-admin-dashboard/internal/clock"
)

// MemoryWidgetStore is a WidgetStore kept in process memory. It backs the
// demo server, the terminal client and tests.
type MemoryWidgetStore struct {
	clock clock.Clock

	mu          sync.RWMutex
	areas       map[string]WidgetAreaDefinition
	definitions map[string]WidgetDefinition
	instances   map[string]storedInstance
	assignments map[string][]string
}

type storedInstance struct {
	instance   WidgetInstance
	visibility WidgetVisibility
}

// NewMemoryWidgetStore builds an empty store. A nil clock uses wall time.
func NewMemoryWidgetStore(c clock.Clock) *MemoryWidgetStore {
	if c == nil {
		c = clock.Real()
	}
	return &MemoryWidgetStore{
		clock:       c,
		areas:       map[string]WidgetAreaDefinition{},
		definitions: map[string]WidgetDefinition{},
		instances:   map[string]storedInstance{},
		assignments: map[string][]string{},
	}
}

var _ WidgetStore = (*MemoryWidgetStore)(nil)

// EnsureArea stores the area. It reports whether the area is new.
func (s *MemoryWidgetStore) EnsureArea(_ context.Context, def WidgetAreaDefinition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.areas[def.Code]
	s.areas[def.Code] = def
	return !exists, nil
}

// EnsureDefinition stores the definition. It reports whether it is new.
func (s *MemoryWidgetStore) EnsureDefinition(_ context.Context, def WidgetDefinition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.definitions[def.Code]
	s.definitions[def.Code] = def
	return !exists, nil
}

// CreateInstance stores a new instance under a random id.
func (s *MemoryWidgetStore) CreateInstance(_ context.Context, input CreateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.definitions[input.DefinitionID]; !ok {
		return WidgetInstance{}, fmt.Errorf("%w: definition %s", ErrWidgetNotFound, input.DefinitionID)
	}
	instance := WidgetInstance{
		ID:            uuid.NewString(),
		DefinitionID:  input.DefinitionID,
		Configuration: cloneMap(input.Configuration),
		Metadata:      cloneMap(input.Metadata),
	}
	s.instances[instance.ID] = storedInstance{instance: instance, visibility: input.Visibility}
	return cloneInstance(instance), nil
}

// GetInstance returns the stored instance.
func (s *MemoryWidgetStore) GetInstance(_ context.Context, instanceID string) (WidgetInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.instances[instanceID]
	if !ok {
		return WidgetInstance{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, instanceID)
	}
	return cloneInstance(stored.instance), nil
}

// UpdateInstance replaces the configuration and merges metadata.
func (s *MemoryWidgetStore) UpdateInstance(_ context.Context, input UpdateWidgetInstanceInput) (WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.instances[input.InstanceID]
	if !ok {
		return WidgetInstance{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, input.InstanceID)
	}
	if input.Configuration != nil {
		stored.instance.Configuration = cloneMap(input.Configuration)
	}
	if len(input.Metadata) > 0 {
		if stored.instance.Metadata == nil {
			stored.instance.Metadata = map[string]any{}
		}
		for k, v := range input.Metadata {
			stored.instance.Metadata[k] = v
		}
	}
	s.instances[input.InstanceID] = stored
	return cloneInstance(stored.instance), nil
}

// DeleteInstance removes the instance and its area assignment.
func (s *MemoryWidgetStore) DeleteInstance(_ context.Context, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.instances[instanceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, instanceID)
	}
	delete(s.instances, instanceID)
	if area := stored.instance.AreaCode; area != "" {
		s.assignments[area] = slices.DeleteFunc(s.assignments[area], func(id string) bool { return id == instanceID })
	}
	return nil
}

// AssignInstance moves the instance into an area, at Position when given.
func (s *MemoryWidgetStore) AssignInstance(_ context.Context, input AssignWidgetInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.instances[input.InstanceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, input.InstanceID)
	}
	if _, ok := s.areas[input.AreaCode]; !ok {
		return fmt.Errorf("dashboard: unknown area %s", input.AreaCode)
	}
	if prev := stored.instance.AreaCode; prev != "" {
		s.assignments[prev] = slices.DeleteFunc(s.assignments[prev], func(id string) bool { return id == input.InstanceID })
	}
	order := s.assignments[input.AreaCode]
	if input.Position != nil && *input.Position >= 0 && *input.Position <= len(order) {
		order = slices.Insert(order, *input.Position, input.InstanceID)
	} else {
		order = append(order, input.InstanceID)
	}
	s.assignments[input.AreaCode] = order
	stored.instance.AreaCode = input.AreaCode
	s.instances[input.InstanceID] = stored
	return nil
}

// ReorderArea sets the area order. Ids not assigned to the area are ignored
// and assigned ids missing from the request keep their relative order at the
// end.
func (s *MemoryWidgetStore) ReorderArea(_ context.Context, input ReorderAreaInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.assignments[input.AreaCode]
	order := make([]string, 0, len(current))
	seen := make(map[string]bool, len(current))
	for _, id := range input.WidgetIDs {
		if slices.Contains(current, id) && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, id := range current {
		if !seen[id] {
			order = append(order, id)
		}
	}
	s.assignments[input.AreaCode] = order
	return nil
}

// ResolveArea returns the area's instances that are visible now to the
// requested audience.
func (s *MemoryWidgetStore) ResolveArea(_ context.Context, input ResolveAreaInput) (ResolvedArea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.clock.Now()
	ids := s.assignments[input.AreaCode]
	widgets := make([]WidgetInstance, 0, len(ids))
	for _, id := range ids {
		stored, ok := s.instances[id]
		if !ok || !stored.visibility.allows(now, input.Audience) {
			continue
		}
		widgets = append(widgets, cloneInstance(stored.instance))
	}
	return ResolvedArea{AreaCode: input.AreaCode, Widgets: widgets}, nil
}

func cloneInstance(inst WidgetInstance) WidgetInstance {
	inst.Configuration = cloneMap(inst.Configuration)
	inst.Metadata = cloneMap(inst.Metadata)
	return inst
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
