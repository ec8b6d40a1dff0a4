package flow

import "fmt"

// Step describes a registered unit of work. Its role flags are assigned
// once at registration; nothing in this package probes roles at runtime.
type Step struct {
	Name   string
	Start  bool
	Router bool
}

// Registry accumulates step, listener, and router declarations. It is a
// build-time collaborator: graph computations consume an immutable
// Snapshot, never the registry itself. The registry does no locking;
// callers must serialize mutation against Snapshot.
type Registry struct {
	steps       map[string]*Step
	order       []string
	listeners   map[string]any
	listenOrder []string
	routerPaths map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		steps:       make(map[string]*Step),
		listeners:   make(map[string]any),
		routerPaths: make(map[string][]string),
	}
}

// AddStep registers a plain step. Registering an existing name is a no-op.
func (r *Registry) AddStep(name string) {
	r.step(name)
}

// AddStart registers a step and marks it as a start step.
func (r *Registry) AddStart(name string) {
	r.step(name).Start = true
}

// AddRouter registers a step as a router and appends its declared path
// labels. Calling it again extends the label list, so statically inferred
// labels can be merged after registration.
func (r *Registry) AddRouter(name string, paths ...string) {
	r.step(name).Router = true
	r.routerPaths[name] = append(r.routerPaths[name], paths...)
}

// AddListener registers a step together with the raw trigger condition
// that activates it. The condition may be any shape Normalize accepts; it
// is stored raw and canonicalized at computation time.
func (r *Registry) AddListener(name string, condition any) {
	r.step(name)
	if _, ok := r.listeners[name]; !ok {
		r.listenOrder = append(r.listenOrder, name)
	}
	r.listeners[name] = condition
}

func (r *Registry) step(name string) *Step {
	if s, ok := r.steps[name]; ok {
		return s
	}
	s := &Step{Name: name}
	r.steps[name] = s
	r.order = append(r.order, name)
	return s
}

// Snapshot returns a deep copy of the current registry state. Graph
// computations over a snapshot are unaffected by later registry mutation.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{
		Steps:         make(map[string]*Step, len(r.steps)),
		StepOrder:     append([]string(nil), r.order...),
		Listeners:     make(map[string]any, len(r.listeners)),
		ListenerOrder: append([]string(nil), r.listenOrder...),
		RouterPaths:   make(map[string][]string, len(r.routerPaths)),
	}
	for name, step := range r.steps {
		copied := *step
		s.Steps[name] = &copied
	}
	for name, cond := range r.listeners {
		s.Listeners[name] = cond
	}
	for name, paths := range r.routerPaths {
		s.RouterPaths[name] = append([]string(nil), paths...)
	}
	return s
}

// Snapshot is a read-only view of a registry taken at one point in time.
// Steps are keyed by name; StepOrder and ListenerOrder preserve
// registration order so traversals are deterministic.
type Snapshot struct {
	Steps         map[string]*Step
	StepOrder     []string
	Listeners     map[string]any
	ListenerOrder []string
	RouterPaths   map[string][]string
}

// normalizedListeners canonicalizes every listener condition in
// registration order. Malformed entries are skipped with their error
// collected; a single bad listener never aborts graph construction.
func normalizedListeners(s *Snapshot) ([]string, map[string]*Condition) {
	names := make([]string, 0, len(s.ListenerOrder))
	conds := make(map[string]*Condition, len(s.ListenerOrder))
	for _, name := range s.ListenerOrder {
		cond, err := Normalize(s.Listeners[name])
		if err != nil {
			continue
		}
		names = append(names, name)
		conds[name] = cond
	}
	return names, conds
}

// routers returns the router steps that declare at least one path label,
// in registration order.
func (s *Snapshot) routers() []string {
	var out []string
	for _, name := range s.StepOrder {
		if s.Steps[name].Router && len(s.RouterPaths[name]) > 0 {
			out = append(out, name)
		}
	}
	return out
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot(%d steps, %d listeners)", len(s.Steps), len(s.Listeners))
}
