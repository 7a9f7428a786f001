package systems

// Phase IDs, in the order a tick runs them.
const (
	PhaseUpdate     = "update"
	PhaseInvariants = "invariants"
	PhaseCensus     = "census"
	PhaseTelemetry  = "telemetry"
)

// SystemInfo describes a tick phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "core", "debug")
}

// SystemRegistry holds metadata about all tick phases.
// This centralizes naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases in tick order.
// Update this when adding new phases.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: PhaseUpdate, Name: "Cell Update", Description: "Runs the cell state machine over the grid", Category: "core"})
	r.Register(SystemInfo{ID: PhaseInvariants, Name: "Invariants", Description: "Checks topology and gene budgets", Category: "debug"})
	r.Register(SystemInfo{ID: PhaseCensus, Name: "Census", Description: "Counts organisms and samples traits", Category: "core"})
	r.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Flushes stats windows and bookmarks", Category: "output"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
