package components

// FieldDescriptor describes a cell field for UI display.
type FieldDescriptor struct {
	ID     string // Unique identifier
	Label  string // Display name
	Format string // Printf format (e.g., "%d")
	IsBar  bool   // True to render as progress bar against the trait max
	Group  string // Logical grouping
}

// CellFieldDescriptors returns metadata for the per-cell state fields.
func CellFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "kind", Label: "Kind", Format: "%s", Group: "state"},
		{ID: "health", Label: "Health", Format: "%d", Group: "state"},
		{ID: "age", Label: "Age", Format: "%d", Group: "state"},
	}
}

// GeneFieldDescriptors returns metadata for gene traits, in gene order.
func GeneFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "survival_probability", Label: "Survival", Format: "%d/%d", IsBar: true, Group: "gene"},
		{ID: "predator_death_threshold", Label: "Pred Death", Format: "%d/%d", IsBar: true, Group: "gene"},
		{ID: "reproduce_threshold", Label: "Repro Thresh", Format: "%d/%d", IsBar: true, Group: "gene"},
		{ID: "max_health", Label: "Max Health", Format: "%d/%d", IsBar: true, Group: "gene"},
		{ID: "max_age", Label: "Max Age", Format: "%d/%d", IsBar: true, Group: "gene"},
		{ID: "twin_likelihood", Label: "Twin", Format: "%d/%d", IsBar: true, Group: "gene"},
		{ID: "point_funds", Label: "Funds", Format: "%d", Group: "gene"},
	}
}

// AgeShade maps an organism's age to a color channel intensity. Newborns
// start dim and brighten by 10 per tick until saturating.
func AgeShade(age int) uint8 {
	return uint8(min(255, 100+max(0, age)*10))
}
