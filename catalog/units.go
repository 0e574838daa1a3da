package catalog

const (
	DefaultUnits = 4
	FiveUnits    = 5
)

// InferUnits assigns 5 units when any category is a 5-unit GE requirement
// and 4 otherwise. The catalog page is not consulted.
func InferUnits(categories []string) int {
	for _, category := range categories {
		if requirement, ok := RequirementByName(category); ok && requirement.FiveUnits {
			return FiveUnits
		}
	}
	return DefaultUnits
}
