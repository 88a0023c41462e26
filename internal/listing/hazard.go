// AngelaMos | 2026
// hazard.go

package listing

type Category string

const (
	CategoryLaptops     Category = "Laptops"
	CategorySmartphones Category = "Smartphones"
	CategoryMonitors    Category = "Monitors"
	CategoryAccessories Category = "Accessories"
	CategoryAppliances  Category = "Appliances"
	CategoryIndustrial  Category = "Industrial"
	CategoryBatteries   Category = "Batteries"
)

var Categories = []Category{
	CategoryLaptops,
	CategorySmartphones,
	CategoryMonitors,
	CategoryAccessories,
	CategoryAppliances,
	CategoryIndustrial,
	CategoryBatteries,
}

func (c Category) Valid() bool {
	_, ok := hazardTable[c]
	return ok
}

type Hazard string

const (
	HazardLow    Hazard = "Low"
	HazardMedium Hazard = "Medium"
	HazardHigh   Hazard = "High"
)

func (h Hazard) Valid() bool {
	switch h {
	case HazardLow, HazardMedium, HazardHigh:
		return true
	}
	return false
}

var hazardTable = map[Category]Hazard{
	CategoryLaptops:     HazardMedium,
	CategorySmartphones: HazardMedium,
	CategoryMonitors:    HazardMedium,
	CategoryBatteries:   HazardHigh,
	CategoryAppliances:  HazardLow,
	CategoryIndustrial:  HazardHigh,
	CategoryAccessories: HazardLow,
}

// HazardLevel classifies a category. Unknown categories are Low.
func HazardLevel(c Category) Hazard {
	if h, ok := hazardTable[c]; ok {
		return h
	}
	return HazardLow
}
