package models

// GhanaRegions lists the administrative regions artisans register under.
var GhanaRegions = []string{
	"Ahafo",
	"Ashanti",
	"Bono",
	"Bono East",
	"Central",
	"Eastern",
	"Greater Accra",
	"North East",
	"Northern",
	"Oti",
	"Savannah",
	"Upper East",
	"Upper West",
	"Volta",
	"Western",
	"Western North",
}

// Trades lists the service categories the platform recognises.
var Trades = []string{
	"Carpenter",
	"Electrician",
	"Mason",
	"Mechanic",
	"Painter",
	"Plumber",
	"Seamstress",
	"Tiler",
	"Welder",
	"AC Repairer",
	"Barber",
	"Hairdresser",
	"Cleaner",
	"Gardener",
}

// IsKnownRegion reports whether a region name is one of the sixteen
// Ghanaian regions.
func IsKnownRegion(region string) bool {
	for _, r := range GhanaRegions {
		if r == region {
			return true
		}
	}
	return false
}
