package filter

// Fuel types offered by the search form.
const (
	FuelDiesel   = "Dīzelis"
	FuelPetrol   = "Benzīns"
	FuelHybrid   = "Hibrīds"
	FuelElectric = "Elektriskais"
)

// FuelTypes lists the fuel types in form order.
var FuelTypes = []string{FuelDiesel, FuelPetrol, FuelHybrid, FuelElectric}

// Colors lists the body colors in form order.
var Colors = []string{
	"Melna", "Melnametālika",
	"Balta", "Baltametālika",
	"Brūna", "Brūnametālika",
	"Dzeltena", "Dzeltenametālika",
	"Gaiši zila", "Gaiši zilametālika",
	"Oranža", "Oranžametālika",
	"Pelēka", "Pelēkametālika",
	"Sarkana", "Sarkanametālika",
	"Sudraba", "Sudrabametālika",
	"Tumši sarkana", "Tumši sarkanametālika",
}

// IsKnownFuelType reports whether v is one of FuelTypes.
func IsKnownFuelType(v string) bool { return contains(FuelTypes, v) }

// IsKnownColor reports whether v is one of Colors.
func IsKnownColor(v string) bool { return contains(Colors, v) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
