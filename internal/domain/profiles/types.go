package profiles

// Species normalizada en minúsculas. Los providers pueden traer tokens
// propios; "dog" es el default cuando viene vacío.
type Species = string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// RatingCategory es el set cerrado de categorías de rating que manejamos.
type RatingCategory string

const (
	RatingChildren         RatingCategory = "children"
	RatingDogs             RatingCategory = "dogs"
	RatingCats             RatingCategory = "cats"
	RatingHomeAlone        RatingCategory = "home_alone"
	RatingActivity         RatingCategory = "activity"
	RatingEnvironment      RatingCategory = "environment"
	RatingHumanSociability RatingCategory = "human_sociability"
	RatingEnrichment       RatingCategory = "enrichment"
)

// RatingOrder define el orden estable para render (email, API).
var RatingOrder = []RatingCategory{
	RatingChildren,
	RatingDogs,
	RatingCats,
	RatingHomeAlone,
	RatingActivity,
	RatingEnvironment,
	RatingHumanSociability,
	RatingEnrichment,
}

// RatingUnknown es el sentinel "sabemos que no se sabe" (distinto de
// categoría ausente).
const RatingUnknown = 0

// StatusAvailablePrefix: el feed solo muestra perfiles cuyo status empieza así.
const StatusAvailablePrefix = "Available"
