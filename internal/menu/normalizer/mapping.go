// internal/menu/normalizer/mapping.go
package normalizer

// fieldMapping declares, per canonical field, the accepted source field
// names in resolution order: the display scheme first, then the storage
// scheme. Anything missing falls through to a type-appropriate default.
var fieldMapping = map[string][]string{
	"id":              {"id", "_id"},
	"name":            {"name", "nome"},
	"description":     {"description", "descricao"},
	"category":        {"category", "categoria"},
	"price":           {"price", "preco"},
	"preparationTime": {"preparationTime", "tempoPreparo"},
	"isAvailable":     {"isAvailable", "disponivel"},
	"isVegetarian":    {"isVegetarian", "vegetariano"},
	"isVegan":         {"isVegan", "vegano"},
	"isGlutenFree":    {"isGlutenFree", "semGluten"},
	"specialOffer":    {"specialOffer", "ofertaEspecial"},
	"ingredients":     {"ingredients", "ingredientes"},
	"tags":            {"tags", "etiquetas"},
	"preparationDate": {"preparationDate", "dataPreparacao"},
	"dayOfWeek":       {"dayOfWeek", "diaSemana"},
}

// Display sentinels for absent values.
const (
	PriceUnknown    = "Consulte o preço"
	PrepTimeVaries  = "Tempo variável"
	LabelVegan      = "Vegano"
	LabelVegetarian = "Vegetariano"
	LabelGlutenFree = "Sem Glúten"
)
