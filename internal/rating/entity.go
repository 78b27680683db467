// AngelaMos | 2026
// entity.go

package rating

// Rating is one entry of the fixed certificate vocabulary.
type Rating struct {
	ID    int    `db:"id"    json:"id"`
	Label string `db:"label" json:"label"`
}

// Seed is the vocabulary installed by the schema migration.
var Seed = []Rating{
	{ID: 1, Label: "Private"},
	{ID: 2, Label: "Instrument"},
	{ID: 3, Label: "Commercial"},
	{ID: 4, Label: "CFI"},
	{ID: 5, Label: "CFII"},
	{ID: 6, Label: "MEI"},
	{ID: 7, Label: "ATP"},
}
