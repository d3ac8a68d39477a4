package models

type SelectionType string

const (
	SelectionCategory SelectionType = "category"
	SelectionProvider SelectionType = "provider"
)

// Selection is what the homepage search box committed: a category label or a
// provider title.
type Selection struct {
	Type  SelectionType `json:"type"`
	Value string        `json:"value"`
}
