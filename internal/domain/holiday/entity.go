package holiday

import "time"

type Holiday struct {
	ID        string
	Name      string
	Date      string // YYYY-MM-DD
	Type      Type
	CreatedAt time.Time
}

type Type string

const (
	TypePublic  Type = "Public"
	TypeCompany Type = "Company"
	TypeCustom  Type = "Custom"
)

var TypeValues = []string{string(TypePublic), string(TypeCompany), string(TypeCustom)}
