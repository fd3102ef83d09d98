package performance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCountry is used when leads are assigned without a country.
const DefaultCountry = "USA"

// Record is one employee's sales activity for one day.
type Record struct {
	ID                 string
	EmployeeID         string
	EmployeeName       string
	Date               string // YYYY-MM-DD
	LeadsAssigned      int
	ProspectsContacted int
	Conversions        int
	Remarks            *string
	Country            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ConversionRate is conversions over leads assigned, in percent with two
// decimals. It is zero when no leads were assigned.
func (r Record) ConversionRate() decimal.Decimal {
	if r.LeadsAssigned == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.Conversions)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(r.LeadsAssigned))).
		Round(2)
}
