package models

// MiscExpense is a shared cost outside any project, attributed to a user
// by name. Dates are stored as strings; the repository filters on the
// "YYYY-MM" prefix for month grouping.
type MiscExpense struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"`
	User        string  `json:"user"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	PaidBy      string  `json:"paid_by"`
	Remarks     string  `json:"remarks"`
}

// Month returns the "YYYY-MM" prefix of the expense date, or the whole
// date string when it is shorter than that.
func (e MiscExpense) Month() string {
	if len(e.Date) < 7 {
		return e.Date
	}
	return e.Date[:7]
}
