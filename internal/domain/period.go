package domain

// PeriodView is what dashboard pages read from the period store: the primary
// and comparison tags, their wire-form dates and display labels.
type PeriodView struct {
	Range                  string `json:"range"`
	StartDate              string `json:"startDate"`
	EndDate                string `json:"endDate"`
	DisplayLabel           string `json:"displayLabel"`
	ComparisonRange        string `json:"comparisonRange"`
	ComparisonStartDate    string `json:"comparisonStartDate"`
	ComparisonEndDate      string `json:"comparisonEndDate"`
	ComparisonDisplayLabel string `json:"comparisonDisplayLabel"`
}

// PeriodUpdate is the body of a primary or comparison period change.
type PeriodUpdate struct {
	Range     string `json:"range" binding:"required"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// PeriodUpdateResponse carries the new state and the query string the client
// should replace its location with.
type PeriodUpdateResponse struct {
	Period PeriodView `json:"period"`
	Query  string     `json:"query"`
}
