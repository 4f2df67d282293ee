package models

// ProductivityComparison pairs an operator's monthly average against the
// configured target.
type ProductivityComparison struct {
	AvgActual float64 `json:"avgActual"`
	Target    float64 `json:"target"`
}

// TopPerformer is one row of the top-performers ranking.
type TopPerformer struct {
	OperatorName           string                 `json:"operatorName"`
	OperatorSubRole        SubRoleInfo            `json:"operatorSubRole"`
	AvgMonthlyProductivity float64                `json:"avgMonthlyProductivity"`
	AvgMonthlyWorkdays     float64                `json:"avgMonthlyWorkdays"`
	Productivity           ProductivityComparison `json:"productivity"`
}
