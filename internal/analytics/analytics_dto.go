package analytics

const (
	TargetGross     = "gross"
	TargetDeduction = "deduction"
	TargetNet       = "net"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// MonthTotals bundles the three recomputed figures for one month.
type MonthTotals struct {
	Gross     int `json:"gross"`
	Deduction int `json:"deduction"`
	Net       int `json:"net"`
}

// SummaryResponse is the dashboard headline: latest salary month vs the one
// before it across all three figures, plus this year's bonus total. Pointer
// fields are nil until a second month of data exists.
type SummaryResponse struct {
	LatestMonth    string       `json:"latest_month,omitempty"`
	Latest         MonthTotals  `json:"latest"`
	PreviousMonth  string       `json:"previous_month,omitempty"`
	Previous       *MonthTotals `json:"previous,omitempty"`
	Diff           *MonthTotals `json:"diff,omitempty"`
	YearBonusTotal int          `json:"year_bonus_total"`
}

// StatsResponse is a label-aligned series ready for a chart: labels[i] is the
// period (YYYY-MM or YYYY) of data[i]. Periods without data never appear.
type StatsResponse struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

type BreakdownEntry struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

type StatsRequest struct {
	Target string `form:"target" binding:"omitempty,oneof=gross deduction net"`
	Period string `form:"period" binding:"omitempty,oneof=monthly yearly"`
	Kind   string `form:"kind" binding:"omitempty,oneof=salary bonus"`
}

type BreakdownRequest struct {
	Year     string `form:"year"`
	Category string `form:"category" binding:"omitempty,oneof=payment deduction"`
}
