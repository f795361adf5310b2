package dto

// OverallStats holds the scoped status and feedback counts.
type OverallStats struct {
	TotalApplications int `json:"total_applications" db:"total_applications"`
	Pending           int `json:"pending" db:"pending"`
	Heard             int `json:"heard" db:"heard"`
	Referred          int `json:"referred" db:"referred"`
	Closed            int `json:"closed" db:"closed"`
	PositiveFeedback  int `json:"positive_feedback" db:"positive_feedback"`
	NegativeFeedback  int `json:"negative_feedback" db:"negative_feedback"`
}

// CategoryCount ranks a category by record count.
type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Count    int    `json:"count" db:"count"`
}

// StationCount ranks a police station with workflow sub-counts.
type StationCount struct {
	PoliceStation string `json:"police_station" db:"police_station"`
	Count         int    `json:"count" db:"count"`
	Pending       int    `json:"pending" db:"pending"`
	Heard         int    `json:"heard" db:"heard"`
}

// DivisionCount ranks a division by record count.
type DivisionCount struct {
	Division string `json:"division" db:"division"`
	Count    int    `json:"count" db:"count"`
}

// DashboardStatsResponse is the aggregated dashboard payload. The police
// station breakdown is populated for admins only.
type DashboardStatsResponse struct {
	OverallStats       OverallStats    `json:"overall_stats"`
	CategoryStats      []CategoryCount `json:"category_stats"`
	PoliceStationStats []StationCount  `json:"police_station_stats"`
	DivisionStats      []DivisionCount `json:"division_stats"`
}

// VideoFeedbackStats summarises the video review queue.
type VideoFeedbackStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Liked    int `json:"liked"`
	Disliked int `json:"disliked"`
}
