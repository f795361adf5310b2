package dto

// CreateApplicationRequest is the payload for manual record entry.
type CreateApplicationRequest struct {
	SrNo          int64  `json:"sr_no" validate:"required,gt=0"`
	DairyNo       string `json:"dairy_no"`
	Name          string `json:"name" validate:"required"`
	Contact       string `json:"contact"`
	MarkedTo      string `json:"marked_to"`
	Date          string `json:"date"`
	MarkedBy      string `json:"marked_by"`
	Timeline      string `json:"timeline"`
	PoliceStation string `json:"police_station"`
	Division      string `json:"division"`
	Category      string `json:"category"`
	Days          *int   `json:"days" validate:"omitempty,gte=0"`
	DairyPS       string `json:"dairy_ps"`
	Remarks       string `json:"remarks"`
}

// UpdateApplicationRequest is the payload for full record updates. Nil
// fields are left untouched.
type UpdateApplicationRequest struct {
	DairyNo       *string `json:"dairy_no"`
	Name          *string `json:"name"`
	Contact       *string `json:"contact"`
	MarkedTo      *string `json:"marked_to"`
	Date          *string `json:"date"`
	MarkedBy      *string `json:"marked_by"`
	Timeline      *string `json:"timeline"`
	PoliceStation *string `json:"police_station"`
	Division      *string `json:"division"`
	Category      *string `json:"category"`
	Days          *int    `json:"days" validate:"omitempty,gte=0"`
	DairyPS       *string `json:"dairy_ps"`
	Remarks       *string `json:"remarks"`
}

// UpdateStatusRequest changes the hearing workflow state.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateFeedbackRequest records applicant feedback with optional remarks.
type UpdateFeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
	Remarks  string `json:"remarks"`
}
