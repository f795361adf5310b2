package models

import (
	"strings"
	"time"
)

// ApplicationStatus enumerates the hearing workflow states.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusHeard    ApplicationStatus = "HEARD"
	StatusReferred ApplicationStatus = "REFERRED"
	StatusClosed   ApplicationStatus = "CLOSED"
)

// ValidStatus reports whether the value belongs to the status choice set.
func ValidStatus(value ApplicationStatus) bool {
	switch value {
	case StatusPending, StatusHeard, StatusReferred, StatusClosed:
		return true
	}
	return false
}

// FeedbackStatus enumerates applicant feedback states.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "PENDING"
	FeedbackPositive FeedbackStatus = "POSITIVE"
	FeedbackNegative FeedbackStatus = "NEGATIVE"
)

// ValidFeedback reports whether the value belongs to the feedback choice set.
func ValidFeedback(value FeedbackStatus) bool {
	switch value {
	case FeedbackPending, FeedbackPositive, FeedbackNegative:
		return true
	}
	return false
}

// Application is an open court grievance record. sr_no is the globally
// unique import key; re-import with the same sr_no updates in place.
type Application struct {
	ID                  string            `db:"id" json:"id"`
	SrNo                int64             `db:"sr_no" json:"sr_no"`
	DairyNo             string            `db:"dairy_no" json:"dairy_no"`
	Name                string            `db:"name" json:"name"`
	Contact             string            `db:"contact" json:"contact"`
	MarkedTo            string            `db:"marked_to" json:"marked_to"`
	Date                *time.Time        `db:"date" json:"date,omitempty"`
	MarkedBy            string            `db:"marked_by" json:"marked_by"`
	Timeline            string            `db:"timeline" json:"timeline"`
	PoliceStation       string            `db:"police_station" json:"police_station"`
	Division            string            `db:"division" json:"division"`
	Category            string            `db:"category" json:"category"`
	Status              ApplicationStatus `db:"status" json:"status"`
	Days                *int              `db:"days" json:"days,omitempty"`
	Feedback            FeedbackStatus    `db:"feedback" json:"feedback"`
	DairyPS             string            `db:"dairy_ps" json:"dairy_ps"`
	Remarks             string            `db:"remarks" json:"remarks"`
	VideoResponse       *string           `db:"video_response" json:"video_response,omitempty"`
	SupportingDocuments *string           `db:"supporting_documents" json:"supporting_documents,omitempty"`
	CreatedAt           time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `db:"updated_at" json:"updated_at"`
	CreatedBy           *string           `db:"created_by" json:"created_by,omitempty"`
	CreatedByName       *string           `db:"created_by_name" json:"created_by_name,omitempty"`
}

// ApplicationScope captures the visibility restriction derived from the
// requester. Admins see every station; staff see only their own.
type ApplicationScope struct {
	AllStations bool
	Station     string
}

// ScopeFor derives the record visibility for a role and station assignment.
// A staff member without a station sees nothing.
func ScopeFor(role UserRole, station string) ApplicationScope {
	if role == RoleAdmin {
		return ApplicationScope{AllStations: true}
	}
	return ApplicationScope{Station: strings.TrimSpace(station)}
}

// Empty reports whether the scope admits no records at all.
func (s ApplicationScope) Empty() bool {
	return !s.AllStations && s.Station == ""
}

// ApplicationFilter captures the query parameters for listing applications.
type ApplicationFilter struct {
	Search        string
	PoliceStation string
	Division      string
	Category      string
	Status        string
	Feedback      string
	FromDate      *time.Time
	ToDate        *time.Time
	MarkedTo      string
	Ordering      string
	Page          int
	PageSize      int
}
