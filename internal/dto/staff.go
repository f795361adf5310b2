package dto

// CreateStaffRequest is the admin payload for onboarding a staff account.
type CreateStaffRequest struct {
	Username      string `json:"username" validate:"required,min=3"`
	Password      string `json:"password" validate:"required,min=6"`
	Email         string `json:"email" validate:"omitempty,email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	PoliceStation string `json:"police_station" validate:"required"`
	Division      string `json:"division"`
}

// UpdateStaffRequest updates a staff account. Nil fields are left
// untouched; a non-nil password is re-hashed before storage.
type UpdateStaffRequest struct {
	Username      *string `json:"username" validate:"omitempty,min=3"`
	Password      *string `json:"password" validate:"omitempty,min=6"`
	Email         *string `json:"email" validate:"omitempty,email"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	PoliceStation *string `json:"police_station"`
	Division      *string `json:"division"`
	Active        *bool   `json:"active"`
}
