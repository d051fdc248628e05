package dto

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
	Photo *string `json:"photo" validate:"omitempty,url"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}
