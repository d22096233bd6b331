package dto

import "mime/multipart"

// CreateChallengeForm is the body of POST /community/new.
type CreateChallengeForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	Value       string `form:"value" binding:"required"`
	Category    string `form:"category"`
	ChalType    string `form:"chaltype" binding:"required"`
	Key         string `form:"key" binding:"required"`
	KeyType     string `form:"key_type[0]" binding:"required"`
	KeyData     string `form:"keydata"`
	MaxAttempts string `form:"max_attempts"`
	// Hidden is honored for admin-authored types only.
	Hidden string `form:"hidden"`

	Files []*multipart.FileHeader `form:"-"`
}

// UpdateChallengeForm is the body of POST /community/update.
type UpdateChallengeForm struct {
	ID          uint   `form:"id" binding:"required"`
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	Value       string `form:"value"`
	Category    string `form:"category"`
	MaxAttempts string `form:"max_attempts"`
	Hidden      string `form:"hidden"`
}

// SubmitKeyForm is the body of POST /chal/:id.
type SubmitKeyForm struct {
	Key string `form:"key"`
}

// DeleteChallengeForm is the body of POST /admin/chal/delete.
type DeleteChallengeForm struct {
	ID uint `form:"id" binding:"required"`
}
