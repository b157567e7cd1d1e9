package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateRequest struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

func (req *UpdateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Details, validation.Length(0, 5000)),
	)
}
