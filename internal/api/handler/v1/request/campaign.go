package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *CampaignRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
	)
}

type CategoryRequest struct {
	Name       string `json:"name"`
	CampaignID string `json:"campaignId"`
}

// CampaignID is required but not resolved against the campaign collection;
// dangling references are tolerated downstream by design.
func (req *CategoryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.CampaignID, validation.Required),
	)
}
