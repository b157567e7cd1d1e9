package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// An image reference is either a rooted asset path, an absolute URL or a
// base64 data URL; the lookahead rejects embedded whitespace in one place.
const imageRefPattern = `^(?=\S+$)(?:/.*|https?://.*|data:[-\w]+/[-+.\w]+;base64,.*)$`

var (
	imageRefExp        = regexp2.MustCompile(imageRefPattern, regexp2.None)
	errInvalidImageRef = errors.New("image must be an asset path, URL or data URL")
)

type TaskRequest struct {
	Title      string `json:"title"`
	Details    string `json:"details"`
	Image      string `json:"image"`
	Points     int    `json:"points"`
	CategoryID string `json:"categoryId"`
	CampaignID string `json:"campaignId"`
}

func (req *TaskRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Points, validation.Min(0)),
		validation.Field(&req.CategoryID, validation.Required),
		validation.Field(&req.CampaignID, validation.Required),
	)
	if err != nil {
		return err
	}

	if req.Image != "" {
		ok, matchErr := imageRefExp.MatchString(req.Image)
		if matchErr != nil || !ok {
			return errInvalidImageRef
		}
	}

	return nil
}
