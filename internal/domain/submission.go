package domain

import "time"

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is a user's attempt at a task, pending admin review. The uploaded
// file travels inside the record as a base64 data URL; there is no external
// blob store.
type Submission struct {
	ID        string           `json:"id"`
	TaskID    string           `json:"taskId"`
	UserEmail string           `json:"userEmail"`
	FileName  string           `json:"fileName"`
	DataURL   string           `json:"dataUrl"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Approve moves the submission to approved. It reports whether the transition
// applied; a submission that has already left pending is never moved again, so
// the caller can credit points at most once.
func (s *Submission) Approve() bool {
	if s.Status != SubmissionPending {
		return false
	}
	s.Status = SubmissionApproved

	return true
}

// Reject moves the submission to rejected, only from pending.
func (s *Submission) Reject() bool {
	if s.Status != SubmissionPending {
		return false
	}
	s.Status = SubmissionRejected

	return true
}
