package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshamigo11/task-portal/internal/api/middleware"
	"github.com/adarshamigo11/task-portal/internal/domain"
)

type SubmissionService interface {
	Snapshot() domain.Snapshot
	ApproveSubmission(ctx context.Context, id string)
	RejectSubmission(ctx context.Context, id string)
}

type SubmissionHandler struct {
	svc SubmissionService
}

func NewSubmissionHandler(svc SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		svc: svc,
	}
}

// HandleListSubmissions godoc
// @Summary      List all submissions for review, newest first
// @Tags         submissions
// @Produce      json
// @Param        taskID  query  string  false  "Filter by task"
// @Success      200  {array}  domain.Submission
// @Router       /submissions [get]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleListSubmissions(ctx *gin.Context) {
	submissions := h.svc.Snapshot().Submissions

	if taskID := ctx.Query("taskID"); taskID != "" {
		filtered := make([]domain.Submission, 0, len(submissions))
		for _, s := range submissions {
			if s.TaskID == taskID {
				filtered = append(filtered, s)
			}
		}
		submissions = filtered
	}

	ctx.JSON(http.StatusOK, submissions)
}

// HandleListMySubmissions godoc
// @Summary      List the authenticated user's own submissions
// @Tags         submissions
// @Produce      json
// @Success      200  {array}  domain.Submission
// @Router       /submissions/mine [get]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleListMySubmissions(ctx *gin.Context) {
	email := ctx.GetString(middleware.ContextUserEmailKey)

	all := h.svc.Snapshot().Submissions
	mine := make([]domain.Submission, 0, len(all))
	for _, s := range all {
		if s.UserEmail == email {
			mine = append(mine, s)
		}
	}

	ctx.JSON(http.StatusOK, mine)
}

// HandleApproveSubmission godoc
// @Summary      Approve a pending submission
// @Description  Credits the task's point value to the submitter exactly once. Repeats and unknown ids are silent no-ops.
// @Tags         submissions
// @Param        submissionID  path  string  true  "Submission ID"
// @Success      204
// @Router       /submissions/{submissionID}/approve [post]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleApproveSubmission(ctx *gin.Context) {
	h.svc.ApproveSubmission(ctx.Request.Context(), ctx.Param("submissionID"))

	ctx.Status(http.StatusNoContent)
}

// HandleRejectSubmission godoc
// @Summary      Reject a pending submission
// @Description  Never touches points. Repeats and unknown ids are silent no-ops.
// @Tags         submissions
// @Param        submissionID  path  string  true  "Submission ID"
// @Success      204
// @Router       /submissions/{submissionID}/reject [post]
// @Security     BearerAuth
func (h *SubmissionHandler) HandleRejectSubmission(ctx *gin.Context) {
	h.svc.RejectSubmission(ctx.Request.Context(), ctx.Param("submissionID"))

	ctx.Status(http.StatusNoContent)
}
