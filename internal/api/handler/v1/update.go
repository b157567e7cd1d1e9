package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/request"
	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/response"
	"github.com/adarshamigo11/task-portal/internal/domain"
)

type UpdateService interface {
	Snapshot() domain.Snapshot
	PublishUpdate(ctx context.Context, title, details string) domain.Update
	DeleteUpdate(ctx context.Context, id string)
}

type UpdateHandler struct {
	svc UpdateService
}

func NewUpdateHandler(svc UpdateService) *UpdateHandler {
	return &UpdateHandler{
		svc: svc,
	}
}

// HandleListUpdates godoc
// @Summary      List announcements, newest first
// @Tags         updates
// @Produce      json
// @Success      200  {array}  domain.Update
// @Router       /updates [get]
// @Security     BearerAuth
func (h *UpdateHandler) HandleListUpdates(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.svc.Snapshot().Updates)
}

// HandlePublishUpdate godoc
// @Summary      Publish an announcement
// @Tags         updates
// @Produce      json
// @Param        request  body      request.UpdateRequest true "request body"
// @Success      201      {object}  domain.Update
// @Failure      400      {object}  response.Err
// @Router       /updates [post]
// @Security     BearerAuth
func (h *UpdateHandler) HandlePublishUpdate(ctx *gin.Context) {
	req := request.UpdateRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created := h.svc.PublishUpdate(ctx.Request.Context(), req.Title, req.Details)

	ctx.JSON(http.StatusCreated, created)
}

// HandleDeleteUpdate godoc
// @Summary      Delete an announcement
// @Tags         updates
// @Param        updateID  path  string  true  "Update ID"
// @Success      204
// @Router       /updates/{updateID} [delete]
// @Security     BearerAuth
func (h *UpdateHandler) HandleDeleteUpdate(ctx *gin.Context) {
	h.svc.DeleteUpdate(ctx.Request.Context(), ctx.Param("updateID"))

	ctx.Status(http.StatusNoContent)
}
