package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/request"
	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/response"
	"github.com/adarshamigo11/task-portal/internal/domain"
)

type CampaignService interface {
	Snapshot() domain.Snapshot
	CreateCampaign(ctx context.Context, name, description string) domain.Campaign
	EditCampaign(ctx context.Context, id, name, description string)
	DeleteCampaign(ctx context.Context, id string)
	CreateCategory(ctx context.Context, name, campaignID string) domain.Category
	EditCategory(ctx context.Context, id, name, campaignID string)
	DeleteCategory(ctx context.Context, id string)
}

type CampaignHandler struct {
	svc CampaignService
}

func NewCampaignHandler(svc CampaignService) *CampaignHandler {
	return &CampaignHandler{
		svc: svc,
	}
}

// HandleListCampaigns godoc
// @Summary      List campaigns, newest first
// @Tags         campaigns
// @Produce      json
// @Success      200  {array}  domain.Campaign
// @Router       /campaigns [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleListCampaigns(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.svc.Snapshot().Campaigns)
}

// HandleCreateCampaign godoc
// @Summary      Create a campaign
// @Tags         campaigns
// @Produce      json
// @Param        request  body      request.CampaignRequest true "request body"
// @Success      201      {object}  domain.Campaign
// @Failure      400      {object}  response.Err
// @Router       /campaigns [post]
// @Security     BearerAuth
func (h *CampaignHandler) HandleCreateCampaign(ctx *gin.Context) {
	req := request.CampaignRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created := h.svc.CreateCampaign(ctx.Request.Context(), req.Name, req.Description)

	ctx.JSON(http.StatusCreated, created)
}

// HandleEditCampaign godoc
// @Summary      Replace a campaign's mutable fields
// @Description  Editing an unknown id is a silent no-op.
// @Tags         campaigns
// @Param        campaignID  path  string  true  "Campaign ID"
// @Param        request     body  request.CampaignRequest true "request body"
// @Success      204
// @Failure      400  {object}  response.Err
// @Router       /campaigns/{campaignID} [put]
// @Security     BearerAuth
func (h *CampaignHandler) HandleEditCampaign(ctx *gin.Context) {
	req := request.CampaignRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	h.svc.EditCampaign(ctx.Request.Context(), ctx.Param("campaignID"), req.Name, req.Description)

	ctx.Status(http.StatusNoContent)
}

// HandleDeleteCampaign godoc
// @Summary      Delete a campaign and everything it owns
// @Description  Cascades to the campaign's categories, tasks and their submissions.
// @Tags         campaigns
// @Param        campaignID  path  string  true  "Campaign ID"
// @Success      204
// @Router       /campaigns/{campaignID} [delete]
// @Security     BearerAuth
func (h *CampaignHandler) HandleDeleteCampaign(ctx *gin.Context) {
	h.svc.DeleteCampaign(ctx.Request.Context(), ctx.Param("campaignID"))

	ctx.Status(http.StatusNoContent)
}

// HandleListCategories godoc
// @Summary      List categories, optionally for one campaign
// @Tags         categories
// @Produce      json
// @Param        campaignID  query  string  false  "Filter by campaign"
// @Success      200  {array}  domain.Category
// @Router       /categories [get]
// @Security     BearerAuth
func (h *CampaignHandler) HandleListCategories(ctx *gin.Context) {
	categories := h.svc.Snapshot().Categories

	if campaignID := ctx.Query("campaignID"); campaignID != "" {
		filtered := make([]domain.Category, 0, len(categories))
		for _, c := range categories {
			if c.CampaignID == campaignID {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}

	ctx.JSON(http.StatusOK, categories)
}

// HandleCreateCategory godoc
// @Summary      Create a category under a campaign
// @Tags         categories
// @Produce      json
// @Param        request  body      request.CategoryRequest true "request body"
// @Success      201      {object}  domain.Category
// @Failure      400      {object}  response.Err
// @Router       /categories [post]
// @Security     BearerAuth
func (h *CampaignHandler) HandleCreateCategory(ctx *gin.Context) {
	req := request.CategoryRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created := h.svc.CreateCategory(ctx.Request.Context(), req.Name, req.CampaignID)

	ctx.JSON(http.StatusCreated, created)
}

// HandleEditCategory godoc
// @Summary      Replace a category's mutable fields
// @Tags         categories
// @Param        categoryID  path  string  true  "Category ID"
// @Param        request     body  request.CategoryRequest true "request body"
// @Success      204
// @Failure      400  {object}  response.Err
// @Router       /categories/{categoryID} [put]
// @Security     BearerAuth
func (h *CampaignHandler) HandleEditCategory(ctx *gin.Context) {
	req := request.CategoryRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	h.svc.EditCategory(ctx.Request.Context(), ctx.Param("categoryID"), req.Name, req.CampaignID)

	ctx.Status(http.StatusNoContent)
}

// HandleDeleteCategory godoc
// @Summary      Delete a category, its tasks and their submissions
// @Tags         categories
// @Param        categoryID  path  string  true  "Category ID"
// @Success      204
// @Router       /categories/{categoryID} [delete]
// @Security     BearerAuth
func (h *CampaignHandler) HandleDeleteCategory(ctx *gin.Context) {
	h.svc.DeleteCategory(ctx.Request.Context(), ctx.Param("categoryID"))

	ctx.Status(http.StatusNoContent)
}
