package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/response"
	"github.com/adarshamigo11/task-portal/internal/api/middleware"
	"github.com/adarshamigo11/task-portal/internal/domain"
)

var errUserNotFound = errors.New("user not found")

type UserService interface {
	UserByEmail(email string) (domain.User, bool)
	Leaderboard() []domain.User
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated user's profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      404  {object}  response.Err
// @Router       /me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, ok := h.svc.UserByEmail(ctx.GetString(middleware.ContextUserEmailKey))
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound(errUserNotFound))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetLeaderboard godoc
// @Summary      Rank users by points, highest first
// @Description  The admin account is excluded from the ranking.
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /leaderboard [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetLeaderboard(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.svc.Leaderboard())
}
