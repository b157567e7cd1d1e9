package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/request"
	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/response"
	"github.com/adarshamigo11/task-portal/internal/domain"
	"github.com/adarshamigo11/task-portal/internal/store"
)

// The whole file travels inside the submission record, so uploads are capped
// well below anything a database row would struggle with.
const maxUploadBytes = 8 << 20

var (
	errTaskNotFound = errors.New("task not found")
	errFileTooLarge = errors.New("file exceeds the upload limit")
	errMissingFile  = errors.New("missing file field")
)

type TaskService interface {
	Snapshot() domain.Snapshot
	TaskByID(id string) (domain.Task, bool)
	PublishTask(ctx context.Context, fields store.TaskFields) domain.Task
	EditTask(ctx context.Context, id string, fields store.TaskFields)
	DeleteTask(ctx context.Context, id string)
	SetVisited(ctx context.Context, taskID string)
	SubmitTask(ctx context.Context, taskID, fileName string, content []byte) (domain.Submission, error)
}

type TaskHandler struct {
	svc TaskService
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		svc: svc,
	}
}

// HandleListTasks godoc
// @Summary      List tasks, newest first
// @Tags         tasks
// @Produce      json
// @Param        categoryID  query  string  false  "Filter by category"
// @Success      200  {array}  domain.Task
// @Router       /tasks [get]
// @Security     BearerAuth
func (h *TaskHandler) HandleListTasks(ctx *gin.Context) {
	tasks := h.svc.Snapshot().Tasks

	if categoryID := ctx.Query("categoryID"); categoryID != "" {
		filtered := make([]domain.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.CategoryID == categoryID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	ctx.JSON(http.StatusOK, tasks)
}

// HandleGetTask godoc
// @Summary      Get one task
// @Tags         tasks
// @Produce      json
// @Param        taskID  path  string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  response.Err
// @Router       /tasks/{taskID} [get]
// @Security     BearerAuth
func (h *TaskHandler) HandleGetTask(ctx *gin.Context) {
	task, ok := h.svc.TaskByID(ctx.Param("taskID"))
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound(errTaskNotFound))

		return
	}

	ctx.JSON(http.StatusOK, task)
}

// HandlePublishTask godoc
// @Summary      Publish a new task
// @Description  Status is always forced to published; the campaign id is derived from the category when it resolves.
// @Tags         tasks
// @Produce      json
// @Param        request  body      request.TaskRequest true "request body"
// @Success      201      {object}  domain.Task
// @Failure      400      {object}  response.Err
// @Router       /tasks [post]
// @Security     BearerAuth
func (h *TaskHandler) HandlePublishTask(ctx *gin.Context) {
	req := request.TaskRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created := h.svc.PublishTask(ctx.Request.Context(), taskFields(req))

	ctx.JSON(http.StatusCreated, created)
}

// HandleEditTask godoc
// @Summary      Replace a task's mutable fields
// @Description  Lifecycle status is preserved; editing an unknown id is a silent no-op.
// @Tags         tasks
// @Param        taskID   path  string  true  "Task ID"
// @Param        request  body  request.TaskRequest true "request body"
// @Success      204
// @Failure      400  {object}  response.Err
// @Router       /tasks/{taskID} [put]
// @Security     BearerAuth
func (h *TaskHandler) HandleEditTask(ctx *gin.Context) {
	req := request.TaskRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	h.svc.EditTask(ctx.Request.Context(), ctx.Param("taskID"), taskFields(req))

	ctx.Status(http.StatusNoContent)
}

// HandleDeleteTask godoc
// @Summary      Delete a task and its submissions
// @Tags         tasks
// @Param        taskID  path  string  true  "Task ID"
// @Success      204
// @Router       /tasks/{taskID} [delete]
// @Security     BearerAuth
func (h *TaskHandler) HandleDeleteTask(ctx *gin.Context) {
	h.svc.DeleteTask(ctx.Request.Context(), ctx.Param("taskID"))

	ctx.Status(http.StatusNoContent)
}

// HandleVisitTask godoc
// @Summary      Mark a task as visited by the current user
// @Description  Idempotent; a repeat visit changes nothing.
// @Tags         tasks
// @Param        taskID  path  string  true  "Task ID"
// @Success      204
// @Router       /tasks/{taskID}/visit [post]
// @Security     BearerAuth
func (h *TaskHandler) HandleVisitTask(ctx *gin.Context) {
	h.svc.SetVisited(ctx.Request.Context(), ctx.Param("taskID"))

	ctx.Status(http.StatusNoContent)
}

// HandleSubmitTask godoc
// @Summary      Submit a file attachment for a task
// @Description  The file is embedded into the submission as a base64 data URL.
// @Tags         tasks,submissions
// @Accept       mpfd
// @Produce      json
// @Param        taskID  path      string  true  "Task ID"
// @Param        file    formData  file    true  "attachment"
// @Success      201     {object}  domain.Submission
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Router       /tasks/{taskID}/submissions [post]
// @Security     BearerAuth
func (h *TaskHandler) HandleSubmitTask(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errMissingFile))

		return
	}
	if header.Size > maxUploadBytes {
		response.RenderErr(ctx, response.ErrBadRequest(errFileTooLarge))

		return
	}

	file, err := header.Open()
	if err != nil {
		err = fmt.Errorf("v1.HandleSubmitTask -> header.Open -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		err = fmt.Errorf("v1.HandleSubmitTask -> io.ReadAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	created, err := h.svc.SubmitTask(ctx.Request.Context(), ctx.Param("taskID"), header.Filename, content)
	if err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			response.RenderErr(ctx, response.ErrUnauthorized(err))

			return
		}

		err = fmt.Errorf("v1.HandleSubmitTask -> h.svc.SubmitTask -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func taskFields(req request.TaskRequest) store.TaskFields {
	return store.TaskFields{
		Title:      req.Title,
		Details:    req.Details,
		Image:      req.Image,
		Points:     req.Points,
		CategoryID: req.CategoryID,
		CampaignID: req.CampaignID,
	}
}
