package handler

import (
	"strings"

	"jobboard-admin/internal/delivery/http/dto"
	"jobboard-admin/internal/delivery/http/middleware"
	"jobboard-admin/internal/domain/job"
	"jobboard-admin/internal/pkg/response"
	"jobboard-admin/internal/store/jobs"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	jobs *jobs.Store
}

func NewJobsHandler(s *jobs.Store) *JobsHandler {
	return &JobsHandler{jobs: s}
}

// RegisterRoutes mounts the job routes on r; r is expected to be guarded.
func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.HandleState)
	r.Post("/jobs/refresh", h.HandleRefresh)
	r.Get("/jobs/groups", h.HandleGroups)
	r.Post("/jobs", h.HandleCreate)
	r.Put("/jobs/:id", h.HandleUpdate)
	r.Delete("/jobs/:id", h.HandleDelete)
	r.Post("/jobs/:id/select", h.HandleSelect)
	r.Delete("/selection", h.HandleClearSelection)
	r.Put("/modals/:which", h.HandleSetModal)
}

func (h *JobsHandler) HandleState(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.jobs.State())
}

func (h *JobsHandler) HandleRefresh(c fiber.Ctx) error {
	if err := h.jobs.FetchAll(c.Context()); err != nil {
		return mapStoreError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.jobs.State())
}

func (h *JobsHandler) HandleGroups(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDepartmentGroups(h.jobs.Groups()))
}

func (h *JobsHandler) HandleCreate(c fiber.Ctx) error {
	d, err := bindDraft(c)
	if err != nil {
		return err
	}
	created, err := h.jobs.Create(c.Context(), d)
	if err != nil {
		return mapStoreError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, created)
}

func (h *JobsHandler) HandleUpdate(c fiber.Ctx) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}
	d, err := bindDraft(c)
	if err != nil {
		return err
	}
	updated, err := h.jobs.Update(c.Context(), id, d)
	if err != nil {
		return mapStoreError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, updated)
}

func (h *JobsHandler) HandleDelete(c fiber.Ctx) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}
	if err := h.jobs.Delete(c.Context(), id); err != nil {
		return mapStoreError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.jobs.State())
}

func (h *JobsHandler) HandleSelect(c fiber.Ctx) error {
	id, err := jobID(c)
	if err != nil {
		return err
	}
	st, ok := h.jobs.SelectByID(id)
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

func (h *JobsHandler) HandleClearSelection(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.jobs.Select(nil))
}

func (h *JobsHandler) HandleSetModal(c fiber.Ctx) error {
	m, err := jobs.ParseModal(c.Params("which"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Unknown modal", nil, err)
	}
	var req dto.ModalRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Visible == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "visible is required", nil, nil)
	}
	st, err := h.jobs.SetModal(m, *req.Visible)
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Unknown modal", nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, st)
}

func jobID(c fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return "", middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, nil)
	}
	return id, nil
}

func bindDraft(c fiber.Ctx) (job.Draft, error) {
	var d job.Draft
	if err := c.Bind().Body(&d); err != nil {
		return d, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := d.Validate(); err != nil {
		return d, mapValidationError(err)
	}
	return d, nil
}
