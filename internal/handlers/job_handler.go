package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/validation"
)

type JobHandler struct {
	Market   *marketplace.Service
	Validate *validation.Validator
}

func NewJobHandler(market *marketplace.Service, v *validation.Validator) *JobHandler {
	return &JobHandler{Market: market, Validate: v}
}

type CreateJobReq struct {
	Title       string  `json:"title" validate:"notblank,max=255"`
	Description string  `json:"description" validate:"notblank"`
	Budget      float64 `json:"budget" validate:"gt=0"`
}

type SubmitProposalReq struct {
	Message string `json:"message" validate:"notblank"`
}

type UpdateProposalReq struct {
	Status string `json:"status" validate:"required,proposal_decision"`
}

// JobQuery is the query string accepted by the job listings. Budgets stay
// strings so a malformed number is reported as a field error.
type JobQuery struct {
	Q      string `query:"q" json:"q"`
	Min    string `query:"min" json:"min"`
	Max    string `query:"max" json:"max"`
	Status string `query:"status" json:"status" validate:"omitempty,job_status"`
}

func parseBudget(raw, field string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, apperrors.ValidationFields(map[string][]string{field: {"Must be a non-negative number"}})
	}
	return v, nil
}

func (h *JobHandler) filterFromQuery(c *fiber.Ctx) (models.JobFilter, error) {
	var q JobQuery
	if err := c.QueryParser(&q); err != nil {
		return models.JobFilter{}, apperrors.Validation("Invalid query string")
	}
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	if err := h.Validate.Struct(q); err != nil {
		return models.JobFilter{}, err
	}

	lo, err := parseBudget(q.Min, "min")
	if err != nil {
		return models.JobFilter{}, err
	}
	hi, err := parseBudget(q.Max, "max")
	if err != nil {
		return models.JobFilter{}, err
	}
	return models.JobFilter{
		Search:    strings.TrimSpace(q.Q),
		MinBudget: lo,
		MaxBudget: hi,
		Status:    models.JobStatus(q.Status),
	}, nil
}

// List is public.
func (h *JobHandler) List(c *fiber.Ctx) error {
	filter, err := h.filterFromQuery(c)
	if err != nil {
		return fail(c, err)
	}
	jobs, err := h.Market.ListJobs(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", jobs)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}
	job, err := h.Market.GetJob(c.UserContext(), jobID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", job)
}

func (h *JobHandler) Mine(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	filter, err := h.filterFromQuery(c)
	if err != nil {
		return fail(c, err)
	}
	filter.OwnerID = actor.ID

	jobs, err := h.Market.ListJobs(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", jobs)
}

func (h *JobHandler) Awarded(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	jobs, err := h.Market.ListAwardedJobs(c.UserContext(), actor)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", jobs)
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	var req CreateJobReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return fail(c, err)
	}

	id, err := h.Market.CreateJob(c.UserContext(), actor, req.Title, req.Description, req.Budget)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Job created", fiber.Map{"jobId": id})
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}
	if err := h.Market.DeleteJob(c.UserContext(), actor, jobID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Job deleted", fiber.Map{})
}

func (h *JobHandler) SubmitProposal(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}

	var req SubmitProposalReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return fail(c, err)
	}

	id, err := h.Market.SubmitProposal(c.UserContext(), actor, jobID, req.Message)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Proposal submitted", fiber.Map{"proposalId": id})
}

func (h *JobHandler) ListProposals(c *fiber.Ctx) error {
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}
	props, err := h.Market.ListProposalsForJob(c.UserContext(), jobID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", props)
}

func (h *JobHandler) UpdateProposal(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}
	proposalID, err := paramID(c, "proposalId")
	if err != nil {
		return fail(c, err)
	}

	var req UpdateProposalReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := h.Validate.Struct(req); err != nil {
		return fail(c, err)
	}

	status := models.ProposalStatus(req.Status)
	if err := h.Market.UpdateProposalStatus(c.UserContext(), actor, jobID, proposalID, status); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Proposal "+string(status), fiber.Map{})
}
