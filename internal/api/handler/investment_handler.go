package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kwolity/realty-api/internal/core/ports"
)

type updateInvestmentRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	GoalAmount  *float64 `json:"goal_amount"  validate:"omitempty,gt=0"`
	ExpectedROI *float64 `json:"expected_roi" validate:"omitempty,gt=0"`
	Status      *string  `json:"status"       validate:"omitempty,oneof=available investing funded completed"`
	Images      []string `json:"images"`
}

type investRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// InvestmentHandler handles HTTP requests for crowdfunded offerings.
type InvestmentHandler struct {
	service ports.InvestmentService
}

func NewInvestmentHandler(service ports.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{service: service}
}

// Create publishes a new offering. Multipart like property creation so image
// files are relayed in the same call.
//
// @Summary      Create an investment offering
// @Tags         investments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title         formData  string  true   "Offering title"
// @Param        description   formData  string  false  "Description"
// @Param        goal_amount   formData  number  true   "Funding goal"
// @Param        expected_roi  formData  number  false  "Expected ROI percentage"
// @Param        status        formData  string  false  "available | investing | funded | completed"
// @Param        type          formData  string  true   "apartment | house | commercial | land"
// @Param        images        formData  file    false  "Image files (repeatable)"
// @Success      201  {object}  domain.Investment
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /investments [post]
func (h *InvestmentHandler) Create(c echo.Context) error {
	goal, err := strconv.ParseFloat(c.FormValue("goal_amount"), 64)
	if err != nil || goal <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "goal_amount must be a positive number")
	}
	roi, _ := strconv.ParseFloat(c.FormValue("expected_roi"), 64)

	input := ports.CreateInvestmentInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		GoalAmount:  goal,
		ExpectedROI: roi,
		Status:      c.FormValue("status"),
		Type:        c.FormValue("type"),
	}
	if input.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		input.ImageURLs = form.Value["image_urls"]
		data, err := readUploads(form.File["images"])
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image upload")
		}
		input.ImageData = data
	}

	investment, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, investment)
}

// List returns every offering.
//
// @Summary      List investment offerings
// @Tags         investments
// @Produce      json
// @Success      200  {array}  domain.Investment
// @Router       /investments [get]
func (h *InvestmentHandler) List(c echo.Context) error {
	investments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, investments)
}

// Get returns one offering by id.
//
// @Summary      Get an investment offering
// @Tags         investments
// @Produce      json
// @Param        id  path  string  true  "Investment id"
// @Success      200  {object}  domain.Investment
// @Failure      404  {object}  map[string]string
// @Router       /investments/{id} [get]
func (h *InvestmentHandler) Get(c echo.Context) error {
	investment, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, investment)
}

// Count returns the total number of offerings.
//
// @Summary      Count investment offerings
// @Tags         investments
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /investments/count [get]
func (h *InvestmentHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// Update applies a partial update to an offering.
//
// @Summary      Update an investment offering
// @Tags         investments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "Investment id"
// @Param        body  body  updateInvestmentRequest  true  "Fields to update"
// @Success      200  {object}  domain.Investment
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /investments/{id} [put]
func (h *InvestmentHandler) Update(c echo.Context) error {
	var req updateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	investment, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateInvestmentInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		ExpectedROI: req.ExpectedROI,
		Status:      req.Status,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, investment)
}

// Delete removes an offering.
//
// @Summary      Delete an investment offering
// @Tags         investments
// @Security     BearerAuth
// @Param        id  path  string  true  "Investment id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /investments/{id} [delete]
func (h *InvestmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Invest contributes funds from the caller to an offering.
//
// @Summary      Invest in an offering
// @Tags         investments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string         true  "Investment id"
// @Param        body  body  investRequest  true  "Contribution amount"
// @Success      200  {object}  domain.Investment
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /investments/{id}/invest [post]
func (h *InvestmentHandler) Invest(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req investRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	investment, err := h.service.Invest(c.Request().Context(), caller, c.Param("id"), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, investment)
}

// ListMine returns offerings the caller has invested in.
//
// @Summary      List own investments
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Investment
// @Router       /investments/mine [get]
func (h *InvestmentHandler) ListMine(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	investments, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, investments)
}
