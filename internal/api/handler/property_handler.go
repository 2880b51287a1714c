package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kwolity/realty-api/internal/core/ports"
)

// maxUploadBytes caps a single relayed image at 10 MiB.
const maxUploadBytes = 10 << 20

// PropertyHandler handles HTTP requests for property listings.
type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// Create publishes a new listing. The request is multipart/form-data so image
// files can be relayed to the media host in the same call.
//
// @Summary      Create a property listing
// @Tags         properties
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Listing title"
// @Param        description  formData  string  false  "Description"
// @Param        type         formData  string  true   "apartment | house | commercial | land"
// @Param        status       formData  string  false  "available | rent | sold"
// @Param        price        formData  number  true   "Price"
// @Param        location     formData  string  true   "Location"
// @Param        images       formData  file    false  "Image files (repeatable)"
// @Success      201  {object}  domain.Property
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be a positive number")
	}

	input := ports.CreatePropertyInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Type:        c.FormValue("type"),
		Status:      c.FormValue("status"),
		Price:       price,
		Location:    c.FormValue("location"),
	}
	if input.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if input.Location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "location is required")
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		input.ImageURLs = form.Value["image_urls"]
		data, err := readUploads(form.File["images"])
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image upload")
		}
		input.ImageData = data
	}

	property, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, property)
}

// List returns a filtered page of listings.
//
// @Summary      List property listings
// @Tags         properties
// @Produce      json
// @Param        status     query  string  false  "Listing status"
// @Param        type       query  string  false  "Property type"
// @Param        location   query  string  false  "Location substring (case-insensitive)"
// @Param        title      query  string  false  "Title substring (case-insensitive)"
// @Param        min_price  query  number  false  "Minimum price"
// @Param        max_price  query  number  false  "Maximum price"
// @Param        page       query  int     false  "Page (1-based)"
// @Param        limit      query  int     false  "Page size (max 100)"
// @Success      200  {object}  listPropertiesResponse
// @Router       /properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	filter := ports.ListPropertiesFilter{
		Status:   c.QueryParam("status"),
		Type:     c.QueryParam("type"),
		Location: c.QueryParam("location"),
		Title:    c.QueryParam("title"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(c.QueryParam("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(c.QueryParam("max_price"), 64)
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listPropertiesResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get returns one listing by id.
//
// @Summary      Get a property listing
// @Tags         properties
// @Produce      json
// @Param        id  path  string  true  "Property id"
// @Success      200  {object}  domain.Property
// @Failure      404  {object}  map[string]string
// @Router       /properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	property, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

// Count returns the total number of listings.
//
// @Summary      Count property listings
// @Tags         properties
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /properties/count [get]
func (h *PropertyHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// Update applies a partial update to a listing.
//
// @Summary      Update a property listing
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "Property id"
// @Param        body  body  updatePropertyRequest  true  "Fields to update"
// @Success      200  {object}  domain.Property
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	var req updatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	property, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		Price:       req.Price,
		Location:    req.Location,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

// Delete removes a listing.
//
// @Summary      Delete a property listing
// @Tags         properties
// @Security     BearerAuth
// @Param        id  path  string  true  "Property id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSaved returns the caller's saved listings.
//
// @Summary      List saved properties
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Property
// @Router       /users/saved-properties [get]
func (h *PropertyHandler) ListSaved(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	properties, err := h.service.ListSaved(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, properties)
}

// Save adds a listing to the caller's saved set.
//
// @Summary      Save a property
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        property_id  path  string  true  "Property id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/saved-properties/{property_id} [post]
func (h *PropertyHandler) Save(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Save(c.Request().Context(), caller.UserID, c.Param("property_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "property saved"})
}

// Unsave removes a listing from the caller's saved set.
//
// @Summary      Unsave a property
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        property_id  path  string  true  "Property id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /users/saved-properties/{property_id} [delete]
func (h *PropertyHandler) Unsave(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Unsave(c.Request().Context(), caller.UserID, c.Param("property_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "property unsaved"})
}

// readUploads buffers multipart files into memory for the media relay.
func readUploads(files []*multipart.FileHeader) ([][]byte, error) {
	if len(files) == 0 {
		return nil, nil
	}
	data := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		buf, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		f.Close()
		if err != nil {
			return nil, err
		}
		data = append(data, buf)
	}
	return data, nil
}
