package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"facilitydocs/internal/analytics"
	"facilitydocs/internal/model"
	"facilitydocs/internal/service"
)

// parseFilter reads country, status and min_capacity from the query string.
func parseFilter(c *fiber.Ctx) (analytics.Filter, bool) {
	f := analytics.Filter{
		Country: c.Query("country"),
		Status:  model.FacilityStatus(c.Query("status")),
	}
	if v := c.Query("min_capacity"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return f, false
		}
		f.MinCapacity = n
	}
	return f, true
}

// ListFacilities godoc
// @Summary      List facilities
// @Tags         facilities
// @Produce      json
// @Param        country       query  string  false  "Country"
// @Param        status        query  string  false  "Status"
// @Param        min_capacity  query  number  false  "Minimum parsed capacity"
// @Success      200  {array}   model.Facility
// @Failure      400  {object}  errorPayload
// @Router       /facilities [get]
func ListFacilities(svc service.FacilityCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, ok := parseFilter(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MIN_CAPACITY", "invalid min_capacity")
		}
		list, err := svc.List(c.UserContext(), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": list, "total": len(list)})
	}
}

// FacilityStats returns the dashboard summary for the filtered facilities.
func FacilityStats(svc service.FacilityCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, ok := parseFilter(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MIN_CAPACITY", "invalid min_capacity")
		}
		stats, err := svc.Stats(c.UserContext(), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}

// FacilityMarkers returns one map marker per filtered facility.
func FacilityMarkers(svc service.FacilityCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, ok := parseFilter(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MIN_CAPACITY", "invalid min_capacity")
		}
		markers, err := svc.Markers(c.UserContext(), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": markers})
	}
}

func GetFacility(svc service.FacilityCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(f)
	}
}

// CreateFacility godoc
// @Summary      Create a facility
// @Tags         facilities
// @Accept       json
// @Produce      json
// @Param        facility  body      model.Facility  true  "Facility"
// @Success      201       {object}  model.Facility
// @Failure      400       {object}  errorPayload
// @Failure      401       {object}  errorPayload
// @Security     BearerAuth
// @Router       /facilities [post]
func CreateFacility(svc service.FacilityCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Facility
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		out, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

func UpdateFacility(svc service.FacilityCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.Facility
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in.ID = c.Params("id")
		out, err := svc.Update(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	}
}

func DeleteFacility(svc service.FacilityCatalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
