package scheduling

import (
	"errors"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docsched/docsched/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleNurse, auth.RoleRegistrar))
	readGroup.GET("/appointments/:id", h.GetAppointment)
	readGroup.GET("/appointments/free-intervals/:doctor_id", h.GetFreeIntervals)

	writeGroup := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleRegistrar))
	writeGroup.POST("/appointments", h.CreateAppointment)
}

// httpError maps service errors onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrRuleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionDurationExceeded),
		errors.Is(err, ErrDateExceedsHorizon),
		errors.Is(err, ErrScheduleNotAvailable),
		errors.Is(err, ErrInvalidRule):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var req CreateRuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rule, err := h.svc.CreateAppointment(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rule)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rule, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rule)
}

func (h *Handler) GetFreeIntervals(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	since, err := parseDateParam(c, "since")
	if err != nil {
		return err
	}
	until, err := parseDateParam(c, "until")
	if err != nil {
		return err
	}
	slots, err := h.svc.GetFreeIntervals(c.Request().Context(), doctorID, since, until)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

// parseDateParam reads an optional YYYY-MM-DD query parameter.
func parseDateParam(c echo.Context, name string) (civil.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+": expected YYYY-MM-DD")
	}
	return d, nil
}
