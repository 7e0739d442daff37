package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/middleware"
	"github.com/yukikurage/event-management-api/internal/validation"
)

// parseIDParam reads a positive numeric path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "ID inválido")
		return 0, false
	}
	return id, true
}

// bindJSON binds the body into req, answering 400 with field details on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			apierrors.BadRequest(c, "Corpo da requisição vazio")
			return false
		}
		if details := validation.Details(err); details != nil {
			apierrors.BadRequestWithDetails(c, "Dados inválidos", details)
			return false
		}
		apierrors.BadRequest(c, "Corpo da requisição inválido")
		return false
	}
	return true
}

// currentUserID answers 401 when RequireAuth did not run.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// parseDate accepts RFC3339 and the zone-less forms of <input type="datetime-local">,
// which are read in the server's location.
func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// requestTime is a body date field parsed with parseDate.
type requestTime struct {
	time.Time
}

func (t *requestTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseDate(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ptr returns nil for an absent field.
func (t *requestTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

// parseDateQuery reads an optional date query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := parseDate(raw)
	if err != nil {
		apierrors.BadRequest(c, "Data inválida em "+name)
		return nil, false
	}
	return &t, true
}
