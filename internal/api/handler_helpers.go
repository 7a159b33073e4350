package api

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal"
	"github.com/NandiniLearnsCode/Kindle-Momentum-App/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleServiceError maps sentinel error kinds onto HTTP statuses; anything
// unrecognized is a storage failure and surfaces as 500.
func HandleServiceError(c *gin.Context, logger internal.Logger, err error, msg string) {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		HandleError(c, logger, err, 404, msg)
	case errors.Is(err, internal.ErrInvalidInput):
		HandleError(c, logger, err, 400, msg)
	default:
		HandleError(c, logger, err, 500, msg)
	}
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(200, response.Success(data, meta))
}

// UserID parses the :id path parameter.
func UserID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.ErrInvalidInput
	}
	return id, nil
}
