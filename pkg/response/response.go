package response

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// Envelope is the uniform response contract: every operation answers with
// success/message/data/errors, bulk operations add the processing counters
// and aggregates add a count. Callers never need to handle anything else.
type Envelope struct {
	Success        bool        `json:"success"`
	Message        string      `json:"message"`
	Data           interface{} `json:"data,omitempty"`
	Errors         []string    `json:"errors,omitempty"`
	Count          *int        `json:"count,omitempty"`
	TotalProcessed *int        `json:"total_processed,omitempty"`
	Successful     *int        `json:"successful,omitempty"`
	Failed         *int        `json:"failed,omitempty"`
}

// OK sends a success envelope.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Bulk sends the envelope for a bulk or relationship operation. Success means
// zero failed items; partial failure keeps HTTP 200 with counters populated.
func Bulk(c *gin.Context, status int, message string, result *models.BulkResult) {
	c.JSON(status, Envelope{
		Success:        result.OK(),
		Message:        message,
		Errors:         result.Errors,
		TotalProcessed: &result.TotalProcessed,
		Successful:     &result.Successful,
		Failed:         &result.Failed,
	})
}

// Aggregate sends the envelope for an aggregate query.
func Aggregate(c *gin.Context, status int, message string, result *models.AggregateResult) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    gin.H{"results": result.Results},
		Count:   &result.Count,
	})
}

// Error converts any error into a failure envelope; the HTTP status comes
// from the typed error, defaulting to 500.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, Envelope{
		Success: false,
		Message: appErr.Message,
		Errors:  []string{appErr.Error()},
	})
}
