package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/aeroharvest/models"
	"github.com/use-agent/aeroharvest/store"
)

// ListAirports returns a handler for GET /api/v1/airports, serving the
// records of the most recent persisted harvest.
func ListAirports(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := st.Records(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: "failed to read stored records",
				},
			})
			return
		}

		if records == nil {
			records = []models.AirportRecord{}
		}
		c.JSON(http.StatusOK, records)
	}
}
