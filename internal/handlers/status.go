package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/quarrydb/janitor/api/v1"
	"github.com/quarrydb/janitor/internal/services"
)

// GetStatus returns the maintenance status and the live check counter
// (GET /status)
func (h *Handler) GetStatus(c *gin.Context) {
	var status v1.Status
	status.FromModel(h.maintenance.Status())
	status.FilesInCheck = h.pool.GetCounter(services.CounterFilesInCheck)

	c.JSON(http.StatusOK, status)
}

// GetCounter returns one pool counter by name
// (GET /counters/{name})
func (h *Handler) GetCounter(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, v1.Counter{
		Name:  name,
		Value: h.pool.GetCounter(name),
	})
}
