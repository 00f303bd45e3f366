package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quarrydb/janitor/internal/ledger"
	"github.com/quarrydb/janitor/internal/services"
	"github.com/quarrydb/janitor/pkg/bgpool"
)

type Handler struct {
	maintenance *services.Maintenance
	ledger      *ledger.Ledger
	pool        *bgpool.Pool
}

func New(maintenance *services.Maintenance, l *ledger.Ledger, pool *bgpool.Pool) *Handler {
	return &Handler{
		maintenance: maintenance,
		ledger:      l,
		pool:        pool,
	}
}

// Register wires the handler routes under the given group.
func (h *Handler) Register(r *gin.RouterGroup) {
	r.GET("/status", h.GetStatus)
	r.GET("/counters/:name", h.GetCounter)
	r.GET("/ledger/files", h.GetLedgerFiles)
	r.POST("/ledger/check", h.CheckLedger)
}
