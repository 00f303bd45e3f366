package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/quarrydb/janitor/api/v1"
	"github.com/quarrydb/janitor/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetLedgerFiles returns the tracked files with prefix filtering and pagination
// (GET /ledger/files)
func (h *Handler) GetLedgerFiles(c *gin.Context) {
	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	pageSize := defaultPageSize
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	filters := []store.ListOption{}
	if prefix := c.Query("prefix"); prefix != "" {
		filters = append(filters, store.WithPathPrefix(prefix))
	}

	listOpts := append([]store.ListOption{}, filters...)
	listOpts = append(listOpts,
		store.WithLimit(uint64(pageSize)),
		store.WithOffset(uint64((page-1)*pageSize)),
	)

	records, err := h.ledger.Tracked(c.Request.Context(), listOpts...)
	if err != nil {
		zap.S().Named("ledger_handler").Errorw("failed to list ledger files", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ledger files"})
		return
	}

	// Total count without pagination
	total, err := h.ledger.TrackedCount(c.Request.Context(), filters...)
	if err != nil {
		zap.S().Named("ledger_handler").Errorw("failed to count ledger files", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ledger files"})
		return
	}

	pageCount := (total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	files := make([]v1.FileRecord, 0, len(records))
	for _, rec := range records {
		files = append(files, v1.NewFileRecordFromModel(rec))
	}

	c.JSON(http.StatusOK, v1.FileListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     total,
		Files:     files,
	})
}

// CheckLedger runs a full verification pass over the tracked set
// (POST /ledger/check)
func (h *Handler) CheckLedger(c *gin.Context) {
	report, err := h.maintenance.CheckNow(c.Request.Context())
	if err != nil {
		zap.S().Named("ledger_handler").Errorw("ledger check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger check failed"})
		return
	}

	c.JSON(http.StatusOK, v1.NewCheckReportFromModel(report))
}
