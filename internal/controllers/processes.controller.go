package controllers

import (
	"errors"
	"net/http"

	"killprocess/internal/logging"
	"killprocess/internal/models"
	"killprocess/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProcessController serves searches over HTTP.
type ProcessController struct {
	svc    *services.ProcessService
	logger *logging.Logger
}

func NewProcessController(svc *services.ProcessService, logger *logging.Logger) *ProcessController {
	return &ProcessController{svc: svc, logger: logger}
}

// Search returns the launcher document for the ?q= query. Without q the
// document is empty; an empty q is a search like any other.
func (pc *ProcessController) Search(c *gin.Context) {
	query, ok := c.GetQuery("q")
	if !ok {
		c.IndentedJSON(http.StatusOK, models.NewResultList())
		return
	}

	list, err := pc.svc.Search(c.Request.Context(), query)
	if err != nil {
		pc.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrListing) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, list)
}

// GetProcessStatus returns the total number of running processes
func (pc *ProcessController) GetProcessStatus(c *gin.Context) {
	count, err := services.ProcessCount(c.Request.Context())
	if err != nil {
		pc.logger.Error("process count failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_processes": count,
	})
}
