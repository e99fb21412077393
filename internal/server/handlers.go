package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/GoRenal/internal/metrics"
	"github.com/Skufu/GoRenal/internal/renal"
)

type handler struct {
	log     *zap.Logger
	metrics *metrics.Collector
}

func (h *handler) calculate(c *gin.Context) {
	var req calculateRequest
	if !bindJSON(c, &req) {
		return
	}

	report := renal.Calculate(req.toInput())
	h.metrics.ObserveReport(report)
	id := c.GetString(requestIDKey)

	if !report.Valid() {
		h.log.Debug("calculation rejected",
			zap.Strings("fields", report.Errors.Fields()),
			zap.String("request_id", id),
		)
		c.JSON(http.StatusUnprocessableEntity, validationFailedResponse{
			Error:     "validation_failed",
			Fields:    report.Errors,
			Metrics:   report.Metrics,
			RequestID: id,
		})
		return
	}

	h.log.Debug("calculation completed",
		zap.Int("recommendations", len(report.Recommendations)),
		zap.String("request_id", id),
	)
	c.JSON(http.StatusOK, calculateResponse{RequestID: id, Report: report})
}

func (h *handler) bodyMetrics(c *gin.Context) {
	var req bodyMetricsRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, renal.ComputeMetrics(string(req.Weight), string(req.Height)))
}

func (h *handler) stage(c *gin.Context) {
	gfr, err := strconv.ParseFloat(c.Query("gfr"), 64)
	if err != nil || math.IsNaN(gfr) || math.IsInf(gfr, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gfr must be a number"})
		return
	}
	c.JSON(http.StatusOK, renal.ClassifyStage(gfr))
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return false
	}
	return true
}
