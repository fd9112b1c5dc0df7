package controller

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-buddy/internal/model"
	"study-buddy/internal/service"
	"study-buddy/utilities"
)

type ResultController struct {
	ResultService service.ResultService
	ReportService service.ReportService
	log           *slog.Logger
}

func NewResultController(resultService service.ResultService, reportService service.ReportService, log *slog.Logger) *ResultController {
	return &ResultController{ResultService: resultService, ReportService: reportService, log: log}
}

// GetResult handles GET /results/:id
func (rc *ResultController) GetResult(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	resultID, err := paramID(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	result, err := rc.ResultService.GetResult(uid, resultID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, resultBody(result))
}

// DownloadReport handles GET /results/:id/report
func (rc *ResultController) DownloadReport(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	resultID, err := paramID(c, "id")
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	pdf, err := rc.ReportService.ResultReport(uid, resultID)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="result-%d.pdf"`, resultID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func resultBody(r *model.Result) gin.H {
	return gin.H{
		"id":         r.ID,
		"quiz_id":    r.QuizID,
		"score":      r.Score,
		"total":      r.Total,
		"percentage": math.Round(r.Percentage()*100) / 100,
		"feedback":   r.Feedback,
		"created_at": r.CreatedAt,
	}
}
