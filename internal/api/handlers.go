package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// handleScanForm runs a scan for the browser form. Scan failures render the
// error page with HTTP 200; the serving process never falls over because a
// target was bad or unreachable.
func (s *Server) handleScanForm(c *gin.Context) {
	target := c.PostForm("url")

	report, err := s.scanner.Scan(c.Request.Context(), target, "")
	if err != nil {
		s.logger.Warnw("Scan failed",
			"target", target,
			"error", err,
			"ip", c.ClientIP(),
		)
		c.HTML(http.StatusOK, "error.html", gin.H{
			"Error": err.Error(),
		})
		return
	}

	c.HTML(http.StatusOK, "results.html", gin.H{
		"Host":     report.Host,
		"Findings": report.Findings,
		"Filename": filepath.Base(report.ReportPath),
	})
}

// handleDownload streams a previously written report. Only base names under
// the report directory are served, so traversal segments in the request are
// discarded.
func (s *Server) handleDownload(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == string(filepath.Separator) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	path := filepath.Join(s.reportDir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxMIMEType)
	c.File(path)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"healthy":   true,
		"service":   "webscan",
		"timestamp": time.Now().Unix(),
	})
}

type scanRequest struct {
	Target string `json:"target" binding:"required"`
}

// handleScanAPI is the JSON variant of the scan endpoint.
func (s *Server) handleScanAPI(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warnw("Invalid request body",
			"error", err,
			"ip", c.ClientIP(),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, err := s.scanner.Scan(c.Request.Context(), req.Target, "")
	if err != nil {
		s.logger.Warnw("Scan failed",
			"target", req.Target,
			"error", err,
			"ip", c.ClientIP(),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scan_id":     report.ScanID,
		"host":        report.Host,
		"findings":    report.Findings,
		"report_path": report.ReportPath,
		"duration_ms": report.Duration.Milliseconds(),
	})
}
