package report

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/services/cron"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// Dispatcher runs a job in the background
type Dispatcher interface {
	Dispatch(job cron.Job)
}

// ReportHandler triggers report generation
type ReportHandler struct {
	dispatcher Dispatcher
	job        cron.Job
}

// NewReportHandler creates a new report handler
func NewReportHandler(dispatcher Dispatcher, job cron.Job) *ReportHandler {
	return &ReportHandler{dispatcher: dispatcher, job: job}
}

// GenerateCourseReport handles POST /reports/courses. The report is produced
// asynchronously; its outcome is only visible in the logs and cron_job_logs.
func (h *ReportHandler) GenerateCourseReport(c *fiber.Ctx) error {
	h.dispatcher.Dispatch(h.job)
	return response.Accepted(c, "Course report generation started")
}
