package handler

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"awdtrack/internal/model"
	"awdtrack/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func parseDashboardFilter(c *fiber.Ctx) (service.DashboardFilter, bool) {
	f := service.DashboardFilter{Division: model.Role(c.Query("division"))}
	if y := c.Query("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 0 {
			return f, false
		}
		f.Year = year
	}
	return f, true
}

// Dashboard returns status counts, deadline pressure, return counts and
// manday aggregates.
//
// @Summary  Dashboard summary
// @Tags     dashboard
// @Security BearerAuth
// @Produce  json
// @Param    division query string false "Division"
// @Param    year     query int    false "Reference year"
// @Success  200 {object} service.Dashboard
// @Router   /api/v1/dashboard [get]
func Dashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, ok := parseDashboardFilter(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "invalid year")
		}
		d, err := svc.Summary(c.UserContext(), sessionOf(c), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// MandayReport downloads the manday register as XLSX.
//
// @Summary  Manday report
// @Tags     reports
// @Security BearerAuth
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param    division query string false "Division"
// @Param    year     query int    false "Reference year"
// @Success  200 {file} file
// @Router   /api/v1/reports/mandays.xlsx [get]
func MandayReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, ok := parseDashboardFilter(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "invalid year")
		}
		var buf bytes.Buffer
		if err := svc.Mandays(c.UserContext(), sessionOf(c), f, &buf); err != nil {
			return writeServiceError(c, err)
		}
		return sendWorkbook(c, reportName("mandays", f.Year), buf.Bytes())
	}
}

// DocumentReport downloads the filtered document register as XLSX.
//
// @Summary  Document report
// @Tags     reports
// @Security BearerAuth
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param    status query string false "Comma separated statuses"
// @Param    year   query int    false "Reference year"
// @Success  200 {file} file
// @Router   /api/v1/reports/documents.xlsx [get]
func DocumentReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, br := parseListQuery(c)
		if br != nil {
			return writeError(c, fiber.StatusBadRequest, br.code, br.message)
		}
		var buf bytes.Buffer
		if err := svc.Documents(c.UserContext(), sessionOf(c), q, &buf); err != nil {
			return writeServiceError(c, err)
		}
		return sendWorkbook(c, reportName("documents", q.Year), buf.Bytes())
	}
}

func reportName(kind string, year int) string {
	if year > 0 {
		return fmt.Sprintf("awd-%s-%d.xlsx", kind, year)
	}
	return fmt.Sprintf("awd-%s.xlsx", kind)
}

func sendWorkbook(c *fiber.Ctx, filename string, body []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(body)
}
