package echoapi

import (
	"net/http"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceApi struct {
	svc        attendance.ServiceInterface
	mailSvc    core.EmailService
	conf       *core.Config
	validate   *validator.Validate
	translator ut.Translator
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:        deps.AttendanceSvc,
		mailSvc:    deps.MailSvc,
		conf:       deps.Conf,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	ag := g.Group("/attendance", jwt)
	ag.GET("/day", api.day)
	ag.GET("/month", api.month)
	ag.GET("/summary", api.summary)
	ag.POST("/mark", api.mark)
	ag.POST("/report", api.report, adminMiddleware())
}

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	// MarkRequest is the mobile client's mark payload. The actor is stamped
	// from the authenticated operator claims, not from the request body.
	MarkRequest struct {
		PersonID     string `json:"person_id"`
		Scope        string `json:"scope"`
		Date         string `json:"date"`
		Kind         string `json:"kind"`
		Relationship string `json:"relationship"`
		Source       string `json:"source"`
	}
)

// Handlers

func (api *attendanceApi) day(ctx echo.Context) error {
	var q DayQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to DayQuery")
	}
	scope, date, err := q.Clean()
	if err != nil {
		return err
	}

	records, err := api.svc.Day(ctx.Request().Context(), scope, date)
	if err != nil {
		return errors.Wrap(err, "reconciling day")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) month(ctx echo.Context) error {
	var q MonthQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to MonthQuery")
	}
	scope, year, month, err := q.Clean()
	if err != nil {
		return err
	}

	grids, err := api.svc.Month(ctx.Request().Context(), scope, year, month)
	if err != nil {
		return errors.Wrap(err, "projecting month")
	}
	if grids == nil {
		grids = []attendance.Grid{}
	}
	return ctx.JSON(http.StatusOK, grids)
}

func (api *attendanceApi) summary(ctx echo.Context) error {
	var q DayQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to DayQuery")
	}
	scope, date, err := q.Clean()
	if err != nil {
		return err
	}

	s, err := api.svc.Summary(ctx.Request().Context(), scope, date)
	if err != nil {
		return errors.Wrap(err, "summarizing day")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data MarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkRequest")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	date := nowFunc().UTC()
	if data.Date != "" {
		if date, err = time.Parse(queryDateFormat, data.Date); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date; expected YYYY-MM-DD"})
		}
	}

	mark := attendance.Mark{
		PersonID:     data.PersonID,
		Scope:        data.Scope,
		Date:         date,
		Kind:         attendance.EventKind(data.Kind),
		ActorName:    claims.Name,
		ActorRole:    claims.Role,
		Relationship: data.Relationship,
		Source:       data.Source,
	}
	if err = mark.Validate(api.validate); err != nil {
		return err
	}

	// the server response is authoritative; the client reconciles its
	// optimistic update against the record returned here
	rec, err := api.svc.Mark(ctx.Request().Context(), mark)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) report(ctx echo.Context) error {
	var q DayQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to DayQuery")
	}
	scope, date, err := q.Clean()
	if err != nil {
		return err
	}
	if len(api.conf.ReportRecipients) == 0 {
		return core.NewValidationError(errors.New("no report recipients configured"))
	}

	s, err := api.svc.Summary(ctx.Request().Context(), scope, date)
	if err != nil {
		return errors.Wrap(err, "summarizing day")
	}

	to := make([]mail.Address, 0, len(api.conf.ReportRecipients))
	for _, addr := range api.conf.ReportRecipients {
		to = append(to, mail.Address{Address: addr})
	}
	api.mailSvc.SendMessages(attendance.SummaryReportEmail(s, date, to))

	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Report sent to the configured recipients."})
}
