package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/console"
	"github.com/dolabb/dolabbctl/internal/controller"
	"github.com/dolabb/dolabbctl/internal/dashboard"
	"github.com/dolabb/dolabbctl/internal/domain"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loginForm(c echo.Context) error {
	if s.sessions.RequireAnonymous() != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, "login", loginPage{page: page{Title: "Sign in"}})
}

func (s *Server) login(c echo.Context) error {
	if s.sessions.RequireAnonymous() != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	email := strings.TrimSpace(c.FormValue("email"))
	if _, err := s.sessions.Login(c.Request().Context(), email, c.FormValue("password")); err != nil {
		s.logger.InfoContext(c.Request().Context(), "console login refused", "email", email, "error", err)
		return c.Render(http.StatusUnauthorized, "login", loginPage{
			page:  page{Title: "Sign in", Error: domain.Message(err)},
			Email: email,
		})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c echo.Context) error {
	if err := s.sessions.Logout(c.Request().Context()); err != nil {
		s.logger.WarnContext(c.Request().Context(), "clearing session failed", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) dashboard(c echo.Context) error {
	base := s.page(c, "Dashboard", "")
	snap, err := dashboard.Load(c.Request().Context(), s.stats, s.dashboardTimeout, s.logger)
	if err != nil {
		base.Error = "Failed to load dashboard: " + domain.Message(err)
	}
	return c.Render(http.StatusOK, "dashboard", newDashboardPage(base, snap))
}

func (s *Server) list(c echo.Context) error {
	p, err := s.panel(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if c.QueryParam("dismiss") != "" {
		p.DismissError()
	}
	pageNum, _ := strconv.Atoi(c.QueryParam("page"))
	if err := p.Load(ctx, filterFromQuery(c.QueryParam), pageNum); err != nil && !errors.Is(err, domain.ErrSuperseded) {
		s.logger.WarnContext(ctx, "list load failed", "resource", p.Resource(), "error", err)
	}
	return c.Render(http.StatusOK, "list", newListPage(s.page(c, p.Title(), p.Resource()), p))
}

func (s *Server) exportPDF(c echo.Context) error {
	p, err := s.panel(c)
	if err != nil {
		return err
	}
	if err := s.ensureLoaded(c, p); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, domain.Message(err))
	}
	var buf bytes.Buffer
	if err := p.WritePDF(&buf, time.Now()); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", p.Resource()+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func (s *Server) detail(c echo.Context) error {
	p, err := s.panel(c)
	if err != nil {
		return err
	}
	d, err := p.Show(c.Request().Context(), c.Param("id"))
	if err != nil {
		return recordError(err)
	}
	return c.Render(http.StatusOK, "detail", detailPage{
		page:     s.page(c, d.Title, p.Resource()),
		Resource: p.Resource(),
		Detail:   d,
		Links:    actionLinks(p, d.ID, d.Actions),
		BackURL:  listURL(p.Resource(), p.Table().Filter, p.Table().Page.Current),
	})
}

func (s *Server) confirm(c echo.Context) error {
	p, err := s.panel(c)
	if err != nil {
		return err
	}
	id, kind := c.Param("id"), domain.ActionKind(c.Param("action"))
	req, ok, err := p.Confirmation(c.Request().Context(), id, kind)
	if err != nil {
		return recordError(err)
	}

	t := p.Text(kind)
	fields := fieldsFor(p.Resource(), kind)
	cp := confirmPage{
		page:        s.page(c, sentence(t.Verb), p.Resource()),
		Resource:    p.Resource(),
		RecordID:    id,
		Message:     req.Message,
		AskReason:   req.AskReason,
		Destructive: req.Destructive,
		Fields:      fields,
		Multipart:   hasFile(fields),
		FormAction:  actURL(p.Resource(), id, kind),
		CancelURL:   recordURL(p.Resource(), id),
		SubmitLabel: sentence(t.Verb),
	}
	if !ok {
		cp.Message = fmt.Sprintf("%s %s?", sentence(t.Verb), id)
	}
	return c.Render(http.StatusOK, "confirm", cp)
}

func (s *Server) act(c echo.Context) error {
	p, err := s.panel(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	in, done, err := formInput(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer done()

	if err := s.ensureLoaded(c, p); err != nil {
		s.logger.WarnContext(ctx, "list load before action failed", "resource", p.Resource(), "error", err)
	}
	kind := domain.ActionKind(c.Param("action"))
	notice, err := p.Act(ctx, c.Param("id"), kind, in)
	if err != nil {
		s.logger.InfoContext(ctx, "console action failed",
			"resource", p.Resource(), "record", c.Param("id"), "action", kind, "error", err)
	}
	base := s.page(c, p.Title(), p.Resource())
	base.Notice = &notice
	return c.Render(http.StatusOK, "list", newListPage(base, p))
}

func (s *Server) collectionForm(c echo.Context) error {
	p, err := s.panel(c)
	if err != nil {
		return err
	}
	kind := domain.ActionKind(c.Param("action"))
	if !slices.Contains(p.CollectionActions(), kind) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s does not support %s", p.Resource(), kind))
	}
	t := p.Text(kind)
	fields := fieldsFor(p.Resource(), kind)
	return c.Render(http.StatusOK, "confirm", confirmPage{
		page:        s.page(c, sentence(t.Verb), p.Resource()),
		Resource:    p.Resource(),
		Message:     fmt.Sprintf("%s %s", sentence(t.Verb), strings.ToLower(p.Title())),
		Fields:      fields,
		Multipart:   hasFile(fields),
		FormAction:  collectionURL(p.Resource(), kind),
		CancelURL:   listURL(p.Resource(), p.Table().Filter, p.Table().Page.Current),
		SubmitLabel: sentence(t.Verb),
	})
}

func (s *Server) collectionAct(c echo.Context) error {
	p, err := s.panel(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	in, done, err := formInput(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer done()

	kind := domain.ActionKind(c.Param("action"))
	notice, err := p.ActOnCollection(ctx, kind, in)
	if err != nil {
		s.logger.InfoContext(ctx, "console action failed", "resource", p.Resource(), "action", kind, "error", err)
	}
	base := s.page(c, p.Title(), p.Resource())
	base.Notice = &notice
	return c.Render(http.StatusOK, "list", newListPage(base, p))
}

func (s *Server) panel(c echo.Context) (console.Panel, error) {
	p, ok := s.panels.Get(c.Param("resource"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown resource "+c.Param("resource"))
	}
	return p, nil
}

// ensureLoaded mounts p from the request's query when nothing is loaded
// yet, so a deep link works on a fresh server.
func (s *Server) ensureLoaded(c echo.Context, p console.Panel) error {
	if p.Table().Status != string(controller.StatusIdle) {
		return nil
	}
	pageNum, _ := strconv.Atoi(c.QueryParam("page"))
	err := p.Load(c.Request().Context(), filterFromQuery(c.QueryParam), pageNum)
	if errors.Is(err, domain.ErrSuperseded) {
		return nil
	}
	return err
}

func (s *Server) page(c echo.Context, title, active string) page {
	pg := page{Title: title}
	if admin, ok := c.Get(adminKey).(client.Admin); ok {
		pg.Admin = admin.Name
		if pg.Admin == "" {
			pg.Admin = admin.Email
		}
	}
	for _, p := range s.panels.All() {
		pg.Nav = append(pg.Nav, navItem{Name: p.Resource(), Title: p.Title(), Active: p.Resource() == active})
	}
	return pg
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code, msg = he.Code, fmt.Sprint(he.Message)
	} else {
		s.logger.ErrorContext(c.Request().Context(), "console handler failed", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		pg := s.page(c, http.StatusText(code), "")
		pg.Error = msg
		err = c.Render(code, "error", pg)
	}
	if err != nil {
		s.logger.ErrorContext(c.Request().Context(), "writing error page failed", "error", err)
	}
}

// recordError maps a record lookup failure to an HTTP error.
func recordError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	case errors.Is(err, domain.ErrActionNotAllowed), errors.Is(err, domain.ErrUnknownAction):
		return echo.NewHTTPError(http.StatusConflict, "that action is not available for this record")
	}
	return echo.NewHTTPError(http.StatusBadGateway, domain.Message(err))
}

// formInput gathers a submitted action form. Blank fields are treated as
// absent. done closes any uploaded file.
func formInput(c echo.Context) (console.Input, func(), error) {
	in := console.Input{Values: make(map[string]string)}
	done := func() {}

	form, err := c.FormParams()
	if err != nil {
		return in, done, fmt.Errorf("reading form: %w", err)
	}
	for k, v := range form {
		if len(v) == 0 || strings.TrimSpace(v[0]) == "" {
			continue
		}
		if k == "reason" {
			in.Reason = v[0]
			continue
		}
		in.Values[k] = v[0]
	}

	fh, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, done, nil
	case err != nil:
		return in, done, fmt.Errorf("reading upload: %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return in, done, fmt.Errorf("opening upload: %w", err)
	}
	in.File, in.FileName = f, fh.Filename
	return in, func() { f.Close() }, nil
}
