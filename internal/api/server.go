//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package api serves the loaded warehouse's reporting views over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/restaurant"
)

// Store answers the reporting queries.
type Store interface {
	WeeklyPerformance(ctx context.Context, f restaurant.WeeklyFilter) ([]restaurant.WeeklyRow, error)
}

// Server is the reporting HTTP server.
type Server struct {
	echo  *echo.Echo
	store Store
}

// New creates a server with its routes registered.
func New(store Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, store: store}
	e.GET("/api/health", s.health)
	e.GET("/api/weekly-performance", s.weeklyPerformance)
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	logging.Info().Str("addr", addr).Msg("API listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// weeklyPerformance accepts optional year, week, region and location_id
// filters. Numeric filters that do not parse are ignored.
func (s *Server) weeklyPerformance(c echo.Context) error {
	f := restaurant.WeeklyFilter{
		Year:       intParam(c, "year"),
		Week:       intParam(c, "week"),
		Region:     strings.TrimSpace(c.QueryParam("region")),
		LocationID: intParam(c, "location_id"),
	}

	rows, err := s.store.WeeklyPerformance(c.Request().Context(), f)
	if err != nil {
		logging.Error().Err(err).Msg("Weekly performance query failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if rows == nil {
		rows = []restaurant.WeeklyRow{}
	}
	return c.JSON(http.StatusOK, map[string]any{"rows": rows})
}

func intParam(c echo.Context, name string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return nil
	}
	return &v
}
