/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"errors"
	"net/http"

	"chainguard.dev/mcqqc/rubric"
	"github.com/labstack/echo/v4"
)

type profileInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Default bool   `json:"default"`
}

func (s *Server) analyzeDefault(c echo.Context) error {
	return s.analyze(c, s.cfg.DefaultProfile)
}

func (s *Server) analyzeProfile(c echo.Context) error {
	return s.analyze(c, c.Param("profile"))
}

func (s *Server) analyze(c echo.Context, profile string) error {
	q, err := bindQuestion(c)
	if err != nil {
		return err
	}

	results, err := s.analyzer.Run(c.Request().Context(), profile, q)
	if errors.Is(err, rubric.ErrUnknownProfile) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

// bindQuestion decodes and validates the request body.
func bindQuestion(c echo.Context) (*rubric.Question, error) {
	var q rubric.Question
	if err := (&echo.DefaultBinder{}).BindBody(c, &q); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Internal == nil {
			// Not a decoding failure, e.g. an unsupported media type.
			return nil, he
		}
		if he != nil {
			err = he.Internal
		}
		return nil, NewValidationWrap("invalid request body", err)
	}
	if err := q.Validate(); err != nil {
		return nil, NewValidationWrap("invalid question", err)
	}
	return &q, nil
}

func (s *Server) listProfiles(c echo.Context) error {
	profiles := s.analyzer.Profiles()
	out := make([]profileInfo, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profileInfo{
			Name:    p.Name,
			Title:   p.Title,
			Default: p.Name == s.cfg.DefaultProfile,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
