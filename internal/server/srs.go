package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/srs"
	"github.com/abhisek/crosstrainer/internal/store"
)

func (s *Server) handleDue(c *gin.Context) {
	depth, err := queryIntPtr(c, "depth")
	if err != nil {
		s.fail(c, err)
		return
	}
	limit, err := queryInt(c, "limit", srs.DefaultDueLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	due, err := s.srs.Due(c.Request.Context(), depth, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, due)
}

type reviewRequest struct {
	SRSItemID      *int64  `json:"srs_item_id"`
	Quality        *int    `json:"quality"`
	ResponseTimeMs *int64  `json:"response_time_ms"`
	UserSolution   *string `json:"user_solution"`
	Notes          *string `json:"notes"`
}

func (s *Server) handleReview(c *gin.Context) {
	var req reviewRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.SRSItemID == nil || req.Quality == nil {
		s.fail(c, &apperr.ValidationError{Reason: "srs_item_id and quality are required"})
		return
	}
	res, err := s.srs.Review(c.Request.Context(), srs.ReviewInput{
		SRSItemID:      *req.SRSItemID,
		Quality:        *req.Quality,
		ResponseTimeMs: req.ResponseTimeMs,
		UserSolution:   req.UserSolution,
		Notes:          req.Notes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":   res.Item,
		"passed": res.Outcome.Passed,
		"label":  res.Label,
	})
}

func (s *Server) handleSolution(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	depth, err := queryInt(c, "depth", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	sol, err := s.srs.Solution(c.Request.Context(), id, depth)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sol)
}

type addItemRequest struct {
	SolveID *int64  `json:"solve_id"`
	Depth   *int    `json:"depth"`
	Notes   *string `json:"notes"`
}

func (s *Server) handleAddItem(c *gin.Context) {
	var req addItemRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.SolveID == nil || req.Depth == nil {
		s.fail(c, &apperr.ValidationError{Reason: "solve_id and depth are required"})
		return
	}
	item, err := s.srs.Add(c.Request.Context(), srs.AddInput{
		SolveID: *req.SolveID,
		Depth:   *req.Depth,
		Notes:   req.Notes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (s *Server) handleRemoveItem(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.srs.Remove(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted_id": id})
}

func (s *Server) handleSRSStats(c *gin.Context) {
	st, err := s.srs.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleListSolves(c *gin.Context) {
	f := store.SolveFilter{Solver: c.Query("solver")}
	var err error
	if f.MinResult, err = queryFloatPtr(c, "min_result"); err != nil {
		s.fail(c, err)
		return
	}
	if f.MaxResult, err = queryFloatPtr(c, "max_result"); err != nil {
		s.fail(c, err)
		return
	}
	if f.Limit, err = queryInt(c, "limit", srs.DefaultSolveLimit); err != nil {
		s.fail(c, err)
		return
	}
	if f.Offset, err = queryInt(c, "offset", 0); err != nil {
		s.fail(c, err)
		return
	}
	page, err := s.srs.Solves(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) handleGetSolve(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	solve, err := s.srs.Solve(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, solve)
}
