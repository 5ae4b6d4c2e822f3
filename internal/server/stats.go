package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/crosstrainer/internal/apperr"
	"github.com/abhisek/crosstrainer/internal/stats"
)

func (s *Server) handleStatsSummary(c *gin.Context) {
	from, err := queryTime(c, "date_from")
	if err != nil {
		s.fail(c, err)
		return
	}
	to, err := queryTime(c, "date_to")
	if err != nil {
		s.fail(c, err)
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		s.fail(c, apperr.Invalid("date_to", "must not be before date_from"))
		return
	}
	sum, err := s.stats.Summary(c.Request.Context(), from, to)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) handleStatsDaily(c *gin.Context) {
	days, err := queryInt(c, "days", stats.DefaultDays)
	if err != nil {
		s.fail(c, err)
		return
	}
	daily, err := s.stats.Daily(c.Request.Context(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": daily})
}

func (s *Server) handleTimeByDifficulty(c *gin.Context) {
	from, err := queryTime(c, "date_from")
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := s.stats.TimeByDifficulty(c.Request.Context(), from)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) handleRecentNotes(c *gin.Context) {
	limit, err := queryInt(c, "limit", stats.DefaultNotesLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	attempts, err := s.stats.RecentNotes(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
