package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/crosstrainer/internal/practice"
	"github.com/abhisek/crosstrainer/internal/scramble"
	"github.com/abhisek/crosstrainer/internal/store"
)

func (s *Server) handleRandomScrambles(c *gin.Context) {
	moves, err := queryInt(c, "moves", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	count, err := queryInt(c, "count", 1)
	if err != nil {
		s.fail(c, err)
		return
	}
	scrambles, err := s.scrambles.Random(moves, count, c.Query("color"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.ScramblesServed(moves, len(scrambles))
	c.JSON(http.StatusOK, gin.H{"scrambles": scrambles})
}

func (s *Server) handleScrambleCount(c *gin.Context) {
	counts := make(map[string]int, scramble.MaxMoves)
	for m, n := range s.scrambles.Counts() {
		counts[strconv.Itoa(m)] = n
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess, err := s.practice.StartSession(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": sess})
}

func (s *Server) handleListSessions(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		s.fail(c, err)
		return
	}
	sessions, err := s.practice.ListSessions(c.Request.Context(), limit, offset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.practice.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

type sessionUpdateRequest struct {
	EndedAt *time.Time `json:"ended_at"`
	Notes   *string    `json:"notes"`
}

func (s *Server) handleUpdateSession(c *gin.Context) {
	var req sessionUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	sess, err := s.practice.EndSession(c.Request.Context(), c.Param("id"), req.EndedAt, req.Notes)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

func (s *Server) handleCreateAttempt(c *gin.Context) {
	var in practice.AttemptInput
	if err := bindJSON(c, &in); err != nil {
		s.fail(c, err)
		return
	}
	a, err := s.practice.RecordAttempt(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attempt": a})
}

func (s *Server) handleListAttempts(c *gin.Context) {
	f := store.AttemptFilter{SessionID: c.Query("session_id")}
	var err error
	if f.CrossMoves, err = queryInt(c, "cross_moves", 0); err != nil {
		s.fail(c, err)
		return
	}
	if f.From, err = queryTime(c, "date_from"); err != nil {
		s.fail(c, err)
		return
	}
	if f.To, err = queryTime(c, "date_to"); err != nil {
		s.fail(c, err)
		return
	}
	if f.Limit, err = queryInt(c, "limit", 0); err != nil {
		s.fail(c, err)
		return
	}
	if f.Offset, err = queryInt(c, "offset", 0); err != nil {
		s.fail(c, err)
		return
	}

	attempts, err := s.practice.ListAttempts(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

func (s *Server) handleGetAttempt(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	a, err := s.practice.GetAttempt(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempt": a})
}
