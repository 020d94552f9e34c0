package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/service"
)

type evaluateRequest struct {
	Values domain.Values `json:"values"`
}

func (s *Server) handleListInstruments(c *gin.Context) {
	list := s.service.ListInstruments()
	c.JSON(http.StatusOK, gin.H{"instruments": list, "count": len(list)})
}

func (s *Server) handleGetInstrument(c *gin.Context) {
	inst, err := s.service.GetInstrument(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if !s.bind(c, &req) {
		return
	}
	res, err := s.service.Evaluate(c.Request.Context(), service.EvaluateParams{
		InstrumentID: c.Param("id"),
		Values:       req.Values,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleClassify(c *gin.Context) {
	var in domain.ClassificationInputs
	if !s.bind(c, &in) {
		return
	}
	c.JSON(http.StatusOK, s.service.Classify(c.Request.Context(), in))
}

func (s *Server) handleListTrials(c *gin.Context) {
	records, err := s.service.ListTrials(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if records == nil {
		records = []domain.TrialRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"trials": records, "count": len(records)})
}

func (s *Server) handleTrialSummary(c *gin.Context) {
	res, err := s.service.SummarizeTrial(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSummarizeRates(c *gin.Context) {
	var params service.RatesParams
	if !s.bind(c, &params) {
		return
	}
	c.JSON(http.StatusOK, s.service.SummarizeRates(c.Request.Context(), params))
}

func (s *Server) handleListAudit(c *gin.Context) {
	limit, ok := s.queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := s.queryInt(c, "offset")
	if !ok {
		return
	}
	page, err := s.service.ListAudit(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// bind decodes a JSON body into dst. An empty body leaves dst zero-valued.
func (s *Server) bind(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		s.respondError(c, domain.NewMCPError(domain.ErrInvalidInput, "malformed JSON body", err.Error(), ""))
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter; absent means 0.
func (s *Server) queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.respondError(c, domain.NewValidationError(name, "must be an integer", raw))
		return 0, false
	}
	return n, true
}

func statusFor(code string) int {
	switch code {
	case domain.ErrNotFoundCode:
		return http.StatusNotFound
	case domain.ErrInvalidInput, domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrRateLimit:
		return http.StatusTooManyRequests
	case domain.ErrDatabaseError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an MCPError body. Internal and storage errors are
// logged and their details withheld from the client.
func (s *Server) respondError(c *gin.Context, err error) {
	corrID := c.GetString("correlation_id")
	code := domain.CodeFor(err)
	hidden := code == domain.ErrInternalServer || code == domain.ErrDatabaseError

	body, ok := err.(*domain.MCPError)
	if !ok {
		message := err.Error()
		switch code {
		case domain.ErrInternalServer:
			message = "internal server error"
		case domain.ErrDatabaseError:
			message = "storage unavailable"
		}
		body = domain.NewMCPError(code, message, "", corrID)
	} else if body.RequestID == "" {
		body.RequestID = corrID
	}

	if hidden {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"correlation_id": corrID,
			"path":           c.Request.URL.Path,
		}).Error("Request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(code), body)
}
