package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trailhead-ai/trailhead/backend/internal/server/middleware"
	"github.com/trailhead-ai/trailhead/backend/pkg/reason"
)

// CreateEvidenceHandler runs the reasoning pipeline for a question and
// returns the raw evidence: resolved entities, ranked paths, context triples
// and per-stage counters. No answer text is generated. Setting "trace" in
// the body additionally returns the reasoning trace: what discovery found,
// what ranking kept, and which entities received backfill.
func CreateEvidenceHandler(c echo.Context) error {
	type evidenceBody struct {
		Question string `json:"question" validate:"required"`
		Trace    bool   `json:"trace"`
	}

	type evidenceResponse struct {
		Message  string                     `json:"message"`
		Evidence *reason.Evidence           `json:"evidence,omitempty"`
		Trace    *reason.QueryTraceSnapshot `json:"trace,omitempty"`
	}

	data := new(evidenceBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, evidenceResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, evidenceResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App

	engine := app.Engine
	var trace *reason.QueryTrace
	if data.Trace {
		trace = reason.NewQueryTrace()
		engine = engine.WithTracer(trace)
	}

	evidence := engine.AnswerEvidence(c.Request().Context(), data.Question)

	res := evidenceResponse{
		Message:  "OK",
		Evidence: evidence,
	}
	if trace != nil {
		snapshot := trace.Snapshot()
		res.Trace = &snapshot
	}
	return c.JSON(http.StatusOK, res)
}
