package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trailhead-ai/trailhead/backend/internal/server/middleware"
	serverutil "github.com/trailhead-ai/trailhead/backend/internal/server/util"
	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
	"github.com/trailhead-ai/trailhead/backend/pkg/logger"
	"github.com/trailhead-ai/trailhead/backend/pkg/reason"
)

// CreateAnswerHandler runs the reasoning pipeline and synthesizes an answer
// from the evidence. When the pipeline produced no evidence the model is
// asked for an explicit "nothing known" response instead.
func CreateAnswerHandler(c echo.Context) error {
	type answerBody struct {
		Question string `json:"question" validate:"required"`
	}

	type answerResponse struct {
		Message  string           `json:"message"`
		Answer   string           `json:"answer,omitempty"`
		Evidence *reason.Evidence `json:"evidence,omitempty"`
		Metrics  *ai.ModelMetrics `json:"metrics,omitempty"`
	}

	data := new(answerBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, answerResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, answerResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	evidence := app.Engine.AnswerEvidence(ctx, data.Question)
	prompt := serverutil.BuildAnswerPrompt(evidence)

	app.AiClient.ResetMetrics()
	answer, err := app.AiClient.GenerateChat(ctx, []ai.ChatMessage{
		{Role: "user", Message: prompt},
	})
	if err != nil {
		logger.Error("[Server] Answer generation failed", "query_id", evidence.QueryID, "err", err)
		return c.JSON(http.StatusBadGateway, answerResponse{
			Message:  "Answer generation failed",
			Evidence: evidence,
		})
	}
	metrics := app.AiClient.GetMetrics()

	return c.JSON(http.StatusOK, answerResponse{
		Message:  "OK",
		Answer:   answer,
		Evidence: evidence,
		Metrics:  &metrics,
	})
}
