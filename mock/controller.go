package mock_generator

import (
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/MonsefRH/E-learn/infrastructure/gin_interface/dto"
	"github.com/MonsefRH/E-learn/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"net/http"
)

type MockModelController interface {
	Generate(c *gin.Context)
	Stream(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type mockModelController struct {
	logger outbound.LoggerPort
	client outbound.ModelClientPort
	runner *Runner
}

func NewMockModelController(logger outbound.LoggerPort, client outbound.ModelClientPort, runner *Runner) MockModelController {
	return &mockModelController{
		logger: logger,
		client: client,
		runner: runner,
	}
}

func (m *mockModelController) Generate(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}
	var request dto.CourseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := m.client.GenerateContent(c.Request.Context(), requestID, request.ToMetadata())
	if err != nil {
		m.logger.Error(err, "failed to read mock lesson")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": string(domain.KindOf(err))})
		return
	}
	c.JSON(http.StatusOK, content)
}

func (m *mockModelController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := m.runner.Run(ctx)
	if err != nil {
		m.logger.Error(err, "failed to start mock stream")
		c.SSEvent("error", "internal server error")
		return
	}

	for event := range events {
		if ctx.Err() != nil {
			continue
		}
		c.SSEvent(event.Type, event)
		c.Writer.Flush()
	}
	if ctx.Err() == nil {
		c.SSEvent("generation_complete", nil)
	}
}

func (m *mockModelController) RegisterRoutes(g *gin.Engine) {
	g.POST("/mock/generate/:id", m.Generate)
	g.GET("/mock/stream", middleware.SSEMiddleware(), m.Stream)
}
