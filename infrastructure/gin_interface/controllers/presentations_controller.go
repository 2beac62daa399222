package controllers

import (
	"encoding/json"
	"errors"
	"github.com/MonsefRH/E-learn/application/ports/inbound"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/MonsefRH/E-learn/infrastructure/gin_interface/dto"
	"github.com/MonsefRH/E-learn/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"io"
	"net/http"
	"strconv"
	"time"
)

type PresentationsController interface {
	GetSlides(c *gin.Context)
	GetSlideHTML(c *gin.Context)
	GetAudio(c *gin.Context)
	StartGeneration(c *gin.Context)
	ProcessContent(c *gin.Context)
	TestTransfer(c *gin.Context)
	GetStatus(c *gin.Context)
	StreamEvents(c *gin.Context)
	RegisterRoutes(g *gin.Engine, protected ...gin.HandlerFunc)
}

type presentationsController struct {
	logger       outbound.LoggerPort
	delivery     inbound.PresentationDeliveryPort
	query        inbound.PresentationQueryPort
	pollInterval time.Duration
}

func NewPresentationsController(
	logger outbound.LoggerPort,
	delivery inbound.PresentationDeliveryPort,
	query inbound.PresentationQueryPort,
	pollInterval time.Duration,
) PresentationsController {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &presentationsController{
		logger:       logger,
		delivery:     delivery,
		query:        query,
		pollInterval: pollInterval,
	}
}

func (p *presentationsController) GetSlides(c *gin.Context) {
	requestID, ok := p.requestID(c)
	if !ok {
		return
	}
	data, err := p.query.SlidesManifest(requestID)
	if err != nil {
		p.abortWithError(c, requestID, err)
		return
	}
	if !json.Valid(data) {
		p.abortWithError(c, requestID, domain.Wrap(domain.KindInternal, "query", "slides", "invalid JSON format", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"slides": json.RawMessage(data)})
}

func (p *presentationsController) GetSlideHTML(c *gin.Context) {
	requestID, slideID, ok := p.slideParams(c)
	if !ok {
		return
	}
	path, err := p.query.SlideHTMLPath(requestID, slideID)
	if err != nil {
		p.abortWithError(c, requestID, err)
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.File(path)
}

func (p *presentationsController) GetAudio(c *gin.Context) {
	requestID, slideID, ok := p.slideParams(c)
	if !ok {
		return
	}
	path, err := p.query.AudioPath(requestID, slideID)
	if err != nil {
		p.abortWithError(c, requestID, err)
		return
	}
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("Content-Type", "audio/mpeg")
	c.File(path)
}

func (p *presentationsController) StartGeneration(c *gin.Context) {
	requestID, ok := p.requestID(c)
	if !ok {
		return
	}
	var request dto.CourseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		p.abortWithError(c, requestID, domain.Wrap(domain.KindValidation, "http", "bind", "", err))
		return
	}

	content, err := p.delivery.RequestContent(c.Request.Context(), requestID, request.ToMetadata())
	if err != nil {
		p.abortWithError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, dto.StartGenerationResponse{
		Message:     "Video generation initiated successfully",
		AiRequestID: requestID.String(),
		Response:    content,
	})
}

func (p *presentationsController) ProcessContent(c *gin.Context) {
	requestID, ok := p.requestID(c)
	if !ok {
		return
	}
	var request dto.ProcessContentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		p.abortWithError(c, requestID, domain.Wrap(domain.KindValidation, "http", "bind", "", err))
		return
	}

	res, err := p.delivery.ProcessAndDeliver(c.Request.Context(), inbound.DeliverPresentationParams{
		RequestID: requestID,
		Lesson:    request.Response,
		Metadata:  request.Payload.ToMetadata(),
	})
	if err != nil {
		p.abortWithError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProcessContentResponse{
		Message: "Video processed and delivered successfully",
		Result: dto.ProcessedContent{
			Slides:     res.Job.Slides,
			AudioFiles: res.Job.AudioFiles,
			Video:      res.Job.Video,
			Skipped:    res.Job.Skipped,
			Reused:     res.Job.Reused,
			ArchiveKey: res.ArchiveKey,
		},
	})
}

func (p *presentationsController) TestTransfer(c *gin.Context) {
	requestID, ok := p.requestID(c)
	if !ok {
		return
	}
	var request dto.CourseRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		p.abortWithError(c, requestID, domain.Wrap(domain.KindValidation, "http", "bind", "", err))
		return
	}
	if err := p.delivery.Transfer(c.Request.Context(), requestID, request.ToMetadata()); err != nil {
		p.abortWithError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video transferred successfully"})
}

func (p *presentationsController) GetStatus(c *gin.Context) {
	requestID, ok := p.requestID(c)
	if !ok {
		return
	}
	record, err := p.query.Status(c.Request.Context(), requestID)
	if err != nil {
		p.abortWithError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// StreamEvents emits a "state" event whenever the job record changes. It ends once the job failed or was delivered.
func (p *presentationsController) StreamEvents(c *gin.Context) {
	requestID, ok := p.requestID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	var last *domain.JobRecord
	for {
		record, err := p.query.Status(ctx, requestID)
		if err != nil && domain.KindOf(err) != domain.KindArtifactNotFound {
			if ctx.Err() == nil {
				p.logger.Error(err, "Failed to read job status")
				c.SSEvent("error", gin.H{"error": string(domain.KindOf(err))})
				c.Writer.Flush()
			}
			return
		}
		if err == nil && (last == nil || record.State != last.State || record.Delivered != last.Delivered) {
			c.SSEvent("state", record)
			c.Writer.Flush()
			last = record
			if record.State == domain.StateFailed || (record.State == domain.StateDone && record.Delivered) {
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *presentationsController) RegisterRoutes(g *gin.Engine, protected ...gin.HandlerFunc) {
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := g.Group("/api/presentations/:id")
	api.GET("/slides", p.GetSlides)
	api.GET("/slide/:n", p.GetSlideHTML)
	api.GET("/audio/:n", p.GetAudio)
	api.GET("/status", p.GetStatus)
	api.GET("/events", middleware.SSEMiddleware(), p.StreamEvents)

	mutating := api.Group("", protected...)
	mutating.POST("/generate/start", p.StartGeneration)
	mutating.POST("/generate/process", p.ProcessContent)
	mutating.POST("/test-transfer", p.TestTransfer)
}

func (p *presentationsController) requestID(c *gin.Context) (uuid.UUID, bool) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   string(domain.KindValidation),
			Message: "invalid request id",
		})
		return uuid.Nil, false
	}
	return requestID, true
}

func (p *presentationsController) slideParams(c *gin.Context) (uuid.UUID, int, bool) {
	requestID, ok := p.requestID(c)
	if !ok {
		return uuid.Nil, 0, false
	}
	slideID, err := strconv.Atoi(c.Param("n"))
	if err != nil || slideID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     string(domain.KindValidation),
			Message:   "invalid slide number",
			RequestID: requestID.String(),
		})
		return uuid.Nil, 0, false
	}
	return requestID, slideID, true
}

func (p *presentationsController) abortWithError(c *gin.Context, requestID uuid.UUID, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		p.logger.ErrorWithFields(err, "Request failed", map[string]interface{}{
			"request_id": requestID.String(),
			"path":       c.FullPath(),
		})
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:     string(kind),
		Message:   err.Error(),
		RequestID: requestID.String(),
	})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindArtifactNotFound:
		return http.StatusNotFound
	case domain.KindJobInProgress:
		return http.StatusConflict
	case domain.KindNoRenderableContent:
		return http.StatusUnprocessableEntity
	case domain.KindUpstreamUnavailable:
		return http.StatusBadGateway
	case domain.KindCancelled:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
