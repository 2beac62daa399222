package mock_generator

import (
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/gin-gonic/gin"
)

// Init registers the mock model routes and returns the file-backed model client they serve.
func Init(g *gin.Engine, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort, lessonPath string) outbound.ModelClientPort {
	reader := NewFileLessonReader(logger, lessonPath)
	client := NewFileModelClient(logger, reader)
	runner := NewRunner(workerPool, reader, logger)
	NewMockModelController(logger, client, runner).RegisterRoutes(g)
	return client
}
