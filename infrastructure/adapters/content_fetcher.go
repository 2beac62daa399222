package adapters

import (
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"io"
	"net/http"
	"os"
)

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
	FetchToFile(req *http.Request, path string) (int64, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort, client *http.Client) ContentFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &contentFetcher{
		logger: logger,
		client: client,
	}
}

func (c *contentFetcher) do(req *http.Request) (*http.Response, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		bodyPayload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.closeBody(req, res.Body)
		c.logger.WarnWithFields("HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": string(bodyPayload),
		})
		return nil, &StatusError{StatusCode: res.StatusCode, Body: string(bodyPayload)}
	}
	return res, nil
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(req, res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	return payload, nil
}

// FetchToFile streams the response body into path. The file is removed when the copy fails.
func (c *contentFetcher) FetchToFile(req *http.Request, path string) (int64, error) {
	res, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer c.closeBody(req, res.Body)

	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	written, copyErr := io.Copy(file, res.Body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		if copyErr != nil {
			return 0, copyErr
		}
		return 0, closeErr
	}
	return written, nil
}

func (c *contentFetcher) closeBody(req *http.Request, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
	}
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP request returned non-OK status code: %d", e.StatusCode)
}
