package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/domain"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
)

type courseRequest struct {
	Language string   `json:"language"`
	Topic    string   `json:"topic"`
	Level    string   `json:"level"`
	Axes     []string `json:"axes"`
}

type httpUpstreamGateway struct {
	logger      outbound.LoggerPort
	client      *http.Client
	storeApiUrl string
	apiKey      string
	authorizer  Authorizer
}

// NewHTTPUpstreamGateway uploads final videos to the store service. authorizer may be nil.
func NewHTTPUpstreamGateway(logger outbound.LoggerPort, client *http.Client, storeApiUrl string, apiKey string, authorizer Authorizer) outbound.UpstreamGatewayPort {
	if client == nil {
		client = &http.Client{}
	}
	return &httpUpstreamGateway{
		logger:      logger,
		client:      client,
		storeApiUrl: strings.TrimRight(storeApiUrl, "/"),
		apiKey:      apiKey,
		authorizer:  authorizer,
	}
}

func (g *httpUpstreamGateway) StoreVideo(ctx context.Context, req outbound.StoreVideoRequest) error {
	fields := map[string]interface{}{"request_id": req.RequestID.String()}
	file, err := os.Open(req.VideoPath)
	if err != nil {
		return domain.Wrap(domain.KindArtifactNotFound, "gateway", "open video", req.VideoPath, err)
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			g.logger.ErrorWithFields(err, "Failed to close video file", fields)
		}
	}(file)

	metadata := req.Metadata.WithDefaults()
	payload, err := json.Marshal(courseRequest{
		Language: string(metadata.Language),
		Topic:    metadata.Topic,
		Level:    metadata.Level,
		Axes:     metadata.Axes,
	})
	if err != nil {
		return domain.Wrap(domain.KindInternal, "gateway", "marshal metadata", "", err)
	}

	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	go func() {
		writer.CloseWithError(writeVideoForm(form, req.RequestID.String()+".mp4", file, payload))
	}()

	url := fmt.Sprintf("%s/%s", g.storeApiUrl, req.RequestID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		_ = body.Close()
		return domain.Wrap(domain.KindInternal, "gateway", "build request", url, err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("X-API-Key", g.apiKey)
	if g.authorizer != nil {
		token, err := g.authorizer.Authorize(ctx)
		if err != nil {
			_ = body.Close()
			return domain.Wrap(domain.KindUpstreamUnavailable, "gateway", "authorize", "", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	g.logger.InfoWithFields("uploading video to store service", fields)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.Wrap(domain.KindUpstreamUnavailable, "gateway", "upload", url, err)
	}
	defer func(closer io.ReadCloser) {
		if err := closer.Close(); err != nil {
			g.logger.ErrorWithFields(err, "Failed to close response body", fields)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Wrap(domain.KindUpstreamUnavailable, "gateway", "upload",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	g.logger.InfoWithFields("video stored upstream", fields)
	return nil
}

func writeVideoForm(form *multipart.Writer, fileName string, video io.Reader, metadata []byte) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, fileName))
	header.Set("Content-Type", "video/mp4")
	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, video); err != nil {
		return err
	}
	if err := form.WriteField("courseRequest", string(metadata)); err != nil {
		return err
	}
	return form.Close()
}
