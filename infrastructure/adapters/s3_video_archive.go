package adapters

import (
	"context"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/config"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"os"
	"path"
)

type s3VideoArchive struct {
	logger   outbound.LoggerPort
	s3Svc    s3iface.S3API
	s3Config *config.S3Config
}

func NewS3VideoArchive(logger outbound.LoggerPort, s3Svc s3iface.S3API, s3Config *config.S3Config) outbound.VideoArchivePort {
	return &s3VideoArchive{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3VideoArchive) Archive(ctx context.Context, req outbound.ArchiveVideoRequest) (*outbound.ArchiveVideoResponse, error) {
	itemPath := s.getS3ItemPath(req)

	file, err := os.Open(req.VideoPath)
	if err != nil {
		return nil, domain.Wrap(domain.KindArtifactNotFound, "archive", "open video", req.VideoPath, err)
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "Failed to close video file")
		}
	}(file)

	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(itemPath),
		Body:        file,
		ContentType: aws.String("video/mp4"),
	}

	if _, err := s.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    itemPath,
		})
		return nil, domain.Wrap(domain.KindUpstreamUnavailable, "archive", "put object", itemPath, err)
	}

	return &outbound.ArchiveVideoResponse{
		VideoKey:    itemPath,
		StoreRegion: s.s3Config.Region,
	}, nil
}

func (s *s3VideoArchive) getS3ItemPath(req outbound.ArchiveVideoRequest) string {
	id := req.RequestID.String()
	return path.Join(s.s3Config.KeyPrefix, id, fmt.Sprintf("%s.mp4", id))
}
