package adapters

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/config"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
	"time"
)

type dynamoJobItem struct {
	RequestID    string `dynamodbav:"request_id"`
	State        string `dynamodbav:"state"`
	ErrorKind    string `dynamodbav:"error_kind,omitempty"`
	ErrorMessage string `dynamodbav:"error_message,omitempty"`
	Video        string `dynamodbav:"video,omitempty"`
	ClipCount    int    `dynamodbav:"clip_count"`
	SkippedCount int    `dynamodbav:"skipped_count"`
	Delivered    bool   `dynamodbav:"delivered"`
	ArchiveKey   string `dynamodbav:"archive_key,omitempty"`
	UpdatedAt    int64  `dynamodbav:"updated_at"`
	TTL          int64  `dynamodbav:"ttl"`
}

type dynamoJobStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
}

func NewDynamoJobStore(logger outbound.LoggerPort, dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig) outbound.JobStorePort {
	return &dynamoJobStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (c *dynamoJobStore) Save(ctx context.Context, record domain.JobRecord) error {
	item := dynamoJobItem{
		RequestID:    record.RequestID.String(),
		State:        string(record.State),
		ErrorKind:    string(record.ErrorKind),
		ErrorMessage: record.ErrorMessage,
		Video:        record.Video,
		ClipCount:    record.ClipCount,
		SkippedCount: record.SkippedCount,
		Delivered:    record.Delivered,
		ArchiveKey:   record.ArchiveKey,
		UpdatedAt:    record.UpdatedAt.Unix(),
		TTL:          record.UpdatedAt.Add(time.Duration(c.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal job item", map[string]interface{}{
			"request_id": item.RequestID,
		})
		return err
	}

	_, err = c.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.dynamoConfig.TableName),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to save job item", map[string]interface{}{
			"request_id": item.RequestID,
			"state":      item.State,
		})
		return err
	}
	return nil
}

func (c *dynamoJobStore) Get(ctx context.Context, requestID uuid.UUID) (*domain.JobRecord, error) {
	out, err := c.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"request_id": {S: aws.String(requestID.String())},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, domain.Wrap(domain.KindArtifactNotFound, "job store", "get", requestID.String(), nil)
	}

	var item dynamoJobItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return &domain.JobRecord{
		RequestID:    requestID,
		State:        domain.JobState(item.State),
		ErrorKind:    domain.ErrorKind(item.ErrorKind),
		ErrorMessage: item.ErrorMessage,
		Video:        item.Video,
		ClipCount:    item.ClipCount,
		SkippedCount: item.SkippedCount,
		Delivered:    item.Delivered,
		ArchiveKey:   item.ArchiveKey,
		UpdatedAt:    time.Unix(item.UpdatedAt, 0).UTC(),
	}, nil
}
