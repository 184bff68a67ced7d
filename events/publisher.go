package events

import (
	"context"
	"encoding/json"
	"time"

	"query-hub/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

// SNSAPI is the part of *sns.Client the publisher uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends document change events to an SNS topic. Publishing is
// best-effort: failures are logged and swallowed.
type Publisher struct {
	client   SNSAPI
	topicArn string
	logger   *zap.Logger
}

func NewPublisher(client SNSAPI, topicArn string, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, topicArn: topicArn, logger: logger}
}

// Enabled reports whether events will actually be sent.
func (p *Publisher) Enabled() bool {
	return p != nil && p.client != nil && p.topicArn != ""
}

// PublishDocumentEvent publishes one change event.
func (p *Publisher) PublishDocumentEvent(ctx context.Context, eventType, collection, documentID string) {
	if !p.Enabled() {
		return
	}

	event := models.DocumentEvent{
		EventType:  eventType,
		Collection: collection,
		DocumentID: documentID,
		Timestamp:  time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal document event", zap.Error(err))
		return
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicArn),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
			"collection": {DataType: aws.String("String"), StringValue: aws.String(collection)},
		},
	})
	if err != nil {
		p.logger.Error("Failed to publish document event",
			zap.String("event_type", eventType),
			zap.String("collection", collection),
			zap.String("document_id", documentID),
			zap.Error(err),
		)
		return
	}

	p.logger.Debug("Document event published",
		zap.String("event_type", eventType),
		zap.String("collection", collection),
		zap.String("document_id", documentID),
	)
}
