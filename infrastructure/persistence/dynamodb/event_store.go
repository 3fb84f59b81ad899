package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"comments-backend/application/ports"
	"comments-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// maxBatchWrite is the DynamoDB limit for BatchWriteItem
const maxBatchWrite = 25

// EventStoreAPI is the subset of the DynamoDB client the event store uses
type EventStoreAPI interface {
	dynamodb.QueryAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// EventRecord represents how thread events are stored in DynamoDB
type EventRecord struct {
	PK          string                 `dynamodbav:"PK"` // EVENTS#<thread_id>
	SK          string                 `dynamodbav:"SK"` // EVENT#<timestamp>#<event_id>
	EntityType  string                 `dynamodbav:"EntityType"`
	EventID     string                 `dynamodbav:"EventID"`
	EventType   string                 `dynamodbav:"EventType"`
	AggregateID string                 `dynamodbav:"AggregateID"`
	EventData   map[string]interface{} `dynamodbav:"EventData"`
	Timestamp   string                 `dynamodbav:"Timestamp"`
	Version     int                    `dynamodbav:"Version"`

	// TTL for automatic cleanup (optional)
	TTL int64 `dynamodbav:"TTL,omitempty"`
}

// EventStore appends thread events to a DynamoDB table. It satisfies
// ports.EventPublisher so it can sit next to the EventBridge publisher.
type EventStore struct {
	client    EventStoreAPI
	tableName string
	retention time.Duration
	logger    *zap.Logger
}

var _ ports.EventPublisher = (*EventStore)(nil)

// NewEventStore creates a new DynamoDB event store. A zero retention keeps
// records forever.
func NewEventStore(client EventStoreAPI, tableName string, retention time.Duration, logger *zap.Logger) *EventStore {
	return &EventStore{
		client:    client,
		tableName: tableName,
		retention: retention,
		logger:    logger,
	}
}

func eventsPK(threadID string) string {
	return fmt.Sprintf("EVENTS#%s", threadID)
}

// Publish stores a single event
func (es *EventStore) Publish(ctx context.Context, event events.DomainEvent) error {
	return es.SaveEvents(ctx, []events.DomainEvent{event})
}

// PublishBatch stores events in order
func (es *EventStore) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	return es.SaveEvents(ctx, domainEvents)
}

// SaveEvents persists domain events to the event store
func (es *EventStore) SaveEvents(ctx context.Context, domainEvents []events.DomainEvent) error {
	if len(domainEvents) == 0 {
		return nil
	}

	writeRequests := make([]types.WriteRequest, 0, len(domainEvents))
	for _, event := range domainEvents {
		record, err := es.eventToRecord(event)
		if err != nil {
			return fmt.Errorf("failed to convert event to record: %w", err)
		}

		item, err := attributevalue.MarshalMap(record)
		if err != nil {
			return fmt.Errorf("failed to marshal event record: %w", err)
		}

		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	for i := 0; i < len(writeRequests); i += maxBatchWrite {
		end := min(i+maxBatchWrite, len(writeRequests))

		result, err := es.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				es.tableName: writeRequests[i:end],
			},
		})
		if err != nil {
			return fmt.Errorf("failed to write events batch: %w", err)
		}

		if unprocessed := len(result.UnprocessedItems[es.tableName]); unprocessed > 0 {
			return fmt.Errorf("failed to write %d events", unprocessed)
		}
	}

	es.logger.Debug("Stored thread events",
		zap.String("table", es.tableName),
		zap.Int("count", len(domainEvents)),
	)

	return nil
}

// GetEvents returns the stored events of a thread, oldest first
func (es *EventStore) GetEvents(ctx context.Context, threadID string) ([]EventRecord, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(eventsPK(threadID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build event query: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(es.client, &dynamodb.QueryInput{
		TableName:                 aws.String(es.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})

	var records []EventRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query events: %w", err)
		}

		var batch []EventRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event records: %w", err)
		}
		records = append(records, batch...)
	}

	return records, nil
}

func (es *EventStore) eventToRecord(event events.DomainEvent) (*EventRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}

	timestamp := event.GetTimestamp().UTC()
	record := &EventRecord{
		PK:          eventsPK(event.GetAggregateID()),
		SK:          fmt.Sprintf("EVENT#%s#%s", timestamp.Format(time.RFC3339Nano), event.GetEventID()),
		EntityType:  "EVENT",
		EventID:     event.GetEventID(),
		EventType:   event.GetEventType(),
		AggregateID: event.GetAggregateID(),
		EventData:   data,
		Timestamp:   timestamp.Format(time.RFC3339Nano),
		Version:     event.GetVersion(),
	}

	if es.retention > 0 {
		record.TTL = timestamp.Add(es.retention).Unix()
	}

	return record, nil
}
