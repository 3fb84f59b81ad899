package dynamodb

import (
	"context"
	"fmt"
	"time"

	"comments-backend/domain/core/entities"
	"comments-backend/infrastructure/persistence/seed"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	entityTypeComment = "COMMENT"
	commentSKPrefix   = "COMMENT#"
)

// commentItem represents the DynamoDB item structure for a seed comment
type commentItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	CommentID    int64  `dynamodbav:"CommentID"`
	AuthorID     string `dynamodbav:"AuthorID"`
	AuthorName   string `dynamodbav:"AuthorName"`
	AuthorAvatar string `dynamodbav:"AuthorAvatar,omitempty"`
	Body         string `dynamodbav:"Body"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
	LikeCount    int    `dynamodbav:"LikeCount"`
}

func threadPK(threadID string) string {
	return fmt.Sprintf("THREAD#%s", threadID)
}

// commentSK zero-pads the id so the sort key orders numerically
func commentSK(id int64) string {
	return fmt.Sprintf("%s%010d", commentSKPrefix, id)
}

func (i commentItem) toRecord() seed.Record {
	return seed.Record{
		ID:           i.CommentID,
		AuthorID:     i.AuthorID,
		AuthorName:   i.AuthorName,
		AuthorAvatar: i.AuthorAvatar,
		Body:         i.Body,
		CreatedAt:    i.CreatedAt,
		LikeCount:    i.LikeCount,
	}
}

// ItemFromRecord builds the stored item for a seed record of threadID
func ItemFromRecord(threadID string, r seed.Record) (map[string]types.AttributeValue, error) {
	item := commentItem{
		PK:           threadPK(threadID),
		SK:           commentSK(r.ID),
		EntityType:   entityTypeComment,
		CommentID:    r.ID,
		AuthorID:     r.AuthorID,
		AuthorName:   r.AuthorName,
		AuthorAvatar: r.AuthorAvatar,
		Body:         r.Body,
		CreatedAt:    r.CreatedAt,
		LikeCount:    r.LikeCount,
	}
	return attributevalue.MarshalMap(item)
}

// SeedSource reads the seed comments of one thread from a single-table layout:
// PK = THREAD#<threadID>, SK = COMMENT#<zero-padded id>
type SeedSource struct {
	client    dynamodb.QueryAPIClient
	tableName string
	threadID  string
	logger    *zap.Logger
	clock     func() time.Time
}

// NewSeedSource creates a DynamoDB seed source
func NewSeedSource(client dynamodb.QueryAPIClient, tableName, threadID string, logger *zap.Logger) *SeedSource {
	return &SeedSource{
		client:    client,
		tableName: tableName,
		threadID:  threadID,
		logger:    logger,
		clock:     time.Now,
	}
}

// LoadSeed implements ports.SeedSource. Comments come back highest id first.
func (s *SeedSource) LoadSeed(ctx context.Context) ([]*entities.Comment, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(threadPK(s.threadID)))
	keyEx = keyEx.And(expression.Key("SK").BeginsWith(commentSKPrefix))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyEx).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}

	var records []seed.Record
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query comments: %w", err)
		}

		var items []commentItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
		}
		for _, item := range items {
			records = append(records, item.toRecord())
		}
	}

	s.logger.Debug("Loaded seed comments from DynamoDB",
		zap.String("table", s.tableName),
		zap.String("threadID", s.threadID),
		zap.Int("count", len(records)),
	)

	return seed.ToComments(records, s.clock())
}

// Name implements ports.SeedSource
func (s *SeedSource) Name() string {
	return "dynamodb:" + s.tableName
}
