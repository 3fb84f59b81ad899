package dynamodb

import (
	"context"
	"errors"
	"testing"

	"comments-backend/infrastructure/persistence/seed"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeQueryClient serves pre-built pages and records the inputs it saw
type fakeQueryClient struct {
	pages  [][]map[string]types.AttributeValue
	inputs []*dynamodb.QueryInput
	err    error
}

func (f *fakeQueryClient) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}

	page := len(f.inputs) - 1
	out := &dynamodb.QueryOutput{Items: f.pages[page]}
	if page < len(f.pages)-1 {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "cursor"},
		}
	}
	return out, nil
}

func mustItem(t *testing.T, r seed.Record) map[string]types.AttributeValue {
	t.Helper()
	item, err := ItemFromRecord("thread-1", r)
	require.NoError(t, err)
	return item
}

func TestSeedSource_LoadSeed(t *testing.T) {
	client := &fakeQueryClient{pages: [][]map[string]types.AttributeValue{
		{
			mustItem(t, seed.Record{ID: 3, AuthorID: "13258165", AuthorName: "Jay Zhou", Body: "Nice, well done", CreatedAt: "10-18 08:15", LikeCount: 88}),
			mustItem(t, seed.Record{ID: 2, AuthorID: "36080105", AuthorName: "Song Xu", Body: "dawn till dusk", CreatedAt: "11-13 11:29", LikeCount: 88}),
		},
		{
			mustItem(t, seed.Record{ID: 1, AuthorID: "30009257", AuthorName: "John", Body: "vacation ads", CreatedAt: "10-19 09:00", LikeCount: 66}),
		},
	}}

	source := NewSeedSource(client, "comments", "thread-1", zap.NewNop())
	comments, err := source.LoadSeed(context.Background())

	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, int64(3), comments[0].ID().Int64())
	assert.Equal(t, int64(1), comments[2].ID().Int64())
	assert.Equal(t, "Song Xu", comments[1].Author().DisplayName())
	assert.Equal(t, 66, comments[2].LikeCount())

	require.Len(t, client.inputs, 2)
	first := client.inputs[0]
	assert.Equal(t, "comments", aws.ToString(first.TableName))
	assert.False(t, aws.ToBool(first.ScanIndexForward))
	assert.Contains(t, first.ExpressionAttributeValues, ":0")
	assert.Equal(t, "dynamodb:comments", source.Name())
}

func TestSeedSource_QueryError(t *testing.T) {
	client := &fakeQueryClient{err: errors.New("ResourceNotFoundException")}

	_, err := NewSeedSource(client, "comments", "thread-1", zap.NewNop()).LoadSeed(context.Background())

	assert.ErrorContains(t, err, "failed to query comments")
}

func TestSeedSource_InvalidItem(t *testing.T) {
	client := &fakeQueryClient{pages: [][]map[string]types.AttributeValue{
		{mustItem(t, seed.Record{ID: 5, AuthorID: "", Body: "orphan", CreatedAt: "10-18 08:15"})},
	}}

	_, err := NewSeedSource(client, "comments", "thread-1", zap.NewNop()).LoadSeed(context.Background())

	assert.ErrorContains(t, err, "seed record 0")
}

func TestItemFromRecord_Keys(t *testing.T) {
	item := mustItem(t, seed.Record{ID: 42, AuthorID: "u", Body: "b", CreatedAt: "10-18 08:15"})

	assert.Equal(t, &types.AttributeValueMemberS{Value: "THREAD#thread-1"}, item["PK"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "COMMENT#0000000042"}, item["SK"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "COMMENT"}, item["EntityType"])
}
