package observability

import (
	"context"
	"sort"
	"time"

	pkgerrors "comments-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// PutMetricDataAPI is the part of the CloudWatch client Metrics uses
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics handles application metrics and monitoring.
// A Metrics without a client records nothing.
type Metrics struct {
	namespace string
	client    PutMetricDataAPI
	logger    *zap.Logger
	now       func() time.Time
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client PutMetricDataAPI, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordCommandExecution records duration and outcome of a command
func (m *Metrics) RecordCommandExecution(ctx context.Context, commandName string, duration time.Duration, err error) {
	m.recordExecution(ctx, "Command", commandName, duration, err)
}

// RecordQueryExecution records duration and outcome of a query
func (m *Metrics) RecordQueryExecution(ctx context.Context, queryName string, duration time.Duration, err error) {
	m.recordExecution(ctx, "Query", queryName, duration, err)
}

// RecordThreadSize records how many comments a thread holds
func (m *Metrics) RecordThreadSize(ctx context.Context, threadID string, count int) {
	m.put(ctx, m.datum("ThreadSize", float64(count), types.StandardUnitCount, map[string]string{
		"ThreadID": threadID,
	}))
}

// RecordSeedLoad records the outcome of seeding a thread
func (m *Metrics) RecordSeedLoad(ctx context.Context, source string, duration time.Duration, err error) {
	dims := map[string]string{
		"Source": source,
		"Status": status(err),
	}
	m.put(ctx,
		m.datum("SeedLoadLatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dims),
		m.datum("SeedLoadCount", 1, types.StandardUnitCount, dims),
	)
}

func (m *Metrics) recordExecution(ctx context.Context, kind, name string, duration time.Duration, err error) {
	dims := map[string]string{
		kind + "Name": name,
		"Status":      status(err),
	}

	data := []types.MetricDatum{
		m.datum(kind+"Execution", float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dims),
		m.datum(kind+"Count", 1, types.StandardUnitCount, dims),
	}

	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		data = append(data, m.datum("Errors", 1, types.StandardUnitCount, map[string]string{
			"ErrorType": string(appErr.Type),
			"ErrorCode": appErr.Code,
		}))
	}

	m.put(ctx, data...)
}

func (m *Metrics) datum(name string, value float64, unit types.StandardUnit, dimensions map[string]string) types.MetricDatum {
	names := make([]string, 0, len(dimensions))
	for k := range dimensions {
		names = append(names, k)
	}
	sort.Strings(names)

	cwDimensions := make([]types.Dimension, 0, len(names))
	for _, k := range names {
		if dimensions[k] == "" {
			continue
		}
		cwDimensions = append(cwDimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(dimensions[k]),
		})
	}

	return types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: cwDimensions,
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(m.now()),
	}
}

func (m *Metrics) put(ctx context.Context, data ...types.MetricDatum) {
	if m == nil || m.client == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}

	// metrics never fail the operation they describe
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to send metrics",
			zap.String("namespace", m.namespace),
			zap.Error(err),
		)
	}
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
