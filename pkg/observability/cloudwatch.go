package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// maxDatumsPerRequest is the PutMetricData limit.
const maxDatumsPerRequest = 1000

// CloudWatchAPI is the subset of the CloudWatch client used by the sink.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchSink buffers editor metrics and publishes them on Flush. In
// Lambda, Flush runs at the end of every invocation.
type CloudWatchSink struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending []types.MetricDatum
}

// NewCloudWatchSink creates a sink publishing under namespace
func NewCloudWatchSink(namespace string, client CloudWatchAPI, logger *zap.Logger) *CloudWatchSink {
	return &CloudWatchSink{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordCommand implements ports.Metrics
func (s *CloudWatchSink) RecordCommand(command, outcome string, d time.Duration) {
	dims := []types.Dimension{
		{Name: aws.String("CommandName"), Value: aws.String(command)},
		{Name: aws.String("Outcome"), Value: aws.String(outcome)},
	}
	s.add(
		s.datum("CommandExecution", float64(d.Milliseconds()), types.StandardUnitMilliseconds, dims),
		s.datum("CommandCount", 1, types.StandardUnitCount, dims),
	)
}

// RecordFallback implements ports.Metrics
func (s *CloudWatchSink) RecordFallback(reason string) {
	s.add(s.datum("StorageFallback", 1, types.StandardUnitCount, []types.Dimension{
		{Name: aws.String("Reason"), Value: aws.String(reason)},
	}))
}

// RecordImport implements ports.Metrics
func (s *CloudWatchSink) RecordImport(outcome string) {
	s.add(s.datum("Import", 1, types.StandardUnitCount, []types.Dimension{
		{Name: aws.String("Outcome"), Value: aws.String(outcome)},
	}))
}

// Pending returns the number of buffered datums
func (s *CloudWatchSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush publishes buffered datums. Datums of a failed batch are dropped.
func (s *CloudWatchSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	var firstErr error
	for start := 0; start < len(pending); start += maxDatumsPerRequest {
		end := min(start+maxDatumsPerRequest, len(pending))
		_, err := s.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(s.namespace),
			MetricData: pending[start:end],
		})
		if err != nil {
			s.logger.Warn("Failed to send metrics",
				zap.Int("datums", end-start),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("put metric data: %w", err)
			}
		}
	}
	return firstErr
}

func (s *CloudWatchSink) datum(name string, value float64, unit types.StandardUnit, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: dims,
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(s.now()),
	}
}

func (s *CloudWatchSink) add(datums ...types.MetricDatum) {
	s.mu.Lock()
	s.pending = append(s.pending, datums...)
	s.mu.Unlock()
}
