// Package streams turns the tickets table's DynamoDB stream into ticket
// change-sets.
package streams

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/jonboulle/clockwork"
)

// StreamsAPI defines the DynamoDB Streams operations the subscriber uses.
type StreamsAPI interface {
	DescribeStream(ctx context.Context, params *dynamodbstreams.DescribeStreamInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.DescribeStreamOutput, error)
	GetShardIterator(ctx context.Context, params *dynamodbstreams.GetShardIteratorInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *dynamodbstreams.GetRecordsInput, optFns ...func(*dynamodbstreams.Options)) (*dynamodbstreams.GetRecordsOutput, error)
}

// Subscriber polls every open shard of a stream. The stream must carry new
// images (NEW_IMAGE or NEW_AND_OLD_IMAGES).
type Subscriber struct {
	client       StreamsAPI
	streamARN    string
	pollInterval time.Duration
	clock        clockwork.Clock
}

// Make sure we conform to the interface
var _ storage.TicketSubscriber = (*Subscriber)(nil)

func NewSubscriber(client StreamsAPI, streamARN string, pollInterval time.Duration, clock clockwork.Clock) *Subscriber {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Subscriber{client: client, streamARN: streamARN, pollInterval: pollInterval, clock: clock}
}

// Subscribe starts from the current end of every shard. Only changes written
// after the call are delivered; the channel closes when ctx is done.
func (s *Subscriber) Subscribe(ctx context.Context, filter storage.TicketFilter) (<-chan models.ChangeSet, error) {
	shards, err := s.describe(ctx)
	if err != nil {
		return nil, err
	}

	iterators := make(map[string]*string, len(shards))
	for _, shard := range shards {
		if shard.SequenceNumberRange != nil && shard.SequenceNumberRange.EndingSequenceNumber != nil {
			continue
		}
		it, err := s.iterator(ctx, aws.ToString(shard.ShardId), types.ShardIteratorTypeLatest)
		if err != nil {
			return nil, err
		}
		iterators[aws.ToString(shard.ShardId)] = it
	}

	out := make(chan models.ChangeSet)
	go s.poll(ctx, filter, iterators, out)
	return out, nil
}

func (s *Subscriber) poll(ctx context.Context, filter storage.TicketFilter, iterators map[string]*string, out chan<- models.ChangeSet) {
	defer close(out)

	for {
		s.discover(ctx, iterators)

		for shardID, it := range iterators {
			if it == nil {
				delete(iterators, shardID)
				continue
			}

			resp, err := s.client.GetRecords(ctx, &dynamodbstreams.GetRecordsInput{ShardIterator: it})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				var expired *types.ExpiredIteratorException
				if errors.As(err, &expired) {
					slog.Warn("stream iterator expired, resuming from latest", "shardId", shardID)
					if fresh, err := s.iterator(ctx, shardID, types.ShardIteratorTypeLatest); err == nil {
						iterators[shardID] = fresh
					}
					continue
				}
				slog.Error("failed to read ticket stream", "shardId", shardID, "error", err)
				continue
			}

			if cs := toChangeSet(resp.Records, filter); len(cs.Changes) > 0 {
				select {
				case out <- cs:
				case <-ctx.Done():
					return
				}
			}

			// A nil iterator means the shard is closed and fully read, which
			// releases its children on the next discover.
			if resp.NextShardIterator == nil {
				delete(iterators, shardID)
				continue
			}
			iterators[shardID] = resp.NextShardIterator
		}

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.pollInterval):
		}
	}
}

// discover adds shards opened since the last poll. New shards are read from
// their start so no change is skipped. A child shard is held back while its
// parent is still being read, so one ticket's changes stay in order across a
// shard split.
func (s *Subscriber) discover(ctx context.Context, iterators map[string]*string) {
	shards, err := s.describe(ctx)
	if err != nil {
		slog.Warn("failed to refresh stream shards", "error", err)
		return
	}
	for _, shard := range shards {
		id := aws.ToString(shard.ShardId)
		if _, known := iterators[id]; known {
			continue
		}
		if shard.SequenceNumberRange != nil && shard.SequenceNumberRange.EndingSequenceNumber != nil {
			continue
		}
		if parent := aws.ToString(shard.ParentShardId); parent != "" {
			if _, draining := iterators[parent]; draining {
				continue
			}
		}
		it, err := s.iterator(ctx, id, types.ShardIteratorTypeTrimHorizon)
		if err != nil {
			slog.Warn("failed to open new stream shard", "shardId", id, "error", err)
			continue
		}
		iterators[id] = it
	}
}

func (s *Subscriber) describe(ctx context.Context) ([]types.Shard, error) {
	var shards []types.Shard
	var start *string
	for {
		resp, err := s.client.DescribeStream(ctx, &dynamodbstreams.DescribeStreamInput{
			StreamArn:             aws.String(s.streamARN),
			ExclusiveStartShardId: start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe ticket stream: %w", err)
		}
		if resp.StreamDescription == nil {
			return shards, nil
		}
		shards = append(shards, resp.StreamDescription.Shards...)
		if resp.StreamDescription.LastEvaluatedShardId == nil {
			return shards, nil
		}
		start = resp.StreamDescription.LastEvaluatedShardId
	}
}

func (s *Subscriber) iterator(ctx context.Context, shardID string, kind types.ShardIteratorType) (*string, error) {
	resp, err := s.client.GetShardIterator(ctx, &dynamodbstreams.GetShardIteratorInput{
		StreamArn:         aws.String(s.streamARN),
		ShardId:           aws.String(shardID),
		ShardIteratorType: kind,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get iterator for shard %s: %w", shardID, err)
	}
	return resp.ShardIterator, nil
}

func toChangeSet(records []types.Record, filter storage.TicketFilter) models.ChangeSet {
	var cs models.ChangeSet
	for _, r := range records {
		if r.Dynamodb == nil {
			continue
		}

		kind := models.MODIFIED
		image := r.Dynamodb.NewImage
		switch r.EventName {
		case types.OperationTypeInsert:
			kind = models.ADDED
		case types.OperationTypeRemove:
			kind = models.REMOVED
			image = r.Dynamodb.OldImage
			if image == nil {
				image = r.Dynamodb.Keys
			}
		}

		ticket, err := toTicket(image)
		if err != nil {
			slog.Error("skipping undecodable ticket stream record", "eventId", aws.ToString(r.EventID), "error", err)
			continue
		}
		if kind != models.REMOVED && !filter.Match(&ticket) {
			continue
		}
		cs.Changes = append(cs.Changes, models.TicketChange{Kind: kind, Ticket: ticket})
	}
	return cs
}
