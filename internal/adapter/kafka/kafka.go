// Package kafka is the broker edge of the import pipeline: the drafts
// consumer, the recall-rule producer and the goka processors that keep
// recalled SKUs out of review.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/pkg/schema"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string,
) ProducerOpt {
	return func(opts *producerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func draftToDomain(s schema.ProductDraftV1) domain.ImportedDraft {
	return domain.ImportedDraft{
		SourceURL:     s.SourceURL,
		SuggestedType: domain.TypeTag(s.SuggestedType),
		SKU:           s.SKU,
		Name:          s.Name,
		Brand:         s.Brand,
		CategoryID:    s.CategoryID,
		SellingPrice:  s.SellingPrice,
		MRP:           s.MRP,
		RawAttributes: domain.RawAttrs(s.RawAttributes),
	}
}

func recallToSchemaV1(v domain.RecallRule) schema.RecallRuleV1 {
	return schema.RecallRuleV1{
		SKU:      v.SKU,
		Recalled: v.Recalled,
		Reason:   v.Reason,
	}
}
