package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
)

var _ port.RecallProducer = (*RecallRuleProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, rs ...*kgo.Record) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A RecallRuleProducer emits [domain.RecallRule] keyed by SKU, so the
// compacted rule table keeps the latest verdict per SKU.
type RecallRuleProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewRecallRuleProducer(opts ...ProducerOpt) (RecallRuleProducer, error) {
	const op = "NewRecallRuleProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return RecallRuleProducer{}, opErr(err, op)
		}
	}

	opPrefix := "RecallRuleProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return RecallRuleProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p RecallRuleProducer) Close() {
	p.producer.close()
}

func (p RecallRuleProducer) ProduceRecall(
	ctx context.Context, v domain.RecallRule,
) error {
	const op = "ProduceRecall"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	s := recallToSchemaV1(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r := &kgo.Record{Key: []byte(s.SKU), Value: b}
	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}
