package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"

	"github.com/niksmo/catalog-engine/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A recallEventCodec used for serde [schema.RecallRuleV1]
type recallEventCodec struct {
	serde Serde
}

func newRecallEventCodec(s Serde) recallEventCodec {
	return recallEventCodec{s}
}

func (c recallEventCodec) Encode(v any) ([]byte, error) {
	const op = "recallEventCodec.Encode"
	if _, ok := v.(schema.RecallRuleV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c recallEventCodec) Decode(data []byte) (any, error) {
	const op = "recallEventCodec.Decode"
	var s schema.RecallRuleV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A recallValue marks one SKU as recalled in the group table.
type recallValue bool

// A recallValueCodec used for serde [recallValue]
type recallValueCodec struct{}

func (recallValueCodec) Encode(v any) ([]byte, error) {
	const op = "recallValueCodec.Encode"
	rv, ok := v.(recallValue)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	data := strconv.AppendBool([]byte(nil), bool(rv))
	return data, nil
}

func (recallValueCodec) Decode(data []byte) (any, error) {
	const op = "recallValueCodec.Decode"
	rv, err := strconv.ParseBool(string(data))
	if err != nil {
		return nil, opErr(err, op)
	}
	return recallValue(rv), nil
}

// A RecallTableProcessor folds the recall-rule stream into the
// compacted per-SKU group table the gate joins against.
type RecallTableProcessor struct {
	opPrefix string
	proc     processor
}

func NewRecallTableProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	recallSerde Serde,
) (*RecallTableProcessor, error) {
	const op = "NewRecallTableProcessor"

	var p RecallTableProcessor

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			newRecallEventCodec(recallSerde),
			p.processFn,
		),
		goka.Persist(recallValueCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.opPrefix = "RecallTableProcessor"
	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *RecallTableProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *RecallTableProcessor) Close() {
	p.proc.close()
}

func (p *RecallTableProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	event, _ := msg.(schema.RecallRuleV1)
	v := recallValue(event.Recalled)
	ctx.SetValue(v)
	log.Info(
		"set recall value",
		"sku", event.SKU,
		"isRecalled", v,
	)
}

// A draftEventCodec used for serde [schema.ProductDraftV1]
type draftEventCodec struct {
	serde Serde
}

func newDraftEventCodec(s Serde) draftEventCodec {
	return draftEventCodec{s}
}

func (c draftEventCodec) Encode(v any) ([]byte, error) {
	const op = "draftEventCodec.Encode"
	if _, ok := v.(schema.ProductDraftV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c draftEventCodec) Decode(data []byte) (any, error) {
	const op = "draftEventCodec.Decode"
	var s schema.ProductDraftV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A DraftGateProcessor reads raw drafts from the input stream,
//
// dropping drafts whose SKU is recalled and forwarding the rest to the
// accepted-drafts topic the consumer reads.
type DraftGateProcessor struct {
	opPrefix     string
	proc         processor
	joinedTable  goka.Table
	outputStream goka.Stream
}

func NewDraftGateProc(
	seedBrokers []string,
	inputStream string,
	recallGroupTable string,
	outputTopic string,
	draftSerde Serde,
) (*DraftGateProcessor, error) {
	const op = "NewDraftGateProcessor"

	var p DraftGateProcessor

	draftEventCodec := newDraftEventCodec(draftSerde)
	input := goka.Stream(inputStream)
	joinedTable := goka.GroupTable(goka.Group(recallGroupTable))
	outputStream := goka.Stream(outputTopic)

	gg := goka.DefineGroup(goka.Group("draft-gate-group"),
		goka.Input(input, draftEventCodec, p.processFn),
		goka.Join(joinedTable, recallValueCodec{}),
		goka.Output(outputStream, draftEventCodec),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.opPrefix = "DraftGateProcessor"
	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}
	p.joinedTable = joinedTable
	p.outputStream = outputStream
	return &p, nil
}

func (p *DraftGateProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *DraftGateProcessor) Close() {
	p.proc.close()
}

func (p *DraftGateProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	draftV, _ := msg.(schema.ProductDraftV1)
	log := slog.With(
		"op", makeOp(p.opPrefix, op), "sku", draftV.SKU,
	)

	v, ok := ctx.Join(p.joinedTable).(recallValue)
	if ok && bool(v) {
		log.Warn("draft is recalled")
		return
	}
	ctx.Emit(p.outputStream, draftV.SKU, draftV)
	log.Info("draft is accepted")
}
