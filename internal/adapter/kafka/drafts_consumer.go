package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
	"github.com/niksmo/catalog-engine/pkg/schema"
)

type DraftsConsumerOpt func(*draftsConsumerOpts) error

func DraftsConsumerClientOpt(cl ConsumerClient) DraftsConsumerOpt {
	return func(opts *draftsConsumerOpts) error {
		if cl != nil {
			opts.cl = cl
			return nil
		}
		return errors.New("consumer client is nil")
	}
}

func DraftsConsumerImporterOpt(imp port.DraftImporter) DraftsConsumerOpt {
	return func(opts *draftsConsumerOpts) error {
		if imp != nil {
			opts.importer = imp
			return nil
		}
		return errors.New("consumer draft importer is nil")
	}
}

func DraftsConsumerDecodeFnOpt(decodeFn func([]byte, any) error) DraftsConsumerOpt {
	return func(opts *draftsConsumerOpts) error {
		if decodeFn != nil {
			opts.decodeFn = decodeFn
			return nil
		}
		return errors.New("consumer decode func is nil")
	}
}

type draftsConsumerOpts struct {
	cl       ConsumerClient
	importer port.DraftImporter
	decodeFn func([]byte, any) error
}

// A DraftsConsumer polls accepted draft messages and hands each one to
// the importer, which normalizes it into a review draft.
type DraftsConsumer struct {
	cl       ConsumerClient
	importer port.DraftImporter
	decodeFn func([]byte, any) error
	errTimer *time.Timer
}

func NewDraftsConsumer(opts ...DraftsConsumerOpt) DraftsConsumer {
	const op = "NewDraftsConsumer"

	if len(opts) == 0 {
		panic(fmt.Errorf("%s: options not set", op)) // develop mistake
	}

	var options draftsConsumerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			panic(err) // develop mistake
		}
	}

	return DraftsConsumer{
		cl:       options.cl,
		importer: options.importer,
		decodeFn: options.decodeFn,
		errTimer: time.NewTimer(0),
	}
}

func (c DraftsConsumer) Close() {
	const op = "DraftsConsumer.Close"
	log := slog.With("op", op)

	log.Info("closing consumer...")
	c.errTimer.Stop()
	c.cl.Close()
	log.Info("consumer is closed")
}

func (c DraftsConsumer) Run(ctx context.Context) {
	const op = "DraftsConsumer.Run"
	log := slog.With("op", op)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					log.Info("context canceled")
					continue
				}
				err = fmt.Errorf("%s: %w", op, err)
				log.Error("failed to consume messages", "err", err)
				c.slowDown()
			}
			err = c.commit(ctx)
			if err != nil {
				log.Error("failed to commit offset", "err", err)
			}
		}
	}
}

func (c DraftsConsumer) commit(ctx context.Context) error {
	const op = "DraftsConsumer.commit"
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c DraftsConsumer) consume(ctx context.Context) error {
	const op = "DraftsConsumer.consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if fetches.Empty() {
		return nil
	}

	for _, d := range c.toDrafts(fetches) {
		c.importDraft(ctx, d)
	}
	return nil
}

func (c DraftsConsumer) importDraft(ctx context.Context, d domain.ImportedDraft) {
	const op = "DraftsConsumer.importDraft"
	log := slog.With("op", op)

	draft, err := c.importer.ImportDraft(ctx, d)
	if err != nil {
		log.Error("failed to import draft", "sku", d.SKU, "err", err)
		return
	}
	log.Info("draft imported",
		"id", draft.ID, "sku", draft.SKU,
		"type", draft.SuggestedType, "nWarnings", len(draft.Warnings),
	)
}

func (c DraftsConsumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "DraftsConsumer.pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err := c.handleErrs(fetches)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return fetches, nil
}

func (c DraftsConsumer) handleErrs(fetches kgo.Fetches) error {
	var errsData []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errData := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsData = append(errsData, errData)
		}
	})

	if len(errsData) != 0 {
		return errors.New(strings.Join(errsData, "; "))
	}
	return nil
}

func (c DraftsConsumer) toDrafts(fetches kgo.Fetches) (ds []domain.ImportedDraft) {
	const op = "DraftsConsumer.toDrafts"
	log := slog.With("op", op)

	fetches.EachRecord(func(r *kgo.Record) {
		s, err := c.unmarshal(r.Value)
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			log.Error("failed to unmarshal value", "err", err)
			return
		}
		ds = append(ds, draftToDomain(s))
	})
	return ds
}

func (c DraftsConsumer) unmarshal(v []byte) (s schema.ProductDraftV1, err error) {
	const op = "DraftsConsumer.unmarshal"

	if err := c.decodeFn(v, &s); err != nil {
		return s, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (c DraftsConsumer) slowDown() {
	const timeout = 1 * time.Second
	c.errTimer.Reset(timeout)
	<-c.errTimer.C
}
