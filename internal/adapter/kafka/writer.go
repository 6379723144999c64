package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/profile-header-etl/internal/config"
	"github.com/couchcryptid/profile-header-etl/internal/domain"
)

// Writer produces normalized header records to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes header records to the sink topic in a
// single WriteMessages call. Records are keyed by site so one site's pits
// land on one partition.
func (w *Writer) LoadBatch(ctx context.Context, headers []domain.NormalizedProfileHeader) error {
	if len(headers) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(headers))
	for i := range headers {
		msg, err := serializeToMessage(headers[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d header records: %w", len(msgs), err)
	}
	w.logger.Debug("header records written", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals the storage record of a header into a Kafka message.
func serializeToMessage(h domain.NormalizedProfileHeader) (kafkago.Message, error) {
	data, err := json.Marshal(h.Record())
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize header record: %w", err)
	}

	profileType := "site"
	if types := h.ProfileTypes(); len(types) > 0 {
		profileType = strings.Join(types, ",")
	}

	return kafkago.Message{
		Key:   []byte(messageKey(h)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "profile_type", Value: []byte(profileType)},
			{Key: "processed_at", Value: []byte(h.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}

func messageKey(h domain.NormalizedProfileHeader) string {
	switch {
	case h.SiteID != "":
		return h.SiteID
	case h.PitID != "":
		return h.PitID
	default:
		return h.SourceFile
	}
}
