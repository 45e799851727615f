// Package kafka publishes settlement recomputation events to the payment
// gateway's topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/settlement"

	"github.com/segmentio/kafka-go"
)

// SettlementPublisher writes one message per settlement recomputation, keyed
// by parcel ID so the gateway consumes per-parcel updates in order.
type SettlementPublisher struct {
	writer *kafka.Writer
}

// NewSettlementPublisher creates a publisher writing to the given broker and
// topic.
func NewSettlementPublisher(broker string, topic string) *SettlementPublisher {
	return &SettlementPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

type recordMessage struct {
	ID              string `json:"id"`
	PayeeCourierID  string `json:"payee_courier_id"`
	PayerClientID   string `json:"payer_client_id"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
	ClientValidated bool   `json:"client_validated"`
}

type recomputedMessage struct {
	ParcelID     string          `json:"parcel_id"`
	Records      []recordMessage `json:"records"`
	RecomputedAt time.Time       `json:"recomputed_at"`
}

// PublishRecomputed sends the parcel's freshly recomputed record set.
func (p *SettlementPublisher) PublishRecomputed(
	ctx context.Context,
	parcelID kernel.UUID,
	records []*settlement.Record,
) error {
	message := recomputedMessage{
		ParcelID:     parcelID.String(),
		Records:      make([]recordMessage, 0, len(records)),
		RecomputedAt: time.Now().UTC(),
	}

	for _, record := range records {
		message.Records = append(message.Records, recordMessage{
			ID:              record.ID().String(),
			PayeeCourierID:  record.PayeeCourierID().String(),
			PayerClientID:   record.PayerClientID().String(),
			Amount:          record.Amount().StringFixed(2),
			Status:          record.Status().String(),
			ClientValidated: record.ClientValidated(),
		})
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal settlement message: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(parcelID.String()),
		Value: payload,
	})
}

// Close releases the underlying Kafka writer.
func (p *SettlementPublisher) Close() error {
	return p.writer.Close()
}
