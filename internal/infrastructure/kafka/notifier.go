// Package kafka publica los eventos de cambio de stock hacia un broker Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/AQIB050506/stockmaster/internal/application/ledger"
	"github.com/AQIB050506/stockmaster/pkg/logger"
)

var _ ledger.Notifier = (*StockNotifier)(nil)

// StockNotifier implementación de ledger.Notifier sobre Kafka.
// Entrega fire-and-forget: un fallo de publicación se registra y se descarta,
// nunca bloquea ni revierte el completado de la transacción.
type StockNotifier struct {
	writer *kafkago.Writer
	log    *logger.Logger
}

// NewStockNotifier construye el notificador contra un broker y un topic.
func NewStockNotifier(broker, topic string, log *logger.Logger) *StockNotifier {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(broker),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafkago.RequireOne,
	}
	return &StockNotifier{writer: writer, log: log}
}

// NotifyStockChanged publica el evento con la transacción como clave de partición.
func (n *StockNotifier) NotifyStockChanged(ctx context.Context, event ledger.StockChangedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error().Err(err).Str("transaction_id", event.TransactionID).Msg("serializar evento de stock")
		return
	}
	err = n.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.TransactionID),
		Value: payload,
	})
	if err != nil {
		n.log.Error().Err(err).Str("transaction_id", event.TransactionID).Msg("publicar evento de stock")
	}
}

// Close cierra el writer subyacente.
func (n *StockNotifier) Close() error {
	return n.writer.Close()
}
