package queue

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producteur Kafka optionnel : les événements de cycle de vie des commandes
// partent vers un topic pour l'analytique hors ligne. Sans KAFKA_BROKERS,
// tout reste en pub/sub Redis.

var writer *kafka.Writer

// InitKafka configure le writer si KAFKA_BROKERS est renseigné
func InitKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("⚠️ KAFKA_BROKERS absent — événements Kafka désactivés")
		return
	}

	topic := os.Getenv("KAFKA_ORDER_TOPIC")
	if topic == "" {
		topic = "order-events"
	}

	writer = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // même commande → même partition
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		WriteTimeout: 5 * time.Second,
		ReadTimeout:  5 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	}
	log.Println("✅ Producteur Kafka initialisé sur", topic)
}

// CloseKafka libère le writer
func CloseKafka() error {
	if writer == nil {
		return nil
	}
	return writer.Close()
}

func publishKafka(ctx context.Context, evt OrderEvent) {
	if writer == nil {
		return
	}

	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	// clé = id de commande, pour l'ordre par partition
	if err := writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: b,
	}); err != nil {
		log.Printf("⚠️ Erreur publication Kafka (%s): %v", evt.Type, err)
	}
}
