package kafkaSender

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"github.com/velora-shop/cartserv/internal/repository"
)

type Config struct {
	Brokers       []string `json:"brokers"`
	Topic         string   `json:"topic"`
	PeriodSeconds int      `json:"period_seconds"`
}

// Sender drains the cart event outbox: it polls the repository for the
// next unsent event, publishes it to Kafka and marks it done. Events stay
// in the outbox until the publish succeeds, so a broker outage delays
// delivery instead of losing it.
type Sender struct {
	cfg      Config
	events   repository.EventSource
	producer sarama.SyncProducer
	stopCh   chan struct{}
}

func NewSender(cfg Config, events repository.EventSource) *Sender {
	return &Sender{
		cfg:    cfg,
		events: events,
		stopCh: make(chan struct{}),
	}
}

func (s *Sender) Start(ctx context.Context) error {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(s.cfg.Brokers, config)
	if err != nil {
		return fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	s.producer = producer

	period := time.Duration(s.cfg.PeriodSeconds) * time.Second
	if period <= 0 {
		period = 5 * time.Second
	}

	go s.run(period)

	return nil
}

func (s *Sender) Stop(ctx context.Context) error {
	close(s.stopCh)
	return s.producer.Close()
}

func (s *Sender) run(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			log.Println("stopping event processing")
			return
		case <-ticker.C:
		}

		ctx := context.Background()

		event, err := s.events.GetNextEvent(ctx)
		if err != nil {
			log.Printf("failed to get new event: %v", err)
			continue
		}
		if event.ID == 0 {
			continue
		}

		if err := s.send(event); err != nil {
			log.Printf("failed to send Kafka message: %v", err)
			continue
		}

		if err := s.events.SetEventDone(ctx, event.ID); err != nil {
			log.Printf("failed to set event done: %v", err)
			continue
		}
	}
}

func (s *Sender) send(event repository.Event) error {
	msg := &sarama.ProducerMessage{
		Topic: s.cfg.Topic,
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.StringEncoder(event.Message),
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish event %d: %w", event.ID, err)
	}

	log.Printf("event %d published: partition=%d, offset=%d", event.ID, partition, offset)
	return nil
}
