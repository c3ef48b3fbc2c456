package repository

import (
	"context"
	"database/sql"
	"fmt"

	"FuelDesk/internal/domain/models"
	"FuelDesk/internal/domain/repository"
	pkgkafka "FuelDesk/pkg/kafka"
)

const journalColumns = "dispatch_id, generation, endpoint, phase, shape, message, error_kind, error_text, status_code, duration_ms, started_at, resolved_at"

// JournalSchema returns the DDL of the journal table.
func JournalSchema(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    dispatch_id String,
    generation  UInt64,
    endpoint    LowCardinality(String),
    phase       LowCardinality(String),
    shape       LowCardinality(String),
    message     String,
    error_kind  LowCardinality(String),
    error_text  String,
    status_code UInt16,
    duration_ms Int64,
    started_at  DateTime64(3),
    resolved_at DateTime64(3)
) ENGINE = MergeTree
ORDER BY (resolved_at, endpoint)`, table)}
}

// ClickHouseJournalStorage implements JournalStorage for ClickHouse.
type ClickHouseJournalStorage struct {
	db    *sql.DB
	table string
}

// NewClickHouseJournalStorage creates ClickHouse journal storage.
func NewClickHouseJournalStorage(db *sql.DB, table string) repository.JournalStorage {
	return &ClickHouseJournalStorage{db: db, table: table}
}

func (s *ClickHouseJournalStorage) Init(ctx context.Context) error {
	for _, stmt := range JournalSchema(s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", s.table, err)
		}
	}
	return nil
}

func (s *ClickHouseJournalStorage) Store(ctx context.Context, e *models.JournalEntry) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, journalColumns)
	_, err := s.db.ExecContext(ctx, q, journalRow(e)...)
	return err
}

func (s *ClickHouseJournalStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseJournalStorage) Close() error {
	return nil // pool owned by pkg/clickhouse
}

func journalRow(e *models.JournalEntry) []interface{} {
	return []interface{}{
		e.DispatchID,
		e.Generation,
		string(e.Endpoint),
		string(e.Phase),
		string(e.Shape),
		e.Message,
		string(e.ErrorKind),
		e.ErrorText,
		uint16(e.StatusCode),
		e.DurationMs,
		e.StartedAt,
		e.ResolvedAt,
	}
}

// KafkaJournalPublisher implements JournalPublisher for Kafka. Entries are
// keyed by dispatch id.
type KafkaJournalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaJournalPublisher creates a Kafka journal publisher.
func NewKafkaJournalPublisher(producer *pkgkafka.Producer, topic string) repository.JournalPublisher {
	return &KafkaJournalPublisher{producer: producer, topic: topic}
}

func (p *KafkaJournalPublisher) Publish(ctx context.Context, e *models.JournalEntry) error {
	return p.producer.Publish(ctx, journalMessage(p.topic, e))
}

// journalMessage carries endpoint and phase as headers so consumers can
// filter without decoding the value.
func journalMessage(topic string, e *models.JournalEntry) pkgkafka.Message {
	return pkgkafka.Message{
		Topic: topic,
		Key:   e.DispatchID,
		Value: e,
		Headers: map[string]string{
			"endpoint": string(e.Endpoint),
			"phase":    string(e.Phase),
		},
	}
}

func (p *KafkaJournalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
