package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"homestock/internal/core/id"
	"homestock/internal/domain/item"
)

// CompressionAlgo specifies the compression algorithm used for a change
// payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ChangeEntry is one journaled item mutation.
type ChangeEntry struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            string          `db:"action"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// Compile-time check.
var _ item.ChangeRecorder = (*ChangeLog)(nil)

// ChangeLog journals committed item mutations. Enrichment payloads can be
// sizable, so large change bodies are zstd-compressed before storage.
type ChangeLog struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	compressThreshold int // bytes
}

// NewChangeLog creates a change log writer.
func NewChangeLog(txm *TxManager) (*ChangeLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	return &ChangeLog{
		txm:               txm,
		encoder:           encoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record writes one change entry. Callers invoke it after their
// transaction commits; failures are theirs to log and ignore.
func (c *ChangeLog) Record(ctx context.Context, action string, itemID id.ID, changes any) error {
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	entry := ChangeEntry{
		ID:              id.New(),
		EntityType:      "item",
		EntityID:        itemID,
		Action:          action,
		Changes:         payload,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(payload) > c.compressThreshold {
		entry.ChangesCompressed = c.encoder.EncodeAll(payload, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}

	q := builder().
		Insert("change_log").
		Columns("id", "entity_type", "entity_id", "action",
			"changes", "changes_compressed", "compression_algo", "created_at").
		Values(entry.ID, entry.EntityType, entry.EntityID, entry.Action,
			entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo, entry.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := c.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert change entry: %w", err)
	}
	return nil
}
