package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/session"
)

// HistoryStore persists per-identity chat histories in BadgerDB. Each
// identity maps to one JSON blob holding its trimmed history; a blob whose
// newest turn has aged past the freshness window is discarded on load.
type HistoryStore struct {
	db     *badger.DB
	window time.Duration
	limit  int
	logger *slog.Logger
}

// DefaultFreshnessWindow is how long a persisted history stays restorable.
const DefaultFreshnessWindow = 24 * time.Hour

// historyBlob is the stored value shape. Turns are kept as the client-facing
// JSON so the blob round-trips with the widget's own persisted state.
type historyBlob struct {
	Turns   []core.ChatTurn `json:"turns"`
	SavedAt time.Time       `json:"savedAt"`
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Option configures a HistoryStore.
type Option func(*HistoryStore) error

// WithFreshnessWindow overrides the default 24h restore window.
func WithFreshnessWindow(window time.Duration) Option {
	return func(s *HistoryStore) error {
		if window <= 0 {
			window = DefaultFreshnessWindow
		}
		s.window = window
		return nil
	}
}

// WithHistoryLimit overrides the per-identity turn cap.
func WithHistoryLimit(limit int) Option {
	return func(s *HistoryStore) error {
		if limit < 1 {
			limit = session.HistoryLimit
		}
		s.limit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *HistoryStore) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// Open opens (creating if needed) a history store at the given directory.
func Open(filePath string, opts ...Option) (*HistoryStore, error) {
	return open(filePath, false, opts...)
}

// OpenInMemory opens an ephemeral history store, used in tests and the CLI's
// one-shot mode.
func OpenInMemory(opts ...Option) (*HistoryStore, error) {
	return open("", true, opts...)
}

func open(filePath string, inMemory bool, opts ...Option) (*HistoryStore, error) {
	var badgerOpts badger.Options

	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		badgerOpts = badger.DefaultOptions(filePath)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	s := &HistoryStore{
		db:     db,
		window: DefaultFreshnessWindow,
		limit:  session.HistoryLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close closes the underlying database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Save persists the history for an identity: pending turns are dropped and
// the remainder trimmed to the most recent limit turns. Saving an empty
// history deletes the blob.
func (s *HistoryStore) Save(ctx context.Context, identity string, turns []core.ChatTurn) error {
	if identity == "" {
		return session.ErrIdentityRequired
	}

	history := make([]core.ChatTurn, 0, len(turns))
	for _, turn := range turns {
		if turn.Pending {
			continue
		}
		history = append(history, turn)
	}
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}

	key := historyKey(identity)
	if len(history) == 0 {
		return s.db.Update(func(tx *badger.Txn) error {
			return tx.Delete(key)
		})
	}

	value, err := json.Marshal(historyBlob{Turns: history, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(key, value)
	})
}

// Load restores the history for an identity. It returns (nil, nil) when no
// history exists, and discards (and deletes) a history whose most recent
// turn is outside the freshness window relative to now. Stale histories
// are dropped whole, never partially merged.
func (s *HistoryStore) Load(ctx context.Context, identity string, now time.Time) ([]core.ChatTurn, error) {
	if identity == "" {
		return nil, session.ErrIdentityRequired
	}

	key := historyKey(identity)
	var blob historyBlob
	found := false

	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &blob)
		})
	})
	if err != nil {
		return nil, err
	}
	if !found || len(blob.Turns) == 0 {
		return nil, nil
	}

	newest := blob.Turns[len(blob.Turns)-1].Timestamp
	if now.Sub(newest) >= s.window {
		s.logger.Debug("discarding stale history", "age", now.Sub(newest))
		if err := s.db.Update(func(tx *badger.Txn) error {
			return tx.Delete(key)
		}); err != nil {
			s.logger.Warn("failed to delete stale history", "err", err)
		}
		return nil, nil
	}

	return blob.Turns, nil
}
