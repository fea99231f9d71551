package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

var (
	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

// IDProvider issues new entity identifiers. Identifiers must sort in
// creation order; the default provider issues UUIDv7.
type IDProvider interface {
	NewID() (string, error)
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7 identifiers.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// StoreConfig carries the dependencies of a Store.
type StoreConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Store implements the repository protocol over the genealogy schema. All
// reads exclude soft-deleted rows; all timestamps come from the injected
// clock, truncated to millisecond precision.
type Store struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewStore validates the configuration and returns a Store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	idProvider := cfg.IDProvider
	if idProvider == nil {
		idProvider = NewUUIDProvider()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Store{
		db:         cfg.Database,
		clock:      clock,
		idProvider: idProvider,
		logger:     logger,
	}, nil
}

// now returns the current UTC time at millisecond precision.
func (s *Store) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// newID issues a fresh identifier or surfaces an internal error.
func (s *Store) newID() (string, error) {
	id, err := s.idProvider.NewID()
	if err != nil {
		return "", domain.InternalError("id generation failed: %v", err)
	}
	return id, nil
}

// dbError wraps a gorm failure into the domain taxonomy. Errors already in
// the taxonomy pass through, so a guard failing inside a transaction keeps
// its kind.
func dbError(err error) error {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return domain.DatabaseError(err)
}

func (s *Store) logError(operation string, err error, fields ...zap.Field) {
	switch domain.KindOf(err) {
	case domain.ErrorKindNotFound, domain.ErrorKindValidation:
		return
	}
	attrs := append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)
	s.logger.Error("store error", attrs...)
}

// cursorID validates an `after` cursor as a UUID and returns it.
func cursorID(after string) (string, error) {
	if after == "" {
		return "", nil
	}
	parsed, err := uuid.Parse(after)
	if err != nil {
		return "", domain.ValidationError("invalid cursor: %s", after)
	}
	return parsed.String(), nil
}
