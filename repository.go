package dynaroute

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IDGenerator returns a new unique record identifier.
type IDGenerator func() string

// RepositoryOptions contains configuration options for a Repository.
type RepositoryOptions struct {
	Logger logrus.FieldLogger // Logger for store failures. Default is the logrus standard logger.
	NewID  IDGenerator        // Identifier generator. Default is uuid.NewString.
}

func (ro *RepositoryOptions) apply(opts []func(*RepositoryOptions)) {
	for _, opt := range opts {
		opt(ro)
	}
}

// DeleteResult is the outcome of a delete. It does not distinguish a deleted
// record from one that was already absent.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Repository implements the CRUD operations of one domain against a single
// collection of a Store. A Repository holds no mutable state and is safe for
// concurrent use.
type Repository struct {
	store      Store
	domain     Domain
	collection string
	log        logrus.FieldLogger
	newID      IDGenerator
}

// NewRepository creates a Repository for domain records stored in collection.
func NewRepository(store Store, domain Domain, collection string, opts ...func(*RepositoryOptions)) *Repository {
	options := RepositoryOptions{
		Logger: logrus.StandardLogger(),
		NewID:  uuid.NewString,
	}
	options.apply(opts)

	return &Repository{
		store:      store,
		domain:     domain,
		collection: collection,
		log: options.Logger.WithFields(logrus.Fields{
			"domain":     domain.Name,
			"collection": collection,
		}),
		newID: options.NewID,
	}
}

// Domain returns the repository's domain.
func (r *Repository) Domain() Domain { return r.domain }

// Collection returns the name of the backing collection.
func (r *Repository) Collection() string { return r.collection }

// Create writes rec to the collection, assigning a new identifier when rec
// has none, and returns the record as stored. An existing record with the
// same identifier is replaced entirely. The input is not modified.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	if rec == nil {
		return nil, fmt.Errorf("%s: %w", r.domain.RecordArgument(), ErrMissingArgument)
	}

	stored := rec.Clone()
	if stored.ID() == "" {
		stored[KeyAttribute] = r.newID()
	}

	if err := r.store.Put(ctx, r.collection, stored); err != nil {
		r.log.WithError(err).WithField("id", stored.ID()).Error("failed to create record")
		return nil, err
	}
	return stored, nil
}

// GetByID returns the record with the given identifier. A missing record
// yields an error wrapping ErrNotFound; a backend failure yields a
// *StoreError.
func (r *Repository) GetByID(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: %w", r.domain.IDArgument(), ErrMissingArgument)
	}

	rec, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.WithError(err).WithField("id", id).Error("failed to get record")
		}
		return nil, err
	}
	return rec, nil
}

// ListAll returns every record in the collection. The result is unordered
// and never nil on success.
func (r *Repository) ListAll(ctx context.Context) ([]Record, error) {
	records, err := r.store.Scan(ctx, r.collection)
	if err != nil {
		r.log.WithError(err).Error("failed to list records")
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// DeleteByID removes the record with the given identifier without checking
// that it exists. Deleting an absent record succeeds.
func (r *Repository) DeleteByID(ctx context.Context, id string) (DeleteResult, error) {
	failed := DeleteResult{
		Success: false,
		Message: fmt.Sprintf("Failed to delete item with id %s", id),
	}

	if id == "" {
		return failed, fmt.Errorf("%s: %w", r.domain.IDArgument(), ErrMissingArgument)
	}

	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		r.log.WithError(err).WithField("id", id).Error("failed to delete record")
		return failed, err
	}

	return DeleteResult{
		Success: true,
		Message: fmt.Sprintf("Item with id %s deleted successfully", id),
	}, nil
}
