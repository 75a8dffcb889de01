package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/repository"
)

// AddCounter validates and inserts a counter, returning its new id.
func (s *Service) AddCounter(ctx context.Context, c counter.Counter) Result[int64] {
	id, err := s.addCounter(ctx, s.stores, c)
	return finish(ctx, s, opAdd, named("counter", c.Name), id, err)
}

// DeleteCounter removes a normal counter, returning the number of rows deleted.
func (s *Service) DeleteCounter(ctx context.Context, id int64) Result[int64] {
	n, err := s.deleteCounter(ctx, s.stores, id)
	return finish(ctx, s, opDelete, withID("counter", id), n, err)
}

// GetCounter fetches a counter by id.
func (s *Service) GetCounter(ctx context.Context, id int64) Result[counter.Counter] {
	c, err := s.getCounter(ctx, s.stores, id)
	return finish(ctx, s, opGet, withID("counter", id), c, err)
}

// UpdateCounter writes a changed counter. A payload identical to the stored
// row is rejected with ErrNoChangeDetected.
func (s *Service) UpdateCounter(ctx context.Context, c counter.Counter) Result[int64] {
	n, err := s.updateCounter(ctx, s.stores, c)
	return finish(ctx, s, opUpdate, named("counter", c.Name), n, err)
}

// UpdateCounters writes several counters in one transaction. The first
// failure rolls every write back.
func (s *Service) UpdateCounters(ctx context.Context, counters ...counter.Counter) Result[int64] {
	subject := fmt.Sprintf("%d counters", len(counters))
	if len(counters) == 1 {
		subject = named("counter", counters[0].Name)
	}

	var total int64
	err := s.inTx(ctx, func(ctx context.Context, st repository.Stores) error {
		total = 0
		for _, c := range counters {
			n, err := s.updateCounter(ctx, st, c)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	return finish(ctx, s, opUpdate, subject, total, err)
}

// GetPartCounters lists the counters owned by a part.
func (s *Service) GetPartCounters(ctx context.Context, partID int64) Result[[]counter.Counter] {
	list, err := s.partCounters(ctx, s.stores, partID)
	return finish(ctx, s, opGet, withID("counters of part", partID), list, err)
}

func (s *Service) addCounter(ctx context.Context, st repository.Stores, c counter.Counter) (int64, error) {
	if isBlank(c.Name) {
		return 0, kindErr(ErrBlankName, msgCounterNameBlank)
	}
	if c.ID != 0 {
		exists, err := st.Counters.Exists(ctx, c.ID)
		if err != nil {
			return 0, storeErr("checking counter id", err)
		}
		if exists {
			return 0, kindErr(ErrAlreadyExists, msgCounterAlreadyExists)
		}
	}
	if c.OwningPartID <= 0 {
		return 0, kindErr(ErrDoesNotExist, msgCounterPartIDInvalid)
	}

	c = c.WithDefaults()
	c.Version = 0
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	exists, err := st.Parts.Exists(ctx, c.OwningPartID)
	if err != nil {
		return 0, storeErr("checking owning part", err)
	}
	if !exists {
		return 0, kindErr(ErrDoesNotExist, msgCounterPartMissing)
	}

	if c.Type != counter.TypeNormal {
		taken, err := st.Counters.FindByType(ctx, c.OwningPartID, c.Type)
		if err != nil {
			return 0, storeErr("checking part counters", err)
		}
		if len(taken) > 0 {
			return 0, kindErr(ErrAlreadyExists, msgCounterSingletonTaken, c.Type)
		}
	}

	id, err := st.Counters.Insert(ctx, c)
	if err != nil {
		return 0, storeErr("inserting counter", err)
	}
	return id, nil
}

func (s *Service) deleteCounter(ctx context.Context, st repository.Stores, id int64) (int64, error) {
	c, err := s.getCounter(ctx, st, id)
	if err != nil {
		return 0, err
	}
	if !c.UserDeletable() {
		return 0, kindErr(ErrNotUserDeletable, msgCounterNotDeletable)
	}
	n, err := st.Counters.DeleteByID(ctx, id)
	if err != nil {
		return 0, storeErr("deleting counter", err)
	}
	return n, nil
}

func (s *Service) getCounter(ctx context.Context, st repository.Stores, id int64) (counter.Counter, error) {
	if id <= 0 {
		return counter.Counter{}, kindErr(ErrDoesNotExist, msgCounterIDInvalid)
	}
	c, err := st.Counters.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return counter.Counter{}, kindErr(ErrDoesNotExist, msgCounterDoesNotExist)
	}
	if err != nil {
		return counter.Counter{}, storeErr("loading counter", err)
	}
	return *c, nil
}

// updateCounter checks, in order: existence, name, version, field rules and
// then whether anything changed. A stale version is a conflict even when the
// payload matches the stored state.
func (s *Service) updateCounter(ctx context.Context, st repository.Stores, c counter.Counter) (int64, error) {
	stored, err := s.getCounter(ctx, st, c.ID)
	if err != nil {
		return 0, err
	}
	if isBlank(c.Name) {
		return 0, kindErr(ErrBlankName, msgCounterNameBlank)
	}
	if c.Version != stored.Version {
		return 0, kindErr(ErrConflict, msgCounterStale, c.Version, stored.Version)
	}

	// Type and owner are fixed at creation.
	c.Type = stored.Type
	c.OwningPartID = stored.OwningPartID
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if c.SameState(stored) {
		return 0, kindErr(ErrNoChangeDetected, msgCounterUnchanged)
	}

	n, err := st.Counters.Update(ctx, c)
	if err != nil {
		return 0, storeErr("updating counter", err)
	}
	return n, nil
}

func (s *Service) partCounters(ctx context.Context, st repository.Stores, partID int64) ([]counter.Counter, error) {
	if partID <= 0 {
		return nil, kindErr(ErrDoesNotExist, msgPartIDInvalid)
	}
	exists, err := st.Parts.Exists(ctx, partID)
	if err != nil {
		return nil, storeErr("checking part", err)
	}
	if !exists {
		return nil, kindErr(ErrDoesNotExist, msgPartDoesNotExist)
	}
	list, err := st.Counters.GetAllForPart(ctx, partID)
	if err != nil {
		return nil, storeErr("listing counters", err)
	}
	return list, nil
}
