package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/repository"
)

// AddPart inserts a part together with its Global and Stitch counters and
// returns the new part id. A current part replaces the project's previous
// current part.
func (s *Service) AddPart(ctx context.Context, p part.Part) Result[int64] {
	var id int64
	err := s.inTx(ctx, func(ctx context.Context, st repository.Stores) error {
		var err error
		id, err = s.addPart(ctx, st, p)
		if err != nil {
			return err
		}
		return s.seedPartCounters(ctx, st, id)
	})
	if err != nil {
		id = 0
	}
	return finish(ctx, s, opAdd, named("part", p.Name), id, err)
}

// DeletePart removes a part and every counter it owns. When the part was
// current, the first remaining part of the project becomes current.
func (s *Service) DeletePart(ctx context.Context, id int64) Result[int64] {
	if id <= 0 {
		return finish(ctx, s, opDelete, withID("part", id), int64(0), kindErr(ErrDoesNotExist, msgPartIDInvalid))
	}

	var n int64
	err := s.inTx(ctx, func(ctx context.Context, st repository.Stores) error {
		p, err := s.getPart(ctx, st, id)
		if err != nil {
			return err
		}
		_, n, err = s.deletePartTree(ctx, st, id)
		if err != nil {
			return err
		}
		if !p.IsCurrent {
			return nil
		}
		rest, err := st.Parts.GetAllForProject(ctx, p.OwningProjectID)
		if err != nil {
			return storeErr("listing parts", err)
		}
		if len(rest) == 0 {
			return nil
		}
		next := rest[0]
		next.IsCurrent = true
		if _, err := st.Parts.Update(ctx, next); err != nil {
			return storeErr("promoting part", err)
		}
		return nil
	})
	if err != nil {
		n = 0
	}
	return finish(ctx, s, opDelete, withID("part", id), n, err)
}

// GetPart fetches a part by id.
func (s *Service) GetPart(ctx context.Context, id int64) Result[part.Part] {
	p, err := s.getPart(ctx, s.stores, id)
	return finish(ctx, s, opGet, withID("part", id), p, err)
}

// GetProjectParts lists the parts of a project.
func (s *Service) GetProjectParts(ctx context.Context, projectID int64) Result[[]part.Part] {
	list, err := s.projectParts(ctx, s.stores, projectID)
	return finish(ctx, s, opGet, withID("parts of project", projectID), list, err)
}

// SetCurrentPart marks a part as the current part of its project and
// clears the flag on its siblings.
func (s *Service) SetCurrentPart(ctx context.Context, id int64) Result[int64] {
	var n int64
	err := s.inTx(ctx, func(ctx context.Context, st repository.Stores) error {
		p, err := s.getPart(ctx, st, id)
		if err != nil {
			return err
		}
		if err := st.Parts.ClearCurrent(ctx, p.OwningProjectID); err != nil {
			return storeErr("clearing current part", err)
		}
		p.IsCurrent = true
		n, err = st.Parts.Update(ctx, p)
		if err != nil {
			return storeErr("updating part", err)
		}
		return nil
	})
	if err != nil {
		n = 0
	}
	return finish(ctx, s, opUpdate, withID("part", id), n, err)
}

func (s *Service) addPart(ctx context.Context, st repository.Stores, p part.Part) (int64, error) {
	if isBlank(p.Name) {
		return 0, kindErr(ErrBlankName, msgPartNameBlank)
	}
	if p.ID != 0 {
		exists, err := st.Parts.Exists(ctx, p.ID)
		if err != nil {
			return 0, storeErr("checking part id", err)
		}
		if exists {
			return 0, kindErr(ErrAlreadyExists, msgPartAlreadyExists)
		}
	}
	if p.OwningProjectID <= 0 {
		return 0, kindErr(ErrDoesNotExist, msgPartProjectInvalid)
	}
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	exists, err := st.Projects.Exists(ctx, p.OwningProjectID)
	if err != nil {
		return 0, storeErr("checking owning project", err)
	}
	if !exists {
		return 0, kindErr(ErrDoesNotExist, msgPartProjectMissing)
	}

	if p.IsCurrent {
		if err := st.Parts.ClearCurrent(ctx, p.OwningProjectID); err != nil {
			return 0, storeErr("clearing current part", err)
		}
	}

	id, err := st.Parts.Insert(ctx, p)
	if err != nil {
		return 0, storeErr("inserting part", err)
	}
	return id, nil
}

// seedPartCounters creates the Global and Stitch counters every part owns.
func (s *Service) seedPartCounters(ctx context.Context, st repository.Stores, partID int64) error {
	if _, err := s.addCounter(ctx, st, counter.Counter{
		Name:         counter.GlobalName,
		Type:         counter.TypeGlobal,
		OwningPartID: partID,
	}); err != nil {
		return err
	}
	_, err := s.addCounter(ctx, st, counter.Counter{
		Name:             counter.StitchName,
		Type:             counter.TypeStitch,
		IsGloballyLinked: false,
		OwningPartID:     partID,
	})
	return err
}

func (s *Service) getPart(ctx context.Context, st repository.Stores, id int64) (part.Part, error) {
	if id <= 0 {
		return part.Part{}, kindErr(ErrDoesNotExist, msgPartIDInvalid)
	}
	p, err := st.Parts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return part.Part{}, kindErr(ErrDoesNotExist, msgPartDoesNotExist)
	}
	if err != nil {
		return part.Part{}, storeErr("loading part", err)
	}
	return *p, nil
}

func (s *Service) projectParts(ctx context.Context, st repository.Stores, projectID int64) ([]part.Part, error) {
	if projectID <= 0 {
		return nil, kindErr(ErrDoesNotExist, msgProjectIDInvalid)
	}
	exists, err := st.Projects.Exists(ctx, projectID)
	if err != nil {
		return nil, storeErr("checking project", err)
	}
	if !exists {
		return nil, kindErr(ErrDoesNotExist, msgProjectDoesNotExist)
	}
	list, err := st.Parts.GetAllForProject(ctx, projectID)
	if err != nil {
		return nil, storeErr("listing parts", err)
	}
	return list, nil
}

// deletePartTree deletes every counter of a part and then the part itself.
// Children go first so the store's foreign keys hold.
func (s *Service) deletePartTree(ctx context.Context, st repository.Stores, partID int64) (counterRows, partRows int64, err error) {
	counters, err := st.Counters.GetAllForPart(ctx, partID)
	if err != nil {
		return 0, 0, storeErr("listing counters", err)
	}

	for _, c := range counters {
		n, err := st.Counters.DeleteByID(ctx, c.ID)
		if err != nil {
			return 0, 0, storeErr("deleting counter", err)
		}
		counterRows += n
	}

	partRows, err = st.Parts.DeleteByID(ctx, partID)
	if err != nil {
		return 0, 0, storeErr("deleting part", err)
	}
	return counterRows, partRows, nil
}
