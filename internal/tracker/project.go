package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/repository"
)

// Names of the normal counters created by AddFreshProject when demo counters
// are enabled.
const (
	DemoLinkedCounterName   = "Increment With Global"
	DemoUnlinkedCounterName = "Don't Increment With Global"
)

const defaultSearchLimit = 50

// AddProject validates and inserts a bare project, returning its new id.
func (s *Service) AddProject(ctx context.Context, p project.Project) Result[int64] {
	id, err := s.addProject(ctx, s.stores, p)
	return finish(ctx, s, opAdd, named("project", p.Name), id, err)
}

// DeleteProject removes a project together with its parts and counters in
// one transaction. The entity is the number of project rows removed; use
// DeleteFullProject for the total across the tree.
func (s *Service) DeleteProject(ctx context.Context, id int64) Result[int64] {
	var n int64
	err := s.inTx(ctx, func(ctx context.Context, st repository.Stores) error {
		var err error
		_, n, err = s.deleteProjectTree(ctx, st, id)
		return err
	})
	if err != nil {
		n = 0
	}
	return finish(ctx, s, opDelete, withID("project", id), n, err)
}

// GetProject fetches a project by id.
func (s *Service) GetProject(ctx context.Context, id int64) Result[project.Project] {
	p, err := s.getProject(ctx, s.stores, id)
	return finish(ctx, s, opGet, withID("project", id), p, err)
}

// ListProjects returns every project. An empty store yields an empty list.
func (s *Service) ListProjects(ctx context.Context) Result[[]project.Project] {
	list, err := s.stores.Projects.GetAll(ctx)
	if err != nil {
		err = storeErr("listing projects", err)
	}
	if list == nil && err == nil {
		list = []project.Project{}
	}
	return finish(ctx, s, opGet, "projects", list, err)
}

// SearchProjects matches projects by name and description. A blank query
// lists everything.
func (s *Service) SearchProjects(ctx context.Context, query string, limit int) Result[[]project.Project] {
	if strings.TrimSpace(query) == "" {
		return s.ListProjects(ctx)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	list, err := s.stores.Projects.Search(ctx, query, limit)
	if err != nil {
		err = storeErr("searching projects", err)
	}
	if list == nil && err == nil {
		list = []project.Project{}
	}
	return finish(ctx, s, opGet, fmt.Sprintf("projects matching '%s'", query), list, err)
}

// AddFreshProject creates a project with its first part and the part's
// Global and Stitch counters in one transaction. A blank name becomes
// "Project N" where N is one more than the number of stored projects.
func (s *Service) AddFreshProject(ctx context.Context, p project.Project) Result[int64] {
	var projectID int64
	err := s.inTx(ctx, func(ctx context.Context, st repository.Stores) error {
		if isBlank(p.Name) {
			count, err := st.Projects.Count(ctx)
			if err != nil {
				return storeErr("counting projects", err)
			}
			p.Name = fmt.Sprintf("Project %d", count+1)
		}

		id, err := s.addProject(ctx, st, p)
		if err != nil {
			return err
		}

		partID, err := s.addPart(ctx, st, part.Part{
			Name:            part.FirstPartName,
			IsCurrent:       true,
			OwningProjectID: id,
		})
		if err != nil {
			return err
		}
		if err := s.seedPartCounters(ctx, st, partID); err != nil {
			return err
		}

		if s.demoCounters {
			for _, c := range []counter.Counter{
				{Name: DemoLinkedCounterName, Type: counter.TypeNormal, IsGloballyLinked: true, OwningPartID: partID},
				{Name: DemoUnlinkedCounterName, Type: counter.TypeNormal, IsGloballyLinked: false, OwningPartID: partID},
			} {
				if _, err := s.addCounter(ctx, st, c); err != nil {
					return err
				}
			}
		}

		projectID = id
		return nil
	})
	if err != nil {
		projectID = 0
	}
	return finish(ctx, s, opAdd, named("project", p.Name), projectID, err)
}

// DeleteFullProject removes a project with all of its parts and counters in
// one transaction, children before parents. The entity is the total number
// of rows removed.
func (s *Service) DeleteFullProject(ctx context.Context, id int64) Result[int64] {
	if id <= 0 {
		return finish(ctx, s, opDelete, withID("project", id), int64(0), kindErr(ErrDoesNotExist, msgProjectIDInvalid))
	}

	var total int64
	err := s.inTx(ctx, func(ctx context.Context, st repository.Stores) error {
		children, n, err := s.deleteProjectTree(ctx, st, id)
		total = children + n
		return err
	})
	if err != nil {
		total = 0
	}
	return finish(ctx, s, opDelete, withID("project", id), total, err)
}

func (s *Service) addProject(ctx context.Context, st repository.Stores, p project.Project) (int64, error) {
	if isBlank(p.Name) {
		return 0, kindErr(ErrBlankName, msgProjectNameBlank)
	}
	if p.ID != 0 {
		exists, err := st.Projects.Exists(ctx, p.ID)
		if err != nil {
			return 0, storeErr("checking project id", err)
		}
		if exists {
			return 0, kindErr(ErrAlreadyExists, msgProjectAlreadyExists)
		}
	}

	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	id, err := st.Projects.Insert(ctx, p)
	if err != nil {
		return 0, storeErr("inserting project", err)
	}
	return id, nil
}

// deleteProjectTree deletes every part of a project with its counters, and
// then the project row.
func (s *Service) deleteProjectTree(ctx context.Context, st repository.Stores, id int64) (childRows, projectRows int64, err error) {
	parts, err := s.projectParts(ctx, st, id)
	if err != nil {
		return 0, 0, err
	}
	for _, p := range parts {
		counterRows, partRows, err := s.deletePartTree(ctx, st, p.ID)
		if err != nil {
			return 0, 0, err
		}
		childRows += counterRows + partRows
	}
	projectRows, err = st.Projects.DeleteByID(ctx, id)
	if err != nil {
		return 0, 0, storeErr("deleting project", err)
	}
	return childRows, projectRows, nil
}

func (s *Service) getProject(ctx context.Context, st repository.Stores, id int64) (project.Project, error) {
	if id <= 0 {
		return project.Project{}, kindErr(ErrDoesNotExist, msgProjectIDInvalid)
	}
	p, err := st.Projects.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return project.Project{}, kindErr(ErrDoesNotExist, msgProjectDoesNotExist)
	}
	if err != nil {
		return project.Project{}, storeErr("loading project", err)
	}
	return *p, nil
}
