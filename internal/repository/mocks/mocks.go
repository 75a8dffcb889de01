package mocks

import (
	"context"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/repository"
	"github.com/stretchr/testify/mock"
)

// ProjectStore is a mock for repository.ProjectStore.
type ProjectStore struct {
	mock.Mock
}

func (m *ProjectStore) Insert(ctx context.Context, proj project.Project) (int64, error) {
	args := m.Called(ctx, proj)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProjectStore) GetAll(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *ProjectStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProjectStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProjectStore) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ProjectStore) Search(ctx context.Context, query string, limit int) ([]project.Project, error) {
	args := m.Called(ctx, query, limit)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PartStore is a mock for repository.PartStore.
type PartStore struct {
	mock.Mock
}

func (m *PartStore) Insert(ctx context.Context, p part.Part) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PartStore) GetAllForProject(ctx context.Context, projectID int64) ([]part.Part, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]part.Part); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartStore) GetByID(ctx context.Context, id int64) (*part.Part, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*part.Part); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *PartStore) ClearCurrent(ctx context.Context, projectID int64) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *PartStore) Update(ctx context.Context, p part.Part) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PartStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PartStore) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// CounterStore is a mock for repository.CounterStore.
type CounterStore struct {
	mock.Mock
}

func (m *CounterStore) Insert(ctx context.Context, c counter.Counter) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CounterStore) GetAllForPart(ctx context.Context, partID int64) ([]counter.Counter, error) {
	args := m.Called(ctx, partID)
	if list, ok := args.Get(0).([]counter.Counter); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CounterStore) GetByID(ctx context.Context, id int64) (*counter.Counter, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*counter.Counter); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CounterStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *CounterStore) FindByType(ctx context.Context, partID int64, typ counter.CounterType) ([]counter.Counter, error) {
	args := m.Called(ctx, partID, typ)
	if list, ok := args.Get(0).([]counter.Counter); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CounterStore) Update(ctx context.Context, c counter.Counter) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CounterStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CounterStore) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Transactor is a mock for repository.Transactor. It hands the wrapped
// stores to fn, so expectations set on them apply inside the transaction,
// and records whether the work was committed or rolled back.
type Transactor struct {
	Stores     repository.Stores
	Commits    int
	Rollbacks  int
	BeginError error
}

func (m *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Stores) error) error {
	if m.BeginError != nil {
		return m.BeginError
	}
	if err := fn(ctx, m.Stores); err != nil {
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

// Set is a full set of mock stores wired to one Transactor.
type Set struct {
	Projects *ProjectStore
	Parts    *PartStore
	Counters *CounterStore
	Tx       *Transactor
}

// NewSet creates mock stores and a Transactor that shares them.
func NewSet() *Set {
	s := &Set{
		Projects: &ProjectStore{},
		Parts:    &PartStore{},
		Counters: &CounterStore{},
	}
	s.Tx = &Transactor{Stores: s.Stores()}
	return s
}

// Stores returns the mocks as a repository.Stores.
func (s *Set) Stores() repository.Stores {
	return repository.Stores{Projects: s.Projects, Parts: s.Parts, Counters: s.Counters}
}
