package repository

import (
	"context"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
)

// ProjectStore manages project persistence
type ProjectStore interface {
	Insert(ctx context.Context, proj project.Project) (int64, error)
	GetAll(ctx context.Context) ([]project.Project, error)
	GetByID(ctx context.Context, id int64) (*project.Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query string, limit int) ([]project.Project, error)
}

// PartStore manages part persistence
type PartStore interface {
	Insert(ctx context.Context, p part.Part) (int64, error)
	GetAllForProject(ctx context.Context, projectID int64) ([]part.Part, error)
	GetByID(ctx context.Context, id int64) (*part.Part, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// ClearCurrent unmarks every current part of the project.
	ClearCurrent(ctx context.Context, projectID int64) error
	Update(ctx context.Context, p part.Part) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) error
}

// CounterStore manages counter persistence
type CounterStore interface {
	Insert(ctx context.Context, c counter.Counter) (int64, error)
	GetAllForPart(ctx context.Context, partID int64) ([]counter.Counter, error)
	GetByID(ctx context.Context, id int64) (*counter.Counter, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// FindByType returns the counters of the given type owned by a part.
	FindByType(ctx context.Context, partID int64, typ counter.CounterType) ([]counter.Counter, error)
	// Update writes c when the stored version equals c.Version and bumps
	// the stored version. ErrConflict means the row moved on.
	Update(ctx context.Context, c counter.Counter) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) error
}

// Stores bundles the stores that share one connection or transaction.
type Stores struct {
	Projects ProjectStore
	Parts    PartStore
	Counters CounterStore
}

// Transactor runs fn against stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error
}
