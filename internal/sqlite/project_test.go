package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestProjectStore_InsertAndGet(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	proj := project.Project{
		Name:          "Test Project",
		Description:   "A test project",
		Completed:     true,
		Type:          project.CraftCrochet,
		RowsCompleted: 12,
	}

	id, err := store.Insert(ctx, proj)
	require.NoError(t, err)
	require.Positive(t, id)

	retrieved, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	proj.ID = id
	require.Equal(t, proj, *retrieved)

	_, err = store.GetByID(ctx, id+1)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectStore_ExplicitID(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	id, err := store.Insert(ctx, project.Project{ID: 42, Name: "Hat", Type: project.CraftKnitting})
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = store.Insert(ctx, project.Project{ID: 42, Name: "Hat again", Type: project.CraftKnitting})
	require.ErrorIs(t, err, repository.ErrUniqueViolation)
}

func TestProjectStore_RejectsUnknownType(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := NewProjectStore(db).Insert(ctx, project.Project{Name: "Rug", Type: "weaving"})
	require.Error(t, err)
}

func TestProjectStore_ListCountExists(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	list, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	first := insertProject(t, db, "Scarf")
	second := insertProject(t, db, "Socks")

	list, err = store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first, list[0].ID)
	require.Equal(t, second, list[1].ID)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	found, err := store.Exists(ctx, first)
	require.NoError(t, err)
	require.True(t, found)

	found, err = store.Exists(ctx, second+10)
	require.NoError(t, err)
	require.False(t, found)
}

func TestProjectStore_DeleteWithPartsFails(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	id := insertProject(t, db, "Scarf")
	_, err := NewPartStore(db).Insert(ctx, part.Part{Name: "Part 1", OwningProjectID: id})
	require.NoError(t, err)

	_, err = store.DeleteByID(ctx, id)
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	found, err := store.Exists(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
}

func TestProjectStore_Delete(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	id := insertProject(t, db, "Scarf")

	n, err := store.DeleteByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = store.DeleteByID(ctx, id)
	require.NoError(t, err)
	require.Zero(t, n)

	insertProject(t, db, "Socks")
	require.NoError(t, store.DeleteAll(ctx))
	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}
