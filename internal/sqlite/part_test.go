package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestPartStore_InsertAndGet(t *testing.T) {
	db := NewTestDB(t)
	store := NewPartStore(db)
	ctx := context.Background()
	projectID := insertProject(t, db, "Sweater")

	p := part.Part{Name: "Sleeve", Description: "left", OwningProjectID: projectID, IsCurrent: true}
	id, err := store.Insert(ctx, p)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	p.ID = id
	require.Equal(t, p, *retrieved)

	_, err = store.GetByID(ctx, id+1)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestPartStore_InsertRequiresProject(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := NewPartStore(db).Insert(ctx, part.Part{Name: "Orphan", OwningProjectID: 99})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestPartStore_ClearCurrentAndUpdate(t *testing.T) {
	db := NewTestDB(t)
	store := NewPartStore(db)
	ctx := context.Background()
	projectID := insertProject(t, db, "Sweater")
	otherProject := insertProject(t, db, "Hat")

	front, err := store.Insert(ctx, part.Part{Name: "Front", OwningProjectID: projectID, IsCurrent: true})
	require.NoError(t, err)
	back, err := store.Insert(ctx, part.Part{Name: "Back", OwningProjectID: projectID})
	require.NoError(t, err)
	crown, err := store.Insert(ctx, part.Part{Name: "Crown", OwningProjectID: otherProject, IsCurrent: true})
	require.NoError(t, err)

	require.NoError(t, store.ClearCurrent(ctx, projectID))

	n, err := store.Update(ctx, part.Part{ID: back, Name: "Back", OwningProjectID: projectID, IsCurrent: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	parts, err := store.GetAllForProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	require.Equal(t, front, parts[0].ID)
	require.False(t, parts[0].IsCurrent)
	require.True(t, parts[1].IsCurrent)

	other, err := store.GetByID(ctx, crown)
	require.NoError(t, err)
	require.True(t, other.IsCurrent)

	_, err = store.Update(ctx, part.Part{ID: 999, Name: "Missing"})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPartStore_Delete(t *testing.T) {
	db := NewTestDB(t)
	store := NewPartStore(db)
	ctx := context.Background()
	projectID := insertProject(t, db, "Sweater")

	id, err := store.Insert(ctx, part.Part{Name: "Front", OwningProjectID: projectID})
	require.NoError(t, err)

	found, err := store.Exists(ctx, id)
	require.NoError(t, err)
	require.True(t, found)

	n, err := store.DeleteByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	found, err = store.Exists(ctx, id)
	require.NoError(t, err)
	require.False(t, found)

	parts, err := store.GetAllForProject(ctx, projectID)
	require.NoError(t, err)
	require.Empty(t, parts)
}
