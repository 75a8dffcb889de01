package tracker_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/repository"
	"github.com/rpggio/knitcount/internal/repository/mocks"
	"github.com/rpggio/knitcount/internal/tracker"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddProject_Success(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Insert", ctx, project.Project{Name: "Scarf", Type: project.CraftKnitting}).Return(int64(1), nil)

	res := newService(set).AddProject(ctx, project.New("Scarf"))
	require.Equal(t, tracker.CreationSuccess, res.Code)
	require.Equal(t, int64(1), res.Entity)
	set.Projects.AssertExpectations(t)
}

func TestAddProject_BlankName(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()

	res := newService(set).AddProject(ctx, project.Project{Name: " "})
	require.Equal(t, tracker.CreationFailure, res.Code)
	require.ErrorIs(t, res.Err, tracker.ErrBlankName)
	require.Contains(t, res.Message, "project 'Blank name'")
	set.Projects.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestAddProject_DuplicateID(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Exists", ctx, int64(4)).Return(true, nil)

	res := newService(set).AddProject(ctx, project.Project{ID: 4, Name: "Scarf"})
	require.ErrorIs(t, res.Err, tracker.ErrAlreadyExists)
	set.Projects.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestAddProject_InvalidType(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()

	res := newService(set).AddProject(ctx, project.Project{Name: "Scarf", Type: "weaving"})
	require.ErrorIs(t, res.Err, tracker.ErrInvalidInput)
	set.Projects.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Exists", ctx, int64(1)).Return(true, nil)
	set.Projects.On("Exists", ctx, int64(2)).Return(false, nil)
	set.Parts.On("GetAllForProject", ctx, int64(1)).Return([]part.Part{}, nil)
	set.Projects.On("DeleteByID", ctx, int64(1)).Return(int64(1), nil)

	svc := newService(set)
	res := svc.DeleteProject(ctx, 1)
	require.Equal(t, tracker.DeletionSuccess, res.Code)
	require.Equal(t, int64(1), res.Entity)

	res = svc.DeleteProject(ctx, 2)
	require.ErrorIs(t, res.Err, tracker.ErrDoesNotExist)

	res = svc.DeleteProject(ctx, 0)
	require.ErrorIs(t, res.Err, tracker.ErrDoesNotExist)
	set.Projects.AssertNumberOfCalls(t, "DeleteByID", 1)
}

func TestDeleteProject_CascadesToParts(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Exists", ctx, int64(1)).Return(true, nil)
	set.Parts.On("GetAllForProject", ctx, int64(1)).Return([]part.Part{
		{ID: 10, Name: "Part 1", OwningProjectID: 1, IsCurrent: true},
	}, nil)
	set.Counters.On("GetAllForPart", ctx, int64(10)).Return([]counter.Counter{{ID: 100}, {ID: 101}}, nil)

	mock.InOrder(
		set.Counters.On("DeleteByID", ctx, int64(100)).Return(int64(1), nil),
		set.Counters.On("DeleteByID", ctx, int64(101)).Return(int64(1), nil),
		set.Parts.On("DeleteByID", ctx, int64(10)).Return(int64(1), nil),
		set.Projects.On("DeleteByID", ctx, int64(1)).Return(int64(1), nil),
	)

	res := newService(set).DeleteProject(ctx, 1)
	require.Equal(t, tracker.DeletionSuccess, res.Code)
	require.Equal(t, int64(1), res.Entity)
	require.Equal(t, 1, set.Tx.Commits)
	set.Counters.AssertExpectations(t)
	set.Parts.AssertExpectations(t)
}

func TestDeleteProject_ForeignKeyMessage(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Exists", ctx, int64(1)).Return(true, nil)
	set.Parts.On("GetAllForProject", ctx, int64(1)).Return([]part.Part{}, nil)
	raw := errors.New("constraint failed: FOREIGN KEY constraint failed (787)")
	set.Projects.On("DeleteByID", ctx, int64(1)).
		Return(int64(0), fmt.Errorf("failed to delete project: %w: %w", repository.ErrForeignKeyViolation, raw))

	res := newService(set).DeleteProject(ctx, 1)
	require.Equal(t, tracker.DeletionFailure, res.Code)
	require.ErrorIs(t, res.Err, tracker.ErrPersistence)
	require.ErrorIs(t, res.Err, repository.ErrForeignKeyViolation)
	require.NotErrorIs(t, res.Err, raw)
	require.Contains(t, res.Message, "child records still reference it")
	require.NotContains(t, res.Message, "(787)")
	require.Equal(t, 1, set.Tx.Rollbacks)
}

func TestListProjects_EmptyStore(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("GetAll", ctx).Return(nil, nil)

	res := newService(set).ListProjects(ctx)
	require.Equal(t, tracker.FetchSuccess, res.Code)
	require.NotNil(t, res.Entity)
	require.Empty(t, res.Entity)
}

func TestListProjects_StoreFailure(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("GetAll", ctx).Return(nil, errors.New("database is locked"))

	res := newService(set).ListProjects(ctx)
	require.Equal(t, tracker.FetchFailure, res.Code)
	require.ErrorIs(t, res.Err, tracker.ErrPersistence)
	require.Nil(t, res.Entity)
}

func TestSearchProjects(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Search", ctx, "sock", 50).Return([]project.Project{{ID: 2, Name: "Socks"}}, nil)
	set.Projects.On("GetAll", ctx).Return([]project.Project{{ID: 1}, {ID: 2}}, nil)

	svc := newService(set)
	res := svc.SearchProjects(ctx, "sock", 0)
	require.True(t, res.OK())
	require.Len(t, res.Entity, 1)

	res = svc.SearchProjects(ctx, "  ", 10)
	require.True(t, res.OK())
	require.Len(t, res.Entity, 2)
}

func TestGetProject_Missing(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("GetByID", ctx, int64(9)).Return(nil, repository.ErrNotFound)

	res := newService(set).GetProject(ctx, 9)
	require.Equal(t, tracker.FetchFailure, res.Code)
	require.ErrorIs(t, res.Err, tracker.ErrDoesNotExist)
	require.Equal(t, project.Project{}, res.Entity)
}

// expectFreshProject sets up the store calls of AddFreshProject for a project
// that gets id 1, a first part with id 10 and counters from id 100 upward.
func expectFreshProject(set *mocks.Set, ctx context.Context, name string) {
	set.Projects.On("Insert", ctx, project.Project{Name: name, Type: project.CraftKnitting}).Return(int64(1), nil)
	set.Projects.On("Exists", ctx, int64(1)).Return(true, nil)
	set.Parts.On("ClearCurrent", ctx, int64(1)).Return(nil)
	set.Parts.On("Insert", ctx, part.Part{Name: part.FirstPartName, IsCurrent: true, OwningProjectID: 1}).Return(int64(10), nil)
	set.Parts.On("Exists", ctx, int64(10)).Return(true, nil)
	set.Counters.On("FindByType", ctx, int64(10), mock.Anything).Return(nil, nil)
	set.Counters.On("Insert", ctx, counter.Counter{
		Name: counter.GlobalName, IncrementBy: 1, Type: counter.TypeGlobal, OwningPartID: 10,
	}).Return(int64(100), nil)
	set.Counters.On("Insert", ctx, counter.Counter{
		Name: counter.StitchName, IncrementBy: 1, Type: counter.TypeStitch, OwningPartID: 10,
	}).Return(int64(101), nil)
}

func TestAddFreshProject_BlankNameOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Count", ctx).Return(int64(0), nil)
	expectFreshProject(set, ctx, "Project 1")

	res := newService(set).AddFreshProject(ctx, project.Project{Name: ""})
	require.Equal(t, tracker.CreationSuccess, res.Code)
	require.Equal(t, int64(1), res.Entity)
	require.Equal(t, 1, set.Tx.Commits)
	set.Projects.AssertExpectations(t)
	set.Parts.AssertExpectations(t)
	set.Counters.AssertExpectations(t)
}

func TestAddFreshProject_NumbersAfterExisting(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Count", ctx).Return(int64(3), nil)
	expectFreshProject(set, ctx, "Project 4")

	res := newService(set).AddFreshProject(ctx, project.Project{})
	require.True(t, res.OK())
}

func TestAddFreshProject_DemoCounters(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	expectFreshProject(set, ctx, "Scarf")
	set.Counters.On("Insert", ctx, counter.Counter{
		Name: tracker.DemoLinkedCounterName, IncrementBy: 1, Type: counter.TypeNormal, IsGloballyLinked: true, OwningPartID: 10,
	}).Return(int64(102), nil)
	set.Counters.On("Insert", ctx, counter.Counter{
		Name: tracker.DemoUnlinkedCounterName, IncrementBy: 1, Type: counter.TypeNormal, OwningPartID: 10,
	}).Return(int64(103), nil)

	res := newService(set, tracker.WithDemoCounters(true)).AddFreshProject(ctx, project.New("Scarf"))
	require.True(t, res.OK())
	set.Counters.AssertNumberOfCalls(t, "Insert", 4)
	set.Projects.AssertNotCalled(t, "Count", mock.Anything)
}

func TestAddFreshProject_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Insert", ctx, mock.Anything).Return(int64(1), nil)
	set.Projects.On("Exists", ctx, int64(1)).Return(true, nil)
	set.Parts.On("ClearCurrent", ctx, int64(1)).Return(nil)
	set.Parts.On("Insert", ctx, mock.Anything).Return(int64(0), errors.New("disk full"))

	res := newService(set).AddFreshProject(ctx, project.New("Scarf"))
	require.Equal(t, tracker.CreationFailure, res.Code)
	require.ErrorIs(t, res.Err, tracker.ErrPersistence)
	require.Zero(t, res.Entity)
	require.Equal(t, 1, set.Tx.Rollbacks)
	require.Equal(t, 0, set.Tx.Commits)
	set.Counters.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeleteFullProject_ChildrenFirst(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Exists", ctx, int64(1)).Return(true, nil)
	set.Parts.On("GetAllForProject", ctx, int64(1)).Return([]part.Part{
		{ID: 10, Name: "Part 1", OwningProjectID: 1, IsCurrent: true},
		{ID: 11, Name: "Sleeve", OwningProjectID: 1},
	}, nil)
	set.Counters.On("GetAllForPart", ctx, int64(10)).Return([]counter.Counter{{ID: 100}, {ID: 101}}, nil)
	set.Counters.On("GetAllForPart", ctx, int64(11)).Return([]counter.Counter{{ID: 110}}, nil)

	mock.InOrder(
		set.Counters.On("DeleteByID", ctx, int64(100)).Return(int64(1), nil),
		set.Counters.On("DeleteByID", ctx, int64(101)).Return(int64(1), nil),
		set.Parts.On("DeleteByID", ctx, int64(10)).Return(int64(1), nil),
		set.Counters.On("DeleteByID", ctx, int64(110)).Return(int64(1), nil),
		set.Parts.On("DeleteByID", ctx, int64(11)).Return(int64(1), nil),
		set.Projects.On("DeleteByID", ctx, int64(1)).Return(int64(1), nil),
	)

	res := newService(set).DeleteFullProject(ctx, 1)
	require.Equal(t, tracker.DeletionSuccess, res.Code)
	require.Equal(t, int64(6), res.Entity)
	require.Equal(t, 1, set.Tx.Commits)
	set.Counters.AssertExpectations(t)
	set.Parts.AssertExpectations(t)
	set.Projects.AssertExpectations(t)
}

func TestDeleteFullProject_Missing(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Exists", ctx, int64(5)).Return(false, nil)

	svc := newService(set)
	res := svc.DeleteFullProject(ctx, 5)
	require.Equal(t, tracker.DeletionFailure, res.Code)
	require.ErrorIs(t, res.Err, tracker.ErrDoesNotExist)

	res = svc.DeleteFullProject(ctx, -1)
	require.ErrorIs(t, res.Err, tracker.ErrDoesNotExist)
	set.Projects.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestDeleteFullProject_RollsBack(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	set.Projects.On("Exists", ctx, int64(1)).Return(true, nil)
	set.Parts.On("GetAllForProject", ctx, int64(1)).Return([]part.Part{{ID: 10, OwningProjectID: 1}}, nil)
	set.Counters.On("GetAllForPart", ctx, int64(10)).Return([]counter.Counter{{ID: 100}}, nil)
	set.Counters.On("DeleteByID", ctx, int64(100)).Return(int64(1), nil)
	set.Parts.On("DeleteByID", ctx, int64(10)).Return(int64(0), repository.ErrForeignKeyViolation)

	res := newService(set).DeleteFullProject(ctx, 1)
	require.ErrorIs(t, res.Err, tracker.ErrPersistence)
	require.Zero(t, res.Entity)
	require.Equal(t, 1, set.Tx.Rollbacks)
	set.Projects.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}
