package project_test

import (
	"testing"

	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestProject_WithDefaults(t *testing.T) {
	p := project.Project{Name: "Scarf"}.WithDefaults()
	require.Equal(t, project.CraftKnitting, p.Type)

	p = project.Project{Name: "Hat", Type: project.CraftCrochet}.WithDefaults()
	require.Equal(t, project.CraftCrochet, p.Type)
}

func TestProject_Validate(t *testing.T) {
	require.NoError(t, project.New("Scarf").Validate())

	err := project.Project{Name: "Scarf", Type: "weaving"}.Validate()
	require.ErrorIs(t, err, project.ErrInvalidInput)

	err = project.Project{Name: "Scarf", Type: project.CraftKnitting, RowsCompleted: -1}.Validate()
	require.ErrorIs(t, err, project.ErrInvalidInput)
}
