package part_test

import (
	"strings"
	"testing"

	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/stretchr/testify/require"
)

func TestCurrent(t *testing.T) {
	parts := []part.Part{
		{ID: 1, Name: "Front"},
		{ID: 2, Name: "Back", IsCurrent: true},
	}
	cur, ok := part.Current(parts)
	require.True(t, ok)
	require.Equal(t, int64(2), cur.ID)

	_, ok = part.Current(parts[:1])
	require.False(t, ok)
}

func TestPart_Validate(t *testing.T) {
	require.NoError(t, part.Part{Name: "Sleeve"}.Validate())

	err := part.Part{Name: "Sleeve", Description: strings.Repeat("x", 2001)}.Validate()
	require.ErrorIs(t, err, part.ErrInvalidInput)
}
