package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldInputsOrdering(t *testing.T) {
	zero := 0
	two := 2

	inputs := fieldInputs([]formFieldRequest{
		{Label: "College", Order: &two},
		{Label: "Team Name", Order: &zero},
		{Label: "Phone"},
	})

	require.Equal(t, 2, inputs[0].Order)
	// An explicit 0 is kept as written.
	require.Equal(t, 0, inputs[1].Order)
	// Omitted order falls back to the field's position.
	require.Equal(t, 2, inputs[2].Order)
}
