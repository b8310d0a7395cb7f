package registrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportColumnOrderAndBlanks(t *testing.T) {
	svc, _ := newTestService(hackathonEvent())

	// First registrant answers in reverse field order, second skips the
	// optional field. Columns must still follow the form order.
	_, err := svc.Submit(context.Background(), SubmitParams{
		EventID:       42,
		Email:         "alpha@example.com",
		ScreenshotURL: "/uploads/screenshots/a.png",
		Responses: []ResponseInput{
			{FieldID: 3, Value: "L"},
			{FieldID: 2, Value: "IIT"},
			{FieldID: 1, Value: "Alpha"},
		},
	})
	require.NoError(t, err)

	created, err := svc.Submit(context.Background(), SubmitParams{
		EventID: 42,
		Email:   "beta@example.com",
		Responses: []ResponseInput{
			{FieldID: 1, Value: "Beta"},
			{FieldID: 2, Value: "NIT"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(context.Background(), created.ID, "verified"))

	result, err := svc.Export(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t,
		[]string{"Email", "Timestamp", "Status", "Screenshot URL", "Team Name", "College", "T-Shirt Size"},
		result.Table.Headers)
	require.Len(t, result.Table.Rows, 2)

	rowsByEmail := map[string][]string{}
	for _, row := range result.Table.Rows {
		rowsByEmail[row[0]] = row
	}

	alpha := rowsByEmail["alpha@example.com"]
	require.NotNil(t, alpha)
	require.Equal(t, "/uploads/screenshots/a.png", alpha[3])
	require.Equal(t, []string{"Alpha", "IIT", "L"}, alpha[4:])

	beta := rowsByEmail["beta@example.com"]
	require.NotNil(t, beta)
	require.Equal(t, "verified", beta[2])
	require.Equal(t, "", beta[3], "missing screenshot renders as a blank cell")
	require.Equal(t, []string{"Beta", "NIT", ""}, beta[4:])

	require.Equal(t, "Hackathon", result.Summary.EventName)
	require.Equal(t, 2, result.Summary.Total)
	require.Equal(t, 1, result.Summary.Pending)
	require.Equal(t, 1, result.Summary.Verified)
	require.Equal(t, 0, result.Summary.Rejected)
}

func TestExportEmptyEvent(t *testing.T) {
	svc, _ := newTestService(hackathonEvent())

	result, err := svc.Export(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, result.Table.Headers, 7)
	require.Empty(t, result.Table.Rows)
	require.Equal(t, 0, result.Summary.Total)
}
