package activitystore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"jamberry-workstation/lib/scrapers/workstation"
	"jamberry-workstation/lib/telemetry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:activitystore")
	defer cleanup()

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(Schema)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		res, err := store.Pull(ctx, "unknown-consultant")
		if err != nil {
			t.Fatal(err)
		}
		require.Len(t, res, 0)
	}

	observation := func(id string, rv string) workstation.TeamActivityRow {
		return workstation.TeamActivityRow{
			Consultant: workstation.Consultant{
				Id:        id,
				FirstName: "Ima",
				LastName:  "Consultant",
			},
			Activity: workstation.ActivityRecord{
				Status:       "Active",
				CurrentTitle: workstation.RankTitle{Code: 3, Name: "Senior Consultant"},
				RV:           decimal.RequireFromString(rv),
				ActiveLegs:   2,
			},
		}
	}

	first := time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC)
	err = store.Push(ctx, PushRequest{
		Time: first,
		Rows: []workstation.TeamActivityRow{
			observation("12345", "100.00"),
			observation("67890", "25.00"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = store.Push(ctx, PushRequest{
		Time: first.Add(time.Hour * 24 * 30),
		Rows: []workstation.TeamActivityRow{
			observation("12345", "150.00"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := store.Pull(ctx, "12345")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, res, 2)
	require.Equal(t, "100.00", res[0].RV)
	require.Equal(t, "150.00", res[1].RV)
	require.True(t, res[0].ObservedAt.Before(res[1].ObservedAt))
	require.Equal(t, "Senior Consultant", res[0].CurrentTitle)

	// re-pushing the same observation time overwrites, never
	// duplicates
	err = store.Push(ctx, PushRequest{
		Time: first,
		Rows: []workstation.TeamActivityRow{
			observation("12345", "101.00"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err = store.Pull(ctx, "12345")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, res, 2)
	require.Equal(t, "101.00", res[0].RV)
}
