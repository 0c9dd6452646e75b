package workstation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const tarCurrentCSV = `User Id,Downline Level,First Name,Last Name,Email,Sponsor,Sponsor Email,Type,Phone,Address,City,State,ZIP,Country,Upline Team Manager,Start Date,Status,Attended,Last Login,Current Title,Pay Title,Career Title,RV,QV,CV,TQV,DQV,Active Legs,New Recruits,Style VIPs,In Downline,Trip Points
12345,1,Ima,Consultant,ima@example.com,Jane Sponsor,jane.sponsor@example.com,Consultant,555-867-5309,123 Nowhere St.,Somewhere,NV,12345,US,Big Boss,"Mar 15, 2016",Active,Yes,"Oct 2, 2017",03 - Senior Consultant,02 - Consultant,04 - Team Manager,$123.45,$100.00,"$1,342.63",$500.00,$250.00,2,1,3,14,1.5
67890,2,No,Login,,Ima Consultant,ima@example.com,Consultant,,,,,,,Big Boss,"Jun 1, 2017",Inactive,No,,,,,$0.00,$0.00,$0.00,$0.00,$0.00,0,0,0,0,0
`

const tarLegacyCSV = `User Id,Downline Level,First Name,Last Name,Sponsor,Sponsor Email,Type,Phone,Address,City,State,ZIP,Country,Upline Team Manager,Start Date,Status,Last Login,Highest Leg Rank,Pay Rank,Recognition Title,PRV,CV,TRV,DRV,Active Legs,# Sponsored This Month,In Downline
12345,1,Ima,Consultant,Jane Sponsor,jane.sponsor@example.com,Consultant,555-867-5309,123 Nowhere St.,Somewhere,NV,12345,US,Big Boss,"Mar 15, 2016",Active,"Sep 30, 2017",09 - Premier Consultant,03 - Senior Consultant,09 - Premier Consultant,$200.00,"$1,000.00",$750.00,$300.00,1,2,8
`

func TestParseTARCurrent(t *testing.T) {
	observedAt := time.Date(2017, 10, 2, 12, 0, 0, 0, time.UTC)
	rows := collect(t, ParseTAR(TARCurrent, []byte(tarCurrentCSV), observedAt))
	require.Len(t, rows, 2)

	c := rows[0].Consultant
	require.Equal(t, "12345", c.Id)
	require.Equal(t, 1, c.DownlineLevel)
	require.Equal(t, "Ima Consultant", c.FullName())
	require.Equal(t, "ima@example.com", c.Email)
	require.Equal(t, "Jane Sponsor", c.SponsorName)
	require.Equal(t, "jane.sponsor@example.com", c.SponsorEmail)
	require.Equal(t, "Big Boss", c.TeamManager)
	require.Equal(t, "123 Nowhere St.\nSomewhere, NV 12345", c.Address())
	require.Equal(t, time.Date(2016, 3, 15, 6, 0, 0, 0, time.UTC), c.StartDate)

	a := rows[0].Activity
	require.Equal(t, observedAt, a.ObservedAt)
	require.Equal(t, "Active", a.Status)
	require.True(t, a.Attended)
	require.Equal(t, time.Date(2017, 10, 2, 0, 0, 0, 0, time.UTC), a.LastLogin)
	require.Equal(t, RankTitle{Code: 3, Name: "Senior Consultant"}, a.CurrentTitle)
	require.Equal(t, RankTitle{Code: 2, Name: "Consultant"}, a.PayTitle)
	require.Equal(t, RankTitle{Code: 4, Name: "Team Manager"}, a.CareerTitle)
	require.Equal(t, "123.45", a.RV.StringFixed(2))
	require.Equal(t, "100.00", a.QV.StringFixed(2))
	require.Equal(t, "1342.63", a.CV.StringFixed(2))
	require.Equal(t, "500.00", a.TQV.StringFixed(2))
	require.Equal(t, "250.00", a.DQV.StringFixed(2))
	require.Equal(t, 2, a.ActiveLegs)
	require.Equal(t, 1, a.NewRecruits)
	require.Equal(t, 3, a.StyleVIPs)
	require.Equal(t, 14, a.DownlineCount)
	require.Equal(t, "1.5", a.TripPoints.String())

	// a consultant who never logged in has zero times and titles
	idle := rows[1].Activity
	require.False(t, idle.Attended)
	require.True(t, idle.LastLogin.IsZero())
	require.Equal(t, RankTitle{}, idle.CurrentTitle)
}

func TestParseTARLegacy(t *testing.T) {
	observedAt := time.Date(2016, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := collect(t, ParseTAR(TARLegacy, []byte(tarLegacyCSV), observedAt))
	require.Len(t, rows, 1)

	a := rows[0].Activity
	require.Equal(t, "200.00", a.RV.StringFixed(2))
	require.Equal(t, "0.00", a.QV.StringFixed(2))
	require.Equal(t, "1000.00", a.CV.StringFixed(2))
	require.Equal(t, "750.00", a.TQV.StringFixed(2))
	require.Equal(t, "300.00", a.DQV.StringFixed(2))
	require.Equal(t, RankTitle{Code: 9, Name: "Premier Consultant"}, a.CurrentTitle)
	require.Equal(t, RankTitle{Code: 3, Name: "Senior Consultant"}, a.PayTitle)
	require.Equal(t, RankTitle{Code: 9, Name: "Premier Consultant"}, a.CareerTitle)
	require.Equal(t, 1, a.ActiveLegs)
	require.Equal(t, 2, a.NewRecruits)
	require.Equal(t, 8, a.DownlineCount)
	require.Empty(t, rows[0].Consultant.Email)
}

func TestParseTARBadRowDoesNotDiscardGoodRows(t *testing.T) {
	data := []byte("User Id,First Name,Last Name\n12345,Good,Row\n,Bad,Row\n")

	var rows []TeamActivityRow
	var errs []error
	for row, err := range ParseTAR(TARCurrent, data, time.Now()) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, row)
	}
	require.Len(t, rows, 1)
	require.Equal(t, "12345", rows[0].Consultant.Id)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrMalformedRow)
}

func TestExtractTeamActivityRowFromMap(t *testing.T) {
	row, err := ExtractTeamActivityRow(TARCurrent, map[string]string{
		"User Id":       "99999",
		"Current Title": "05 - Lead Consultant",
		"RV":            "$10.00",
	}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, "99999", row.Consultant.Id)
	require.Equal(t, RankTitle{Code: 5, Name: "Lead Consultant"}, row.Activity.CurrentTitle)
	require.Equal(t, "10.00", row.Activity.RV.StringFixed(2))
}

func TestParseTARUnknownVersion(t *testing.T) {
	for _, err := range ParseTAR(TARVersion(99), []byte(tarCurrentCSV), time.Now()) {
		require.ErrorIs(t, err, ErrMalformedRow)
		break
	}
}
