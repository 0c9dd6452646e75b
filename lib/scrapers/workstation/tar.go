package workstation

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TARVersion selects the column layout of a team activity report
// export. The portal changed column names and volume metrics between
// releases; call sites pick a version instead of duplicating parsers.
type TARVersion int

const (
	// TARLegacy is the 2016-era export with PRV/TRV/DRV volume
	// columns and leg-rank titles. Deprecated, kept for reading
	// saved exports.
	TARLegacy TARVersion = 1
	// TARCurrent is the layout the portal serves today.
	TARCurrent TARVersion = 2
)

// tarColumns names the export columns each record field is read
// from. An empty name means the version does not carry that field.
type tarColumns struct {
	userId         string
	level          string
	firstName      string
	lastName       string
	email          string
	sponsor        string
	sponsorEmail   string
	consultantType string
	phone          string
	address        string
	city           string
	state          string
	zip            string
	country        string
	teamManager    string
	startDate      string
	status         string
	attended       string
	lastLogin      string

	currentTitle string
	payTitle     string
	careerTitle  string

	rv  string
	qv  string
	cv  string
	tqv string
	dqv string

	activeLegs  string
	newRecruits string
	styleVIPs   string
	downline    string
	tripPoints  string
}

var tarLayouts = map[TARVersion]tarColumns{
	TARLegacy: {
		userId:         "User Id",
		level:          "Downline Level",
		firstName:      "First Name",
		lastName:       "Last Name",
		sponsor:        "Sponsor",
		sponsorEmail:   "Sponsor Email",
		consultantType: "Type",
		phone:          "Phone",
		address:        "Address",
		city:           "City",
		state:          "State",
		zip:            "ZIP",
		country:        "Country",
		teamManager:    "Upline Team Manager",
		startDate:      "Start Date",
		status:         "Status",
		lastLogin:      "Last Login",
		currentTitle:   "Highest Leg Rank",
		payTitle:       "Pay Rank",
		careerTitle:    "Recognition Title",
		rv:             "PRV",
		cv:             "CV",
		tqv:            "TRV",
		dqv:            "DRV",
		activeLegs:     "Active Legs",
		newRecruits:    "# Sponsored This Month",
		downline:       "In Downline",
	},
	TARCurrent: {
		userId:         "User Id",
		level:          "Downline Level",
		firstName:      "First Name",
		lastName:       "Last Name",
		email:          "Email",
		sponsor:        "Sponsor",
		sponsorEmail:   "Sponsor Email",
		consultantType: "Type",
		phone:          "Phone",
		address:        "Address",
		city:           "City",
		state:          "State",
		zip:            "ZIP",
		country:        "Country",
		teamManager:    "Upline Team Manager",
		startDate:      "Start Date",
		status:         "Status",
		attended:       "Attended",
		lastLogin:      "Last Login",
		currentTitle:   "Current Title",
		payTitle:       "Pay Title",
		careerTitle:    "Career Title",
		rv:             "RV",
		qv:             "QV",
		cv:             "CV",
		tqv:            "TQV",
		dqv:            "DQV",
		activeLegs:     "Active Legs",
		newRecruits:    "New Recruits",
		styleVIPs:      "Style VIPs",
		downline:       "In Downline",
		tripPoints:     "Trip Points",
	},
}

// ExtractTeamActivityRow maps one TAR row onto a consultant and their
// activity snapshot for the reporting period.
func ExtractTeamActivityRow(version TARVersion, row map[string]string, observedAt time.Time) (TeamActivityRow, error) {
	header := make([]string, 0, len(row))
	fields := make([]string, 0, len(row))
	for k, v := range row {
		header = append(header, k)
		fields = append(fields, v)
	}
	return extractTeamActivityRow(version, csvRow{header: newCSVHeader(header), fields: fields}, observedAt)
}

func extractTeamActivityRow(version TARVersion, row csvRow, observedAt time.Time) (TeamActivityRow, error) {
	cols, ok := tarLayouts[version]
	if !ok {
		return TeamActivityRow{}, fmt.Errorf("%w: unknown TAR version %d", ErrMalformedRow, version)
	}

	var c Consultant
	var err error
	c.Id, err = row.req(cols.userId)
	if err != nil {
		return TeamActivityRow{}, err
	}
	c.DownlineLevel, err = row.optInt(cols.level)
	if err != nil {
		return TeamActivityRow{}, err
	}
	c.FirstName = row.optText(cols.firstName)
	c.LastName = row.optText(cols.lastName)
	if cols.email != "" {
		c.Email = row.optText(cols.email)
	}
	c.SponsorName = row.optText(cols.sponsor)
	c.SponsorEmail = row.optText(cols.sponsorEmail)
	c.Type = row.optText(cols.consultantType)
	c.Phone = row.optText(cols.phone)
	c.AddressLine1 = row.optText(cols.address)
	c.City = row.optText(cols.city)
	c.State = row.optText(cols.state)
	c.Zip = row.optText(cols.zip)
	c.Country = row.optText(cols.country)
	c.TeamManager = row.optText(cols.teamManager)

	c.StartDate, err = row.optDate(cols.startDate)
	if err != nil {
		return TeamActivityRow{}, err
	}
	if !c.StartDate.IsZero() {
		c.StartDate = c.StartDate.Add(sourceClockOffset)
	}

	a := ActivityRecord{
		ObservedAt:  observedAt,
		Level:       c.DownlineLevel,
		Status:      row.optText(cols.status),
		SponsorName: c.SponsorName,
		TeamManager: c.TeamManager,
	}
	if cols.attended != "" {
		a.Attended = strings.EqualFold(row.optText(cols.attended), "yes")
	}
	a.LastLogin, err = row.optDate(cols.lastLogin)
	if err != nil {
		return TeamActivityRow{}, err
	}

	for _, title := range []struct {
		column string
		dst    *RankTitle
	}{
		{cols.currentTitle, &a.CurrentTitle},
		{cols.payTitle, &a.PayTitle},
		{cols.careerTitle, &a.CareerTitle},
	} {
		*title.dst, err = parseRankTitle(row.optText(title.column))
		if err != nil {
			return TeamActivityRow{}, err
		}
	}

	for _, volume := range []struct {
		column string
		dst    *decimal.Decimal
	}{
		{cols.rv, &a.RV},
		{cols.qv, &a.QV},
		{cols.cv, &a.CV},
		{cols.tqv, &a.TQV},
		{cols.dqv, &a.DQV},
	} {
		if volume.column == "" {
			continue
		}
		*volume.dst, err = row.optMoney(volume.column)
		if err != nil {
			return TeamActivityRow{}, err
		}
	}

	for _, count := range []struct {
		column string
		dst    *int
	}{
		{cols.activeLegs, &a.ActiveLegs},
		{cols.newRecruits, &a.NewRecruits},
		{cols.styleVIPs, &a.StyleVIPs},
		{cols.downline, &a.DownlineCount},
	} {
		if count.column == "" {
			continue
		}
		*count.dst, err = row.optInt(count.column)
		if err != nil {
			return TeamActivityRow{}, err
		}
	}

	if cols.tripPoints != "" {
		if points, ok := row.opt(cols.tripPoints); ok && points != "" {
			a.TripPoints, err = decimal.NewFromString(strings.ReplaceAll(points, ",", ""))
			if err != nil {
				return TeamActivityRow{}, fmt.Errorf("%w: field %q: %s", ErrMalformedRow, cols.tripPoints, err)
			}
		}
	}

	return TeamActivityRow{Consultant: c, Activity: a}, nil
}

// ParseTAR lazily parses a team activity report CSV export. Rows that
// fail extraction are yielded as errors carrying the row index; rows
// already produced are unaffected.
func ParseTAR(version TARVersion, data []byte, observedAt time.Time) iter.Seq2[TeamActivityRow, error] {
	return func(yield func(TeamActivityRow, error) bool) {
		err := iterCSV(data, func(index int, row csvRow) bool {
			parsed, err := extractTeamActivityRow(version, row, observedAt)
			if err != nil {
				return yield(TeamActivityRow{}, fmt.Errorf("tar row %d: %w", index, err))
			}
			return yield(parsed, nil)
		})
		if err != nil {
			yield(TeamActivityRow{}, err)
		}
	}
}
