package workstation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const customersCSV = `Customer Id,First Name,Last Name,Email,Phone,Birth Date,Address 1,Address 2,City,State,ZIP,Country,Type,First Purchase Date,Last Purchase,Sponsor RV,Sponsor QV,Other RV,Other QV,Original Consultant,Original Consultant Id
C100,Ima,Customer,ima.customer@example.com,555-867-5309,10/31/1980,123 Nowhere St.,,Somewhere,NV,12345,US,Retail,"Jan 5, 2017","Sep 9, 2017",$40.00,$40.00,$0.00,$0.00,Jane Sponsor,12345
C200,Second,Customer,,,,,Apt 2,Elsewhere,CA,99999,US,Preferred,,,,,,,,
C300,Third,Customer,,,,456 Anywhere Ave,Apt 2,Elsewhere,CA,99999,US,Preferred,,,,,,,,
`

func TestParseCustomersCSV(t *testing.T) {
	var customers []Customer
	var errs []error
	for c, err := range ParseCustomersCSV([]byte(customersCSV)) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		customers = append(customers, c)
	}

	require.Len(t, customers, 2)

	c := customers[0]
	require.Equal(t, "C100", c.Id)
	require.Equal(t, "Ima Customer", c.Name)
	require.Equal(t, "ima.customer@example.com", c.Email)
	require.Equal(t, time.Date(1980, 10, 31, 0, 0, 0, 0, time.UTC), c.Birthdate)
	require.Equal(t, "123 Nowhere St.\nSomewhere, NV 12345", c.Address())
	require.Equal(t, "Retail", c.Type)
	// "First Purchase Date" resolves to the first purchase column
	// by similarity, not by exact name
	require.Equal(t, time.Date(2017, 1, 5, 0, 0, 0, 0, time.UTC), c.FirstPurchaseDate)
	require.Equal(t, time.Date(2017, 9, 9, 0, 0, 0, 0, time.UTC), c.LastPurchaseDate)
	require.Equal(t, "40.00", c.SponsorRV.StringFixed(2))
	require.Equal(t, "40.00", c.SponsorQV.StringFixed(2))
	require.Equal(t, "0.00", c.OtherRV.StringFixed(2))
	require.Equal(t, "Jane Sponsor", c.ConsultantName)
	require.Equal(t, "12345", c.ConsultantId)

	// the second street line participates in the rendered address
	require.Equal(t, "456 Anywhere Ave\nApt 2\nElsewhere, CA 99999", customers[1].Address())

	// the row with no street address fails alone, without taking
	// surrounding rows down
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrMalformedRow)
	require.ErrorContains(t, errs[0], "Address 1")
}

func TestExtractCustomerRowRejectsBadBirthdate(t *testing.T) {
	_, err := ExtractCustomerRow(map[string]string{
		"First Name": "Ima",
		"Last Name":  "Customer",
		"Birth Date": "halloween",
		"Address 1":  "123 Nowhere St.",
		"City":       "Somewhere",
		"State":      "NV",
		"ZIP":        "12345",
	})
	require.ErrorIs(t, err, ErrMalformedRow)
}

func TestParseCustomerVolumes(t *testing.T) {
	data := []byte(`{"rows": [
		{"customerId": "C100", "name": "Ima Customer",
		 "sponsorRV": 40, "sponsorQV": 40.5, "otherRV": 0, "otherQV": 0},
		{"customerId": "C200", "name": "Second Customer",
		 "sponsorRV": 0, "sponsorQV": 0, "otherRV": 12.34, "otherQV": 12.34}
	]}`)

	customers, err := ParseCustomerVolumes(data)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	require.Equal(t, "C100", customers[0].Id)
	require.Equal(t, "40.00", customers[0].SponsorRV.StringFixed(2))
	require.Equal(t, "40.50", customers[0].SponsorQV.StringFixed(2))
	require.Equal(t, "12.34", customers[1].OtherRV.StringFixed(2))
}

func TestParseCustomerVolumesBadPayload(t *testing.T) {
	_, err := ParseCustomerVolumes([]byte(`not json`))
	require.ErrorIs(t, err, ErrExtraction)
}
