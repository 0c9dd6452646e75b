package workstation

import (
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

// client angel export columns. names drift between portal releases;
// lookups go through the fuzzy header resolver.
var customerColumns = struct {
	id, firstName, lastName, email, phone, birthdate   string
	address1, address2, city, state, zip, country      string
	customerType, firstPurchase, lastPurchase          string
	sponsorRV, sponsorQV, otherRV, otherQV             string
	consultant, consultantId                           string
}{
	id:            "Customer Id",
	firstName:     "First Name",
	lastName:      "Last Name",
	email:         "Email",
	phone:         "Phone",
	birthdate:     "Birth Date",
	address1:      "Address 1",
	address2:      "Address 2",
	city:          "City",
	state:         "State",
	zip:           "ZIP",
	country:       "Country",
	customerType:  "Type",
	firstPurchase: "First Purchase",
	lastPurchase:  "Last Purchase",
	sponsorRV:     "Sponsor RV",
	sponsorQV:     "Sponsor QV",
	otherRV:       "Other RV",
	otherQV:       "Other QV",
	consultant:    "Original Consultant",
	consultantId:  "Original Consultant Id",
}

const birthdateLayout = "1/2/2006"

// ExtractCustomerRow maps one client angel export row onto a
// Customer. A row missing the name or a required address field fails
// whole; there are no partial customers.
func ExtractCustomerRow(row map[string]string) (Customer, error) {
	header := make([]string, 0, len(row))
	fields := make([]string, 0, len(row))
	for k, v := range row {
		header = append(header, k)
		fields = append(fields, v)
	}
	return extractCustomerRow(csvRow{header: newCSVHeader(header), fields: fields})
}

func extractCustomerRow(row csvRow) (Customer, error) {
	var c Customer
	cols := customerColumns

	first, err := row.req(cols.firstName)
	if err != nil {
		return Customer{}, err
	}
	last, err := row.req(cols.lastName)
	if err != nil {
		return Customer{}, err
	}
	c.Name = fmt.Sprintf("%s %s", first, last)

	c.AddressLine1, err = row.req(cols.address1)
	if err != nil {
		return Customer{}, err
	}
	c.City, err = row.req(cols.city)
	if err != nil {
		return Customer{}, err
	}
	c.State, err = row.req(cols.state)
	if err != nil {
		return Customer{}, err
	}
	c.Zip, err = row.req(cols.zip)
	if err != nil {
		return Customer{}, err
	}

	c.Id = row.optText(cols.id)
	c.Email = row.optText(cols.email)
	c.Phone = row.optText(cols.phone)
	c.AddressLine2 = row.optText(cols.address2)
	c.Country = row.optText(cols.country)
	c.Type = row.optText(cols.customerType)
	c.ConsultantName = row.optText(cols.consultant)
	c.ConsultantId = row.optText(cols.consultantId)

	if birthdate, ok := row.opt(cols.birthdate); ok && birthdate != "" {
		c.Birthdate, err = time.Parse(birthdateLayout, birthdate)
		if err != nil {
			return Customer{}, fmt.Errorf("%w: field %q: %s", ErrMalformedRow, cols.birthdate, err)
		}
	}
	c.FirstPurchaseDate, err = row.optDate(cols.firstPurchase)
	if err != nil {
		return Customer{}, err
	}
	c.LastPurchaseDate, err = row.optDate(cols.lastPurchase)
	if err != nil {
		return Customer{}, err
	}

	for _, volume := range []struct {
		column string
		dst    *decimal.Decimal
	}{
		{cols.sponsorRV, &c.SponsorRV},
		{cols.sponsorQV, &c.SponsorQV},
		{cols.otherRV, &c.OtherRV},
		{cols.otherQV, &c.OtherQV},
	} {
		*volume.dst, err = row.optMoney(volume.column)
		if err != nil {
			return Customer{}, err
		}
	}

	return c, nil
}

// ParseCustomersCSV lazily parses the client angel CSV export,
// yielding one customer per row and per-row errors carrying the row
// index.
func ParseCustomersCSV(data []byte) iter.Seq2[Customer, error] {
	return func(yield func(Customer, error) bool) {
		err := iterCSV(data, func(index int, row csvRow) bool {
			parsed, err := extractCustomerRow(row)
			if err != nil {
				return yield(Customer{}, fmt.Errorf("customer row %d: %w", index, err))
			}
			return yield(parsed, nil)
		})
		if err != nil {
			yield(Customer{}, err)
		}
	}
}

// customer volume rows come back from the portal's JSON API already
// structured; amounts are plain numbers, not currency strings.
type customerVolumeRow struct {
	CustomerId string      `json:"customerId"`
	Name       string      `json:"name"`
	SponsorRV  json.Number `json:"sponsorRV"`
	SponsorQV  json.Number `json:"sponsorQV"`
	OtherRV    json.Number `json:"otherRV"`
	OtherQV    json.Number `json:"otherQV"`
}

// ParseCustomerVolumes decodes the consultant-customer-volume API
// response into customers carrying only identity and volume
// attribution.
func ParseCustomerVolumes(data []byte) ([]Customer, error) {
	var response struct {
		Rows []customerVolumeRow `json:"rows"`
	}
	err := json.Unmarshal(data, &response)
	if err != nil {
		return nil, fmt.Errorf("%w: customer volume response: %s", ErrExtraction, err)
	}

	customers := make([]Customer, 0, len(response.Rows))
	for i, row := range response.Rows {
		c := Customer{
			Id:   row.CustomerId,
			Name: row.Name,
		}
		var err error
		for _, volume := range []struct {
			value json.Number
			dst   *decimal.Decimal
		}{
			{row.SponsorRV, &c.SponsorRV},
			{row.SponsorQV, &c.SponsorQV},
			{row.OtherRV, &c.OtherRV},
			{row.OtherQV, &c.OtherQV},
		} {
			if volume.value == "" {
				continue
			}
			*volume.dst, err = decimal.NewFromString(volume.value.String())
			if err != nil {
				return nil, fmt.Errorf("%w: customer volume row %d: %s", ErrMalformedRow, i, err)
			}
		}
		customers = append(customers, c)
	}
	return customers, nil
}
