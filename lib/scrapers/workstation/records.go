package workstation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record types parsed out of the portal's pages and exports. All of
// them are created fresh per extraction call, populated once and
// returned; consumers must not mutate them afterwards.

type Consultant struct {
	Id            string
	DownlineLevel int
	FirstName     string
	LastName      string
	Email         string
	SponsorName   string
	SponsorEmail  string
	TeamManager   string
	Type          string
	Phone         string
	AddressLine1  string
	City          string
	State         string
	Zip           string
	Country       string
	StartDate     time.Time
}

func (c Consultant) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

// Address renders a multi-line mailing address.
func (c Consultant) Address() string {
	return fmt.Sprintf("%s\n%s, %s %s", c.AddressLine1, c.City, c.State, c.Zip)
}

// RankTitle is one of the portal's compound "NN - Name" title fields,
// split into its integer code and display name.
type RankTitle struct {
	Code int
	Name string
}

// ActivityRecord is a point-in-time activity snapshot for one
// consultant in one reporting period.
type ActivityRecord struct {
	ObservedAt time.Time
	Level      int
	Attended   bool
	Status     string
	LastLogin  time.Time

	CurrentTitle RankTitle
	PayTitle     RankTitle
	CareerTitle  RankTitle

	RV  decimal.Decimal
	QV  decimal.Decimal
	CV  decimal.Decimal
	TQV decimal.Decimal
	DQV decimal.Decimal

	ActiveLegs    int
	NewRecruits   int
	StyleVIPs     int
	DownlineCount int
	TripPoints    decimal.Decimal

	SponsorName string
	TeamManager string
}

// TeamActivityRow pairs the consultant identity columns of a TAR row
// with that row's activity snapshot.
type TeamActivityRow struct {
	Consultant Consultant
	Activity   ActivityRecord
}

type Customer struct {
	Id        string
	Name      string
	Email     string
	Phone     string
	Birthdate time.Time

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Zip          string
	Country      string

	Type              string
	FirstPurchaseDate time.Time
	LastPurchaseDate  time.Time

	SponsorRV decimal.Decimal
	SponsorQV decimal.Decimal
	OtherRV   decimal.Decimal
	OtherQV   decimal.Decimal

	// back-reference to the consultant the customer originally
	// signed up under, not an owned relation
	ConsultantName string
	ConsultantId   string
}

// Address renders a multi-line mailing address, including the second
// street line only when present.
func (c Customer) Address() string {
	street := c.AddressLine1
	if c.AddressLine2 != "" {
		street = fmt.Sprintf("%s\n%s", street, c.AddressLine2)
	}
	return fmt.Sprintf("%s\n%s, %s %s", street, c.City, c.State, c.Zip)
}

type Order struct {
	Id         string
	DetailsUrl string

	CustomerName    string
	CustomerId      string
	CustomerUrl     string
	CustomerContact string
	ShippingName    string
	ShippingAddress string

	Type    string
	Status  string
	Hostess string
	Party   string

	OrderDate time.Time
	ShipDate  time.Time

	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	QV          decimal.Decimal
	RetailBonus decimal.Decimal

	LineItems []OrderLineItem
}

// OrderLineItem is owned exclusively by its parent Order. Price is
// kept as the raw cell string; Total is exact. For well-formed input
// Total equals price * quantity, but the parser does not enforce it.
type OrderLineItem struct {
	Sku      string
	Name     string
	Price    string
	Quantity int
	Total    decimal.Decimal
}

type Product struct {
	Sku         string
	Title       string
	Price       decimal.Decimal
	RetailPrice decimal.Decimal
	Tags        []string
	InStock     bool
	OnSale      bool
	Images      []string
}

// parseRankTitle splits a compound "NN - Name" title field. The code
// is always the first two characters, the name starts after the fixed
// three character delimiter. An empty field is an unknown title, not
// an error.
func parseRankTitle(text string) (RankTitle, error) {
	text = strings.Trim(text, " \t\n\r")
	if text == "" {
		return RankTitle{}, nil
	}
	if len(text) < 5 {
		return RankTitle{}, fmt.Errorf("%w: rank title %q too short", ErrMalformedRow, text)
	}
	var code int
	_, err := fmt.Sscanf(text[:2], "%d", &code)
	if err != nil {
		return RankTitle{}, fmt.Errorf("%w: rank title %q: bad code prefix", ErrMalformedRow, text)
	}
	return RankTitle{Code: code, Name: text[5:]}, nil
}
