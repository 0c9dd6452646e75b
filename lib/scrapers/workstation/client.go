package workstation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jamberry-workstation/lib/restyutil"
	"jamberry-workstation/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/workstation")

const DefaultBaseUrl = "https://workstation.jamberry.com"

const (
	loginPath          = "/"
	dashboardPath      = "/ws/dashboard"
	logoutPath         = "/login/logout.aspx"
	tarPath            = "/associate/commissions/Activity.aspx"
	ordersPath         = "/associate/orders/"
	ordersArchivePath  = "/associate/orders/Archive.aspx"
	orderDetailPath    = "/associate/orders/OrderDetails.aspx"
	customersCSVPath   = "/associate/associates/ExportClientAngelForm.aspx"
	customerVolumePath = "/api/associate/customers/volume"
	viewCartsPath      = "/us/en/wscart"
	newRetailCartPath  = "/us/en/wscart/cart/new"
	saveCartPath       = "/us/en/wscart/cart/saveCart"
)

// exportRetryAttempts bounds the retry on the TAR export post, the
// one call the portal is known to shed under load.
const exportRetryAttempts = 3

var restyOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyOutput = output
}

// Client owns one authenticated workstation session: the cookie jar
// and, once product search has been used, the server-side scratch
// cart. Both are torn down by Close.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	username string
	password string

	loggedIn bool
	cartUrl  string
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl  string
	Username string
	Password string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/workstation/http")
	restyutil.InstrumentClient(client, restyOutput)

	c := &Client{
		BaseUrl:  baseUrl,
		Http:     client,
		username: opts.Username,
		password: opts.Password,
	}
	return c, nil
}

func docFromResponse(res *resty.Response) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExtraction, err)
	}
	return doc, nil
}

func (c *Client) LoggedIn() bool {
	return c.loggedIn
}

// Login authenticates the session through the portal's HTML form.
// Calling it on an authenticated session is a no-op.
func (c *Client) Login(ctx context.Context) error {
	if c.loggedIn {
		return nil
	}

	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := docFromResponse(res)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page")
		return err
	}

	form := doc.Find("form#Form1")
	if form.Length() == 0 {
		span.SetStatus(codes.Error, "login form not found")
		return fmt.Errorf("%w: login form not found", ErrExtraction)
	}

	// carry the form's hidden state along with the credentials
	formData := map[string]string{}
	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name != "" {
			formData[name] = input.AttrOr("value", "")
		}
	})
	formData["username"] = c.username
	formData["password"] = c.password

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(formData).
		Post(form.AttrOr("action", loginPath))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	if res.StatusCode() != 200 || !bytes.Contains(res.Body(), []byte("Quick Links")) {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return fmt.Errorf("%w (likely incorrect username or password)", ErrLoginFailed)
	}

	res, err = c.Http.R().
		SetContext(ctx).
		Get(dashboardPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request dashboard after login")
		return err
	}
	if strings.Contains(res.RawResponse.Request.URL.Path, "/login") {
		span.SetStatus(codes.Error, "login verification failed")
		return fmt.Errorf("%w: dashboard redirected back to login", ErrLoginFailed)
	}

	c.loggedIn = true
	return nil
}

// Logout ends the server-side session and drops all cookie state.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	_, err := c.Http.R().
		SetContext(ctx).
		Get(logoutPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "logout request failed")
		return err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.Http.SetCookieJar(jar)
	c.loggedIn = false
	return nil
}

// Close tears down everything the session holds server-side: the
// scratch cart if one was created, then the login session. A Client
// must not be used after Close.
func (c *Client) Close(ctx context.Context) error {
	var errlist []error
	if c.cartUrl != "" {
		if err := c.deleteScratchCart(ctx); err != nil {
			errlist = append(errlist, err)
		}
	}
	if c.loggedIn {
		if err := c.Logout(ctx); err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// the portal's aspx forms require echoing these hidden fields back on
// every post
func hiddenFormFields(doc *goquery.Document) (map[string]string, error) {
	fields := map[string]string{}
	for _, name := range []string{"__VIEWSTATE", "__VIEWSTATEGENERATOR", "__EVENTVALIDATION"} {
		input := doc.Find(fmt.Sprintf("input[name=%s]", name))
		if input.Length() == 0 {
			return nil, fmt.Errorf("%w: hidden form field %q not found", ErrExtraction, name)
		}
		fields[name] = input.AttrOr("value", "")
	}
	return fields, nil
}

type TARRequest struct {
	Year  int
	Month time.Month
	// how many downline levels to include, 9999 means the whole tree
	Levels int
}

// FetchTAR walks the activity report form and downloads the CSV
// export for one reporting period.
func (c *Client) FetchTAR(ctx context.Context, req TARRequest) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchTAR")
	defer span.End()

	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	if req.Year == 0 {
		now := time.Now()
		req.Year = now.Year()
		req.Month = now.Month()
	}
	if req.Levels == 0 {
		req.Levels = 9999
	}
	period := strconv.Itoa(req.Year*100 + int(req.Month))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(tarPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch activity form")
		return nil, err
	}
	doc, err := docFromResponse(res)
	if err != nil {
		return nil, err
	}
	hidden, err := hiddenFormFields(doc)
	if err != nil {
		span.SetStatus(codes.Error, "activity form state missing")
		return nil, err
	}

	// selecting the level count is a separate form event
	levelData := map[string]string{
		"__EVENTTARGET":              "ctl00$contentMain$ddLevels",
		"ctl00$contentMain$ddMonth":  period,
		"ctl00$contentMain$ddLevels": strconv.Itoa(req.Levels),
	}
	for k, v := range hidden {
		levelData[k] = v
	}
	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(levelData).
		Post(tarPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to set downline levels")
		return nil, err
	}
	doc, err = docFromResponse(res)
	if err != nil {
		return nil, err
	}
	hidden, err = hiddenFormFields(doc)
	if err != nil {
		span.SetStatus(codes.Error, "activity form state missing after level select")
		return nil, err
	}

	exportData := map[string]string{
		"ctl00$contentMain$ddMonth":  period,
		"ctl00$contentMain$ddLevels": strconv.Itoa(req.Levels),
		"ctl00$contentMain$rgActivity$ctl00$ctl02$ctl00$ExportToCsvButton": "",
	}
	for k, v := range hidden {
		exportData[k] = v
	}

	var lastErr error
	for attempt := 1; attempt <= exportRetryAttempts; attempt++ {
		res, lastErr = c.Http.R().
			SetContext(ctx).
			SetFormData(exportData).
			Post(tarPath)
		if lastErr == nil {
			return res.Body(), nil
		}
		slog.WarnContext(
			ctx, "tar export failed",
			"attempt", attempt,
			"err", lastErr,
		)
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "tar export failed after retries")
	return nil, lastErr
}

// TeamActivity fetches and parses one period's team activity report,
// stamping every snapshot with the current observation time.
func (c *Client) TeamActivity(ctx context.Context, version TARVersion, req TARRequest) (iter.Seq2[TeamActivityRow, error], error) {
	data, err := c.FetchTAR(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseTAR(version, data, time.Now()), nil
}

func (c *Client) fetchDocument(ctx context.Context, path string, query map[string]string) (*goquery.Document, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, err
	}
	return docFromResponse(res)
}

// FetchOrders retrieves the live orders page.
func (c *Client) FetchOrders(ctx context.Context) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchOrders")
	defer span.End()
	return c.fetchDocument(ctx, ordersPath, nil)
}

// FetchArchiveOrders retrieves one page of the order archive.
func (c *Client) FetchArchiveOrders(ctx context.Context, page int) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchArchiveOrders")
	defer span.End()
	return c.fetchDocument(ctx, ordersArchivePath, map[string]string{
		"page": strconv.Itoa(page),
	})
}

// Orders lazily yields every order: first the live orders page, then
// the paged archive until the server signals the last page. The
// sequence is forward-only and not restartable.
func (c *Client) Orders(ctx context.Context) iter.Seq2[Order, error] {
	return func(yield func(Order, error) bool) {
		doc, err := c.FetchOrders(ctx)
		if err != nil {
			yield(Order{}, err)
			return
		}
		for order, err := range ParseOrders(doc) {
			if !yield(order, err) {
				return
			}
		}
		for order, err := range c.ArchiveOrders(ctx) {
			if !yield(order, err) {
				return
			}
		}
	}
}

// ArchiveOrders lazily pages through the order archive.
func (c *Client) ArchiveOrders(ctx context.Context) iter.Seq2[Order, error] {
	return func(yield func(Order, error) bool) {
		for page := 1; ; page++ {
			doc, err := c.FetchArchiveOrders(ctx, page)
			if err != nil {
				yield(Order{}, fmt.Errorf("archive page %d: %w", page, err))
				return
			}
			for order, err := range ParseArchiveOrders(doc) {
				if !yield(order, err) {
					return
				}
			}
			if archiveIsLastPage(doc) {
				return
			}
		}
	}
}

// FetchOrderDetail retrieves one order's detail page.
func (c *Client) FetchOrderDetail(ctx context.Context, orderId string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchOrderDetail")
	defer span.End()
	return c.fetchDocument(ctx, orderDetailPath, map[string]string{
		"id": orderId,
	})
}

// AddOrderDetails enriches an order with its line items and shipping
// address from the detail page.
func (c *Client) AddOrderDetails(ctx context.Context, order *Order) error {
	doc, err := c.FetchOrderDetail(ctx, order.Id)
	if err != nil {
		return err
	}
	order.LineItems, err = ExtractLineItems(doc)
	if err != nil {
		return err
	}
	order.ShippingAddress, err = ExtractShippingAddress(doc)
	if err != nil {
		return err
	}
	return nil
}

// OrdersWithDetails is Orders with every successfully parsed order
// enriched by its detail page.
func (c *Client) OrdersWithDetails(ctx context.Context) iter.Seq2[Order, error] {
	return func(yield func(Order, error) bool) {
		for order, err := range c.Orders(ctx) {
			if err != nil {
				if !yield(order, err) {
					return
				}
				continue
			}
			if err := c.AddOrderDetails(ctx, &order); err != nil {
				if !yield(Order{}, fmt.Errorf("order %s details: %w", order.Id, err)) {
					return
				}
				continue
			}
			if !yield(order, nil) {
				return
			}
		}
	}
}

// FetchCustomersCSV downloads the client angel export.
func (c *Client) FetchCustomersCSV(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCustomersCSV")
	defer span.End()

	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	res, err := c.Http.R().
		SetContext(ctx).
		Get(customersCSVPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch customer export")
		return nil, err
	}
	return res.Body(), nil
}

// Customers lazily yields every customer in the client angel export.
func (c *Client) Customers(ctx context.Context) iter.Seq2[Customer, error] {
	return func(yield func(Customer, error) bool) {
		data, err := c.FetchCustomersCSV(ctx)
		if err != nil {
			yield(Customer{}, err)
			return
		}
		for customer, err := range ParseCustomersCSV(data) {
			if !yield(customer, err) {
				return
			}
		}
	}
}

// CustomerVolumes queries the customer volume API and returns volume
// attribution per customer.
func (c *Client) CustomerVolumes(ctx context.Context) ([]Customer, error) {
	ctx, span := tracer.Start(ctx, "client:CustomerVolumes")
	defer span.End()

	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	res, err := c.Http.R().
		SetContext(ctx).
		Get(customerVolumePath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch customer volumes")
		return nil, err
	}
	return ParseCustomerVolumes(res.Body())
}

// ensureScratchCart lazily creates the throwaway retail cart that the
// product search API requires. The cart carries placeholder shipping
// data and is deleted by Close.
func (c *Client) ensureScratchCart(ctx context.Context) error {
	if c.cartUrl != "" {
		return nil
	}

	ctx, span := tracer.Start(ctx, "client:ensureScratchCart")
	defer span.End()

	if err := c.Login(ctx); err != nil {
		return err
	}

	_, err := c.Http.R().
		SetContext(ctx).
		Get(viewCartsPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to open cart list")
		return err
	}
	_, err = c.Http.R().
		SetContext(ctx).
		SetQueryParam("cartType", "2").
		Get(newRetailCartPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to open new cart form")
		return err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"cartType":    "2",
			"label":       "tmpSearch-" + uuid.NewString(),
			"id":          "",
			"firstName":   "Sherlock",
			"lastName":    "Holmes",
			"address1":    "221B Baker St",
			"address2":    "",
			"locality":    "London",
			"region":      "KY",
			"postalCode":  "40741",
			"country":     "US",
			"phoneNumber": "4045551212",
		}).
		Post(saveCartPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save scratch cart")
		return err
	}

	cartUrl := res.RawResponse.Request.URL.String()
	if !strings.Contains(cartUrl, "cart/display") {
		span.SetStatus(codes.Error, "scratch cart url not recognized")
		return fmt.Errorf("%w: unexpected cart url %q", ErrExtraction, cartUrl)
	}
	c.cartUrl = cartUrl
	return nil
}

func (c *Client) deleteScratchCart(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:deleteScratchCart")
	defer span.End()

	deleteUrl := strings.Replace(c.cartUrl, "cart/display", "cart/RemoveCart", 1)
	_, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("CartType", "Retail").
		Get(deleteUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete scratch cart")
		return err
	}
	c.cartUrl = ""
	return nil
}

// SearchProducts sweeps the catalog search endpoint once per key and
// returns the deduplicated union, keyed by sku. The default key set
// ("aeiou") effectively retrieves the full catalog, which holds well
// under the per-query result cap.
func (c *Client) SearchProducts(ctx context.Context, keys string) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:SearchProducts")
	defer span.End()

	if keys == "" {
		keys = "aeiou"
	}
	if err := c.ensureScratchCart(ctx); err != nil {
		return nil, err
	}
	searchUrl := strings.Replace(c.cartUrl, "cart/display", "search/products", 1)

	seen := map[string]bool{}
	var products []Product
	for _, key := range keys {
		res, err := c.Http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"cartType":    "Retail",
				"catalogType": "retail",
				"take":        "9999",
				"q":           string(key),
			}).
			Get(searchUrl)
		if err != nil {
			span.SetStatus(codes.Error, "product search request failed")
			return nil, err
		}

		batch, err := ParseProductSearch(res.Body())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "product search parse failed")
			return nil, fmt.Errorf("search key %q: %w", string(key), err)
		}
		for _, p := range batch {
			if p.Sku == "" || seen[p.Sku] {
				continue
			}
			seen[p.Sku] = true
			products = append(products, p)
		}
	}

	slog.DebugContext(ctx, "product catalog sweep", "keys", keys, "products", len(products))
	return products, nil
}
