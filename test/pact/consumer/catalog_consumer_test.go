//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/ifan/go-mall-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type productRequest struct {
	ProductName string   `json:"productName"`
	Category    string   `json:"category"`
	ImageURLs   []string `json:"imageUrls"`
	Price       int64    `json:"price"`
	Stock       int32    `json:"stock"`
}

type productPayload struct {
	ProductID   int64    `json:"productId"`
	ProductName string   `json:"productName"`
	Category    string   `json:"category"`
	ImageURLs   []string `json:"imageUrls"`
	Price       int64    `json:"price"`
	Stock       int32    `json:"stock"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	request := productRequest{
		ProductName: pacttest.ExampleProductName,
		Category:    "FOODS",
		ImageURLs:   []string{pacttest.ExampleImageURL},
		Price:       30,
		Stock:       10,
	}
	productBodyMatcher := matchers.Map{
		"productId":   matchers.Like(pacttest.ExistingProductID),
		"productName": matchers.Like(request.ProductName),
		"category":    matchers.Term(request.Category, "FOODS|CLOTHES|ELECTRONICS|BOOKS|OTHERS"),
		"imageUrls":   matchers.ArrayMinLike(request.ImageURLs[0], 1),
		"price":       matchers.Like(request.Price),
		"stock":       matchers.Like(request.Stock),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateProductsBaseline).
		UponReceiving("a request to create a product").
		WithRequest("POST", "/api/v1/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"productName": matchers.Like(request.ProductName),
				"category":    matchers.Term(request.Category, "FOODS|CLOTHES|ELECTRONICS|BOOKS|OTHERS"),
				"imageUrls":   matchers.ArrayMinLike(request.ImageURLs[0], 1),
				"price":       matchers.Like(request.Price),
				"stock":       matchers.Like(request.Stock),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to fetch an existing product").
		WithRequest("GET", fmt.Sprintf("/api/v1/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/api/v1/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newCatalogClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateProduct(ctx, request)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if created == nil || created.ProductID == 0 {
			return fmt.Errorf("expected created product ID to be set")
		}

		fetched, err := client.GetProduct(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if fetched == nil || fetched.ProductID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product id %d, got %+v", pacttest.ExistingProductID, fetched)
		}

		if _, err := client.GetProduct(ctx, pacttest.MissingProductID); err == nil {
			return fmt.Errorf("expected 404 for product %d", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type catalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func newCatalogClient(config pactconsumer.MockServerConfig) *catalogClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &catalogClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *catalogClient) CreateProduct(ctx context.Context, product productRequest) (*productPayload, error) {
	body, err := json.Marshal(product)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/products", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload productPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *catalogClient) GetProduct(ctx context.Context, id int64) (*productPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload productPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
