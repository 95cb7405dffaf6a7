package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/firmarollers/b2b-backend/pkg/config"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
)

const (
	productsPageSize         = 50
	errorBodyReadLimit int64 = 1024
)

var errStoreDomainRequired = errors.New("shopify store domain is required")
var errAdminTokenRequired = errors.New("shopify admin token is required")

// Client wraps the Shopify Admin GraphQL API used as the product catalog of record.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoint overrides the computed GraphQL endpoint, useful for test servers.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(endpoint)
		if trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// NewClient builds the Shopify Admin client from configuration.
func NewClient(cfg config.ShopifyConfig, opts ...Option) (*Client, error) {
	domain := strings.TrimSpace(cfg.StoreDomain)
	if domain == "" {
		return nil, errStoreDomainRequired
	}
	token := strings.TrimSpace(cfg.AdminToken)
	if token == "" {
		return nil, errAdminTokenRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, cfg.APIVersion),
		token:      token,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Weight is a variant weight as reported by the catalog, unit untranslated.
// Value stays untyped because the API has been seen returning strings and
// nulls here; callers coerce it.
type Weight struct {
	Value any    `json:"value"`
	Unit  string `json:"unit"`
}

// Variant is one sellable unit of a product.
type Variant struct {
	SKU               string  `json:"sku"`
	Title             string  `json:"title"`
	Price             string  `json:"price"`
	InventoryQuantity int     `json:"inventory_quantity"`
	Weight            Weight  `json:"weight"`
	ImageURL          *string `json:"image_url,omitempty"`
}

// Product is a catalog product with its variants.
type Product struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Status   string    `json:"status"`
	ImageURL *string   `json:"image_url,omitempty"`
	Variants []Variant `json:"variants"`
}

const productsQuery = `
query catalogProducts($first: Int!, $after: String) {
  products(first: $first, after: $after, query: "status:active") {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      title
      status
      featuredMedia {
        preview {
          image {
            url
          }
        }
      }
      variants(first: 100) {
        nodes {
          sku
          title
          price
          inventoryQuantity
          image {
            url
          }
          inventoryItem {
            measurement {
              weight {
                value
                unit
              }
            }
          }
        }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type imageNode struct {
	URL string `json:"url"`
}

type variantNode struct {
	SKU               string     `json:"sku"`
	Title             string     `json:"title"`
	Price             string     `json:"price"`
	InventoryQuantity int        `json:"inventoryQuantity"`
	Image             *imageNode `json:"image"`
	InventoryItem     struct {
		Measurement struct {
			Weight struct {
				Value any    `json:"value"`
				Unit  string `json:"unit"`
			} `json:"weight"`
		} `json:"measurement"`
	} `json:"inventoryItem"`
}

type productNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	FeaturedMedia *struct {
		Preview *struct {
			Image *imageNode `json:"image"`
		} `json:"preview"`
	} `json:"featuredMedia"`
	Variants struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"variants"`
}

type productsResponse struct {
	Data struct {
		Products struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []productNode `json:"nodes"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ListProducts pulls the full active catalog, following cursor pages.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "shopify client not configured")
	}

	var (
		out   []Product
		after *string
	)

	for {
		vars := map[string]any{"first": productsPageSize}
		if after != nil {
			vars["after"] = *after
		}

		resp, err := c.execute(ctx, graphqlRequest{Query: productsQuery, Variables: vars})
		if err != nil {
			return nil, err
		}

		for _, node := range resp.Data.Products.Nodes {
			out = append(out, mapProduct(node))
		}

		if !resp.Data.Products.PageInfo.HasNextPage {
			return out, nil
		}
		cursor := resp.Data.Products.PageInfo.EndCursor
		after = &cursor
	}
}

func (c *Client) execute(ctx context.Context, req graphqlRequest) (*productsResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal graphql request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build graphql request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute graphql request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "catalog request failed")
	}

	var parsed productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	if len(parsed.Errors) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog query rejected: %s", parsed.Errors[0].Message))
	}
	return &parsed, nil
}

func mapProduct(node productNode) Product {
	p := Product{
		ID:     node.ID,
		Title:  node.Title,
		Status: node.Status,
	}
	if node.FeaturedMedia != nil && node.FeaturedMedia.Preview != nil && node.FeaturedMedia.Preview.Image != nil {
		url := node.FeaturedMedia.Preview.Image.URL
		p.ImageURL = &url
	}
	for _, v := range node.Variants.Nodes {
		variant := Variant{
			SKU:               v.SKU,
			Title:             v.Title,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
			Weight: Weight{
				Value: v.InventoryItem.Measurement.Weight.Value,
				Unit:  v.InventoryItem.Measurement.Weight.Unit,
			},
		}
		if v.Image != nil {
			url := v.Image.URL
			variant.ImageURL = &url
		}
		p.Variants = append(p.Variants, variant)
	}
	return p
}
