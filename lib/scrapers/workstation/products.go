package workstation

import (
	"encoding/json"
	"fmt"
)

// skuField tolerates the catalog's habit of serializing a sku either
// as one string or as a list; a record is normalized to its first.
type skuField []string

func (s *skuField) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = skuField{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = skuField(list)
	return nil
}

func (s skuField) first() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

type productSearchResult struct {
	Sku         skuField `json:"sku"`
	Title       string   `json:"title"`
	Price       string   `json:"price"`
	RetailPrice string   `json:"retailPrice"`
	Tags        []string `json:"tags"`
	InStock     bool     `json:"inStock"`
	OnSale      bool     `json:"onSale"`
	Images      []string `json:"images"`
}

// ParseProductSearch decodes one product search response into catalog
// records.
func ParseProductSearch(data []byte) ([]Product, error) {
	var response struct {
		Products []productSearchResult `json:"products"`
	}
	err := json.Unmarshal(data, &response)
	if err != nil {
		return nil, fmt.Errorf("%w: product search response: %s", ErrExtraction, err)
	}

	products := make([]Product, 0, len(response.Products))
	for i, raw := range response.Products {
		p := Product{
			Sku:     raw.Sku.first(),
			Title:   raw.Title,
			Tags:    raw.Tags,
			InStock: raw.InStock,
			OnSale:  raw.OnSale,
			Images:  raw.Images,
		}
		if raw.Price != "" {
			p.Price, err = parseMoney("price", raw.Price)
			if err != nil {
				return nil, fmt.Errorf("product %d: %w", i, err)
			}
		}
		if raw.RetailPrice != "" {
			p.RetailPrice, err = parseMoney("retailPrice", raw.RetailPrice)
			if err != nil {
				return nil, fmt.Errorf("product %d: %w", i, err)
			}
		}
		products = append(products, p)
	}
	return products, nil
}
