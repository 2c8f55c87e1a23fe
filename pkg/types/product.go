package types

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ProductId accepts both string ids and numeric ids from the collection api.
type ProductId string

func (id *ProductId) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		*id = ProductId(s)
		return nil
	}
	*id = ProductId(data)
	return nil
}

// Price is decoded from either a json number or a numeric string. Anything
// else decodes to 0 so one bad record does not fail the whole collection.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if len(raw) > 1 && raw[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			*p = 0
			return nil
		}
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*p = 0
		return nil
	}
	*p = Price(v)
	return nil
}

type Product struct {
	Id             ProductId `json:"id"`
	Title          string    `json:"title"`
	Url            string    `json:"url,omitempty"`
	Image          string    `json:"image,omitempty"`
	Price          Price     `json:"price"`
	CompareAtPrice *Price    `json:"compareAtPrice,omitempty"`
	Available      bool      `json:"available"`
	Size           string    `json:"size,omitempty"`
	Weight         string    `json:"weight,omitempty"`
	Vendor         string    `json:"vendor,omitempty"`
	ProductType    string    `json:"productType,omitempty"`
	Location       string    `json:"location,omitempty"`
}

// FacetValue returns the raw value of a facet attribute, empty when absent.
func (p *Product) FacetValue(f FacetName) string {
	switch f {
	case FacetSize:
		return p.Size
	case FacetWeight:
		return p.Weight
	case FacetVendor:
		return p.Vendor
	case FacetProductType:
		return p.ProductType
	case FacetLocation:
		return p.Location
	}
	return ""
}

// Catalog is the product list of one fetch scope. It is replaced, never mutated.
type Catalog []Product

// ProductCollection is the document returned by the collection api.
type ProductCollection struct {
	Items []Product `json:"items"`
}
