package domain

import (
	"bytes"
	"encoding/json"
)

// RawRecord is one observed (name, price, vendor) triple produced by a collaborator.
type RawRecord struct {
	RawName string  `json:"rawName"`
	Price   float64 `json:"price"`
	Vendor  string  `json:"vendor"`
}

// PriceInput holds a price as delivered by a collaborator: either a JSON number
// or free text such as "R$ 1.234,56".
type PriceInput struct {
	Text     string
	Value    float64
	IsNumber bool
}

// UnmarshalJSON accepts a number or a string. Any other JSON value (null,
// bool, object, array) decodes to an empty input that never resolves, so the
// record is dropped as a malformed price instead of failing the batch.
func (p *PriceInput) UnmarshalJSON(data []byte) error {
	*p = PriceInput{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		p.Text = s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			// out of float64 range
			return nil
		}
		p.Value, p.IsNumber = f, true
	}
	return nil
}

// MarshalJSON writes the price back in the form it arrived.
func (p PriceInput) MarshalJSON() ([]byte, error) {
	if p.IsNumber {
		return json.Marshal(p.Value)
	}
	return json.Marshal(p.Text)
}

// RawInput is a record whose price has not been parsed yet.
type RawInput struct {
	RawName string     `json:"rawName"`
	Price   PriceInput `json:"price"`
	Vendor  string     `json:"vendor" binding:"required"`
}

// CanonicalKey identifies a product after matching. Catalog keys carry the
// section of the entry; cluster roots leave Section empty.
type CanonicalKey struct {
	Section string `json:"section,omitempty"`
	Product string `json:"product"`
}

// String renders the key for logs and labels.
func (k CanonicalKey) String() string {
	if k.Section == "" {
		return k.Product
	}
	return k.Section + "/" + k.Product
}

// PriceObservation is a price seen for a canonical product at one vendor.
type PriceObservation struct {
	Key     CanonicalKey `json:"key"`
	Vendor  string       `json:"vendor"`
	Price   float64      `json:"price"`
	RawName string       `json:"rawName,omitempty"`
}

// ProductCard is a product tile extracted from a storefront search page.
type ProductCard struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Storefront is a vendor site to collect prices from.
type Storefront struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url" binding:"required"`
}
