package domain

import (
	"fmt"
	"strings"
)

// InvoiceData is the pre-computed invoice handed to the renderer.
// Display money fields arrive formatted; only the per-item regime tax
// fields (_cgst, _sgst, _igst) are raw numbers.
type InvoiceData struct {
	Order           Order           `json:"order"`
	Customer        Customer        `json:"customer"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	LineItems       []LineItem      `json:"lineItems"`
	Totals          Totals          `json:"totals"`
}

// Order holds order level fields
type Order struct {
	Name          string `json:"name"`
	OrderNumber   string `json:"orderNumber,omitempty"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Date          string `json:"date"`
	InvoiceDate   string `json:"invoiceDate,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Customer is the billed customer
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ShippingAddress is pre-joined upstream
type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// LineItem is one row of the items table
type LineItem struct {
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	Quantity             Amount `json:"quantity"`
	MRP                  Amount `json:"mrp"`
	Discount             Amount `json:"discount"`
	SellingPrice         Amount `json:"sellingPrice"`
	SellingPriceAfterTax Amount `json:"sellingPriceAfterTax"`
	Tax                  Amount `json:"tax"`
	CGST                 Amount `json:"_cgst,omitempty"`
	SGST                 Amount `json:"_sgst,omitempty"`
	IGST                 Amount `json:"_igst,omitempty"`
}

// Totals is the invoice summary
type Totals struct {
	Subtotal Amount `json:"subtotal"`
	Discount Amount `json:"discount,omitempty"`
	Shipping Amount `json:"shipping,omitempty"`
	CGST     Amount `json:"cgst,omitempty"`
	SGST     Amount `json:"sgst,omitempty"`
	IGST     Amount `json:"igst,omitempty"`
	GST      Amount `json:"gst,omitempty"`
	Total    Amount `json:"total"`
}

const notAvailable = "N/A"

// InvoiceRef is the number printed as the invoice number
func (o Order) InvoiceRef() string {
	return firstNonEmpty(o.InvoiceNumber, o.Name, o.OrderNumber, notAvailable)
}

// OrderRef is the number printed as the order number
func (o Order) OrderRef() string {
	return firstNonEmpty(o.Name, o.OrderNumber, notAvailable)
}

// InvoiceDateText is the printed invoice date
func (o Order) InvoiceDateText() string {
	return firstNonEmpty(o.InvoiceDate, o.Date, notAvailable)
}

// DisplayName is the item name followed by its variant in parentheses
func (li LineItem) DisplayName() string {
	if li.Description == "" {
		return li.Name
	}
	return fmt.Sprintf("%s (%s)", li.Name, strings.Replace(li.Description, "Variant: ", "", 1))
}

// CityStateZip joins the non-empty locality parts
func (a ShippingAddress) CityStateZip() string {
	var parts []string
	for _, p := range []string{a.City, a.State, a.Zip} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
