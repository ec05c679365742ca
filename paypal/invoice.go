package paypal

import (
	"context"

	"github.com/mutinyhq/paypal-go/ordered"
	"github.com/shopspring/decimal"
)

// InvoiceParams describes an invoice to create and send. PaymentTerms
// defaults to "DueOnReceipt" and CurrencyCode to "AUD" when left empty.
type InvoiceParams struct {
	MerchantEmail string
	PayerEmail    string
	MerchantInfo  *ordered.Map
	BillerInfo    *ordered.Map
	Items         []*ordered.Map
	PaymentTerms  string
	CurrencyCode  string
}

// CreateAndSendInvoice builds the invoice document in the field order the
// schema documents and dispatches it to Invoice/CreateAndSendInvoice over
// the JSON protocol.
func (c *Client) CreateAndSendInvoice(ctx context.Context, p InvoiceParams) (map[string]interface{}, error) {
	if p.PaymentTerms == "" {
		p.PaymentTerms = "DueOnReceipt"
	}
	if p.CurrencyCode == "" {
		p.CurrencyCode = "AUD"
	}

	items := make([]ordered.Value, len(p.Items))
	for i, item := range p.Items {
		items[i] = ordered.Nested(item)
	}
	itemList := ordered.New()
	itemList.Set("item", ordered.List(items...))

	invoice := ordered.New()
	invoice.Set("payerEmail", ordered.String(p.PayerEmail))
	invoice.Set("merchantEmail", ordered.String(p.MerchantEmail))
	invoice.Set("currencyCode", ordered.String(p.CurrencyCode))
	invoice.Set("paymentTerms", ordered.String(p.PaymentTerms))
	invoice.Set("merchantInfo", ordered.Nested(p.MerchantInfo))
	invoice.Set("billingInfo", ordered.Nested(p.BillerInfo))
	invoice.Set("itemList", ordered.Nested(itemList))
	invoice.Set("requestEnvelope", ordered.Nested(requestEnvelope()))

	data := ordered.New()
	data.Set("invoice", ordered.Nested(invoice))

	return c.JSONRequest(ctx, "Invoice/CreateAndSendInvoice", data)
}

// GetInvoiceDetails fetches the full invoice document for an invoice id.
func (c *Client) GetInvoiceDetails(ctx context.Context, invoiceID string) (map[string]interface{}, error) {
	data := ordered.New()
	data.Set("invoiceID", ordered.String(invoiceID))
	data.Set("requestEnvelope", ordered.Nested(requestEnvelope()))

	return c.JSONRequest(ctx, "Invoice/GetInvoiceDetails", data)
}

// IsInvoicePaid reports whether the invoice status is "Paid". When the
// response carries no invoiceDetails.status field at all, known is false and
// paid is meaningless; that is a valid state for just-sent invoices, not an
// error.
func (c *Client) IsInvoicePaid(ctx context.Context, invoiceID string) (paid, known bool, err error) {
	res, err := c.GetInvoiceDetails(ctx, invoiceID)
	if err != nil {
		return false, false, err
	}

	details, ok := res["invoiceDetails"].(map[string]interface{})
	if !ok {
		return false, false, nil
	}
	status, ok := details["status"].(string)
	if !ok {
		return false, false, nil
	}

	return status == "Paid", true, nil
}

// BillerInfoParams describes the billing contact on an invoice. Address2 is
// optional and omitted from the wire document when empty. Country defaults
// to "AU".
type BillerInfoParams struct {
	FirstName string
	LastName  string
	Phone     string
	Address1  string
	Address2  string
	Suburb    string
	State     string
	Postcode  string
	Country   string
}

// NewBillerInfo builds the billingInfo mapping with its nested address in
// schema order.
func NewBillerInfo(p BillerInfoParams) *ordered.Map {
	if p.Country == "" {
		p.Country = "AU"
	}

	address := ordered.New()
	address.Set("line1", ordered.String(p.Address1))
	if p.Address2 != "" {
		address.Set("line2", ordered.String(p.Address2))
	}
	address.Set("city", ordered.String(p.Suburb))
	address.Set("state", ordered.String(p.State))
	address.Set("postalCode", ordered.String(p.Postcode))
	address.Set("countryCode", ordered.String(p.Country))

	info := ordered.New()
	info.Set("firstName", ordered.String(p.FirstName))
	info.Set("lastName", ordered.String(p.LastName))
	info.Set("phone", ordered.String(p.Phone))
	info.Set("address", ordered.Nested(address))
	return info
}

// InvoiceItemParams describes a single invoice line item. Quantity defaults
// to "1"; Description, TaxName, and TaxRate are omitted from the wire
// document when unset.
type InvoiceItemParams struct {
	Name        string
	UnitPrice   decimal.Decimal
	Quantity    string
	Description string
	TaxName     string
	TaxRate     *decimal.Decimal
}

// NewInvoiceItem builds a line-item mapping. Money fields are carried as
// their decimal string representation, matching what the invoice schema
// expects.
func NewInvoiceItem(p InvoiceItemParams) *ordered.Map {
	if p.Quantity == "" {
		p.Quantity = "1"
	}

	item := ordered.New()
	item.Set("name", ordered.String(p.Name))
	item.Set("quantity", ordered.String(p.Quantity))
	item.Set("unitPrice", ordered.Stringer(p.UnitPrice))
	if p.Description != "" {
		item.Set("description", ordered.String(p.Description))
	}
	if p.TaxName != "" {
		item.Set("taxName", ordered.String(p.TaxName))
	}
	if p.TaxRate != nil {
		item.Set("taxRate", ordered.Stringer(*p.TaxRate))
	}
	return item
}

func requestEnvelope() *ordered.Map {
	env := ordered.New()
	env.Set("errorLanguage", ordered.String(errorLanguage))
	return env
}
