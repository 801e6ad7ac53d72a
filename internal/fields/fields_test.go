package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/extract"
	"tradedocs/internal/model"
)

func TestExtract_Invoice(t *testing.T) {
	text := "ACME CORP\nInvoice Number: INV-2024-001\nTotal Amount: $1500.00\nThank you"

	data := Extract(text, model.TypeInvoice)

	assert.Equal(t, "INV-2024-001", data["invoice_number"])
	assert.Equal(t, "1500.00", data["total_amount"])
}

func TestExtract_InvoiceCasePreserved(t *testing.T) {
	data := Extract("INVOICE NUMBER: inv-Mixed-007", model.TypeInvoice)

	assert.Equal(t, "inv-Mixed-007", data["invoice_number"])
}

func TestExtract_PurchaseOrder(t *testing.T) {
	text := "PURCHASE ORDER\nSupplier: Acme Corp\nPO Number: PO-7421"

	data := Extract(text, model.TypePurchaseOrder)

	assert.Equal(t, "Acme Corp", data["supplier"])
	assert.Equal(t, "PO-7421", data["order_number"])
}

func TestExtract_SalesContract(t *testing.T) {
	text := `SALES CONTRACT
Product Description: Blue Widget Model 9
Quantity: 100
Unit Price: $4.50
Delivery Date: 2024-02-01
Payment Terms: Net 30`

	data := Extract(text, model.TypeSalesContract)

	assert.Equal(t, "Blue Widget Model 9", data["product_description"])
	assert.Equal(t, "100", data["quantity"])
	assert.Equal(t, "4.50", data["unit_price"])
	assert.Equal(t, "2024-02-01", data["delivery_date"])
	assert.Equal(t, "Net 30", data["payment_terms"])
}

func TestExtract_SalesContractBareDate(t *testing.T) {
	text := "SALES CONTRACT\nDate: 2024-03-01\nQuantity: 5"

	data := Extract(text, model.TypeSalesContract)

	assert.Equal(t, "2024-03-01", data["delivery_date"])
	assert.Equal(t, "5", data["quantity"])
}

func TestExtract_UnmatchedRulesProduceNoFields(t *testing.T) {
	data := Extract("nothing relevant here", model.TypeInvoice)

	assert.Empty(t, data)
}

func TestExtract_GenericFallback(t *testing.T) {
	data := Extract("Reference: ABC-1\nOwner: Pat", model.TypeGeneric)

	assert.Equal(t, "ABC-1", data["reference"])
	assert.Equal(t, "Pat", data["owner"])
}

func TestExtract_StructuredData(t *testing.T) {
	text, err := extract.Extract("items.csv", []byte("name,amount\nWidget,10\nGadget,20\n"))
	require.NoError(t, err)

	data := Extract(text, model.TypeSpreadsheet)

	assert.Equal(t, "name, amount", data["Sheet1_headers"])
	assert.Equal(t, "2", data["Sheet1_row_count"])
	assert.Equal(t, "2", data["Sheet1_column_count"])
	assert.Equal(t, "30", data["Sheet1_amount_total"])
	assert.Equal(t, "2", data["Sheet1_amount_count"])
	assert.Contains(t, data["Sheet1_sample_data"], "Widget")
}

func TestExtract_MalformedStructuredBlockFallsBack(t *testing.T) {
	text := "Invoice Number: INV-9\n" + extract.StructuredDataMarker + "\nnot json"

	data := Extract(text, model.TypeInvoice)

	assert.Equal(t, "INV-9", data["invoice_number"])
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
		want float64
	}{
		{name: "empty", data: map[string]string{}, want: 0},
		{name: "one plain field", data: map[string]string{"invoice_number": "INV-1"}, want: 0.1},
		{
			name: "important fields boost",
			data: map[string]string{"quantity": "10", "unit_price": "4.50"},
			want: 0.3 + 0.3 + 0.2,
		},
		{
			name: "capped at one",
			data: map[string]string{
				"product_description": "w", "quantity": "1", "unit_price": "2",
				"total_amount": "3", "a": "x", "b": "y", "c": "z",
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.data), 1e-9)
		})
	}
}
