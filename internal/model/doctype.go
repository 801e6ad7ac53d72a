package model

// DocumentType is the inferred business type of an exchanged document.
type DocumentType string

const (
	TypeInvoice       DocumentType = "invoice"
	TypePurchaseOrder DocumentType = "purchase_order"
	TypeSalesContract DocumentType = "sales_contract"
	TypeSpreadsheet   DocumentType = "spreadsheet"
	TypeGeneric       DocumentType = "generic"
)
