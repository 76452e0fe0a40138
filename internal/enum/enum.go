package enum

// ── Group A: Line item kinds (drive sectioning and tax rules) ──

const (
	ItemKindService     = "SERVICE"
	ItemKindProduct     = "PRODUCT"
	ItemKindPackage     = "PACKAGE"
	ItemKindVoucher     = "VOUCHER"
	ItemKindMCPTransfer = "MCP_TRANSFER"
	ItemKindMVTransfer  = "MV_TRANSFER"
)

// ── Group B: Section identity ──

const (
	// SectionServicesProducts is the single mandatory section that combines
	// all service and product lines. Other sections are keyed per line.
	SectionServicesProducts = "services-products"
)

// ── Group C: Payment methods (catalog seeds; configurable labels) ──

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodPayNow   = "PAYNOW"
	PaymentMethodNets     = "NETS"
	PaymentMethodTransfer = "TRANSFER"
)

// ── Group D: Validation violation codes ──

const (
	ViolationPerformanceSplit = "PERFORMANCE_SPLIT"
	ViolationUnassignedItems  = "UNASSIGNED_ITEMS"
	ViolationPaymentMismatch  = "PAYMENT_MISMATCH"
	ViolationMissingField     = "MISSING_FIELD"
)
