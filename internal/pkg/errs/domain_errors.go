package errs

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Catalog errors
	ErrVoyageNotFound    = New("voyage not found")
	ErrVoyageNotOpen     = New("voyage is not open for booking")
	ErrCabinTypeNotFound = New("cabin type not found")
	ErrPriceNotFound     = New("price not found")

	// Inventory errors
	ErrInventoryNotFound     = New("inventory not found")
	ErrInsufficientInventory = New("insufficient inventory")

	// Hold errors
	ErrHoldNotFound = New("hold not found")
	ErrHoldExpired  = New("hold expired")
	ErrHoldConsumed = New("hold already consumed")

	// Order errors
	ErrOrderNotFound          = New("order not found")
	ErrInvalidStateTransition = New("invalid state transition")
	ErrOrderExpired           = New("order expired")

	// Payment errors
	ErrPaymentNotFound           = New("payment not found")
	ErrAmountMismatch            = New("payment amount mismatch")
	ErrInvalidSignature          = New("invalid callback signature")
	ErrPaymentGatewayUnavailable = New("payment gateway unavailable")

	// Validation errors
	ErrValidation = New("validation error")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
