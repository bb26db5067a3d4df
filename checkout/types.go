package checkout

// Checkout describes one purchase sent to POST /checkout.
//
// Length and charset constraints are documented on the fields but not enforced
// at construction; see Validate for an opt-in local check.
type Checkout struct {
	// StoreID is required only when the merchant has more than one store.
	StoreID *int `json:"storeId,omitempty"`
	// CountryCode is one of SE, NO, FI, DK or DE.
	CountryCode string `json:"countryCode" validate:"required,oneof=SE NO FI DK DE"`
	// Reference is the merchant's own reference, max 50 characters.
	Reference *string `json:"reference,omitempty" validate:"omitempty,max=50"`
	// SettlementReference is shown on settlement reports, max 50 characters.
	SettlementReference *string `json:"settlementReference,omitempty" validate:"omitempty,max=50"`
	RedirectPageURI     *string `json:"redirectPageUri,omitempty" validate:"omitempty,url"`

	HostedPaymentPageAbortedRedirectPageURI *string `json:"hostedPaymentPageAbortedRedirectPageUri,omitempty" validate:"omitempty,url"`

	MerchantTermsURI string `json:"merchantTermsUri" validate:"required,url"`
	// NotificationURI receives the purchase notification callback.
	NotificationURI string  `json:"notificationUri" validate:"required,url"`
	ValidationURI   *string `json:"validationUri,omitempty" validate:"omitempty,url"`
	ProfileName     *string `json:"profileName,omitempty"`

	Cart Cart           `json:"cart"`
	Fees map[string]Fee `json:"fees,omitempty" validate:"omitempty,dive"`

	PrivateCustomerPrefill *CustomerPrefill   `json:"privateCustomerPrefill,omitempty"`
	CustomFields           []CustomFieldGroup `json:"customFields,omitempty" validate:"omitempty,dive"`
}

type Cart struct {
	Items              []CartItem          `json:"items" validate:"required,min=1,dive"`
	ShippingProperties *ShippingProperties `json:"shippingProperties,omitempty"`
}

// CartItem is one line of the cart. UnitPrice and VAT carry two decimals;
// descriptions longer than 50 characters are truncated by the server.
type CartItem struct {
	ID          string `json:"id" validate:"required,max=50"`
	Description string `json:"description" validate:"required"`
	UnitPrice   Amount `json:"unitPrice" validate:"money"`
	// UnitWeight is in kilograms.
	UnitWeight           *float64 `json:"unitWeight,omitempty" validate:"omitempty,gte=0"`
	Quantity             int      `json:"quantity" validate:"min=1,max=99999999"`
	VAT                  Amount   `json:"vat" validate:"money,gte=0,lte=100"`
	RequiresElectronicID *bool    `json:"requiresElectronicId,omitempty"`
	SKU                  *string  `json:"sku,omitempty" validate:"omitempty,max=1024"`
}

// ShippingProperties dimensions are in centimetres.
type ShippingProperties struct {
	Height  int  `json:"height" validate:"gte=0"`
	Width   int  `json:"width" validate:"gte=0"`
	IsBulky bool `json:"isBulky"`
}

// Fee is a named line item such as shipping or a direct invoice fee.
type Fee struct {
	ID          string `json:"id" validate:"required,max=50"`
	Description string `json:"description" validate:"required"`
	UnitPrice   Amount `json:"unitPrice" validate:"money,gte=0,lte=999999.99"`
	VAT         Amount `json:"vat" validate:"money,gte=0,lte=100"`
}

// CustomerPrefill is used to prefill the checkout for a known customer.
type CustomerPrefill struct {
	Email                        *string          `json:"email,omitempty" validate:"omitempty,email"`
	MobilePhoneNumber            *string          `json:"mobilePhoneNumber,omitempty"`
	NationalIdentificationNumber *string          `json:"nationalIdentificationNumber,omitempty"`
	DeliveryAddress              *DeliveryAddress `json:"deliveryAddress,omitempty"`
}

type DeliveryAddress struct {
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	CoAddress  *string `json:"coAddress,omitempty"`
	Address    *string `json:"address,omitempty"`
	Address2   *string `json:"address2,omitempty"`
	PostalCode *int    `json:"postalCode,omitempty"`
	City       *string `json:"city,omitempty"`
}

// CustomFieldGroup groups custom fields shown in the checkout.
type CustomFieldGroup struct {
	ID            string                                  `json:"id" validate:"required,max=50"`
	Name          *string                                 `json:"name,omitempty"`
	Metadata      *Value                                  `json:"metadata,omitempty"`
	Localizations map[string]CustomFieldGroupLocalization `json:"localizations,omitempty"`
	Fields        []CustomField                           `json:"fields" validate:"dive"`
}

type CustomFieldGroupLocalization struct {
	Name     *string `json:"name,omitempty"`
	Metadata *Value  `json:"metadata,omitempty"`
}

type CustomFieldLocalization struct {
	Name     *string `json:"name,omitempty"`
	Value    *Value  `json:"value,omitempty"`
	Metadata *Value  `json:"metadata,omitempty"`
}

// InitCheckoutData is the payload returned when a checkout session is created.
type InitCheckoutData struct {
	// PublicToken is handed to the embedded checkout.
	PublicToken string `json:"publicToken"`
	// PrivateID identifies the session in backend-to-backend calls.
	PrivateID  string    `json:"privateId"`
	ExpiresAt  Timestamp `json:"expiresAt"`
	PaymentURI string    `json:"paymentUri"`
}
