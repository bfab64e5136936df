package checkout

import (
	"regexp"
	"strings"

	"zshop-storefront-api/internal/models"
)

var (
	phonePattern = regexp.MustCompile(`^(0|\+84)\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Payment methods accepted at checkout.
const (
	PaymentCOD  = "cod"
	PaymentBank = "bank"
	PaymentMomo = "momo"
)

// Validation messages, also used as notification text.
const (
	MsgSelectAddress   = "Please select a delivery address"
	MsgFullName        = "Please enter your full name"
	MsgPhone           = "Please enter your phone number"
	MsgAddress         = "Please enter your address"
	MsgInvalidPhone    = "Invalid phone number"
	MsgInvalidEmail    = "Invalid email address"
	MsgInvalidPayment  = "Unsupported payment method"
	MsgLoginRequired   = "Please log in to place your order"
	MsgCheckoutFailed  = "Checkout failed. Please try again."
	MsgCheckoutSuccess = "Order placed! We will contact you shortly."
)

// Contact is what the order is delivered to, either typed in or taken
// from a saved address.
type Contact struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ContactFromAddress copies a saved address into a contact.
func ContactFromAddress(a models.Address, email string) Contact {
	return Contact{FullName: a.Name, Phone: a.Phone, Address: a.FullAddress(), Email: email}
}

// Validate runs the field rules in order. Every failing field is reported,
// the first one is the one shown to the user. selected is false when the
// address-integrated flow has no address to use.
func Validate(contact Contact, selected bool, paymentMethod string) []FieldError {
	var errs []FieldError

	if !selected {
		errs = append(errs, FieldError{Field: "address", Issue: MsgSelectAddress})
	} else {
		if strings.TrimSpace(contact.FullName) == "" {
			errs = append(errs, FieldError{Field: "fullName", Issue: MsgFullName})
		}
		phone := strings.TrimSpace(contact.Phone)
		if phone == "" {
			errs = append(errs, FieldError{Field: "phone", Issue: MsgPhone})
		}
		if strings.TrimSpace(contact.Address) == "" {
			errs = append(errs, FieldError{Field: "address", Issue: MsgAddress})
		}
		if phone != "" && !phonePattern.MatchString(phone) {
			errs = append(errs, FieldError{Field: "phone", Issue: MsgInvalidPhone})
		}
	}

	if email := strings.TrimSpace(contact.Email); email != "" && !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Issue: MsgInvalidEmail})
	}

	if !validPaymentMethod(paymentMethod) {
		errs = append(errs, FieldError{Field: "paymentMethod", Issue: MsgInvalidPayment})
	}

	return errs
}

// NormalizePaymentMethod lower-cases the method and defaults it to cod.
func NormalizePaymentMethod(method string) string {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		return PaymentCOD
	}
	return method
}

func validPaymentMethod(method string) bool {
	switch NormalizePaymentMethod(method) {
	case PaymentCOD, PaymentBank, PaymentMomo:
		return true
	}
	return false
}
