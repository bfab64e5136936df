package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"zshop-storefront-api/internal/models"
)

func validContact() Contact {
	return Contact{FullName: "Nguyen Van A", Phone: "0912345678", Address: "12 Le Loi"}
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(validContact(), true, ""))
	assert.Empty(t, Validate(validContact(), true, "MOMO"))

	c := validContact()
	c.Phone = "+84912345678"
	c.Email = "a@shop.vn"
	assert.Empty(t, Validate(c, true, PaymentBank))
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Contact)
		selected bool
		payment  string
		want     []FieldError
	}{
		{
			name:     "no address selected",
			mutate:   func(c *Contact) {},
			selected: false,
			want:     []FieldError{{Field: "address", Issue: MsgSelectAddress}},
		},
		{
			name:     "missing name",
			mutate:   func(c *Contact) { c.FullName = "  " },
			selected: true,
			want:     []FieldError{{Field: "fullName", Issue: MsgFullName}},
		},
		{
			name:     "invalid phone",
			mutate:   func(c *Contact) { c.Phone = "123" },
			selected: true,
			want:     []FieldError{{Field: "phone", Issue: MsgInvalidPhone}},
		},
		{
			name:     "phone with ten digits after the prefix",
			mutate:   func(c *Contact) { c.Phone = "09123456789" },
			selected: true,
			want:     []FieldError{{Field: "phone", Issue: MsgInvalidPhone}},
		},
		{
			name:     "invalid email",
			mutate:   func(c *Contact) { c.Email = "not-an-email" },
			selected: true,
			want:     []FieldError{{Field: "email", Issue: MsgInvalidEmail}},
		},
		{
			name:     "unsupported payment",
			mutate:   func(c *Contact) {},
			selected: true,
			payment:  "paypal",
			want:     []FieldError{{Field: "paymentMethod", Issue: MsgInvalidPayment}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContact()
			tt.mutate(&c)
			assert.Equal(t, tt.want, Validate(c, tt.selected, tt.payment))
		})
	}
}

func TestValidate_Order(t *testing.T) {
	c := Contact{FullName: "", Phone: "123", Address: "", Email: "bad"}

	errs := Validate(c, true, "paypal")

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field + ":" + e.Issue
	}
	assert.Equal(t, []string{
		"fullName:" + MsgFullName,
		"address:" + MsgAddress,
		"phone:" + MsgInvalidPhone,
		"email:" + MsgInvalidEmail,
		"paymentMethod:" + MsgInvalidPayment,
	}, fields)
}

func TestNormalizePaymentMethod(t *testing.T) {
	assert.Equal(t, PaymentCOD, NormalizePaymentMethod(""))
	assert.Equal(t, PaymentMomo, NormalizePaymentMethod(" MoMo "))
	assert.Equal(t, "paypal", NormalizePaymentMethod("paypal"))
}

func TestContactFromAddress(t *testing.T) {
	a := models.Address{ID: "a1", Name: "Tran B", Phone: "0987654321", Address: "5 Hang Bai", City: "Hanoi"}
	c := ContactFromAddress(a, "b@shop.vn")

	assert.Equal(t, Contact{FullName: "Tran B", Phone: "0987654321", Address: "5 Hang Bai, Hanoi", Email: "b@shop.vn"}, c)
}

func TestSelectAddress(t *testing.T) {
	list := []models.Address{
		{ID: "a1"},
		{ID: "a2", IsDefault: true},
		{ID: "a3"},
	}

	assert.Equal(t, "a3", SelectAddress(list, "a3").ID)
	assert.Equal(t, "a2", SelectAddress(list, "").ID)
	assert.Equal(t, "a2", SelectAddress(list, "missing").ID)
	assert.Equal(t, "a1", SelectAddress(list[:1], "").ID)
	assert.Nil(t, SelectAddress(nil, ""))
}
