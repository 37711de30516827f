package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filledForm() DeliveryForm {
	return DeliveryForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+100200300",
		Region:    "London",
		City:      "London",
		Address:   "12 St James Square",
	}
}

func TestDeliveryFormValidate(t *testing.T) {
	form := filledForm()
	assert.NoError(t, form.Validate())

	t.Run("Comment is optional", func(t *testing.T) {
		form := filledForm()
		form.Comment = ""
		assert.NoError(t, form.Validate())
	})

	t.Run("Missing field", func(t *testing.T) {
		form := filledForm()
		form.Address = ""
		err := form.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "address")
	})

	t.Run("Whitespace counts as missing", func(t *testing.T) {
		form := filledForm()
		form.City = "   "
		assert.Error(t, form.Validate())
	})

	t.Run("Bad email", func(t *testing.T) {
		form := filledForm()
		form.Email = "ada.example.com"
		err := form.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "email")
	})
}
