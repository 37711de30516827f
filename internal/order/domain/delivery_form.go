package domain

import (
	"fmt"
	"strings"
)

// DeliveryForm is the caller-supplied delivery payload collected at
// checkout and re-validated at the payment callback
type DeliveryForm struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Comment   string `json:"comment"`
	Region    string `json:"region"`
	City      string `json:"city"`
	Address   string `json:"address"`
}

// Validate checks the required delivery fields
func (f *DeliveryForm) Validate() error {
	var missing []string
	for field, value := range map[string]string{
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"email":      f.Email,
		"phone":      f.Phone,
		"region":     f.Region,
		"city":       f.City,
		"address":    f.Address,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing delivery fields: %s", strings.Join(missing, ", "))
	}
	if !strings.Contains(f.Email, "@") {
		return fmt.Errorf("invalid delivery email")
	}
	return nil
}
