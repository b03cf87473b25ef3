package dto

import "time"

// CreateCustomerRequest entrada para registrar un cliente.
// Kind "natural" usa FirstName/LastName y cédula; "juridica" usa BusinessName y RUC.
type CreateCustomerRequest struct {
	Kind                string `json:"kind"`
	Identification      string `json:"identification"`
	FirstName           string `json:"first_name,omitempty"`
	LastName            string `json:"last_name,omitempty"`
	BusinessName        string `json:"business_name,omitempty"`
	LegalRepresentative string `json:"legal_representative,omitempty"`
	Email               string `json:"email"`
	Phone               string `json:"phone,omitempty"`
	Address             string `json:"address,omitempty"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID                  string    `json:"id"`
	Kind                string    `json:"kind"`
	Identification      string    `json:"identification"`
	IdentificationType  string    `json:"identification_type"`
	DisplayName         string    `json:"display_name"`
	FirstName           string    `json:"first_name,omitempty"`
	LastName            string    `json:"last_name,omitempty"`
	BusinessName        string    `json:"business_name,omitempty"`
	LegalRepresentative string    `json:"legal_representative,omitempty"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone,omitempty"`
	Address             string    `json:"address,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// ValidateIdentityRequest número a validar. Kind: "cedula", "ruc" o "access_key".
type ValidateIdentityRequest struct {
	Kind   string `json:"kind"`
	Number string `json:"number"`
}

// ValidateIdentityResponse resultado de la validación.
type ValidateIdentityResponse struct {
	Kind   string `json:"kind"`
	Number string `json:"number"`
	Valid  bool   `json:"valid"`
}
