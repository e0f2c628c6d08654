package dto

// ── Clientes ─────────────────────────────────────────────────────────────────

// CustomerRequest body para POST/PUT /api/customers.
type CustomerRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person,omitempty" validate:"max=100"`
	PhoneNo       string `json:"phone_no,omitempty" validate:"max=20"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	Area          string `json:"area,omitempty" validate:"max=100"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	PhoneNo       string `json:"phone_no,omitempty"`
	Address       string `json:"address,omitempty"`
	Area          string `json:"area"`
}

// ── Agentes ──────────────────────────────────────────────────────────────────

// AgentRequest body para POST/PUT /api/agents.
type AgentRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	PhoneNo string `json:"phone_no,omitempty" validate:"max=20"`
}

// AgentResponse agente en respuestas.
type AgentResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	PhoneNo string `json:"phone_no,omitempty"`
}

// ── Bancos ───────────────────────────────────────────────────────────────────

// BankRequest body para POST/PUT /api/banks.
type BankRequest struct {
	Acronym string `json:"acronym" validate:"required,max=20"`
	Name    string `json:"name" validate:"required,max=200"`
}

// BankResponse banco en respuestas.
type BankResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Acronym string `json:"acronym"`
	Name    string `json:"name"`
}

// NextCodesResponse próximos códigos visibles de cada catálogo.
type NextCodesResponse struct {
	Product  string `json:"product"`
	Customer string `json:"customer"`
	Agent    string `json:"agent"`
	Bank     string `json:"bank"`
}
