package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Registro string `json:"registro" validate:"required"`
	Senha    string `json:"senha" validate:"required"`
}

// LoginResponse token JWT más los datos del usuario para mostrar.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserSummary datos del usuario autenticado.
type UserSummary struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Registro string `json:"registro"`
	Cargo    string `json:"cargo"`
	EscolaID string `json:"escolaId"`
}
