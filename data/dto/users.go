package dto

// RegisterUserRequestBody defines the request body for member registration.
type RegisterUserRequestBody struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequestBody defines the request body for authentication.
type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
