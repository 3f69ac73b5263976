package model

// AuthResponse struct holds the response data for login or registration
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// JobResponse wraps a job with a result message
type JobResponse struct {
	Message string `json:"message"`
	Job     Job    `json:"job"`
}

// ApplicationResponse wraps an application with a result message
type ApplicationResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Application Application `json:"application"`
}
