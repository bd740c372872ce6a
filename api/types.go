package api

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type VerifyResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SetAdminRequest struct {
	UID   string `json:"uid" binding:"required"`
	Email string `json:"email"`
}

type Message struct {
	Message string `json:"message"`
}
