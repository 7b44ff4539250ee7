package request

import "bookstore-backoffice/internal/usecase/commands"

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) ToInput() commands.LoginInput {
	return commands.LoginInput{Email: r.Email, Password: r.Password}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"required,max=255"`
}

func (r RegisterRequest) ToInput() commands.RegisterInput {
	return commands.RegisterInput{Email: r.Email, Password: r.Password, FullName: r.FullName}
}
