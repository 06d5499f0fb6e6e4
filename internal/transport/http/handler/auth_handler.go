package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/internal/service"
	"staffdesk/internal/transport/http/ez"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Mount registers the public endpoints: signup and login.
func (h *AuthHandler) Mount(public *gin.RouterGroup) {
	e := ez.New(public)

	type signupIn struct {
		Username string `json:"username" binding:"required,max=64"`
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	ez.RegisterAction[signupIn, service.UserView](e, ez.Action[signupIn, service.UserView]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (service.UserView, error) {
			v, err := h.users.Signup(service.SignupInput{
				Username: in.Username,
				Email:    in.Email,
				Password: in.Password,
			})
			if err != nil {
				return service.UserView{}, mapErr(err)
			}
			return v, nil
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	ez.RegisterAction[loginIn, service.LoginResult](e, ez.Action[loginIn, service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (service.LoginResult, error) {
			res, err := h.users.Login(in.Email, in.Password)
			if err != nil {
				return service.LoginResult{}, mapErr(err)
			}
			return res, nil
		},
	})
}
