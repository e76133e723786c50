package controllers

import (
	"net/http"
	"time"

	"github.com/amirdashti/darchin-backend/api/controllers/dto"
	"github.com/amirdashti/darchin-backend/api/middleware"
	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/api/validators"
	authsvc "github.com/amirdashti/darchin-backend/internal/auth"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,ir_phone"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type verifyRequest struct {
	Phone string `json:"phone" validate:"required,ir_phone"`
	Code  string `json:"code" validate:"required,len=5,numeric"`
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required,ir_phone"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Phone string `json:"phone" validate:"required,ir_phone"`
}

type resetPasswordRequest struct {
	Phone    string `json:"phone" validate:"required,ir_phone"`
	Code     string `json:"code" validate:"required,len=5,numeric"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AuthRegister starts registration: parks the account and sends the OTP.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.RegisterStart(r.Context(), authsvc.RegisterInput{
			Name:     body.Name,
			Phone:    body.Phone,
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "code_sent"})
	}
}

// AuthRegisterVerify completes registration once the OTP checks out.
func AuthRegisterVerify(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body verifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RegisterVerify(r.Context(), body.Phone, body.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto.AuthResult{
			Token: result.Token,
			User:  dto.NewUser(result.User),
		})
	}
}

func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Phone, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.AuthResult{
			Token: result.Token,
			User:  dto.NewUser(result.User),
		})
	}
}

// AuthLogout blacklists the presented token until it would have expired.
func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		jti := middleware.JTIFromContext(r.Context())
		remaining := time.Until(middleware.TokenExpiryFromContext(r.Context()))

		if err := svc.Logout(r.Context(), jti, remaining); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func AuthForgotPassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ForgotPassword(r.Context(), body.Phone); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "code_sent"})
	}
}

func AuthResetPassword(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPassword(r.Context(), body.Phone, body.Code, body.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "password_reset"})
	}
}
