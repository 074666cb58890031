package handler

import (
	"errors"
	"net/http"

	"clinic-web/internal/domain"
	"clinic-web/internal/identity"
	"clinic-web/internal/middleware"
	"clinic-web/internal/observability"
	"clinic-web/internal/service"
)

// AuthHandler serves the sign-in, sign-up and password pages and the
// /api/auth endpoints. Endpoints accept JSON or form posts; form posts get
// redirects or re-rendered pages, JSON callers get JSON.
type AuthHandler struct {
	auth     *service.AuthService
	cookies  CookieConfig
	renderer *Renderer
}

func NewAuthHandler(auth *service.AuthService, cookies CookieConfig, renderer *Renderer) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, renderer: renderer}
}

// SignInRequest represents a sign-in submission
type SignInRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

type signInForm struct {
	Email       string
	CallbackURL string
}

type signUpForm struct {
	Name  string
	Email string
	Phone string
}

type forgotForm struct {
	Email string `json:"email"`
}

// UserResponse is the public view of the signed-in customer
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionResponse answers GET /api/auth/session
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
	CSRFToken     string        `json:"csrfToken,omitempty"`
}

func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "sign_in", PageData{
		Title: "Sign in",
		Data:  signInForm{CallbackURL: service.SafeCallback(r.URL.Query().Get(middleware.CallbackParam))},
	})
}

func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "sign_up", PageData{Title: "Create an account", Data: signUpForm{}})
}

func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "forgot_password", PageData{Title: "Reset your password", Data: forgotForm{}})
}

// SignIn handles POST /api/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	ok := bind(w, r, &req, func(get func(string) string) {
		req.Email = get("email")
		req.Password = get("password")
		req.CallbackURL = get("callbackUrl")
	})
	if !ok {
		return
	}
	callback := service.SafeCallback(req.CallbackURL)

	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		status, msg := authErrorStatus(err, "Sign in failed")
		if status >= http.StatusInternalServerError {
			observability.FromContext(r.Context()).Error("sign-in failed", observability.Err(err))
		}
		if isJSON(r) {
			writeError(w, r, status, msg)
			return
		}
		h.renderer.Render(w, r, status, "sign_in", PageData{
			Title: "Sign in",
			Error: msg,
			Data:  signInForm{Email: req.Email, CallbackURL: callback},
		})
		return
	}

	h.cookies.setSession(w, session.Token, session.ExpiresAt)

	if isJSON(r) {
		writeJSON(w, r, http.StatusOK, SessionResponse{
			Authenticated: true,
			User:          userResponse(session),
			CSRFToken:     session.CSRFToken,
		})
		return
	}
	http.Redirect(w, r, callback, http.StatusSeeOther)
}

// SignUp handles POST /api/auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req identity.SignUpInput
	ok := bind(w, r, &req, func(get func(string) string) {
		req.Name = get("name")
		req.Email = get("email")
		req.Password = get("password")
		req.Phone = get("phone")
	})
	if !ok {
		return
	}

	msg, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		status, errMsg := authErrorStatus(err, "Registration failed")
		if isJSON(r) {
			writeError(w, r, status, errMsg)
			return
		}
		h.renderer.Render(w, r, status, "sign_up", PageData{
			Title: "Create an account",
			Error: errMsg,
			Data:  signUpForm{Name: req.Name, Email: req.Email, Phone: req.Phone},
		})
		return
	}
	if msg == "" {
		msg = "Account created. You can now sign in."
	}

	if isJSON(r) {
		writeJSON(w, r, http.StatusCreated, map[string]any{"success": true, "message": msg})
		return
	}
	h.renderer.Render(w, r, http.StatusCreated, "sign_in", PageData{
		Title:  "Sign in",
		Notice: msg,
		Data:   signInForm{Email: req.Email, CallbackURL: "/"},
	})
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotForm
	ok := bind(w, r, &req, func(get func(string) string) {
		req.Email = get("email")
	})
	if !ok {
		return
	}

	msg, err := h.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		status, errMsg := authErrorStatus(err, "Could not send reset link")
		if isJSON(r) {
			writeError(w, r, status, errMsg)
			return
		}
		h.renderer.Render(w, r, status, "forgot_password", PageData{
			Title: "Reset your password",
			Error: errMsg,
			Data:  req,
		})
		return
	}
	if msg == "" {
		msg = "If an account exists for that email, a reset link has been sent."
	}

	if isJSON(r) {
		writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "message": msg})
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "forgot_password", PageData{
		Title:  "Reset your password",
		Notice: msg,
		Data:   forgotForm{},
	})
}

// SignOut handles POST /api/auth/sign-out. It always clears the cookie.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, _ := identity.SessionTokenFrom(r.Context())
	if err := h.auth.SignOut(r.Context(), token); err != nil {
		observability.FromContext(r.Context()).Warn("failed to revoke session", observability.Err(err))
	}
	h.cookies.clearSession(w)

	if isJSON(r) || r.Header.Get("Accept") == "application/json" {
		writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	token, _ := identity.SessionTokenFrom(r.Context())
	session, err := h.auth.Session(r.Context(), token)
	if err != nil {
		writeJSON(w, r, http.StatusOK, SessionResponse{Authenticated: false})
		return
	}
	writeJSON(w, r, http.StatusOK, SessionResponse{
		Authenticated: true,
		User:          userResponse(session),
		CSRFToken:     session.CSRFToken,
	})
}

func userResponse(s *domain.Session) *UserResponse {
	return &UserResponse{ID: s.UserID, Name: s.Name, Email: s.Email}
}

// authErrorStatus maps auth errors to a status and a message safe to show.
func authErrorStatus(err error, fallback string) (int, string) {
	var remote *identity.RemoteError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "Please check the details you entered"
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.As(err, &remote):
		msg := remote.Message
		if msg == "" {
			msg = fallback
		}
		if remote.Status >= 400 && remote.Status < 500 {
			return remote.Status, msg
		}
		return http.StatusBadGateway, msg
	default:
		return http.StatusBadGateway, fallback
	}
}
