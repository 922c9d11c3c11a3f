package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-system/internal/domain/auth"
	apperrors "github.com/yanqian/faq-system/pkg/errors"
)

// LoginForm renders the sign-in page.
func (h *WebHandler) LoginForm(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "login", h.page(c, "Log in", formView{Next: safeNext(c.Query("next"))}))
}

// LoginSubmit checks credentials and starts a session.
func (h *WebHandler) LoginSubmit(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	next := safeNext(c.PostForm("next"))
	resp, err := h.authSvc.Login(c.Request.Context(), auth.LoginRequest{Email: email, Password: c.PostForm("password")})
	if err != nil {
		if apperrors.IsCode(err, "invalid_credentials") || apperrors.IsCode(err, "invalid_input") {
			h.pages.render(c, http.StatusBadRequest, "login", h.page(c, "Log in", formView{
				Values: map[string]string{"email": email},
				Error:  "Invalid email or password.",
				Next:   next,
			}))
			return
		}
		h.renderError(c, err)
		return
	}
	h.sessions.start(c, resp.Token, c.PostForm("remember_me") != "")
	h.sessions.addFlash(c, flashSuccess, "Welcome back, "+resp.User.Username+"!")
	if next == "" {
		next = homePath
	}
	c.Redirect(http.StatusFound, next)
}

// SignupForm renders the registration page.
func (h *WebHandler) SignupForm(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "signup", h.page(c, "Sign up", formView{}))
}

// SignupSubmit registers the account and signs the user in.
func (h *WebHandler) SignupSubmit(c *gin.Context) {
	req := auth.RegisterRequest{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password1"),
	}
	values := map[string]string{"username": req.Username, "email": req.Email}
	if req.Password != c.PostForm("password2") {
		h.pages.render(c, http.StatusBadRequest, "signup", h.page(c, "Sign up", formView{
			Values: values,
			Errors: map[string][]string{"password2": {"The two password fields didn't match."}},
		}))
		return
	}

	if _, err := h.authSvc.Register(c.Request.Context(), req); err != nil {
		fields, ok := apperrors.DetailsOf(err).(auth.FieldErrors)
		if !ok {
			h.renderError(c, err)
			return
		}
		errs := map[string][]string(fields)
		if msgs, found := errs["password"]; found {
			errs["password1"] = msgs
		}
		h.pages.render(c, http.StatusBadRequest, "signup", h.page(c, "Sign up", formView{Values: values, Errors: errs}))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), auth.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.sessions.start(c, resp.Token, false)
	h.sessions.addFlash(c, flashSuccess, "Welcome, "+resp.User.Username+"! Your account has been created.")
	c.Redirect(http.StatusFound, homePath)
}

// Profile shows the signed-in account.
func (h *WebHandler) Profile(c *gin.Context) {
	claims, _ := getClaims(c)
	view, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		if apperrors.IsCode(err, "user_not_found") {
			h.sessions.clear(c)
			c.Redirect(http.StatusFound, loginPath)
			return
		}
		h.renderError(c, err)
		return
	}
	h.pages.render(c, http.StatusOK, "profile", h.page(c, "Profile", view))
}

// Logout ends the session.
func (h *WebHandler) Logout(c *gin.Context) {
	if user := currentUser(c); user != nil {
		h.logger.Info("user logged out", "user_id", user.UserID)
	}
	h.sessions.clear(c)
	h.sessions.addFlash(c, flashInfo, "You have been logged out.")
	c.Redirect(http.StatusFound, loginPath)
}

// DeleteAccountForm asks for the password before deleting.
func (h *WebHandler) DeleteAccountForm(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "delete_account", h.page(c, "Delete account", formView{}))
}

// DeleteAccountSubmit removes the account and ends the session.
func (h *WebHandler) DeleteAccountSubmit(c *gin.Context) {
	claims, _ := getClaims(c)
	if err := h.authSvc.DeleteAccount(c.Request.Context(), claims.UserID, c.PostForm("password")); err != nil {
		if apperrors.IsCode(err, "invalid_credentials") {
			h.pages.render(c, http.StatusBadRequest, "delete_account", h.page(c, "Delete account", formView{Error: "Incorrect password."}))
			return
		}
		h.renderError(c, err)
		return
	}
	h.sessions.clear(c)
	h.sessions.addFlash(c, flashSuccess, "Your account has been deleted.")
	c.Redirect(http.StatusFound, homePath)
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
