package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/account"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	Auth            *AuthHandler
	Accounts        *account.Service
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// safeNext keeps redirects on the frontend origin.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Auth.CookieSecure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	st := randomState(32)
	h.tempCookie(c, "oauth_state", st, 10*60)
	h.tempCookie(c, "oauth_next", safeNext(c.Query("next", "/")), 10*60)

	return c.Redirect(h.oauthCfg().AuthCodeURL(st), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return fail(c, apperrors.Validation("Missing code or state"))
	}
	if st := c.Cookies("oauth_state"); st == "" || st != state {
		return fail(c, apperrors.Validation("Invalid state"))
	}
	next := safeNext(c.Cookies("oauth_next"))

	ctx := c.UserContext()
	tok, err := h.oauthCfg().Exchange(ctx, code)
	if err != nil {
		slog.WarnContext(ctx, "google code exchange failed", slog.Any("error", err))
		return h.redirectWithError(c, "Google sign-in failed")
	}

	resp, err := h.oauthCfg().Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		slog.WarnContext(ctx, "google userinfo request failed", slog.Any("error", err))
		return h.redirectWithError(c, "Google sign-in failed")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return h.redirectWithError(c, "Google sign-in failed")
	}
	if !gu.VerifiedEmail {
		return h.redirectWithError(c, "Google email is not verified")
	}

	sess, err := h.Accounts.LoginWithGoogle(ctx, gu.Email, gu.Name)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindInternal) {
			return fail(c, err)
		}
		return h.redirectWithError(c, "Google sign-in failed")
	}

	h.Auth.setSessionCookie(c, sess.Token)
	h.tempCookie(c, "oauth_state", "", -1)
	h.tempCookie(c, "oauth_next", "", -1)

	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) redirectWithError(c *fiber.Ctx, msg string) error {
	return c.Redirect(h.FrontendBaseURL+"/login?err="+url.QueryEscape(msg), http.StatusTemporaryRedirect)
}
