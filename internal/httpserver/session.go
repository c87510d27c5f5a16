package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-cart/internal/domain"
)

const (
	cartCookieName   = "cart_session_id"
	cartCookieMaxAge = 60 * 60 * 24 * 30 // 30 days

	// gin context key for a token minted earlier in the same request, so
	// resolve stays deterministic within one request lifecycle.
	mintedSessionKey = "cart_session_minted"
)

// sessionResolver derives the cart owner from an explicit wallet id or the
// session cookie, minting a fresh guest session when neither exists.
type sessionResolver struct {
	secure bool
}

func newSessionResolver(secure bool) *sessionResolver {
	return &sessionResolver{secure: secure}
}

// resolve returns the identifier every cart operation is keyed under. An
// explicit wallet id wins unconditionally; no existence check, no session
// lookup.
func (r *sessionResolver) resolve(c *gin.Context, walletID string) domain.CartIdentifier {
	if walletID != "" {
		return domain.WalletIdentifier(walletID)
	}

	if minted, ok := c.Get(mintedSessionKey); ok {
		return domain.GuestIdentifier(minted.(string))
	}
	if token, err := c.Cookie(cartCookieName); err == nil && token != "" {
		return domain.GuestIdentifier(token)
	}

	token := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cartCookieName, token, cartCookieMaxAge, "/", "", r.secure, true)
	c.Set(mintedSessionKey, token)
	return domain.GuestIdentifier(token)
}

// validate reports whether the candidate session id matches the caller's
// cookie. Used to stop one party from migrating a stranger's guest cart.
func (r *sessionResolver) validate(c *gin.Context, candidate string) bool {
	token, err := c.Cookie(cartCookieName)
	if err != nil || token == "" {
		return false
	}
	return token == candidate
}
