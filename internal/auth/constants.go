package auth

// AuthCookieName is the httpOnly cookie used for browser session auth.
// Shared between HTTP middleware and the WebSocket upgrade path.
const AuthCookieName = "c8_token"
