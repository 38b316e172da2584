package httpx

type ctxKey string

const (
	CtxKeyIdentityID ctxKey = "identity_id"
	CtxKeyEmail      ctxKey = "email"
	CtxKeyName       ctxKey = "name"
	CtxKeyClaims     ctxKey = "claims" // full jwtx.Claims if a handler needs them
)
