package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// identity-scoped requests.
const AuthorizationHeaderName = "Authorization"

// BearerSchemePrefix is the expected prefix of the Authorization header value.
const BearerSchemePrefix = "Bearer "
