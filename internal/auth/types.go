package auth

// Method represents the authentication method used
type Method string

const (
	// Generic OIDC authentication
	MethodOIDC Method = "oidc"
	// Anonymous logins - should only be used for local development and testing
	MethodAnonymous Method = "anon"
)

// IsValid reports whether m is a supported method
func (m Method) IsValid() bool {
	return m == MethodOIDC || m == MethodAnonymous
}
