package domain

// TokenKind distinguishes the two credentials the service issues.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential that authorizes API calls.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived credential used only to mint new pairs.
	TokenKindRefresh TokenKind = "refresh"
)

// UserClaim is the identity payload embedded in every issued token. It is
// carried verbatim from issuance to verification.
type UserClaim struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
