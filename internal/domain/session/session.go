package session

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// DefaultDisplayName is shown when the token carries no usable name.
const DefaultDisplayName = "Usuário"

// Claims are read from the token payload for display only. The server
// remains the authority: nothing here is verified.
type Claims struct {
	CompanyID   string `json:"companyId,omitempty"`
	UserID      string `json:"userId,omitempty"`
	AccessLevel string `json:"accessLevel,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PictureURL  string `json:"pictureUrl,omitempty"`
}

// Name returns the display name or DefaultDisplayName.
func (c Claims) Name() string {
	if strings.TrimSpace(c.DisplayName) == "" {
		return DefaultDisplayName
	}
	return c.DisplayName
}

// Session is resolved once per request (web) or per command (terminal)
// and passed down explicitly.
type Session struct {
	Token  string
	Claims Claims
}

// New decodes the claims of token. An empty token yields an anonymous session.
func New(log *slog.Logger, token string) Session {
	if token == "" {
		return Session{}
	}
	return Session{
		Token:  token,
		Claims: DecodeClaims(log, token),
	}
}

// Authenticated reports token presence. Expiry is enforced by the API.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

var claimKeys = struct {
	company, user, access, name, picture []string
}{
	company: []string{"company", "companyId", "company_id"},
	user:    []string{"id", "userId", "sub"},
	access:  []string{"access_level", "accessLevel"},
	name:    []string{"name", "displayName"},
	picture: []string{"picture", "pictureUrl"},
}

// DecodeClaims never fails: a malformed token is logged and yields empty claims.
func DecodeClaims(log *slog.Logger, token string) Claims {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		if log != nil {
			log.Warn("decode token claims", slog.String("error", err.Error()))
		}
		return Claims{}
	}

	return Claims{
		CompanyID:   lookup(mc, claimKeys.company),
		UserID:      lookup(mc, claimKeys.user),
		AccessLevel: lookup(mc, claimKeys.access),
		DisplayName: lookup(mc, claimKeys.name),
		PictureURL:  lookup(mc, claimKeys.picture),
	}
}

func lookup(mc jwt.MapClaims, keys []string) string {
	for _, k := range keys {
		if s := stringify(mc[k]); s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		// {"company": {"id": 3, "name": "..."}}
		return stringify(t["id"])
	default:
		return ""
	}
}
