package auth

import (
	"github.com/spec-kit/fooddash/internal/domain"
)

// Viewer is what a view knows about the person looking at it: whether a
// session token is held, and the claims decoded from it, if any. Having a
// token and having readable claims are independent facts.
type Viewer struct {
	Token  string
	Claims *Claims
}

// NewViewer decodes token with the interpreter. Claims are never cached.
func NewViewer(token string, interpreter *Interpreter) Viewer {
	return Viewer{Token: token, Claims: interpreter.Decode(token)}
}

// HasToken reports whether a session token is held, readable or not.
func (v Viewer) HasToken() bool {
	return v.Token != ""
}

// ShowAccountMenu decides between the account menu and the sign-in links.
func (v Viewer) ShowAccountMenu() bool {
	return v.HasToken()
}

// SubjectID returns the decoded subject id, or "" without claims.
func (v Viewer) SubjectID() string {
	if v.Claims == nil {
		return ""
	}
	return v.Claims.SubjectID
}

// Role returns the decoded role, or "" without claims.
func (v Viewer) Role() domain.Role {
	if v.Claims == nil {
		return ""
	}
	return v.Claims.Role
}

// IsMerchant reports a merchant role claim.
func (v Viewer) IsMerchant() bool {
	return v.Claims.HasRole(domain.RoleMerchant)
}

// CanCreateRestaurant gates the "Create Restaurant" link and page.
func (v Viewer) CanCreateRestaurant() bool {
	return v.IsMerchant()
}

// CanManageRestaurant gates the update control of a restaurant card.
func (v Viewer) CanManageRestaurant(ownerID string) bool {
	return v.IsMerchant() && ownerID != "" && v.Claims.SubjectID == ownerID
}

// CanManageMenu gates adding and updating food on a restaurant menu.
func (v Viewer) CanManageMenu(ownerID string) bool {
	return v.CanManageRestaurant(ownerID)
}
