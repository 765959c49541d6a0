package sessions

// OriginID identifies one deployed product app (in practice a host or port).
// It is only ever compared for equality.
type OriginID string

func (o OriginID) String() string {
	return string(o)
}

// User is the identity snapshot captured when the tokens were issued.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	TenantID  string `json:"tenantId"`
}

// POSProduct is the product the user is provisioned into and the origin
// that serves it.
type POSProduct struct {
	Name   string   `json:"name"`
	Origin OriginID `json:"origin"`
}

// AuthSession is the unit of identity state handed between apps. The field
// names match the JSON written by the browser apps under berhot_auth.
type AuthSession struct {
	AccessToken  string      `json:"accessToken"`  // Opaque bearer credential
	RefreshToken string      `json:"refreshToken"` // Opaque, never refreshed here
	User         *User       `json:"user"`         // Identity snapshot
	PosProduct   *POSProduct `json:"posProduct,omitempty"`
}

// Usable reports whether an app may treat the session as existing at all.
// The product is not required; that is the guard's concern.
func (s *AuthSession) Usable() bool {
	return s != nil && s.User != nil && s.AccessToken != ""
}

// WithProduct returns a copy of the session assigned to product.
func (s AuthSession) WithProduct(product POSProduct) AuthSession {
	s.PosProduct = &product
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	return s
}

// UserID returns the user's ID or "" for logging.
func (s *AuthSession) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

// Email returns the user's email or "".
func (s *AuthSession) Email() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Email
}

// ProductOrigin returns the assigned origin or "" when no product is set.
func (s *AuthSession) ProductOrigin() OriginID {
	if s == nil || s.PosProduct == nil {
		return ""
	}
	return s.PosProduct.Origin
}
