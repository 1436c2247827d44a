package models

// UserSession is the per-browser record of who is signed in and how many
// line items sit in their cart. Cart is derived from the cart storage and
// must be kept in sync on every cart mutation.
type UserSession struct {
	UserID    *int   `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	LoggedIn  bool   `json:"loggedIn"`
	Cart      int    `json:"cart"`
}

// SessionPatch is a partial update for a UserSession. Nil fields are left
// untouched by Merge.
type SessionPatch struct {
	UserID    *int
	FirstName *string
	LastName  *string
	Email     *string
	LoggedIn  *bool
	Cart      *int
}

// AnonymousSession returns the session every browser starts with.
func AnonymousSession() UserSession {
	return UserSession{}
}

// Merge returns a copy of s with every non-nil field of patch applied.
func (s UserSession) Merge(patch SessionPatch) UserSession {
	merged := s
	if patch.UserID != nil {
		id := *patch.UserID
		merged.UserID = &id
	}
	if patch.FirstName != nil {
		merged.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		merged.LastName = *patch.LastName
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.LoggedIn != nil {
		merged.LoggedIn = *patch.LoggedIn
	}
	if patch.Cart != nil {
		merged.Cart = *patch.Cart
	}
	return merged
}

// FullName returns the display name shown in the navigation bar.
func (s UserSession) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// SignedInPatch builds the patch applied after a successful sign in or
// sign up: the backend user record plus LoggedIn.
func SignedInPatch(user *User) SessionPatch {
	loggedIn := true
	return SessionPatch{
		UserID:    &user.UserID,
		FirstName: &user.FirstName,
		LastName:  &user.LastName,
		Email:     &user.Email,
		LoggedIn:  &loggedIn,
	}
}

// CartCountPatch builds the patch that syncs the cart badge.
func CartCountPatch(count int) SessionPatch {
	return SessionPatch{Cart: &count}
}
