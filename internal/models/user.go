package models

// User is the account record returned by the backend.
type User struct {
	UserID    int    `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// NewUserRequest is the body of POST /user/createnewuser.
type NewUserRequest struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	AccountBalance float64 `json:"accountBalance"`
}

// ChangePasswordRequest is the body of PUT /user/changeuserpassword.
type ChangePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
