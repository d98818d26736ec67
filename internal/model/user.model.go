package model

type User struct {
	ID       int64  `json:"id"       db:"id"       gorm:"primaryKey;autoIncrement;column:id"`
	Username string `json:"username" db:"username" gorm:"column:username;not null"`
	// Password holds the bcrypt hash; the plaintext never leaves the
	// registration service.
	Password string `json:"-" db:"password" gorm:"column:password;not null"`
}

func (User) TableName() string { return "users" }

// UserCreateRequest is the input for registration. Username uniqueness is
// checked by the service, not the store.
type UserCreateRequest struct {
	Username string
	Password string
}

func (p UserCreateRequest) Validate() error {
	if p.Username == "" {
		return &ValidationError{Field: "username", Reason: "is required"}
	}
	if p.Password == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}
