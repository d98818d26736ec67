package repository

import (
	"github.com/mkarimz/deduction-gateway/internal/model"
)

// UserEntity carries no uniqueness constraint on username; the declared
// unique property is enforced by the registration service instead.
type UserEntity struct {
	ID       int64  `db:"id"       gorm:"primaryKey;autoIncrement;column:id"`
	Username string `db:"username" gorm:"column:username;not null"`
	Password string `db:"password" gorm:"column:password;not null"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserEntity(m *model.User) *UserEntity {
	if m == nil {
		return nil
	}
	return &UserEntity{
		ID:       m.ID,
		Username: m.Username,
		Password: m.Password,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:       e.ID,
		Username: e.Username,
		Password: e.Password,
	}
}
