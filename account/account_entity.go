package account

import "github.com/fundwit/go-commons/types"

type Permission struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var SystemAdminPermission = Permission{ID: "system:admin", Name: "System Administrator"}

type User struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	Name   string   `json:"name" gorm:"unique_index:name_unique"`
	Secret string   `json:"-"`

	Nickname   string `json:"nickname"`
	Department string `json:"department"`
	Leader     bool   `json:"leader"`
}

type UserInfo struct {
	ID         types.ID `json:"id"`
	Name       string   `json:"name"`
	Nickname   string   `json:"nickname"`
	Department string   `json:"department"`
	Leader     bool     `json:"leader"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6,lte=32"`
}

type UserCreation struct {
	Name       string `json:"name" binding:"required,lte=32"`
	Secret     string `json:"secret" binding:"required,gte=6,lte=32"`
	Nickname   string `json:"nickname" binding:"omitempty,gte=1,lte=32"`
	Department string `json:"department" binding:"required,lte=64"`
	Leader     bool   `json:"leader"`
}

type UserUpdation struct {
	Nickname   string `json:"nickname" binding:"required,lte=32"`
	Department string `json:"department" binding:"omitempty,lte=64"`
	Leader     *bool  `json:"leader"`
}

func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

func (u UserInfo) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}
