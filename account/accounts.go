package account

import (
	"crypto/sha256"
	"encoding/hex"

	"odtflow/authority"
	"odtflow/bizerror"
	"odtflow/idgen"
	"odtflow/persistence"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

// AdminDepartment users hold the system administrator permission.
const AdminDepartment = "System"

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateUserFunc           = CreateUser
	QueryUsersFunc           = QueryUsers
	UpdateUserFunc           = UpdateUser
	DeleteUserFunc           = DeleteUser
	LoadPermFunc             = LoadPerm
	FindDepartmentLeaderFunc = FindDepartmentLeader
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

func LoadPerm(uid types.ID) (authority.Permissions, session.Identity) {
	user := User{}
	if err := persistence.ActiveDataSourceManager.GormDB(nil).Where(&User{ID: uid}).First(&user).Error; err != nil {
		return authority.Permissions{}, session.Identity{ID: uid}
	}
	perms := authority.DeptRoles(user.Department, user.Leader)
	if user.Department == AdminDepartment {
		perms = append(perms, SystemAdminPermission.ID)
	}
	identity := session.Identity{ID: user.ID, Name: user.Name, Nickname: user.Nickname,
		Department: user.Department, Leader: user.Leader}
	return perms, identity
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, s *session.Session) error {
	user := User{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).Scan(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return bizerror.ErrInvalidPassword
		}
		return err
	}

	return db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}

func QueryUsers(s *session.Session) (*[]UserInfo, error) {
	var users []UserInfo
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

func CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	if !s.Perms.HasRole(SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}

	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Nickname: c.Nickname,
		Secret: HashSha256(c.Secret), Department: c.Department, Leader: c.Leader}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Save(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname,
		Department: user.Department, Leader: user.Leader}, nil
}

func UpdateUser(userId types.ID, c *UserUpdation, s *session.Session) error {
	if !s.Perms.HasRole(SystemAdminPermission.ID) && userId != s.Identity.ID {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		user := User{ID: userId}
		if err := tx.Where(&user).First(&user).Error; err != nil {
			return err
		}
		changes := map[string]interface{}{"nickname": c.Nickname}
		if c.Department != "" {
			changes["department"] = c.Department
		}
		if c.Leader != nil {
			changes["leader"] = *c.Leader
		}
		return tx.Model(&user).Update(changes).Error
	})
}

func DeleteUser(userId types.ID, s *session.Session) error {
	if !s.Perms.HasRole(SystemAdminPermission.ID) {
		return bizerror.ErrForbidden
	}
	if userId == s.Identity.ID {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		user := User{ID: userId}
		if err := tx.Where(&user).First(&user).Error; err != nil {
			return err
		}
		if user.Department == AdminDepartment {
			var count int
			if err := tx.Model(&User{}).Where(&User{Department: AdminDepartment}).Count(&count).Error; err != nil {
				return err
			}
			if count <= 1 {
				return bizerror.ErrLastSystemUserDeleted
			}
		}
		return tx.Delete(User{}, "id = ?", userId).Error
	})
}

// FindDepartmentLeader returns the leader-flagged user of a department, or
// nil when the department has none.
func FindDepartmentLeader(department string) (*UserInfo, error) {
	user := User{}
	err := persistence.ActiveDataSourceManager.GormDB(nil).
		Where(&User{Department: department, Leader: true}).Order("id ASC").First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname,
		Department: user.Department, Leader: user.Leader}, nil
}

func QueryAccountNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []UserInfo
	if err := db.Model(&User{}).Where("id IN (?)", ids).Scan(&records).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, r := range records {
		result[r.ID] = r.DisplayName()
	}
	return result, nil
}

// BootstrapAdmin seeds the initial system administrator when the user table
// is empty. ADMIN_SECRET overrides the default secret.
func BootstrapAdmin(secret string) error {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var count int
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if secret == "" {
		secret = "admin123"
	}
	admin := User{ID: idgen.NextID(userIdWorker), Name: "admin", Nickname: "System Administrator",
		Secret: HashSha256(secret), Department: AdminDepartment, Leader: true}
	if err := db.Save(&admin).Error; err != nil {
		return err
	}
	logrus.Infof("bootstrap admin user %d created", admin.ID)
	return nil
}
