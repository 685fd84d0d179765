package auth

// Role identifies which organizational team a user acts for.
type Role string

const (
	RoleProject    Role = "PROJECT"
	RolePlant      Role = "PLANT"
	RoleSHE        Role = "SHE"
	RoleRegulatory Role = "REGULATORY"
)

// UserContext persists user information looked up during authentication.
type UserContext struct {
	UserID      string `gorm:"type:varchar(100);column:user_id;primaryKey;not null" json:"userId"`
	DisplayName string `gorm:"type:varchar(255);column:display_name" json:"displayName"`
	Role        Role   `gorm:"type:varchar(20);column:role;not null" json:"role"`
}

func (u *UserContext) TableName() string {
	return "user_contexts"
}

// Actor is the transient identity the auth middleware injects into a
// request. Only the user ID is stamped onto workflow records; the role is
// available for handlers that want to restrict an endpoint.
type Actor struct {
	UserID string
	Role   Role
}
