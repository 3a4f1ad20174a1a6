package domain

// Principal 当前请求的已认证身份，由鉴权中间件构造后显式传给 service
type Principal struct {
	ID       int64
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Owns author 是否为本人
func (p Principal) Owns(authorID int64) bool { return p.ID == authorID }

func PrincipalOf(u *User) Principal {
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}
