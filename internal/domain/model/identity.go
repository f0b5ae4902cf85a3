package model

// リクエストの呼び出し元。
// middlewareがトークンから組み立てて、usecaseへ明示的に渡す。
type Identity struct {
	UserID   int64
	Username string
	Role     Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (i Identity) Authenticated() bool {
	return i.UserID > 0
}
