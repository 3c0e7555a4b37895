package domain

// GrantTypeBearer - тип выдачи токенов для заголовка Authorization.
const GrantTypeBearer = "Bearer"

// TokenPair - результат успешного входа.
type TokenPair struct {
	GrantType    string
	AccessToken  string
	RefreshToken string
}

// Principal - аутентифицированный участник, извлечённый из access-токена.
type Principal struct {
	MemberID int64
	Username string
	Role     Role
}

// IsAdmin сообщает, есть ли у участника права администратора.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
