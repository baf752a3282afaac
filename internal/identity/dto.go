package identity

// POST /signup
type SignupRequest struct {
	UserName   string `json:"userName" binding:"required,excludes=@"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=72"`
	Role       string `json:"role"`       // 未指定なら employee
	Department string `json:"department"` // 未指定なら Unassigned
}

type SignupResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

// POST /signin。identifier はユーザー名かメールアドレス
type SigninRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type SigninResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
