package dto

type ExchangeRequest struct {
	UID   string `json:"uid" binding:"required"`
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}
