package router

import (
	"anonworld/internal/handler"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Community  *handler.CommunityHandler
	Credential *handler.CredentialHandler
	Auth       *handler.AuthHandler
}

// InitRouter auth 为运营人员登录校验中间件
func InitRouter(h Handlers, auth gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// token 相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.Auth.TokenRefresh)
	}

	authGroup := r.Group("/api/auth")
	authGroup.Use(auth)
	{
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/communities")
	{
		communityGroup.GET("", h.Community.List)
		communityGroup.GET("/:id", h.Community.Get)
		communityGroup.POST("/accounts", h.Community.ForAccounts)
		communityGroup.PATCH("/:id", auth, h.Community.Update)
	}

	// 凭证类型
	credentialGroup := r.Group("/api/credentials")
	{
		credentialGroup.GET("", h.Credential.List)
		credentialGroup.GET("/:type", h.Credential.Get)
	}

	return r
}
