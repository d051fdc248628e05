package routes

import (
	"shopapi/api/handler"
	"shopapi/api/middleware"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Accounts       *handler.AccountHandler
	Products       *handler.ProductHandler
	AuthMiddleware middleware.AuthMiddleware
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	productHandler *handler.ProductHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Accounts:       accountHandler,
		Products:       productHandler,
		AuthMiddleware: authMiddleware,
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	auth := e.Group("/api/auth")
	auth.POST("/register", r.Auth.Register)
	auth.GET("/verify-email/:token", r.Auth.VerifyEmail)
	auth.POST("/resend-verification", r.Auth.ResendVerification)
	auth.POST("/login", r.Auth.Login)
	auth.POST("/password/forgot", r.Auth.PasswordForgot)
	auth.POST("/password/reset", r.Auth.PasswordReset)
	auth.POST("/password/change", r.Auth.PasswordChange, r.AuthMiddleware.RequireAuth)

	users := e.Group("/api/users", r.AuthMiddleware.RequireAuth)
	users.GET("/profile", r.Accounts.GetProfile)
	users.PUT("/profile", r.Accounts.UpdateProfile)
	users.DELETE("/profilephoto", r.Accounts.DeleteProfilePhoto)
	users.GET("/search", r.Accounts.Search, middleware.RequireRole("staff", "admin"))
	users.POST("/delete", r.Accounts.DeleteAccount)

	products := e.Group("/api/product", r.AuthMiddleware.RequireAuth)
	products.POST("", r.Products.Create)
	products.GET("/listproducts", r.Products.List)
	products.GET("/products/:id", r.Products.Get)
	products.PUT("/update/:id", r.Products.Update)
	products.DELETE("/delete/:id", r.Products.Delete)

	admin := e.Group("/api/admin", r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	admin.GET("/users", r.Accounts.AdminListAccounts)
}
