package handler

import "github.com/gin-gonic/gin"

// Routes groups the handlers mounted under the API prefix.
type Routes struct {
	Auth     *AuthHandler
	Students *StudentHandler
	// RequireAuth guards every route except register and login.
	RequireAuth gin.HandlerFunc
}

// Register mounts the auth and student routes on api.
func (r Routes) Register(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)

	session := auth.Group("", r.RequireAuth)
	session.GET("/me", r.Auth.Me)
	session.POST("/logout", r.Auth.Logout)
	session.PUT("/update-profile", r.Auth.UpdateProfile)
	session.PUT("/change-password", r.Auth.ChangePassword)

	students := api.Group("/students", r.RequireAuth)
	students.GET("", r.Students.List)
	students.POST("", r.Students.Create)
	students.GET("/statistics/overview", r.Students.Statistics)
	students.GET("/export", r.Students.Export)
	students.POST("/import", r.Students.Import)
	students.GET("/:id", r.Students.Get)
	students.PUT("/:id", r.Students.Update)
	students.DELETE("/:id", r.Students.Delete)
}
