package main

import (
	"github.com/gin-gonic/gin"
	"p2p-lending.backend/internal/interfaces/http/handlers"
	"p2p-lending.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler        *handlers.AuthHandler
	creditHandler      *handlers.CreditHandler
	openBankingHandler *handlers.OpenBankingHandler
	contactHandler     *handlers.ContactHandler
	userHandler        *handlers.UserHandler
	fileHandler        *handlers.FileHandler
	authMiddleware     gin.HandlerFunc
	rateLimit          gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public, throttled per client)
		auth := v1.Group("/auth")
		{
			public := auth.Group("", d.rateLimit)
			public.POST("/register", d.authHandler.Register)
			public.POST("/verify-email", d.authHandler.VerifyEmail)
			public.POST("/resend-otp", d.authHandler.ResendOTP)
			public.POST("/login", d.authHandler.Login)
			public.POST("/verify-login-otp", d.authHandler.VerifyLoginOTP)
			public.POST("/refresh-token", d.authHandler.RefreshToken)
			public.POST("/forgot-password", d.authHandler.ForgotPassword)
			public.POST("/reset-password", d.authHandler.ResetPassword)

			protected := auth.Group("", d.authMiddleware)
			protected.GET("/me", d.authHandler.GetMe)
			protected.PUT("/me", d.authHandler.UpdateMe)
			protected.POST("/change-password", d.authHandler.ChangePassword)
			protected.POST("/logout", d.authHandler.Logout)
			protected.GET("/sessions", d.authHandler.ListSessions)
			protected.DELETE("/sessions/:deviceId/trust", d.authHandler.UntrustDevice)
		}

		// Credit routes (protected)
		credit := v1.Group("/credit")
		credit.Use(d.authMiddleware)
		{
			credit.GET("/score", d.creditHandler.GetScore)
			credit.POST("/calculate", middleware.IdempotencyMiddleware(), d.creditHandler.Calculate)
			credit.GET("/history", d.creditHandler.History)
		}

		// Mock open banking (bank list is public)
		banking := v1.Group("/mock-banking")
		{
			banking.GET("/banks", d.openBankingHandler.ListBanks)

			linked := banking.Group("", d.authMiddleware)
			linked.POST("/link", d.openBankingHandler.InitiateLink)
			linked.POST("/verify", middleware.IdempotencyMiddleware(), d.openBankingHandler.VerifyLink)
			linked.GET("/connections", d.openBankingHandler.ListConnections)
			linked.DELETE("/connections/:id", d.openBankingHandler.Disconnect)
			linked.GET("/connections/:id/balances", d.openBankingHandler.Balances)
			linked.GET("/connections/:id/transactions", d.openBankingHandler.Transactions)
		}

		// File uploads (bulk operations are admin only)
		files := v1.Group("/files", d.authMiddleware)
		{
			files.POST("/upload/single", d.fileHandler.UploadSingle)
			files.POST("/upload/multiple", middleware.RequireAdmin(), d.fileHandler.UploadMultiple)
			files.POST("/delete-multiple", middleware.RequireAdmin(), d.fileHandler.DeleteMultiple)
			files.GET("/:id", d.fileHandler.Detail)
			files.DELETE("/:id", middleware.RequireAdmin(), d.fileHandler.Delete)
		}

		// Contact form (public)
		v1.POST("/contacts", d.rateLimit, middleware.IdempotencyMiddleware(), d.contactHandler.Create)

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/users", d.userHandler.List)
			admin.GET("/users/:id", d.userHandler.Detail)
			admin.PUT("/users/:id", d.userHandler.Update)
			admin.DELETE("/users/:id", d.userHandler.Delete)
			admin.POST("/users/:id/suspend", d.userHandler.Suspend)
			admin.POST("/users/:id/activate", d.userHandler.Activate)
			admin.POST("/users/:id/ban", d.userHandler.Ban)

			admin.GET("/contacts", d.contactHandler.List)
			admin.GET("/contacts/:id", d.contactHandler.Detail)
			admin.DELETE("/contacts/:id", d.contactHandler.Delete)
			admin.POST("/contacts/:id/response", d.contactHandler.Respond)
		}
	}
}
