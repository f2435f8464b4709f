package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/balcao/backend/controllers"
	"github.com/balcao/backend/middleware"
	"github.com/balcao/backend/models"
	"github.com/balcao/backend/utils"
)

func InitializeRoutes(router *gin.Engine, h *controllers.Handler, issuer *utils.TokenIssuer) {
	router.POST("/login", h.Login)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(issuer, models.RoleAdmin, models.RoleCashier))
	{
		products := h.Products()
		api.GET("/products", h.GetProducts)
		api.GET("/products/:id", products.Get)
		api.GET("/products/code/:code", h.GetProductByCode)

		api.POST("/sales", h.CreateSale)
		api.GET("/sales/:saleID", h.GetSale)

		api.POST("/reservations", h.CreateReservation)
		api.GET("/reservations", h.GetReservations)
		api.GET("/reservations/availability", h.GetAvailability)
		api.DELETE("/reservations", h.CancelReservation)

		api.GET("/customers/document/:document", h.GetCustomerByDocument)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(issuer, models.RoleAdmin))
	{
		h.Products().Route(admin, "/products")
		admin.POST("/products/:id/restock", h.RestockProduct)
		h.Customers().Route(admin, "/customers")
		h.Suppliers().Route(admin, "/suppliers")
		h.Venues().Route(admin, "/venues")
		h.Employees().Route(admin, "/employees")

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.POST("/users", h.CreateUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.DELETE("/sales/:saleID", h.VoidSale)

		admin.GET("/reports/sales", h.SalesReport)
		admin.GET("/reports/sales.xlsx", h.SalesReport)
		admin.GET("/reports/reservations", h.ReservationsReport)
		admin.GET("/reports/reservations.xlsx", h.ReservationsReport)
	}
}
