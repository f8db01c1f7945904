package handlers

import "github.com/gofiber/fiber/v2"

// Routes bundles the handlers served under /api/v1.
type Routes struct {
	Auth         *AuthHandler
	Products     *ProductHandler
	Franchises   *FranchiseHandler
	Carts        *CartHandler
	Orders       *OrderHandler
	AuthRequired fiber.Handler
}

// Mount registers public routes on router and the rest behind AuthRequired.
func (r Routes) Mount(router fiber.Router) {
	r.Auth.RegisterRoutes(router)
	r.Products.RegisterRoutes(router, r.AuthRequired)
	r.Franchises.RegisterRoutes(router)

	protected := router.Group("", r.AuthRequired)
	r.Carts.RegisterRoutes(protected)
	r.Orders.RegisterRoutes(protected)
}
