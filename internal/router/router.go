package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/handler"
	"github.com/airowalk/airowalk-backend/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration, login and password recovery. None of
// these carry a session yet, so no JWT middleware applies.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.POST("/recover", a.Recover)
}

// RegisterUsers registers profile, activity and points endpoints. Reads stay
// public for the app's dashboard widgets; every mutation requires a session
// token. The cache middleware wraps the air quality summary, the heaviest
// read in the API.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, aq *handler.AirQualityHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/user/:userId", u.GetUser)
	e.GET("/points/:userId", u.GetPoints)
	e.GET("/usuario/calidad-aire-resumen", aq.Summary, cache)

	g := e.Group("", middleware.JWTAuth(jwtSecret))
	g.PUT("/user/:userId", u.UpdateUser)
	g.PUT("/user/activity", u.UpdateActivity)
	g.POST("/user/daily-stats", u.AddDailyStats)
	g.PUT("/points", u.AddPoints)
}

// RegisterNodes registers node linking and the node reports. Linking and
// unlinking mutate ownership and require a session; the reports are consumed
// by the town hall dashboard without one.
func RegisterNodes(e *echo.Echo, n *handler.NodeHandler, jwtSecret string) {
	e.GET("/node/ofUser/:userId", n.GetLinkedNode)
	e.GET("/informeNodos/:tipo", n.NodeReport)

	g := e.Group("", middleware.JWTAuth(jwtSecret))
	g.POST("/node/link", n.LinkNode)
	g.DELETE("/node/ofUser/:userId", n.UnlinkNode)
}

// RegisterMeasurements registers measurement ingestion and queries. Sensor
// nodes authenticate at the network layer, not with user sessions, so
// ingestion stays open here.
func RegisterMeasurements(e *echo.Echo, m *handler.MeasurementHandler) {
	e.POST("/measurements", m.Create)
	e.GET("/measurements", m.List)
	e.GET("/measurements/closest/:lat/:lon", m.Closest)
	e.POST("/measurements/fake", m.GenerateFake)
}

// RegisterApplications registers the application flow and the town hall
// listing.
func RegisterApplications(e *echo.Echo, a *handler.ApplicationHandler, cache echo.MiddlewareFunc) {
	e.POST("/apply", a.Apply)
	e.DELETE("/application/:id", a.DeleteApplication)
	e.GET("/getAyuntamientos", a.ListTownHalls, cache)
}

// RegisterPrizes registers the prize catalog and redemption. Redeeming
// spends points and requires a session; note the catalog is cached but the
// redemption history is not, so a fresh coupon shows up immediately.
func RegisterPrizes(e *echo.Echo, p *handler.PrizeHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/prizes", p.ListPrizes, cache)

	g := e.Group("", middleware.JWTAuth(jwtSecret))
	g.POST("/redeem", p.Redeem)
	g.GET("/redemptions/:userId", p.Redemptions)
}
