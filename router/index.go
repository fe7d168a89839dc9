package router

import (
	"event_hub/handler"
	"event_hub/helper"
	"event_hub/middleware"
	"event_hub/validate"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps bundles the shared infrastructure the routes close over.
type Deps struct {
	Hub        *handler.ChatHub
	Gateway    *handler.Gateway
	Holds      *helper.TicketHoldStore
	Cloudinary *cloudinary.Cloudinary
}

func SetupRoutes(app *fiber.App, deps Deps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/verify-otp", validate.VerifyOtp(), handler.VerifyOtp)
	auth.Post("/resend-otp", validate.ResendOtp(), handler.ResendOtp)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/forgot-password", validate.ForgotPassword(), handler.ForgotPassword)
	auth.Post("/verify-reset-otp", validate.VerifyOtp(), handler.VerifyResetOtp)
	auth.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)
	auth.Get("/user", middleware.Protected(), handler.GetCurrentUser)

	managerRequests := v1.Group("/manager-requests", middleware.Protected())
	managerRequests.Post("/", handler.RequestManagerRole)
	managerRequests.Get("/me", handler.GetMyManagerRequest)

	events := v1.Group("/events")
	events.Get("/", handler.ListEvents)
	events.Get("/mine", middleware.Protected(), validate.RequireEventManager(), handler.MyEvents)
	events.Get("/:id", handler.GetEvent)
	events.Post("/", middleware.Protected(), validate.RequireEventManager(), validate.CreateEvent(), handler.CreateEvent)
	events.Patch("/:eventId", middleware.Protected(), validate.GetById("eventId"), validate.UpdateEvent(), handler.UpdateEvent)
	events.Patch("/:eventId/deactivate", middleware.Protected(), validate.GetById("eventId"), handler.DeactivateEvent)
	events.Delete("/:eventId", middleware.Protected(), validate.GetById("eventId"), handler.DeleteEvent(deps.Cloudinary))
	events.Post("/:eventId/images", middleware.Protected(), validate.GetById("eventId"), handler.UploadEventImages(deps.Cloudinary))
	events.Delete("/:eventId/images", middleware.Protected(), validate.GetById("eventId"), handler.DeleteEventImage(deps.Cloudinary))

	payments := v1.Group("/payments")
	payments.Post("/webhook", handler.PaymentWebhook(deps.Gateway, deps.Holds))
	payments.Post("/checkout", middleware.Protected(), validate.PurchaseTicket(), handler.PurchaseTicket(deps.Gateway, deps.Holds))
	payments.Get("/verify/:sessionId", middleware.Protected(), handler.VerifySession)
	payments.Get("/tickets", middleware.Protected(), handler.MyTickets)
	payments.Get("/tickets/:ticketId", middleware.Protected(), validate.GetById("ticketId"), handler.GetMyTicket)
	payments.Post("/tickets/:ticketId/refund", middleware.Protected(), validate.GetById("ticketId"), handler.RefundTicket(deps.Gateway))
	payments.Get("/my-events", middleware.Protected(), handler.MyPurchasedEvents)
	payments.Get("/my-customers", middleware.Protected(), handler.MyCustomers)

	chat := v1.Group("/chat")
	chat.Get("/rooms", middleware.Protected(), handler.MyChatRooms)
	chat.Get("/rooms/:roomId/messages", middleware.Protected(), validate.GetById("roomId"), handler.RoomMessages)
	chat.Post("/rooms/:roomId/read", middleware.Protected(), validate.GetById("roomId"), handler.MarkRoomRead)

	app.Use("/chat/ws", handler.WsUpgradeRequired)
	app.Get("/chat/ws/:roomId", websocket.New(handler.ChatWebsocket(deps.Hub)))

	admin := v1.Group("/admin", middleware.Protected(), middleware.AdminOnly())
	admin.Get("/users", handler.ListUsers)
	admin.Get("/users/:userId", validate.GetById("userId"), handler.GetUserById)
	admin.Patch("/users/:userId/block", validate.GetById("userId"), validate.BlockUser(), handler.SetUserBlocked)
	admin.Delete("/users/:userId", validate.GetById("userId"), handler.AdminDeleteUser)
	admin.Get("/events", handler.AdminListEvents)
	admin.Get("/manager-requests", handler.ListManagerRequests)
	admin.Patch("/manager-requests/:requestId", validate.GetById("requestId"), validate.ReviewManagerRequest(), handler.ReviewManagerRequest)
	admin.Get("/tickets", handler.AdminListTickets)
}
