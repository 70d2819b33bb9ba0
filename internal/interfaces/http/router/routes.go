package router

import (
	"github.com/gin-gonic/gin"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/interfaces/http/handler"
	"github.com/propertyspotter/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler needed to build the route table
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Agency     *handler.AgencyHandler
	Lead       *handler.LeadHandler
	Property   *handler.PropertyHandler
	Listing    *handler.ListingHandler
	Commission *handler.CommissionHandler
	Blog       *handler.BlogHandler
	Contact    *handler.ContactHandler
	Update     *handler.UpdateHandler
	System     *handler.SystemHandler
}

// Setup builds the full API route table. Public groups carry no auth
// middleware; everything else sits behind the JWT middleware, with the
// admin surfaces additionally gated by role.
func Setup(engine *gin.Engine, h Handlers, authMW gin.HandlerFunc, authLimiter gin.HandlerFunc) {
	r := NewRouter(engine, WithAPIVersion("v1"))

	workRoles := middleware.RequireRoles(identity.RoleAgent, identity.RoleMasterAgent, identity.RoleAgencyAdmin, identity.RoleAdmin)
	admin := middleware.RequireAdmin()

	// Public surfaces
	auth := NewDomainGroup("auth", "/auth")
	if authLimiter != nil {
		auth.Use(authLimiter)
	}
	auth.POST("/register", h.Auth.Register).
		GET("/verify-email", h.Auth.VerifyEmail).
		POST("/login", h.Auth.Login).
		POST("/admin/login", h.Auth.AdminLogin).
		POST("/refresh", h.Auth.RefreshToken).
		POST("/invitations/accept", h.Agency.AcceptInvitation)
	r.Register(auth)

	publicListings := NewDomainGroup("public-listings", "/public/listings").
		GET("", h.Listing.PublicList).
		GET("/:id", h.Listing.PublicGet)
	r.Register(publicListings)

	publicBlog := NewDomainGroup("public-blog", "/public/blog").
		GET("/posts", h.Blog.PublicList).
		GET("/posts/:slug", h.Blog.PublicGetBySlug).
		GET("/posts/:slug/comments", h.Blog.PublicComments).
		POST("/posts/:slug/comments", h.Blog.SubmitComment).
		POST("/subscribe", h.Blog.Subscribe).
		POST("/unsubscribe", h.Blog.Unsubscribe)
	r.Register(publicBlog)

	publicContact := NewDomainGroup("public-contact", "/public/contact").
		POST("", h.Contact.Submit)
	r.Register(publicContact)

	webhooks := NewDomainGroup("webhooks", "/webhooks").
		POST("/twilio/status", h.Update.TwilioStatusCallback)
	r.Register(webhooks)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)
	r.Register(system)

	// Authenticated surfaces
	authed := NewDomainGroup("session", "/auth")
	authed.Use(authMW).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser).
		POST("/change-password", h.Auth.ChangePassword).
		DELETE("/admin/login-attempts", admin, h.Auth.PurgeLoginAttempts)
	r.Register(authed)

	users := NewDomainGroup("users", "/users")
	users.Use(authMW).
		GET("/me", h.User.GetProfile).
		PUT("/me", h.User.UpdateProfile).
		PUT("/me/banking", h.User.SetBankingDetails).
		GET("", admin, h.User.List).
		GET("/:id", admin, h.User.GetByID).
		POST("/:id/approve", admin, h.User.Approve).
		POST("/:id/deactivate", admin, h.User.Deactivate)
	r.Register(users)

	agencies := NewDomainGroup("agencies", "/agencies")
	agencies.Use(authMW).
		POST("", admin, h.Agency.Create).
		GET("", h.Agency.List).
		GET("/:id", h.Agency.GetByID).
		PUT("/:id", h.Agency.Update).
		POST("/:id/invitations", h.Agency.InviteAgent)
	r.Register(agencies)

	leads := NewDomainGroup("leads", "/leads")
	leads.Use(authMW).
		POST("", middleware.RequireRoles(identity.RoleSpotter), h.Lead.Submit).
		GET("/mine", h.Lead.ListMine).
		GET("/agency", workRoles, h.Lead.ListForAgency).
		GET("/unrouted", admin, h.Lead.ListUnrouted).
		GET("", admin, h.Lead.List).
		GET("/:id", h.Lead.GetByID).
		POST("/:id/route", admin, h.Lead.Route).
		POST("/:id/assign", workRoles, h.Lead.Assign).
		POST("/:id/accept", workRoles, h.Lead.Accept).
		POST("/:id/reject", workRoles, h.Lead.Reject).
		POST("/:id/start", workRoles, h.Lead.StartWork).
		POST("/:id/complete", workRoles, h.Lead.Complete).
		POST("/:id/notes", h.Lead.AddNote).
		POST("/:id/images", h.Lead.AddImage).
		POST("/:id/updates", workRoles, h.Update.Create).
		GET("/:id/updates", h.Update.ListByLead)
	r.Register(leads)

	properties := NewDomainGroup("properties", "/properties")
	properties.Use(authMW).
		GET("/mine", workRoles, h.Property.ListMine).
		GET("", admin, h.Property.List).
		GET("/:id", h.Property.GetByID).
		PUT("/:id", workRoles, h.Property.Update).
		PUT("/:id/price", workRoles, h.Property.SetPrice).
		POST("/:id/pending", workRoles, h.Property.MarkPending).
		POST("/:id/off-market", workRoles, h.Property.TakeOffMarket).
		POST("/:id/relist", workRoles, h.Property.Relist)
	r.Register(properties)

	listings := NewDomainGroup("listings", "/listings")
	listings.Use(authMW).
		POST("", workRoles, h.Listing.Create).
		GET("/mine", workRoles, h.Listing.ListMine).
		GET("", admin, h.Listing.List).
		GET("/:id", h.Listing.GetByID).
		PUT("/:id", workRoles, h.Listing.Update).
		POST("/:id/publish", workRoles, h.Listing.Publish).
		POST("/:id/archive", workRoles, h.Listing.Archive).
		DELETE("/:id", workRoles, h.Listing.Delete).
		POST("/:id/images", workRoles, h.Listing.AddImage).
		PUT("/:id/images/:imageId/primary", workRoles, h.Listing.SetPrimaryImage).
		DELETE("/:id/images/:imageId", workRoles, h.Listing.RemoveImage)
	r.Register(listings)

	commissions := NewDomainGroup("commissions", "/commissions")
	commissions.Use(authMW).
		GET("/mine", h.Commission.ListMine).
		GET("/agency", workRoles, h.Commission.ListForAgency).
		GET("/agent", workRoles, h.Commission.ListForAgent).
		GET("/earnings", h.Commission.Earnings).
		GET("", admin, h.Commission.List).
		GET("/:id", h.Commission.GetByID).
		POST("/:id/approve", admin, h.Commission.Approve).
		POST("/:id/pay", admin, h.Commission.MarkPaid).
		POST("/:id/cancel", admin, h.Commission.Cancel)
	r.Register(commissions)

	blog := NewDomainGroup("blog", "/blog")
	blog.Use(authMW, admin).
		POST("/posts", h.Blog.CreatePost).
		GET("/posts", h.Blog.ListPosts).
		GET("/posts/:id", h.Blog.GetPost).
		PUT("/posts/:id", h.Blog.UpdatePost).
		POST("/posts/:id/publish", h.Blog.PublishPost).
		POST("/posts/:id/archive", h.Blog.ArchivePost).
		DELETE("/posts/:id", h.Blog.DeletePost).
		GET("/comments/pending", h.Blog.ListPendingComments).
		POST("/comments/:id/approve", h.Blog.ApproveComment).
		POST("/comments/:id/reject", h.Blog.RejectComment)
	r.Register(blog)

	contacts := NewDomainGroup("contacts", "/contacts")
	contacts.Use(authMW, admin).
		GET("", h.Contact.List).
		GET("/:id", h.Contact.GetByID).
		POST("/:id/resolve", h.Contact.Resolve).
		DELETE("/:id", h.Contact.Delete)
	r.Register(contacts)

	updates := NewDomainGroup("updates", "/updates")
	updates.Use(authMW).
		GET("/mine", h.Update.ListMine).
		POST("/retry", admin, h.Update.RetryPending)
	r.Register(updates)

	r.Setup()
}
