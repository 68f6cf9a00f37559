package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"customer-keeper/internal/auth"
	"customer-keeper/internal/metrics"
	"customer-keeper/internal/service"
)

// Response messages shared with the web client.
const (
	msgRegistered      = "User Registered Successfully"
	msgUsernameTaken   = "Username already exists"
	msgInvalidCreds    = "Invalid Credentials"
	msgTokenMissing    = "Token Missing"
	msgInvalidToken    = "Invalid Token"
	msgCustomerAdded   = "Customer Added Successfully"
	msgCustomerUpdated = "Customer Updated Successfully"
	msgCustomerDeleted = "Customer Deleted Successfully"
	msgInvalidBody     = "Invalid request body"
	msgServerError     = "Server Error"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	customers service.CustomerService
	authority *auth.Authority
	metrics   *metrics.Metrics
	logger    logrus.FieldLogger
}

// NewHandler builds a Handler. m may be nil to disable metrics.
func NewHandler(users service.UserService, customers service.CustomerService, authority *auth.Authority, m *metrics.Metrics, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:     users,
		customers: customers,
		authority: authority,
		metrics:   m,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestLogger(h.logger))
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/Login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	customers := api.Group("", h.requireAuth())
	{
		customers.POST("/customer", h.createCustomer)
		customers.POST("/Customer", h.createCustomer)
		customers.GET("/readCustomer", h.listCustomers)
		customers.PUT("/customer/:id", h.updateCustomer)
		customers.PUT("/Customer/:id", h.updateCustomer)
		customers.DELETE("/customer/:id", h.deleteCustomer)
		customers.DELETE("/Customer/:id", h.deleteCustomer)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// internalError logs the cause and answers with an opaque 500.
func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"route":  c.FullPath(),
	}).Error("request failed")
	h.respondError(c, http.StatusInternalServerError, msgServerError)
}

// validationError reports whether err is a client input problem and answers it.
func (h *Handler) validationError(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrInvalidInput) {
		return false
	}
	h.respondError(c, http.StatusBadRequest, err.Error())
	return true
}
