package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"shopapi/api/handler"
	apiMiddleware "shopapi/api/middleware"
	"shopapi/api/routes"
	"shopapi/config"
	"shopapi/internal/repository"
	"shopapi/internal/service"
	"shopapi/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectionDb()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}

	jwtManager := utils.JWTManager{
		Secret:          secret,
		Issuer:          os.Getenv("JWT_ISSUER"),
		SessionTokenTTL: 30 * 24 * time.Hour,
	}

	accountRepo := repository.NewAccountRepository(db)
	productRepo := repository.NewProductRepository(db)

	passwordHasher := service.BcryptPasswordHasher{}
	appBaseURL := os.Getenv("APP_BASE_URL")

	emailSender := buildEmailSender(appBaseURL)
	if emailSender == nil {
		logger.Warn("no email sender configured, verification and reset mails will fail")
	}

	authService := service.NewAuthService(
		accountRepo,
		emailSender,
		passwordHasher,
		service.JWTSessionIssuer{Manager: &jwtManager},
		service.RealClock{},
		service.AuthConfig{
			SessionTokenTTL: 30 * 24 * time.Hour,
			ResetTokenTTL:   10 * time.Minute,
			MailTimeout:     10 * time.Second,
		},
	)
	accountService := service.NewAccountService(accountRepo, passwordHasher)
	productService := service.NewProductService(productRepo)

	authHandler := handler.NewAuthHandler(authService, validate)
	accountHandler := handler.NewAccountHandler(accountService, validate)
	productHandler := handler.NewProductHandler(productService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.CORS())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &jwtManager}
	router := routes.NewRouter(app, authHandler, accountHandler, productHandler, authMiddleware)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// buildEmailSender picks Resend when an API key is present, otherwise falls
// back to plain SMTP when a host is configured.
func buildEmailSender(appBaseURL string) service.EmailSender {
	from := os.Getenv("EMAIL_FROM")

	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		return service.NewResendEmailSender(apiKey, from, appBaseURL)
	}

	if host := os.Getenv("SMTP_HOST"); host != "" {
		port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if err != nil {
			port = 587
		}
		return &service.SMTPEmailSender{
			Host:       host,
			Port:       port,
			User:       os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       from,
			AppBaseURL: appBaseURL,
		}
	}

	return nil
}
