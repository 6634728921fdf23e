package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/arl/statsviz"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"photoshare/internal/config"
	"photoshare/internal/lib/logger/sl"
	appmiddleware "photoshare/internal/middleware"
	services "photoshare/internal/services/photo_service"
	httprouters "photoshare/internal/transport/http"
	"photoshare/internal/transport/http/dto/response"
)

// запас сверх лимита файла на остальные поля формы и разметку multipart
const formOverhead = 1 << 20

type Server struct {
	m         *http.ServeMux
	log       *slog.Logger
	e         *echo.Echo
	routers   *httprouters.Routers
	host      string
	port      string
	timeout   time.Duration
	shutdown  time.Duration
	maxUpload int64
	staticDir string
}

type Options struct {
	HTTP          config.HTTPConfig
	MaxUploadSize int64
	// StaticDir раздаётся по /uploads, пусто если хранилище не локальное
	StaticDir string
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	maxUpload := opts.MaxUploadSize
	if maxUpload <= 0 {
		maxUpload = services.DefaultMaxUploadSize
	}

	s := &Server{
		log:       log,
		e:         e,
		routers:   routers,
		host:      opts.HTTP.Host,
		port:      opts.HTTP.Port,
		timeout:   opts.HTTP.Timeout,
		shutdown:  opts.HTTP.ShutdownTimeout,
		maxUpload: maxUpload,
		staticDir: opts.StaticDir,
	}

	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
			)

			return nil
		},
	}))

	e.Use(appmiddleware.PrometheusMetrics)

	if opts.HTTP.Timeout > 0 {
		e.Server.ReadTimeout = opts.HTTP.Timeout
		e.Server.WriteTimeout = opts.HTTP.Timeout
	}

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("Statsviz start with error", sl.Err(err))
	}
	s.m = mux

	return s
}

// Echo нужен тестам для httptest
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)

	api := s.e.Group("/api")
	{
		api.POST("/upload", s.routers.UploadPhoto, middleware.BodyLimit(strconv.FormatInt(s.maxUpload+formOverhead, 10)))
		api.GET("/photos", s.routers.ListPhotos)
		// search регистрируется до :id
		api.GET("/photos/search", s.routers.SearchPhotos)
		api.GET("/photos/:id", s.routers.GetPhoto)
		api.DELETE("/photos/:id", s.routers.DeletePhoto)
	}

	s.e.GET("/metrics", echoprometheus.NewHandler())

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		debug.GET("/orphans", s.routers.ListOrphans)
	}

	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.staticDir != "" {
		s.e.Static("/uploads", s.staticDir)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	addr := net.JoinHostPort(s.host, s.port)
	s.log.Info("http server started", slog.String("addr", addr))

	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	timeout := s.shutdown
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	optCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// errorHandler отдаёт ошибки echo в общем конверте ответа
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var resp response.Response
	code := http.StatusInternalServerError

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge:
		// слишком большой файл это ошибка ввода, как и в гейте
		code = http.StatusBadRequest
		resp = response.ErrorResponse(services.FileTooLargeMessage(s.maxUpload))
	case errors.As(err, &he) && he.Code == http.StatusNotFound:
		code = http.StatusNotFound
		resp = response.ErrorResponse(response.MsgRouteNotFound)
	case errors.As(err, &he) && he.Code < http.StatusInternalServerError:
		code = he.Code
		resp = response.ErrorResponse(fmt.Sprint(he.Message))
	default:
		s.log.Error("unhandled error", slog.String("path", c.Path()), sl.Err(err))
		resp = response.ErrorResponseWithDetails(response.MsgSomethingWentWrong, err, s.routers.ExposeErrors())
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		s.log.Error("failed to write error response", sl.Err(err))
	}
}
