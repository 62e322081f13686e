package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-intake/internal/common"
	"github.com/joseph-ayodele/resume-intake/internal/intake"
	"github.com/joseph-ayodele/resume-intake/internal/twilio"
)

// Server exposes the messaging-provider webhook over HTTP.
type Server struct {
	engine *gin.Engine
	svc    *intake.Service
	logger *slog.Logger
}

func New(svc *intake.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, svc: svc, logger: logger}
	engine.GET("/", s.handleHealth)
	engine.GET("/whatsapp", s.handleVerify)
	engine.POST("/whatsapp", s.handleWebhook)
	return s
}

// Handler returns the HTTP handler for mounting into an http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "✅ WhatsApp Resume Parser is running! Send a resume via WhatsApp.")
}

// handleVerify answers the provider's webhook verification GET.
func (s *Server) handleVerify(c *gin.Context) {
	c.String(http.StatusOK, "Webhook verified")
}

func (s *Server) handleWebhook(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		s.logger.Warn("server.webhook.bad_form", "error", err)
	}
	ev := twilio.EventFromForm(c.Request.PostForm)

	rid := uuid.New().String()
	ctx := common.WithRequestID(c.Request.Context(), rid)
	s.logger.Info("server.webhook.received",
		"req_id", rid,
		"num_media", ev.NumMedia,
		"body_len", len(ev.Body),
		"content_type", ev.ContentType,
	)

	reply := s.svc.HandleEvent(ctx, ev)
	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(twilio.RenderTwiML(reply)))
}
