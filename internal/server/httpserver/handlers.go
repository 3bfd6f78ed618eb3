package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/netx"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/natorvoice/natorvoice/internal/server/services"
	"github.com/natorvoice/natorvoice/internal/server/tts"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type ttsRequest struct {
	Text          string `json:"text"`
	VoiceID       string `json:"voiceId"`
	VoiceName     string `json:"voiceName"`
	ModelID       string `json:"modelId"`
	VoiceSettings any    `json:"voiceSettings"`
}

type clipRequest struct {
	Text      string `json:"text"`
	VoiceID   string `json:"voiceId"`
	VoiceName string `json:"voiceName"`
	Chars     any    `json:"chars"`
}

func (s *HTTPServer) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health.Ping(c.Request.Context()); err != nil {
			s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidJSON(err))
		return
	}

	user, err := s.svc.Auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	s.writeSession(c, user)
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidJSON(err))
		return
	}

	user, err := s.svc.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeSession(c, user)
}

func (s *HTTPServer) writeSession(c *gin.Context, user *models.User) {
	token, err := s.svc.Auth.IssueToken(user)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, User: user.Public()})
}

func (s *HTTPServer) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c).Public()})
}

func (s *HTTPServer) listVoices(c *gin.Context) {
	catalog, err := s.svc.Voices.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (s *HTTPServer) synthesize(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidJSON(err))
		return
	}

	user := currentUser(c)
	result, err := s.svc.Synthesis.Synthesize(c.Request.Context(),
		services.Caller{User: user, ClientIP: netx.ClientIP(c.Request)},
		services.SynthesisRequest{
			Text:      req.Text,
			VoiceID:   req.VoiceID,
			VoiceName: req.VoiceName,
			ModelID:   req.ModelID,
			Settings:  tts.ParseVoiceSettings(req.VoiceSettings),
		})
	if err != nil {
		s.writeError(c, err)
		return
	}

	stamp := strings.ReplaceAll(result.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"), ":", "-")
	c.Header("Content-Length", strconv.Itoa(len(result.Audio.Data)))
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Disposition", `attachment; filename="voice-clip-`+stamp+`.mp3"`)
	if user != nil {
		c.Header(common.UsageUsedHeaderName, strconv.Itoa(result.Usage.Used))
		c.Header(common.UsageLimitHeaderName, strconv.Itoa(result.Usage.Limit))
	}
	c.Data(http.StatusOK, result.Audio.ContentType, result.Audio.Data)
}

func (s *HTTPServer) listClips(c *gin.Context) {
	list, err := s.svc.Clips.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clips": list})
}

func (s *HTTPServer) saveClip(c *gin.Context) {
	var req clipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, invalidJSON(err))
		return
	}

	in := services.ClipInput{Text: req.Text, VoiceID: req.VoiceID, VoiceName: req.VoiceName}
	if n, ok := req.Chars.(float64); ok {
		in.Chars = &n
	}
	if err := s.svc.Clips.Save(c.Request.Context(), currentUser(c).ID, in); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *HTTPServer) clipAudio(c *gin.Context) {
	url, err := s.svc.Clips.AudioURL(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *HTTPServer) usage(c *gin.Context) {
	u, err := s.svc.Usage.Usage(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": u})
}
