package api

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"pronounce/internal/audio"
	"pronounce/internal/metrics"
	"pronounce/internal/scoring"
	"pronounce/internal/storage"
	"pronounce/internal/stt"
	"pronounce/internal/utils"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// User-visible failure messages.
const (
	MsgConversionFailed  = "Audio conversion failed"
	MsgUnintelligible    = "Could not understand audio"
	MsgRecognitionFailed = "Speech recognition failed"
	MsgSaveFailed        = "Failed to save audio"
)

const defaultPhrase = "hello world"

// Handler runs the upload pipeline: save, convert, transcribe, score.
type Handler struct {
	store          *storage.Store
	normalizer     audio.Normalizer
	provider       stt.Provider
	metrics        *metrics.Metrics
	maxUploadBytes int64
}

func NewHandler(store *storage.Store, normalizer audio.Normalizer, provider stt.Provider, m *metrics.Metrics, maxUploadBytes int64) *Handler {
	return &Handler{
		store:          store,
		normalizer:     normalizer,
		provider:       provider,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
	}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", h.index)
	r.POST("/upload", h.upload)
	r.GET("/health", h.healthCheck)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"DefaultPhrase": defaultPhrase})
}

// healthCheck returns server health status
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"service":      "pronounce",
		"stt_provider": h.provider.Name(),
	})
}

// upload handles POST /upload with multipart fields audio_data and
// expected_text.
func (h *Handler) upload(c *gin.Context) {
	file, err := c.FormFile("audio_data")
	if err != nil {
		log.Printf("[Upload] FormFile error: %v", err)
		h.metrics.Upload(metrics.OutcomeInvalid)
		utils.Error(c, http.StatusBadRequest, "audio_data is required")
		return
	}

	expected, ok := c.GetPostForm("expected_text")
	if !ok {
		h.metrics.Upload(metrics.OutcomeInvalid)
		utils.Error(c, http.StatusBadRequest, "expected_text is required")
		return
	}

	if file.Size > h.maxUploadBytes {
		h.metrics.Upload(metrics.OutcomeInvalid)
		utils.Error(c, http.StatusBadRequest, "audio_data exceeds upload size limit")
		return
	}

	// Saved
	start := time.Now()
	rec, err := h.store.SaveAudio(file)
	h.metrics.ObserveStage(metrics.StageSave, start)
	if err != nil {
		log.Printf("[Upload] Error saving audio: %v", err)
		h.metrics.Upload(metrics.OutcomeStorageFailed)
		utils.Error(c, http.StatusInternalServerError, MsgSaveFailed)
		return
	}
	log.Printf("[Upload] Saved recording %s (%d bytes) to %s", rec.ID, rec.Size, rec.Path)

	ctx := c.Request.Context()

	// Converted
	start = time.Now()
	err = h.normalizer.Normalize(ctx, rec.Path, rec.WavPath)
	h.metrics.ObserveStage(metrics.StageConvert, start)
	if err != nil {
		log.Printf("[Upload] Conversion failed for %s: %v", rec.ID, err)
		h.metrics.Upload(metrics.OutcomeConversionFailed)
		utils.Failure(c, MsgConversionFailed)
		return
	}

	// Transcribed
	start = time.Now()
	result, err := h.provider.Transcribe(ctx, rec.WavPath)
	h.metrics.ObserveStage(metrics.StageTranscribe, start)
	if err != nil {
		log.Printf("[Upload] STT error for %s (provider: %s): %v", rec.ID, h.provider.Name(), err)
		if errors.Is(err, stt.ErrUnintelligible) {
			h.metrics.Upload(metrics.OutcomeUnintelligible)
			utils.Failure(c, MsgUnintelligible)
			return
		}
		h.metrics.Upload(metrics.OutcomeRecognition)
		utils.Failure(c, MsgRecognitionFailed)
		return
	}

	// Scored
	start = time.Now()
	score := scoring.Score(result.Transcript, expected)
	h.metrics.ObserveStage(metrics.StageScore, start)
	h.metrics.Score(score.Score)
	h.metrics.Upload(metrics.OutcomeSuccess)

	log.Printf("[Upload] Recording %s scored %.2f (transcript: %q, expected: %q)",
		rec.ID, score.Score, result.Transcript, expected)

	utils.Result(c, gin.H{
		"transcription": result.Transcript,
		"expected":      expected,
		"score":         score.Score,
		"feedback":      score.Feedback,
	})
}
