package api

import (
	"errors"
	"net/http"
	"time"

	"studio-finder/models"
	"studio-finder/services"
	"studio-finder/storage"
	"studio-finder/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Handler serves searches over HTTP
type Handler struct {
	finder *services.Finder
	logger *utils.Logger
	now    func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(finder *services.Finder, logger *utils.Logger) *Handler {
	return &Handler{finder: finder, logger: logger, now: time.Now}
}

// NewRouter wires the routes onto a fresh gin engine
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rg := router.Group("/api")
	rg.GET("/search", h.search)   // GET /api/search?date=&start=&end=&price=&people=&mode=
	rg.GET("/studios", h.studios) // GET /api/studios
	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

type resultDTO struct {
	StudioID       string              `json:"studio_id"`
	StudioName     string              `json:"studio_name"`
	OfficialURL    string              `json:"official_url"`
	RoomID         string              `json:"room_id"`
	RoomName       string              `json:"room_name"`
	AreaSqm        *float64            `json:"area_sqm"`
	RecommendedMax *float64            `json:"recommended_max"`
	Notes          string              `json:"notes"`
	TotalCost      decimal.NullDecimal `json:"total_cost"`
	CostPerPerson  decimal.NullDecimal `json:"cost_per_person"`
	Rate           string              `json:"rate"`
}

func (h *Handler) search(c *gin.Context) {
	start := time.Now()
	log := h.logger.With("request_id", c.GetString("request_id"))

	var in services.ParamsInput
	if err := c.ShouldBindQuery(&in); err != nil {
		metricSearches.WithLabelValues("unknown", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params, err := in.Resolve(h.now())
	if err != nil {
		metricSearches.WithLabelValues("unknown", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.finder.Find(c.Request.Context(), params)
	if err != nil {
		log.Error("Search failed: %v", err)
		metricSearches.WithLabelValues(string(params.Mode), "error").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrSourceUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": "studio data is unavailable"})
		return
	}

	metricSearches.WithLabelValues(string(params.Mode), "ok").Inc()
	metricResults.WithLabelValues(string(params.Mode)).Observe(float64(len(outcome.Results)))
	metricSearchSeconds.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{
		"summary": outcome.Summary,
		"results": toDTOs(outcome.Results, params.PartyHeadcount),
	})
}

func (h *Handler) studios(c *gin.Context) {
	catalog, err := h.finder.Catalog(c.Request.Context())
	if err != nil {
		h.logger.Error("Catalog failed: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrSourceUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": "studio data is unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(catalog), "items": catalog})
}

func toDTOs(results []models.SearchResult, headcount int) []resultDTO {
	out := make([]resultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, resultDTO{
			StudioID:       r.Studio.ID,
			StudioName:     r.Studio.StudioName,
			OfficialURL:    r.Studio.OfficialURL,
			RoomID:         r.Room.ID,
			RoomName:       r.Room.RoomName,
			AreaSqm:        r.Room.AreaSqm,
			RecommendedMax: r.Room.RecommendedMax,
			Notes:          r.Room.Notes,
			TotalCost:      r.TotalCost,
			CostPerPerson:  r.CostPerPerson(headcount),
			Rate:           r.MatchedRateLabel,
		})
	}
	return out
}
