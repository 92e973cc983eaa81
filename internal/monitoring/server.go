package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"mfg-backend/internal/cache"
	"mfg-backend/internal/services"
)

// Server exposes the operational surface: health, Prometheus metrics, a
// stats snapshot, and read-only planning views. Domain writes go through the
// consuming application, not through this server.
type Server struct {
	db                *pgxpool.Pool
	port              int
	startedAt         time.Time
	dependencyService *services.DependencyService
	ospService        *services.OSPService
}

type Stats struct {
	DatabaseStatus  string  `json:"database_status"`
	CacheStatus     string  `json:"cache_status"`
	PoolTotalConns  int32   `json:"pool_total_conns"`
	PoolIdleConns   int32   `json:"pool_idle_conns"`
	ResponseTime    int64   `json:"response_time_ms"`
	CPUPercent      float64 `json:"cpu_percent"`
	MemoryPercent   float64 `json:"memory_percent"`
	DiskPercent     float64 `json:"disk_percent"`
	OverdueOSPLots  int     `json:"overdue_osp_lots"`
	BlockedJobCards int     `json:"blocked_job_cards"`
	Uptime          string  `json:"uptime"`
}

func NewServer(db *pgxpool.Pool, dependencyService *services.DependencyService, ospService *services.OSPService, port int) *Server {
	return &Server{
		db:                db,
		port:              port,
		startedAt:         time.Now(),
		dependencyService: dependencyService,
		ospService:        ospService,
	}
}

// Start blocks serving the operational endpoints.
func (s *Server) Start() {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/stats", s.stats).Methods("GET")
	r.HandleFunc("/api/osp/overdue", s.overdueLots).Methods("GET")
	r.HandleFunc("/api/jobcards/available", s.availableJobCards).Methods("GET")

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("[Monitoring] Server running on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("[Monitoring] Server failed: %v", err)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "up", "cache": "up"}
	code := http.StatusOK

	if err := s.db.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}
	if !cache.IsHealthy() {
		status["cache"] = "down"
	}

	writeJSON(w, code, status)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := Stats{
		DatabaseStatus: "up",
		CacheStatus:    "down",
		Uptime:         time.Since(s.startedAt).Round(time.Second).String(),
	}

	start := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "down"
	}
	stats.ResponseTime = time.Since(start).Milliseconds()

	pool := s.db.Stat()
	stats.PoolTotalConns = pool.TotalConns()
	stats.PoolIdleConns = pool.IdleConns()

	if cache.IsHealthy() {
		stats.CacheStatus = "up"
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	if lots, err := s.ospService.OverdueLots(ctx); err == nil {
		stats.OverdueOSPLots = len(lots)
	}
	if count, err := s.dependencyService.JobCardRepo.CountBlocked(ctx); err == nil {
		stats.BlockedJobCards = count
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) overdueLots(w http.ResponseWriter, r *http.Request) {
	lots, err := s.ospService.OverdueLots(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (s *Server) availableJobCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.dependencyService.AvailableJobCards(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
