package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dblock/random-cut-forest-by-aws/coordinator"
	"github.com/dblock/random-cut-forest-by-aws/rcf"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an HTTP API over a tree that grows as points are posted to it",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")
}

var (
	updatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rcfdemo",
		Name:      "updates_total",
		Help:      "Total number of points inserted into the tree.",
	})
	updatesEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rcfdemo",
		Name:      "updates_evicted_total",
		Help:      "Total number of inserts that evicted the oldest sample to free an arena slot.",
	})
	updatesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rcfdemo",
		Name:      "updates_rejected_total",
		Help:      "Total number of inserts the coordinator rejected, for example because the point store was full.",
	})
	scoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rcfdemo",
		Name:      "score_duration_seconds",
		Help:      "Latency of score requests.",
	})
	treeSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "rcfdemo",
		Name:      "tree_size",
		Help:      "Current number of interior nodes in use.",
	})
)

// server wraps a tree with the mutex its single-threaded contract
// requires: spec.md mandates that a tree never be concurrently mutated
// and queried, so every handler serializes through one lock.
type server struct {
	mu    sync.Mutex
	tree  *rcf.Tree
	coord *coordinator.Single
}

func runServe(cmd *cobra.Command, args []string) error {
	settings := loadTreeSettings()
	tree, _, coord, err := newTree(settings)
	if err != nil {
		return err
	}

	srv := &server{tree: tree, coord: coord}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/update", srv.handleUpdate)
	mux.HandleFunc("/score", srv.handleScore)

	log.Printf("rcfdemo: listening on %s", listenAddr)
	return http.ListenAndServe(listenAddr, mux)
}

type pointRequest struct {
	Point []float32 `json:"point"`
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.coord.Update(s.tree, req.Point)
	if err != nil {
		updatesRejected.Inc()
		http.Error(w, "update rejected: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	if result.HasEvict {
		updatesEvicted.Inc()
	}

	updatesTotal.Inc()
	treeSize.Set(float64(s.tree.Size()))
	w.WriteHeader(http.StatusAccepted)
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.mu.Lock()
	score := s.tree.Score(req.Point, 0, defaultScoreSeen, defaultScoreUnseen, defaultTreeDamp)
	s.mu.Unlock()
	scoreDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(scoreResponse{Score: score})
}
