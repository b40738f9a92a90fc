package dash

import (
	"log"
	"net/http"

	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DashService struct {
	config  map[string]interface{}
	pgxPool *pgxpool.Pool
}

func NewDashService(cfg map[string]interface{}, pgxPool *pgxpool.Pool) serviceiface.Service {
	return &DashService{config: cfg, pgxPool: pgxPool}
}

func (s *DashService) Name() string {
	return "dash"
}

func (s *DashService) Start() error {
	go StartDashService(s.pgxPool)
	return nil
}

func (s *DashService) Stop() error {
	return nil
}

func StartDashService(pgxPool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dash/stats", GetDashboardStats(pgxPool))

	log.Println("Dash Service started on", constants.DashPort)
	if err := http.ListenAndServe(constants.DashPort, mux); err != nil {
		log.Fatalf("Dash Service failed: %v", err)
	}
}
