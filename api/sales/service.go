package sales

import (
	"log"
	"net/http"

	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SalesService struct {
	config  map[string]interface{}
	pgxPool *pgxpool.Pool
}

func NewSalesService(cfg map[string]interface{}, pgxPool *pgxpool.Pool) serviceiface.Service {
	return &SalesService{config: cfg, pgxPool: pgxPool}
}

func (s *SalesService) Name() string {
	return "sales"
}

func (s *SalesService) Start() error {
	go StartSalesService(s.pgxPool)
	return nil
}

func (s *SalesService) Stop() error {
	return nil
}

func StartSalesService(pgxPool *pgxpool.Pool) {
	mux := http.NewServeMux()
	/* customers */
	mux.HandleFunc("/sales/customers/all", GetCustomers(pgxPool))
	mux.HandleFunc("/sales/customers/create", CreateCustomer(pgxPool))
	mux.HandleFunc("/sales/customers/update", UpdateCustomer(pgxPool))
	/* transactions */
	mux.HandleFunc("/sales/transactions/all", GetTransactions(pgxPool))
	mux.HandleFunc("/sales/transactions/create", CreateTransaction(pgxPool))
	mux.HandleFunc("/sales/transactions/update", UpdateTransaction(pgxPool))
	mux.HandleFunc("/sales/transactions/delete", DeleteTransaction(pgxPool))
	mux.HandleFunc("/sales/transactions/search", SearchTransactions(pgxPool))
	/* payments */
	mux.HandleFunc("/sales/payments/all", GetPayments(pgxPool))
	mux.HandleFunc("/sales/payments/record", RecordPayment(pgxPool))
	/* proof documents */
	mux.HandleFunc("/sales/payments/upload-proof", UploadProofHandler(pgxPool))
	mux.HandleFunc("/sales/payments/download-proof", DownloadProofHandler(pgxPool))

	log.Println("Sales Service started on", constants.SalesPort)
	if err := http.ListenAndServe(constants.SalesPort, mux); err != nil {
		log.Fatalf("Sales Service failed: %v", err)
	}
}
