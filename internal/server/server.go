package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dougiefresh49/gift-tracker/internal/backup"
	"github.com/dougiefresh49/gift-tracker/internal/config"
	"github.com/dougiefresh49/gift-tracker/internal/handler"
	"github.com/dougiefresh49/gift-tracker/internal/middleware"
	"github.com/dougiefresh49/gift-tracker/internal/store"
	ws "github.com/dougiefresh49/gift-tracker/internal/websocket"
)

type Server struct {
	db               *sql.DB
	hub              *ws.Hub
	profileH         *handler.ProfileHandler
	giftH            *handler.GiftHandler
	budgetH          *handler.BudgetHandler
	reconciliationH  *handler.ReconciliationHandler
	adminH           *handler.AdminHandler
	backupH          *handler.BackupHandler
	backupManager    *backup.Manager
	logger           *slog.Logger
}

func New(db *sql.DB, backupCfg config.BackupConfig, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	profileStore := store.NewProfileStore(db)
	giftStore := store.NewGiftStore(db)
	budgetStore := store.NewBudgetStore(db)
	reconciliationStore := store.NewReconciliationStore(db)
	adminStore := store.NewAdminStore(db)

	backupMgr := backup.NewManager(backupCfg, adminStore, logger.With("component", "backup"), func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	})

	return &Server{
		db:              db,
		hub:             hub,
		profileH:        handler.NewProfileHandler(profileStore, hub),
		giftH:           handler.NewGiftHandler(giftStore, hub),
		budgetH:         handler.NewBudgetHandler(budgetStore, giftStore, profileStore, hub),
		reconciliationH: handler.NewReconciliationHandler(reconciliationStore, giftStore, profileStore, hub),
		adminH:          handler.NewAdminHandler(adminStore, hub),
		backupH:         handler.NewBackupHandler(backupMgr, adminStore, hub),
		backupManager:   backupMgr,
		logger:          logger,
	}
}

// BackupManager returns the backup manager so main can start and stop it.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Profile routes
	mux.HandleFunc("POST /api/profiles", s.profileH.Create)
	mux.HandleFunc("GET /api/profiles", s.profileH.List)
	mux.HandleFunc("DELETE /api/profiles/{id}", s.profileH.Delete)

	// Gift routes
	mux.HandleFunc("POST /api/gifts", s.giftH.Create)
	mux.HandleFunc("GET /api/gifts", s.giftH.List)
	mux.HandleFunc("POST /api/gifts/bulk", s.giftH.BulkUpdate)
	mux.HandleFunc("GET /api/gifts/{id}", s.giftH.Get)
	mux.HandleFunc("PUT /api/gifts/{id}", s.giftH.Update)
	mux.HandleFunc("DELETE /api/gifts/{id}", s.giftH.Delete)
	mux.HandleFunc("POST /api/gifts/{id}/claim", s.giftH.Claim)
	mux.HandleFunc("POST /api/gifts/{id}/unclaim", s.giftH.Unclaim)
	mux.HandleFunc("POST /api/gifts/{id}/recipients", s.giftH.ToggleRecipient)
	mux.HandleFunc("PUT /api/gifts/{id}/return-status", s.giftH.UpdateReturnStatus)

	// Budget routes
	mux.HandleFunc("POST /api/budgets", s.budgetH.Create)
	mux.HandleFunc("GET /api/budgets", s.budgetH.List)
	mux.HandleFunc("GET /api/budgets/summary", s.budgetH.Summary)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.budgetH.Delete)

	// Reconciliation routes
	mux.HandleFunc("POST /api/reconciliations", s.reconciliationH.Create)
	mux.HandleFunc("GET /api/reconciliations", s.reconciliationH.List)
	mux.HandleFunc("GET /api/reconciliation/report", s.reconciliationH.Report)

	// Data management routes
	mux.HandleFunc("GET /api/export", s.adminH.Export)
	mux.HandleFunc("POST /api/import", s.adminH.Import)
	mux.HandleFunc("POST /api/import/master", s.adminH.MasterImport)
	mux.HandleFunc("POST /api/wipe", s.adminH.Wipe)

	// Backup routes
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("POST /api/backup/run", s.backupH.Run)
	mux.HandleFunc("POST /api/backup/restore", s.backupH.Restore)

	// Real-time sync socket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	mux.HandleFunc("GET /health", s.healthHandler)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
