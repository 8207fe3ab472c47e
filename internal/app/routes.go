package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Workload
	r.HandleFunc("/api/workload", deps.WorkloadHandler.GetWorkload).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/workload/months", deps.WorkloadHandler.GetMonths).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/workload/users", deps.WorkloadHandler.GetVisibleUsers).Methods("GET")
	r.HandleFunc("/api/tasks/{id:[0-9]+}/tree", deps.WorkloadHandler.GetTaskTree).Methods("GET")

	// User
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
}
