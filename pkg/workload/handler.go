package workload

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/workload/internal/rest"
	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/load"
	"github.com/klokku/workload/pkg/task"
	"github.com/klokku/workload/pkg/user"
	log "github.com/sirupsen/logrus"
)

type DayDTO struct {
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Holiday bool    `json:"holiday"`
}

type DayLoadDTO struct {
	DayDTO
	Load load.Band `json:"load"`
}

type TaskDayDTO struct {
	DayDTO
	Active     bool `json:"active"`
	NoEstimate bool `json:"noEstimate"`
}

type TaskWorkloadDTO struct {
	Id             int          `json:"id"`
	Subject        string       `json:"subject"`
	StartDate      *string      `json:"startDate"`
	DueDate        *string      `json:"dueDate"`
	RemainingHours float64      `json:"remainingHours"`
	DelegatedHours float64      `json:"delegatedHours"`
	Overdue        bool         `json:"overdue"`
	Days           []TaskDayDTO `json:"days"`
}

type TaskNodeDTO struct {
	Id             int     `json:"id"`
	Subject        string  `json:"subject"`
	ParentId       *int    `json:"parentId"`
	ProjectId      int     `json:"projectId"`
	StartDate      *string `json:"startDate"`
	DueDate        *string `json:"dueDate"`
	RemainingHours float64 `json:"remainingHours"`
	Closed         bool    `json:"closed"`
}

type TaskTreeDTO struct {
	Task           TaskNodeDTO   `json:"task"`
	Ancestors      []TaskNodeDTO `json:"ancestors"`
	Descendants    []TaskNodeDTO `json:"descendants"`
	DelegatedHours float64       `json:"delegatedHours"`
}

type ProjectWorkloadDTO struct {
	Id           int               `json:"id"`
	Name         string            `json:"name"`
	OverdueHours float64           `json:"overdueHours"`
	OverdueCount int               `json:"overdueCount"`
	Total        []DayDTO          `json:"total"`
	Tasks        []TaskWorkloadDTO `json:"tasks"`
}

type UserWorkloadDTO struct {
	User         user.UserDTO         `json:"user"`
	OverdueHours float64              `json:"overdueHours"`
	OverdueCount int                  `json:"overdueCount"`
	Total        []DayLoadDTO         `json:"total"`
	Invisible    []DayDTO             `json:"invisible"`
	Projects     []ProjectWorkloadDTO `json:"projects"`
}

type MonthDTO struct {
	FirstDay string `json:"firstDay"`
	LastDay  string `json:"lastDay"`
	Days     int    `json:"days"`
}

type WorkloadDTO struct {
	From   string            `json:"from"`
	To     string            `json:"to"`
	Today  string            `json:"today"`
	Months []MonthDTO        `json:"months"`
	Users  []UserWorkloadDTO `json:"users"`
}

type Handler struct {
	workloadService Service
	csvRenderer     Renderer
}

func NewHandler(workloadService Service, csvRenderer Renderer) *Handler {
	return &Handler{workloadService, csvRenderer}
}

// GetWorkload godoc
// @Summary Get the workload of all visible users
// @Tags Workload
// @Produce json,text/csv
// @Param from query string true "First day, YYYY-MM-DD"
// @Param to query string true "Last day, YYYY-MM-DD"
// @Success 200 {object} WorkloadDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/workload [get]
// @Security XUserId
func (h *Handler) GetWorkload(w http.ResponseWriter, r *http.Request) {
	span, ok := parseSpan(w, r)
	if !ok {
		return
	}

	report, err := h.workloadService.GetWorkload(r.Context(), span.Start, span.End)
	if err != nil {
		log.Errorf("failed to get workload: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := h.csvRenderer.Render(report)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="workload.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toWorkloadDTO(report)); err != nil {
		log.Errorf("failed to encode workload: %v", err)
	}
}

// GetMonths godoc
// @Summary Split a span into calendar months
// @Tags Workload
// @Produce json
// @Param from query string true "First day, YYYY-MM-DD"
// @Param to query string true "Last day, YYYY-MM-DD"
// @Success 200 {array} MonthDTO
// @Router /api/workload/months [get]
func (h *Handler) GetMonths(w http.ResponseWriter, r *http.Request) {
	span, ok := parseSpan(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toMonthDTOs(MonthBuckets(span))); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetVisibleUsers godoc
// @Summary List the users whose workload the current user may see
// @Tags Workload
// @Produce json
// @Success 200 {array} user.UserDTO
// @Router /api/workload/users [get]
// @Security XUserId
func (h *Handler) GetVisibleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.workloadService.GetVisibleUsers(r.Context())
	if err != nil {
		log.Errorf("failed to get visible users: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]user.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, user.ToDTO(u))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetTaskTree godoc
// @Summary Get a task with its ancestors, its subtasks and their remaining effort
// @Tags Workload
// @Produce json
// @Param id path int true "Task id"
// @Success 200 {object} TaskTreeDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/tasks/{id}/tree [get]
// @Security XUserId
func (h *Handler) GetTaskTree(w http.ResponseWriter, r *http.Request) {
	taskId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid task id", "id must be a number")
		return
	}

	tree, err := h.workloadService.GetTaskTree(r.Context(), taskId)
	if errors.Is(err, task.ErrTaskNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Task not found", "")
		return
	} else if err != nil {
		log.Errorf("failed to get tree of task %d: %v", taskId, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toTaskTreeDTO(tree)); err != nil {
		log.Errorf("failed to encode task tree: %v", err)
	}
}

func parseSpan(w http.ResponseWriter, r *http.Request) (calendar.DateRange, bool) {
	from, err := time.Parse(time.DateOnly, r.URL.Query().Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from format", "from must be in YYYY-MM-DD format")
		return calendar.DateRange{}, false
	}
	to, err := time.Parse(time.DateOnly, r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid to format", "to must be in YYYY-MM-DD format")
		return calendar.DateRange{}, false
	}
	span := calendar.NewDateRange(from, to)
	if err := checkSpan(span); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Span too long", err.Error())
		return calendar.DateRange{}, false
	}
	return span, true
}

func toWorkloadDTO(report Report) WorkloadDTO {
	table := report.Table
	users := make([]UserWorkloadDTO, 0, len(table.Users))
	for _, uw := range table.Users {
		loads := uw.Loads(report.Thresholds)
		total := make([]DayLoadDTO, 0, len(loads))
		for _, l := range loads {
			total = append(total, DayLoadDTO{DayDTO: toDayDTO(l.DayTotal), Load: l.Band})
		}
		projects := make([]ProjectWorkloadDTO, 0, len(uw.Projects))
		for _, pw := range uw.Projects {
			tasks := make([]TaskWorkloadDTO, 0, len(pw.Tasks))
			for _, tw := range pw.Tasks {
				tasks = append(tasks, toTaskDTO(tw))
			}
			projects = append(projects, ProjectWorkloadDTO{
				Id:           pw.Project.Id,
				Name:         pw.Project.Name,
				OverdueHours: pw.OverdueHours,
				OverdueCount: pw.OverdueCount,
				Total:        toDayDTOs(pw.Total),
				Tasks:        tasks,
			})
		}
		users = append(users, UserWorkloadDTO{
			User:         user.ToDTO(uw.User),
			OverdueHours: uw.OverdueHours,
			OverdueCount: uw.OverdueCount,
			Total:        total,
			Invisible:    toDayDTOs(uw.Invisible),
			Projects:     projects,
		})
	}
	return WorkloadDTO{
		From:   table.Span.Start.Format(time.DateOnly),
		To:     table.Span.End.Format(time.DateOnly),
		Today:  table.Today.Format(time.DateOnly),
		Months: toMonthDTOs(report.Months),
		Users:  users,
	}
}

func toTaskDTO(tw *TaskWorkload) TaskWorkloadDTO {
	days := make([]TaskDayDTO, 0, len(tw.Schedule))
	for _, d := range tw.Schedule {
		days = append(days, TaskDayDTO{
			DayDTO:     DayDTO{Date: d.Date.Format(time.DateOnly), Hours: d.Hours, Holiday: d.Holiday},
			Active:     d.Active,
			NoEstimate: d.NoEstimate,
		})
	}
	return TaskWorkloadDTO{
		Id:             tw.Task.Id,
		Subject:        tw.Task.Subject,
		StartDate:      formatDate(tw.Task.StartDate),
		DueDate:        formatDate(tw.Task.DueDate),
		RemainingHours: tw.RemainingHours,
		DelegatedHours: tw.DelegatedHours,
		Overdue:        tw.Overdue,
		Days:           days,
	}
}

func toTaskTreeDTO(tree TaskTree) TaskTreeDTO {
	return TaskTreeDTO{
		Task:           toTaskNodeDTO(tree.Root),
		Ancestors:      toTaskNodeDTOs(tree.Ancestors),
		Descendants:    toTaskNodeDTOs(tree.Descendants),
		DelegatedHours: tree.DelegatedHours,
	}
}

func toTaskNodeDTO(t task.Task) TaskNodeDTO {
	return TaskNodeDTO{
		Id:             t.Id,
		Subject:        t.Subject,
		ParentId:       t.ParentId,
		ProjectId:      t.Project.Id,
		StartDate:      formatDate(t.StartDate),
		DueDate:        formatDate(t.DueDate),
		RemainingHours: task.OwnRemainingHours(t),
		Closed:         t.Closed,
	}
}

func toTaskNodeDTOs(tasks []task.Task) []TaskNodeDTO {
	dtos := make([]TaskNodeDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, toTaskNodeDTO(t))
	}
	return dtos
}

func toDayDTO(total DayTotal) DayDTO {
	return DayDTO{Date: total.Date.Format(time.DateOnly), Hours: total.Hours, Holiday: total.Holiday}
}

func toDayDTOs(totals []DayTotal) []DayDTO {
	dtos := make([]DayDTO, 0, len(totals))
	for _, total := range totals {
		dtos = append(dtos, toDayDTO(total))
	}
	return dtos
}

func toMonthDTOs(months []MonthBucket) []MonthDTO {
	dtos := make([]MonthDTO, 0, len(months))
	for _, m := range months {
		dtos = append(dtos, MonthDTO{
			FirstDay: m.FirstDay.Format(time.DateOnly),
			LastDay:  m.LastDay.Format(time.DateOnly),
			Days:     m.Days(),
		})
	}
	return dtos
}

func formatDate(date *time.Time) *string {
	if date == nil {
		return nil
	}
	formatted := date.Format(time.DateOnly)
	return &formatted
}
