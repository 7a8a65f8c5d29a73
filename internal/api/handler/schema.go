package handler

import (
	"time"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// --- Auth ---

type signUpRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=6"`
	NotionName  string `json:"notion_name"  validate:"required"`
	UserRole    string `json:"user_role"    validate:"required,oneof=Gestor Diretor"`
	ProjectName string `json:"project_name"`
	Assessoria  string `json:"assessoria"   validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token    string           `json:"token,omitempty"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

// --- Members ---

// membersResponse is the names-only shape of the /functions/v1 routes.
type membersResponse struct {
	Members []string `json:"members"`
}

// memberListResponse carries the stable id drafts are keyed by.
type memberListResponse struct {
	Members []personResponse `json:"members"`
}

type personResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
}

type groupedMembersResponse struct {
	Groups map[string][]personResponse `json:"groups"`
}

type notionMembersRequest struct {
	Assessoria  string `json:"assessoria"`
	ExcludeName string `json:"exclude_name"`
}

// --- Evaluations ---

type evaluationRequest struct {
	SubjectID   string         `json:"subject_id"`
	SubjectName string         `json:"subject_name"`
	Ratings     map[string]int `json:"ratings"`
	Comment     string         `json:"comment"   validate:"max=4000"`
	Highlight   bool           `json:"highlight"`
}

type evaluationResponse struct {
	ID          string         `json:"id"`
	SubjectName string         `json:"subject_name"`
	Ratings     map[string]int `json:"ratings"`
	Score       float64        `json:"score"`
	Period      string         `json:"period"`
	CreatedAt   time.Time      `json:"created_at"`
}

type rubricResponse struct {
	Criteria []string `json:"criteria"`
	Min      int      `json:"min"`
	Max      int      `json:"max"`
}

// --- Drafts ---

type draftRequest struct {
	SubjectName string         `json:"subject_name"`
	Ratings     map[string]int `json:"ratings"`
	Comment     string         `json:"comment"   validate:"max=4000"`
	Highlight   bool           `json:"highlight"`
}

type draftsResponse struct {
	Drafts []domain.Draft `json:"drafts"`
}

type batchResponse struct {
	BatchID string `json:"batch_id"`
	Period  string `json:"period"`
	Count   int    `json:"count"`
}

// --- Reports ---

type reportResponse struct {
	Records []domain.Evaluation `json:"records"`
	Metrics domain.Metrics      `json:"metrics"`
}
