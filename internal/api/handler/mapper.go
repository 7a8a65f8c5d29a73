package handler

import (
	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toSignUpInput(req signUpRequest) ports.SignUpInput {
	return ports.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		NotionName:  req.NotionName,
		UserRole:    req.UserRole,
		ProjectName: req.ProjectName,
		Assessoria:  req.Assessoria,
	}
}

func evaluationToDraft(req evaluationRequest) domain.Draft {
	return domain.Draft{
		SubjectID:   req.SubjectID,
		SubjectName: req.SubjectName,
		Ratings:     domain.Ratings(req.Ratings),
		Comment:     req.Comment,
		Highlight:   req.Highlight,
	}
}

func toDraft(subjectID string, req draftRequest) domain.Draft {
	return domain.Draft{
		SubjectID:   subjectID,
		SubjectName: req.SubjectName,
		Ratings:     domain.Ratings(req.Ratings),
		Comment:     req.Comment,
		Highlight:   req.Highlight,
	}
}

// --- Domain → Response ---

func toEvaluationResponse(e *domain.Evaluation) evaluationResponse {
	return evaluationResponse{
		ID:          e.ID,
		SubjectName: e.SubjectName,
		Ratings:     e.Ratings,
		Score:       e.Score(),
		Period:      e.Period.Format(dateLayout),
		CreatedAt:   e.CreatedAt,
	}
}

func toPersonResponse(p domain.Person, group string) personResponse {
	return personResponse{ID: p.ID, Name: p.DisplayName, Sector: group}
}

func toMemberListResponse(people []domain.Person) memberListResponse {
	out := make([]personResponse, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonResponse(p, ""))
	}
	return memberListResponse{Members: out}
}

func toBatchResponse(r *ports.BatchResult) batchResponse {
	return batchResponse{
		BatchID: r.BatchID,
		Period:  r.Period.Format(dateLayout),
		Count:   r.Count,
	}
}
