package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/defendnet/backend/httpjson"
	"github.com/defendnet/backend/logger"
	"github.com/defendnet/backend/scoresrvc"
	"github.com/defendnet/backend/srvcerror"
)

func (s *HttpServer) adjustScore(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerror.ErrUnauthorized())
		return
	}

	type adjustScoreRequest struct {
		TeamID int    `json:"team_id"`
		Points int    `json:"points"`
		Reason string `json:"reason"`
	}

	var request adjustScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.WriteErrorJson(w, "request body must be valid json",
			http.StatusBadRequest, "invalid_request_body")
		return
	}

	adjustment, err := s.scoreSrvc.AdjustScore(r.Context(), scoresrvc.AdjustParams{
		TargetTeamID: request.TeamID,
		ByTeamID:     caller.TeamID,
		ByUserID:     caller.UserID,
		Points:       request.Points,
		Reason:       request.Reason,
	}, caller.Role, time.Now().UTC())
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	type adjustScoreResponse struct {
		TeamID int    `json:"team_id"`
		Points int    `json:"points"`
		Reason string `json:"reason,omitempty"`
	}
	httpjson.WriteSuccessJson(w, adjustScoreResponse{
		TeamID: adjustment.TargetTeamID,
		Points: adjustment.Points,
		Reason: adjustment.Reason,
	})
}

func (s *HttpServer) scoreboard(w http.ResponseWriter, r *http.Request) {
	scores, err := s.scoreSrvc.Scoreboard(r.Context())
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	type teamScoreResponse struct {
		TeamID       int    `json:"team_id"`
		TeamName     string `json:"team_name"`
		Availability int    `json:"availability"`
		RedPenalty   int    `json:"red_penalty"`
		Adjustment   int    `json:"adjustment"`
		Total        int    `json:"total"`
	}
	response := make([]teamScoreResponse, 0, len(scores))
	for _, score := range scores {
		response = append(response, teamScoreResponse{
			TeamID:       score.TeamID,
			TeamName:     score.TeamName,
			Availability: score.Availability,
			RedPenalty:   score.RedPenalty,
			Adjustment:   score.Adjustment,
			Total:        score.Total,
		})
	}
	httpjson.WriteSuccessJson(w, response)
}

func (s *HttpServer) solvesMatrix(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerror.ErrUnauthorized())
		return
	}

	matrix, err := s.scoreSrvc.SolvesMatrix(r.Context(), caller.Role, time.Now().UTC())
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	type solvesRowResponse struct {
		Team  string   `json:"team"`
		Cells [][2]int `json:"cells"`
	}
	type solvesMatrixResponse struct {
		Columns []string            `json:"columns"`
		Rows    []solvesRowResponse `json:"rows"`
	}
	response := solvesMatrixResponse{Columns: matrix.Columns}
	for _, row := range matrix.Rows {
		response.Rows = append(response.Rows, solvesRowResponse{
			Team:  row.TeamName,
			Cells: row.Cells,
		})
	}
	httpjson.WriteSuccessJson(w, response)
}

func (s *HttpServer) attackerTotals(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerror.ErrUnauthorized())
		return
	}

	totals, err := s.scoreSrvc.AttackerTotals(r.Context(), caller.Role)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	type attackerTotalResponse struct {
		Team       string  `json:"team"`
		WinScore   float64 `json:"win_score"`
		NixScore   float64 `json:"nix_score"`
		TotalScore float64 `json:"total_score"`
	}
	response := make([]attackerTotalResponse, 0, len(totals))
	for _, total := range totals {
		response = append(response, attackerTotalResponse{
			Team:       total.TeamName,
			WinScore:   total.WinScore,
			NixScore:   total.NixScore,
			TotalScore: total.TotalScore,
		})
	}
	httpjson.WriteSuccessJson(w, response)
}
