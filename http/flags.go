package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/defendnet/backend/flagsrvc"
	"github.com/defendnet/backend/httpjson"
	"github.com/defendnet/backend/logger"
	"github.com/defendnet/backend/srvcerror"
)

type flagResponse struct {
	ID        string `json:"id"`
	Flag      string `json:"flag"`
	Content   string `json:"content,omitempty"`
	Platform  string `json:"platform"`
	Perm      string `json:"perm"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func mapFlag(flag flagsrvc.Flag) flagResponse {
	return flagResponse{
		ID:        flag.ID.String(),
		Flag:      flag.Data.CanonicalToken(),
		Content:   flag.Data.Content,
		Platform:  string(flag.Platform),
		Perm:      string(flag.Perm),
		StartTime: flag.StartTime.Format(time.RFC3339),
		EndTime:   flag.EndTime.Format(time.RFC3339),
	}
}

func (s *HttpServer) listFlags(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerror.ErrUnauthorized())
		return
	}

	flags, err := s.flagSrvc.ListActive(r.Context(), time.Now().UTC(), caller.Role, caller.TeamID)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	response := make([]flagResponse, 0, len(flags))
	for _, flag := range flags {
		response = append(response, mapFlag(flag))
	}
	httpjson.WriteSuccessJson(w, response)
}

func (s *HttpServer) createFlag(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerror.ErrUnauthorized())
		return
	}

	type createFlagRequest struct {
		Content   string `json:"content"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Dummy     bool   `json:"dummy"`
		Platform  string `json:"platform"`
		Perm      string `json:"perm"`
	}

	var request createFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.WriteErrorJson(w, "request body must be valid json",
			http.StatusBadRequest, "invalid_request_body")
		return
	}

	params := flagsrvc.CreateParams{
		Content:  request.Content,
		Dummy:    request.Dummy,
		Platform: flagsrvc.Platform(request.Platform),
		Perm:     flagsrvc.Perm(request.Perm),
	}
	if request.StartTime != "" {
		start, err := time.Parse(time.RFC3339, request.StartTime)
		if err != nil {
			httpjson.WriteErrorJson(w, "start_time must be a valid timestamp",
				http.StatusBadRequest, "invalid_start_time")
			return
		}
		params.StartTime = &start
	}
	if request.EndTime != "" {
		end, err := time.Parse(time.RFC3339, request.EndTime)
		if err != nil {
			httpjson.WriteErrorJson(w, "end_time must be a valid timestamp",
				http.StatusBadRequest, "invalid_end_time")
			return
		}
		params.EndTime = &end
	}

	flag, err := s.flagSrvc.Create(r.Context(), params, caller.Role, time.Now().UTC())
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}
	httpjson.WriteJson(w, http.StatusCreated, mapFlag(flag))
}

func (s *HttpServer) submitFlag(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		httpjson.HandleError(logger.FromContext(r.Context()), w, srvcerror.ErrUnauthorized())
		return
	}

	type submitFlagRequest struct {
		TeamID int    `json:"team_id"`
		FlagID string `json:"flag_id"`
		Flag   string `json:"flag"`
	}

	var request submitFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.WriteErrorJson(w, "request body must be valid json",
			http.StatusBadRequest, "invalid_request_body")
		return
	}

	var ref flagsrvc.FlagRef
	switch {
	case request.FlagID != "":
		id, err := uuid.Parse(request.FlagID)
		if err != nil {
			httpjson.WriteErrorJson(w, "flag_id must be a valid uuid",
				http.StatusBadRequest, "invalid_flag_id")
			return
		}
		ref = flagsrvc.RefByID(id)
	case request.Flag != "":
		ref = flagsrvc.RefByToken(request.Flag)
	default:
		httpjson.HandleError(logger.FromContext(r.Context()), w, flagsrvc.ErrFlagRefRequired())
		return
	}

	submission, err := s.flagSrvc.Submit(r.Context(), flagsrvc.SubmitParams{
		Ref:          ref,
		TargetTeamID: request.TeamID,
		ByTeamID:     caller.TeamID,
		ByUserID:     caller.UserID,
	}, caller.Role, time.Now().UTC())
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	type submitFlagResponse struct {
		FlagID         string `json:"flag_id"`
		TeamID         int    `json:"team_id"`
		PointsDeducted int    `json:"points_deducted"`
	}
	httpjson.WriteSuccessJson(w, submitFlagResponse{
		FlagID:         submission.FlagID.String(),
		TeamID:         submission.TargetTeamID,
		PointsDeducted: submission.Points,
	})
}
