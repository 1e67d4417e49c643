package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hawkbud003/dsahboard/internal/backend"
	"github.com/hawkbud003/dsahboard/internal/forms"
	"github.com/hawkbud003/dsahboard/internal/models"
	"github.com/hawkbud003/dsahboard/internal/refdata"
	"github.com/hawkbud003/dsahboard/internal/wizard"
)

// refDataView is the snapshot shape rendered into select inputs.
type refDataView struct {
	Ages            []models.SelectOption        `json:"ages"`
	Devices         []models.SelectOption        `json:"devices"`
	Environments    []models.SelectOption        `json:"environments"`
	Exchanges       []models.SelectOption        `json:"exchanges"`
	Languages       []models.SelectOption        `json:"languages"`
	Carriers        []models.SelectOption        `json:"carriers"`
	DevicePrices    []models.SelectOption        `json:"device_prices"`
	BuyTypes        []models.SelectOption        `json:"buy_types"`
	Viewability     []models.SelectOption        `json:"viewability"`
	BrandSafety     []models.SelectOption        `json:"brand_safety"`
	Locations       []models.Location            `json:"locations"`
	InterestGroups  []refdata.CategoryGroup      `json:"interest_groups"`
	Creatives       []models.Creative            `json:"creatives"`
	Users           []models.User                `json:"users,omitempty"`
	TotalPopulation int64                        `json:"total_population"`
	ImpressionAge   []models.ImpressionBreakdown `json:"impression_age,omitempty"`
}

// RefDataHandler returns the current reference snapshot, loading it first if
// this auth token has not loaded one yet.
func (s *Server) RefDataHandler(w http.ResponseWriter, r *http.Request) {
	auth := authFromRequest(r)
	ctx := backend.WithToken(r.Context(), auth.Token)
	if err := s.RefData.EnsureLoaded(ctx, auth); err != nil {
		s.Logger.Warn("reference data load failed", zap.Error(err))
	}
	snap := s.RefData.Snapshot()
	writeJSON(w, refDataView{
		Ages:            snap.Ages,
		Devices:         snap.Devices,
		Environments:    snap.Environments,
		Exchanges:       snap.Exchanges,
		Languages:       snap.Languages,
		Carriers:        snap.Carriers,
		DevicePrices:    snap.DevicePrices,
		BuyTypes:        snap.BuyTypes,
		Viewability:     snap.Viewability,
		BrandSafety:     snap.BrandSafety,
		Locations:       snap.Locations,
		InterestGroups:  snap.InterestsByCategory(),
		Creatives:       snap.Creatives,
		Users:           snap.Users,
		TotalPopulation: snap.TotalPopulation(),
		ImpressionAge:   snap.Impressions.Age,
	})
}

type stashHandoffRequest struct {
	CampaignID int64 `json:"campaign_id"`
}

// StashHandoffHandler fetches a campaign, projects it to form shape and
// stashes it for the wizard page to consume once. Responds with the token the
// wizard passes back in its start request.
func (s *Server) StashHandoffHandler(w http.ResponseWriter, r *http.Request) {
	if s.Handoff == nil {
		writeError(w, http.StatusServiceUnavailable, "handoff store unavailable")
		return
	}
	var req stashHandoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CampaignID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	auth := authFromRequest(r)
	ctx := backend.WithToken(r.Context(), auth.Token)

	campaign, err := s.Backend.CampaignByID(ctx, req.CampaignID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	handoff := wizard.EditHandoff{
		CampaignID: campaign.ID,
		Form:       forms.CampaignToForm(campaign, forms.CampaignSchema()),
	}
	token := uuid.NewString()
	if err := s.Handoff.Put(ctx, token, handoff, s.Config.HandoffTTL); err != nil {
		s.Logger.Error("stash edit handoff", zap.Int64("campaign_id", campaign.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]string{"token": token})
}

// maxUploadSize bounds in-memory multipart parsing for uploads.
const maxUploadSize = 50 << 20

// UploadHandler forwards one file to the backend under an upload category
// and returns the created resource ID.
func (s *Server) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	category := r.FormValue("category")
	var campaignID int64
	if v := r.FormValue("campaign_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid campaign id")
			return
		}
		campaignID = id
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	ref := &models.FileRef{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}

	auth := authFromRequest(r)
	ctx := backend.WithToken(r.Context(), auth.Token)
	id, err := s.Backend.Upload(ctx, ref, category, campaignID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]int64{"id": id})
}
