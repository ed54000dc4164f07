package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/lottery/services"
	"github.com/ethpandaops/lottery/templates"
	"github.com/ethpandaops/lottery/types/models"
	"github.com/ethpandaops/lottery/utils"
)

// Index will return the main "index" page using a go template
func Index(w http.ResponseWriter, r *http.Request) {
	var indexTemplateFiles = append(layoutTemplateFiles,
		"index/index.html",
	)

	var indexTemplate = templates.GetTemplate(indexTemplateFiles...)

	w.Header().Set("Content-Type", "text/html")
	data := InitPageData(w, r, "index", "", "", indexTemplateFiles)

	pageData, err := getIndexPageData(r.Context())
	if err != nil {
		handlePageError(w, r, err)
		return
	}
	data.Data = pageData
	if pageData.Busy && utils.Config.Frontend.RefreshInterval > 0 {
		data.Meta.Refresh = int(utils.Config.Frontend.RefreshInterval.Seconds())
		if data.Meta.Refresh < 1 {
			data.Meta.Refresh = 1
		}
	}

	if handleTemplateError(w, r, "index.go", "Index", "", indexTemplate.ExecuteTemplate(w, "layout", data)) != nil {
		return // an error has occurred and was processed
	}
}

// IndexData will return the lottery state as json
func IndexData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	pageData, err := getIndexPageData(r.Context())
	if err != nil {
		logrus.WithError(err).Error("error building lottery page data")
		http.Error(w, "Internal server error", http.StatusServiceUnavailable)
		return
	}

	err = json.NewEncoder(w).Encode(pageData)
	if err != nil {
		logrus.WithError(err).Error("error encoding index data")
		http.Error(w, "Internal server error", http.StatusServiceUnavailable)
	}
}

func getIndexPageData(ctx context.Context) (*models.LotteryPageData, error) {
	controller := services.GlobalLotteryController
	if controller == nil {
		return nil, errLotteryUnavailable
	}

	state := controller.State()
	if !state.Loaded && !state.Busy {
		// first visit after a failed startup load
		loadCtx, cancel := context.WithTimeout(ctx, callTimeout())
		defer cancel()

		if err := controller.Load(loadCtx); err != nil {
			logrus.WithError(err).Warn("lottery state not loaded")
		}
		state = controller.State()
	}

	return buildLotteryPageData(controller, &state), nil
}

func buildLotteryPageData(controller *services.LotteryController, state *services.LotteryState) *models.LotteryPageData {
	pageData := &models.LotteryPageData{
		ContractAddress:  controller.ContractAddress().Hex(),
		Participants:     make([]string, len(state.Participants)),
		ParticipantCount: len(state.Participants),
		BalanceWei:       "0",
		BalanceEther:     utils.WeiToEther(state.Balance),
		EntryValue:       state.EntryValue,
		MinimumEntry:     controller.MinimumEntry(),
		Message:          state.Message,
		Status:           state.Status.String(),
		Busy:             state.Busy,
		Loaded:           state.Loaded,
		LoadError:        state.LoadError,
	}

	if state.Loaded {
		pageData.Manager = state.Manager.Hex()
	}
	if state.Balance != nil {
		pageData.BalanceWei = state.Balance.String()
	}
	for i, participant := range state.Participants {
		pageData.Participants[i] = participant.Hex()
	}

	return pageData
}

func callTimeout() time.Duration {
	if utils.Config.ExecutionApi.CallTimeout > 0 {
		return utils.Config.ExecutionApi.CallTimeout
	}
	return 10 * time.Second
}
