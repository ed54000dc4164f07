package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/lottery/services"
)

var errLotteryUnavailable = errors.New("lottery controller not initialized")

// actions started by a request keep running after the redirect, until they finish or the server stops
var actionContext = context.Background()

// SetActionContext binds the background lottery actions to the server lifetime.
// It must be called before the webserver starts serving.
func SetActionContext(ctx context.Context) {
	actionContext = ctx
}

// Enter handles the entry form and redirects back to the index page
func Enter(w http.ResponseWriter, r *http.Request) {
	controller := services.GlobalLotteryController
	if controller == nil {
		handlePageError(w, r, errLotteryUnavailable)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	value := r.PostForm.Get("value")

	err := controller.SubmitEntryAsync(actionContext, value)
	logActionResult("enter", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SelectWinner handles the manager form and redirects back to the index page
func SelectWinner(w http.ResponseWriter, r *http.Request) {
	controller := services.GlobalLotteryController
	if controller == nil {
		handlePageError(w, r, errLotteryUnavailable)
		return
	}

	err := controller.SelectWinnerAsync(actionContext)
	logActionResult("select-winner", err)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Refresh reloads the lottery state from the chain
func Refresh(w http.ResponseWriter, r *http.Request) {
	controller := services.GlobalLotteryController
	if controller == nil {
		handlePageError(w, r, errLotteryUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), callTimeout())
	defer cancel()

	if err := controller.Load(ctx); err != nil {
		logrus.WithError(err).Warn("lottery refresh failed")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// validation and in-flight errors are already part of the shown state
func logActionResult(action string, err error) {
	if err == nil {
		return
	}

	entry := logrus.WithField("action", action)
	if errors.Is(err, services.ErrActionInFlight) {
		entry.Debug("action rejected, another action is in flight")
		return
	}

	var actionErr *services.ActionError
	if errors.As(err, &actionErr) {
		entry.WithField("kind", actionErr.Kind.String()).Info(actionErr.Err.Error())
		return
	}

	entry.WithError(err).Warn("lottery action failed")
}
