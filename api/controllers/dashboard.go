package controllers

import (
	"net/http"

	"github.com/retailops/arledger/api/responses"
	"github.com/retailops/arledger/api/validators"
	"github.com/retailops/arledger/internal/ledger"
	"github.com/retailops/arledger/pkg/clock"
	pkgerrors "github.com/retailops/arledger/pkg/errors"
	"github.com/retailops/arledger/pkg/logger"
)

// Dashboard returns the daily summary view: today's sales and payment
// totals, top debtors and recent unpaid orders.
func Dashboard(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		view, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SalesReport returns sales totals and per-item breakdown for a reporting
// window. The window defaults to the current month.
func SalesReport(svc ledger.Service, clk clock.Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		window, err := validators.ParsePeriodWindow(r, clock.Today(clk))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := validators.SanitizeString(r.URL.Query().Get("category"), 120)

		report, err := svc.SalesReport(r.Context(), window, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
