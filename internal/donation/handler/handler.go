package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/httputil"
	"donorlink/pkg/requestcontext"
)

// Service is the donation engine as seen by HTTP.
type Service interface {
	RecordDonation(ctx context.Context, req *models.RecordDonationRequest) (*models.DonationResult, error)
	DonationHistory(ctx context.Context, donorID id.DonorID) ([]*models.LedgerEntry, error)
	DonorEligibility(ctx context.Context, donorID id.DonorID) (*models.Eligibility, error)
	DonorStats(ctx context.Context, donorID id.DonorID) (*models.DonorStats, error)
	AvailableDonors(ctx context.Context, receiverType string) ([]*models.AvailableDonor, error)
	CheckCompatibility(donorType, receiverType string) (*models.CompatibilityResult, error)
	ReceiverProgress(ctx context.Context, receiverID id.ReceiverID) (*models.Progress, error)
	ReceiverDonations(ctx context.Context, receiverID id.ReceiverID) ([]*models.LedgerEntry, error)
	UrgentReceivers(ctx context.Context) ([]models.Progress, error)
	UpdateReceiver(ctx context.Context, receiverID id.ReceiverID, req *models.UpdateReceiverRequest) (*models.Progress, error)
	CancelReceiver(ctx context.Context, receiverID id.ReceiverID) (*models.Progress, error)
	ConfirmAssignment(ctx context.Context, assignmentID id.AssignmentID) (*models.AssignmentSnapshot, error)
	CancelAssignment(ctx context.Context, assignmentID id.AssignmentID) (*models.AssignmentSnapshot, error)
	Reconcile(ctx context.Context) (*models.ReconciliationReport, error)
}

// Handler wires donation endpoints to the donation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public donation endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/donors", func(r chi.Router) {
		r.Get("/available", h.HandleAvailableDonors)
		r.Route("/{donorID}", func(r chi.Router) {
			r.Post("/donations", h.HandleRecordDonation)
			r.Get("/donations", h.HandleDonationHistory)
			r.Get("/eligibility", h.HandleDonorEligibility)
			r.Get("/stats", h.HandleDonorStats)
		})
	})
	r.Route("/receivers", func(r chi.Router) {
		r.Get("/urgent", h.HandleUrgentReceivers)
		r.Route("/{receiverID}", func(r chi.Router) {
			r.Get("/", h.HandleReceiverProgress)
			r.Patch("/", h.HandleUpdateReceiver)
			r.Post("/cancel", h.HandleCancelReceiver)
			r.Get("/donations", h.HandleReceiverDonations)
		})
	})
	r.Post("/assignments/{assignmentID}/confirm", h.HandleConfirmAssignment)
	r.Post("/assignments/{assignmentID}/cancel", h.HandleCancelAssignment)
	r.Get("/compatibility", h.HandleCompatibility)
}

// RegisterAdmin mounts operator endpoints. The caller guards r.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/reconcile", h.HandleReconcile)
}

// HandleRecordDonation handles POST /donors/{donorID}/donations.
func (h *Handler) HandleRecordDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, err := httputil.DecodeJSON[RecordDonationRequest](w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.RecordDonation(ctx, body.ToDomain(donorID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "donation recorded",
		"request_id", requestcontext.RequestID(ctx),
		"donor_id", donorID.String(),
		"ledger_entry_id", result.LedgerEntry.ID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) HandleDonationHistory(w http.ResponseWriter, r *http.Request) {
	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entries, err := h.service.DonationHistory(r.Context(), donorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(entries))
}

func (h *Handler) HandleDonorEligibility(w http.ResponseWriter, r *http.Request) {
	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	eligibility, err := h.service.DonorEligibility(r.Context(), donorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, eligibility)
}

func (h *Handler) HandleDonorStats(w http.ResponseWriter, r *http.Request) {
	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats, err := h.service.DonorStats(r.Context(), donorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleAvailableDonors handles GET /donors/available?receiver_blood_type=X.
func (h *Handler) HandleAvailableDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.service.AvailableDonors(r.Context(), r.URL.Query().Get("receiver_blood_type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(donors))
}

func (h *Handler) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.service.CheckCompatibility(q.Get("donor"), q.Get("receiver"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleReceiverProgress(w http.ResponseWriter, r *http.Request) {
	receiverID, err := id.ParseReceiverID(chi.URLParam(r, "receiverID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	progress, err := h.service.ReceiverProgress(r.Context(), receiverID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}

func (h *Handler) HandleReceiverDonations(w http.ResponseWriter, r *http.Request) {
	receiverID, err := id.ParseReceiverID(chi.URLParam(r, "receiverID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entries, err := h.service.ReceiverDonations(r.Context(), receiverID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(entries))
}

func (h *Handler) HandleUrgentReceivers(w http.ResponseWriter, r *http.Request) {
	receivers, err := h.service.UrgentReceivers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(receivers))
}

func (h *Handler) HandleUpdateReceiver(w http.ResponseWriter, r *http.Request) {
	receiverID, err := id.ParseReceiverID(chi.URLParam(r, "receiverID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, err := httputil.DecodeJSON[UpdateReceiverRequest](w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	progress, err := h.service.UpdateReceiver(r.Context(), receiverID, body.ToDomain())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}

func (h *Handler) HandleCancelReceiver(w http.ResponseWriter, r *http.Request) {
	receiverID, err := id.ParseReceiverID(chi.URLParam(r, "receiverID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	progress, err := h.service.CancelReceiver(r.Context(), receiverID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, progress)
}

func (h *Handler) HandleConfirmAssignment(w http.ResponseWriter, r *http.Request) {
	h.transitionAssignment(w, r, h.service.ConfirmAssignment)
}

func (h *Handler) HandleCancelAssignment(w http.ResponseWriter, r *http.Request) {
	h.transitionAssignment(w, r, h.service.CancelAssignment)
}

func (h *Handler) transitionAssignment(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, id.AssignmentID) (*models.AssignmentSnapshot, error)) {
	assignmentID, err := id.ParseAssignmentID(chi.URLParam(r, "assignmentID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snapshot, err := apply(r.Context(), assignmentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Reconcile(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// writeError renders err. A not-eligible rejection also tells the caller when
// the donor may donate again.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var notEligible *models.NotEligibleError
	if errors.As(err, &notEligible) {
		status, body := httputil.ErrorBody(err)
		httputil.WriteJSON(w, status, NotEligibleResponse{ErrorResponse: body, CanDonateAfter: notEligible.CanDonateAfter})
		return
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "request failed",
			"request_id", requestcontext.RequestID(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

// listOf keeps empty results as [] rather than null.
func listOf[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
