package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/mailer"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/middleware"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/models"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/operations"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/validators"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-memdb"
)

const genericSendError = "failed to send message"

// ContactOptions tunes ContactHandler. The zero value relays every valid
// submission with no CAPTCHA, no dedupe and no timeout.
type ContactOptions struct {
	// Recipient returns the owner address at request time.
	Recipient    func() string
	ExposeErrors bool
	EscapeHTML   bool
	SendTimeout  time.Duration
	// Deliveries and DedupeWindow enable replay suppression when both are set.
	Deliveries   *memdb.MemDB
	DedupeWindow time.Duration
	Verifier     validators.TokenVerifier
}

// ContactHandler relays contact form submissions to the site owner.
type ContactHandler struct {
	mailer mailer.Mailer
	opts   ContactOptions
	now    func() time.Time
}

func NewContactHandler(m mailer.Mailer, opts ContactOptions) *ContactHandler {
	if opts.Recipient == nil {
		opts.Recipient = func() string { return "" }
	}
	return &ContactHandler{mailer: m, opts: opts, now: time.Now}
}

func respond(c *gin.Context, status int, errMsg string) {
	c.JSON(status, models.ContactResponse{Success: status == http.StatusOK, Error: errMsg})
}

// HandlePost serves POST /api/contact.
func (h *ContactHandler) HandlePost(c *gin.Context) {
	log := logger.GetLogger()

	var req models.ContactSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if err := validators.ValidateSubmission(req); err != nil {
		respond(c, http.StatusBadRequest, err.Error())
		return
	}

	if h.opts.Verifier != nil {
		if err := h.opts.Verifier.VerifyToken(c.Request.Context(), req.Token, c.ClientIP()); err != nil {
			if errors.Is(err, validators.ErrTokenRequired) || errors.Is(err, validators.ErrTokenInvalid) {
				respond(c, http.StatusForbidden, err.Error())
				return
			}
			respond(c, http.StatusInternalServerError, "captcha verification unavailable")
			return
		}
	}

	fingerprint := operations.Fingerprint(req)
	if h.dedupeEnabled() {
		seen, err := operations.RecentlyDelivered(h.opts.Deliveries, fingerprint, h.now())
		if err != nil {
			log.Errorw("Delivery lookup failed", "error", err)
		} else if seen {
			respond(c, http.StatusConflict, "duplicate submission")
			return
		}
	}

	msg, err := mailer.BuildMessage(req, h.opts.Recipient(), h.opts.EscapeHTML)
	if err != nil {
		log.Errorw("Failed to build contact email", "error", err)
		respond(c, http.StatusInternalServerError, genericSendError)
		return
	}

	ctx := c.Request.Context()
	if h.opts.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.SendTimeout)
		defer cancel()
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		log.Errorw("Contact relay failed",
			"error", err,
			"sender", logger.MaskEmail(req.Email),
			"request_id", c.GetString(middleware.RequestIDKey))
		if h.opts.ExposeErrors {
			respond(c, http.StatusInternalServerError, err.Error())
		} else {
			respond(c, http.StatusInternalServerError, genericSendError)
		}
		return
	}

	if h.dedupeEnabled() {
		if err := operations.RecordDelivery(h.opts.Deliveries, fingerprint, h.now(), h.opts.DedupeWindow); err != nil {
			log.Errorw("Failed to record delivery", "error", err)
		}
	}

	log.Infow("Contact message relayed", "sender", logger.MaskEmail(req.Email))
	respond(c, http.StatusOK, "")
}

func (h *ContactHandler) dedupeEnabled() bool {
	return h.opts.Deliveries != nil && h.opts.DedupeWindow > 0
}
