package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pabloh4516/sellx-sub001/internal/apierror"
	"github.com/pabloh4516/sellx-sub001/internal/dto"
	"github.com/pabloh4516/sellx-sub001/internal/middleware"
	"github.com/pabloh4516/sellx-sub001/internal/service"
)

type CashierHandler struct{ svc service.CashierService }

func NewCashierHandler(svc service.CashierService) *CashierHandler { return &CashierHandler{svc: svc} }

func operatorFrom(c *gin.Context) service.Operator {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return service.Operator{ID: id, Role: claims.Role}
}

// Open godoc
// @Summary Opens a new cash drawer session
// @Tags cashier
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Opening data"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} apierror.Error
// @Router /v1/cashier/open [post]
func (h *CashierHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), operatorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecordMovement godoc
// @Summary Records a deposit or withdrawal on an open session
// @Tags cashier
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovementRequest true "Movement"
// @Success 204
// @Failure 409 {object} apierror.Error
// @Router /v1/cashier/movement [post]
func (h *CashierHandler) RecordMovement(c *gin.Context) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RecordMovement(c.Request.Context(), operatorFrom(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Close godoc
// @Summary Reconciles the declared count and closes the session
// @Tags cashier
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseSessionRequest true "Declared closing count"
// @Success 200 {object} dto.ClosingReportResponse
// @Failure 409 {object} apierror.Error
// @Router /v1/cashier/close [post]
func (h *CashierHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), operatorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Snapshot godoc
// @Summary Live drawer snapshot for a session
// @Tags cashier
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SnapshotResponse
// @Failure 404 {object} apierror.Error
// @Router /v1/cashier/{id}/snapshot [get]
func (h *CashierHandler) Snapshot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Validation("invalid session id"))
		return
	}
	resp, err := h.svc.Snapshot(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary Closing report for a session
// @Tags cashier
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ClosingReportResponse
// @Failure 404 {object} apierror.Error
// @Router /v1/cashier/{id}/report [get]
func (h *CashierHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Validation("invalid session id"))
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Active returns the currently open cash session for the caller's scope.
func (h *CashierHandler) Active(c *gin.Context) {
	resp, err := h.svc.Active(c.Request.Context(), operatorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.NotFound("no active session"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns a paginated list of closed cash sessions.
func (h *CashierHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sessions, total, err := h.svc.History(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sessions, "total": total, "page": page, "limit": limit})
}
