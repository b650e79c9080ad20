package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
	"gitlab.com/dirk.krummacker/contact-manager/internal/store"
)

// ContactStore is the persistence behind the REST API. It is implemented by *store.Store.
type ContactStore interface {
	Create(ctx context.Context, fields model.Fields) (int64, error)
	Get(ctx context.Context, id int64) (model.Contact, error)
	ListActive(ctx context.Context) ([]model.Contact, error)
	ListDeleted(ctx context.Context) ([]model.Contact, error)
	Update(ctx context.Context, id int64, fields model.Fields) error
	SoftDelete(ctx context.Context, id int64) error
	Recover(ctx context.Context, id int64) error
	PermanentDelete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

var _ ContactStore = (*store.Store)(nil)

// handler carries the dependencies of the endpoints.
type handler struct {
	store  ContactStore
	logger *zap.Logger
}

// createContact inserts the contact specified in the request's JSON into the database. It
// responds with the newly assigned id. No field is validated; what the client sends is stored.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --request "POST" --header "Content-Type: application/json" --data '{"firstName": "Ann", "lastName": "Lee", "countryCode": "+1", "contactNumber": "5551234567", "dob": "1990-01-01", "email": "ann@x.com"}'
func (h *handler) createContact(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	id, err := h.store.Create(c.Request.Context(), fields)
	if err != nil {
		h.abortWithStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, model.CreatedResponse{Id: id})
}

// findActiveContacts responds with all contacts that have not been soft-deleted. The order is
// whatever the database returns; sorting is up to the client.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts
func (h *handler) findActiveContacts(c *gin.Context) {
	contacts, err := h.store.ListActive(c.Request.Context())
	if err != nil {
		h.abortWithStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findDeletedContacts responds with all soft-deleted contacts, which can still be recovered.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/deleted
func (h *handler) findDeletedContacts(c *gin.Context) {
	contacts, err := h.store.ListDeleted(c.Request.Context())
	if err != nil {
		h.abortWithStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findContactByID responds with the contact whose id matches the URL, whether it is active or
// soft-deleted.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56
func (h *handler) findContactByID(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	contact, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		h.abortWithStoreError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID replaces all fields of the contact with the values in the JSON. Fields
// missing from the JSON are cleared. An unknown id is not an error.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "PUT" --header "Content-Type: application/json" --data '{"firstName": "Ann", "lastName": "Lee", "countryCode": "+44", "contactNumber": "7000000000", "dob": "1990-01-01", "email": "ann@x.com"}'
func (h *handler) updateContactByID(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	if err := h.store.Update(c.Request.Context(), id, fields); err != nil {
		h.abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// softDeleteContactByID moves the contact into the list of deleted contacts.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/delete/56 --request "PUT"
func (h *handler) softDeleteContactByID(c *gin.Context) {
	h.mutateByID(c, h.store.SoftDelete)
}

// recoverContactByID moves a soft-deleted contact back into the active list.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/recover/56 --request "PUT"
func (h *handler) recoverContactByID(c *gin.Context) {
	h.mutateByID(c, h.store.Recover)
}

// deleteContactByID removes the contact from the database for good.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/permanent/56 --request "DELETE"
func (h *handler) deleteContactByID(c *gin.Context) {
	h.mutateByID(c, h.store.PermanentDelete)
}

func (h *handler) mutateByID(c *gin.Context, mutate func(context.Context, int64) error) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	if err := mutate(c.Request.Context(), id); err != nil {
		h.abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// readiness answers 200 as long as the database can be reached.
func (h *handler) readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("database not reachable", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "database not reachable"})
		return
	}
	c.Status(http.StatusOK)
}

// abortWithStoreError answers a failed storage operation with an internal server error that
// carries the failure detail.
func (h *handler) abortWithStoreError(c *gin.Context, err error) {
	h.logger.Error("storage operation failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestID(c)),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"message": "storage operation failed",
		"error":   err.Error(),
	})
}

// parseId reads the id URL parameter. Anything that is not an integer cannot name a contact,
// so the request is answered with NOT FOUND without asking the database.
func parseId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// bindFields decodes the contact fields from the request body.
func bindFields(c *gin.Context) (model.Fields, bool) {
	var fields model.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "request body too large"})
		} else {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		}
		return model.Fields{}, false
	}
	return fields, true
}
