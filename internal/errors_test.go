package internal_test

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/workforce-admin/internal"
)

var _ = Describe("AppError", func() {
	It("matches sentinels by type and code through wrapping", func() {
		err := fmt.Errorf("respond: %w", errors.ErrSelfApproval.WithCause(stdErrors.New("same actor")))
		Expect(stdErrors.Is(err, errors.ErrSelfApproval)).To(BeTrue())
		Expect(stdErrors.Is(err, errors.ErrForbidden)).To(BeFalse())
		Expect(errors.HasType(err, errors.ErrorTypeForbidden)).To(BeTrue())
	})

	It("never mutates the sentinel when adding a cause", func() {
		_ = errors.ErrRequestNotPending.WithCause(stdErrors.New("boom"))
		Expect(errors.ErrRequestNotPending.Cause).To(BeNil())
	})

	It("renders the response envelope", func() {
		status, body := errors.ErrRequestNotPending.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusConflict))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(MatchJSON(`{"error":{"type":"INVALID_STATE","code":"REQUEST_NOT_PENDING","message":"Request has already been responded to"}}`))
	})

	It("restores validation details from a response body", func() {
		_, body := errors.NewValidationFieldError("quantity", "quantity must be positive", errors.ErrCodeInvalidQuantity).ToHTTPResponse()
		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())

		var decoded errors.Response
		Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
		Expect(decoded.Error.Type).To(Equal(errors.ErrorTypeValidation))
		Expect(decoded.Error.Error()).To(Equal("quantity must be positive"))
		details, ok := decoded.Error.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors[0].Field).To(Equal("quantity"))
	})

	It("reports transport failures as external errors", func() {
		err := errors.NewTransportError("GET /requests failed", stdErrors.New("connection refused"))
		Expect(err.StatusCode).To(Equal(http.StatusBadGateway))
		Expect(err.Error()).To(ContainSubstring("connection refused"))
		Expect(stdErrors.Unwrap(err)).To(MatchError("connection refused"))
	})
})
