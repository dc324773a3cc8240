//go:build unit

package api_test

import (
	"net/http"
	"testing"

	dompayment "cruise-booking/internal/domain/payment"
	"cruise-booking/internal/handler/api"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/commands"
	"cruise-booking/internal/usecase/queries"
	"cruise-booking/tests/common/builder"
	commonhttp "cruise-booking/tests/common/httptest"
	"cruise-booking/tests/common/testutil"
	commandsmock "cruise-booking/tests/mock/commands"
	queriesmock "cruise-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	handler      *api.PaymentHandler
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/orders/:id/payments", s.handler.InitiatePayment)
	s.router.POST("/payments/callback", s.handler.Callback)
	s.router.GET("/payments/:paymentNo", s.handler.GetPayment)
	s.router.POST("/payments/:paymentNo/poll", s.handler.Poll)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func callbackRequestBody() map[string]any {
	return map[string]any{
		"payment_no":     "PAY20260829abcd0001",
		"order_no":       "ORD20260829abcd0001",
		"amount_cents":   295000,
		"status":         "success",
		"transaction_id": "tx-0001",
		"timestamp":      1785578400,
		"signature":      "0f3a",
	}
}

// ================================================================================
// TestInitiatePayment
// ================================================================================

func (s *PaymentHandlerTestSuite) TestInitiatePayment() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/payments"
	reqBody := map[string]any{"method": "card"}

	builtPayment, err := builder.NewPaymentBuilder().With(func(b *builder.PaymentBuilder) {
		b.Method = dompayment.MethodCard
	}).BuildDomain()
	s.Require().NoError(err)

	s.Run("success: returns 201 with the attempt", func() {
		s.mockCommands.EXPECT().
			InitiatePayment(gomock.Any(), orderID, dompayment.MethodCard).
			Return(builtPayment, nil).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]any
		commonhttp.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(builtPayment.PaymentNo(), body["paymentNo"])
		s.Equal("pending", body["status"])
		s.EqualValues(295000, body["amountCents"])
	})

	s.Run("error: 400 on unknown method", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("method", "bitcoin"))
		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 on malformed order ID", func() {
		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/orders/nope/payments", reqBody, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 409 when the order is not payable", func() {
		s.mockCommands.EXPECT().
			InitiatePayment(gomock.Any(), orderID, dompayment.MethodCard).
			Return(nil, errs.ErrInvalidStateTransition).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})

	s.Run("error: 502 when the payment provider is down", func() {
		s.mockCommands.EXPECT().
			InitiatePayment(gomock.Any(), orderID, dompayment.MethodCard).
			Return(nil, errs.ErrPaymentGatewayUnavailable).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "")
	})

	s.Run("error: 409 when the order expired", func() {
		s.mockCommands.EXPECT().
			InitiatePayment(gomock.Any(), orderID, dompayment.MethodCard).
			Return(nil, errs.ErrOrderExpired).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}

// ================================================================================
// TestCallback
// ================================================================================

func (s *PaymentHandlerTestSuite) TestCallback() {
	url := "/payments/callback"
	reqBody := callbackRequestBody()

	s.Run("success: acknowledges a settlement", func() {
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).
			Return(&commands.CallbackResult{PaymentNo: "PAY20260829abcd0001"}, nil).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]any
		commonhttp.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("PAY20260829abcd0001", body["paymentNo"])
		s.Equal("ok", body["result"])
		s.NotContains(body, "duplicate")
	})

	s.Run("success: flags a replay", func() {
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).
			Return(&commands.CallbackResult{PaymentNo: "PAY20260829abcd0001", Duplicate: true}, nil).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]any
		commonhttp.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(true, body["duplicate"])
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseOrder{
			{name: "missing field: payment_no", mutate: testutil.Field("payment_no", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: signature", mutate: testutil.Field("signature", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: timestamp", mutate: testutil.Field("timestamp", nil), expectCode: http.StatusBadRequest},
			{name: "invalid status value", mutate: testutil.Field("status", "maybe"), expectCode: http.StatusBadRequest},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				commonhttp.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 401 on a bad signature", func() {
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrInvalidSignature).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})

	s.Run("error: 422 on an amount mismatch", func() {
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrAmountMismatch).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "")
	})

	s.Run("error: 404 on an unknown payment", func() {
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrPaymentNotFound).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}

// ================================================================================
// TestPollAndGet
// ================================================================================

func (s *PaymentHandlerTestSuite) TestPoll() {
	paymentNo := "PAY20260829abcd0001"

	s.Run("success: returns the resolved status", func() {
		s.mockCommands.EXPECT().PollPayment(gomock.Any(), paymentNo).
			Return(dompayment.StatusSuccess, nil).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/"+paymentNo+"/poll", nil, "")

		var body map[string]string
		commonhttp.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(paymentNo, body["paymentNo"])
		s.Equal("success", body["status"])
	})

	s.Run("error: 404 on an unknown payment", func() {
		s.mockCommands.EXPECT().PollPayment(gomock.Any(), paymentNo).
			Return(dompayment.Status(""), errs.ErrPaymentNotFound).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/"+paymentNo+"/poll", nil, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}

func (s *PaymentHandlerTestSuite) TestGetPayment() {
	view := &queries.PaymentView{
		ID:          uuid.New(),
		PaymentNo:   "PAY20260829abcd0001",
		OrderNo:     "ORD20260829abcd0001",
		AmountCents: 295000,
		Method:      "card",
		Status:      "success",
	}

	s.Run("success: returns 200 with the payment view", func() {
		s.mockQueries.EXPECT().GetByPaymentNo(gomock.Any(), view.PaymentNo).
			Return(view, nil).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/"+view.PaymentNo, nil, "")

		var body map[string]any
		commonhttp.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.PaymentNo, body["paymentNo"])
		s.Equal("success", body["status"])
		s.EqualValues(295000, body["amountCents"])
	})

	s.Run("error: 404 on an unknown payment", func() {
		s.mockQueries.EXPECT().GetByPaymentNo(gomock.Any(), "PAY-missing").
			Return(nil, errs.ErrPaymentNotFound).Times(1)

		rec := commonhttp.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/PAY-missing", nil, "")
		commonhttp.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}
