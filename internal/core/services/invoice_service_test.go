package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/billingapp/billing_backend/internal/apperrors"
	"github.com/billingapp/billing_backend/internal/core/domain"
	portssvc "github.com/billingapp/billing_backend/internal/core/ports/services"
	"github.com/billingapp/billing_backend/internal/core/services"
	"github.com/billingapp/billing_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) AddInvoice(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// --- Fixed clock ---
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testInstant = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// --- Test Suite ---
type InvoiceServiceTestSuite struct {
	suite.Suite
	mockRepo *MockInvoiceRepository
	service  portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInvoiceRepository)
	suite.service = services.NewInvoiceService(suite.mockRepo, fixedClock{now: testInstant})
}

func (suite *InvoiceServiceTestSuite) draftInvoiceWithLine() *domain.Invoice {
	invoice := domain.NewInvoice(uuid.NewString(), domain.EUR)
	price := domain.NewMoney(decimal.RequireFromString("1.29"), domain.EUR)
	line, err := domain.NewInvoiceLine("Banana", price, decimal.NewFromInt(4))
	suite.Require().NoError(err)
	suite.Require().NoError(invoice.AddLine(line))
	return invoice
}

func (suite *InvoiceServiceTestSuite) issuedInvoice() *domain.Invoice {
	invoice := suite.draftInvoiceWithLine()
	suite.Require().NoError(invoice.Issue(fixedClock{now: testInstant}))
	return invoice
}

// --- Test Cases ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{CurrencyCode: "EUR"}

	suite.mockRepo.On("AddInvoice", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Currency() == domain.EUR && inv.Status() == domain.StatusDraft && inv.InvoiceID() != ""
	})).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal(domain.StatusDraft, invoice.Status())
	suite.Equal(domain.EUR, invoice.Currency())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_KeepsRequestedID() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	req := dto.CreateInvoiceRequest{InvoiceID: invoiceID, CurrencyCode: "JPY"}

	suite.mockRepo.On("AddInvoice", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.InvoiceID() == invoiceID && inv.Currency() == domain.JPY
	})).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(invoiceID, invoice.InvoiceID())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{CurrencyCode: "GBP"}

	invoice, err := suite.service.CreateInvoice(ctx, req)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrCurrencyMismatch)
	suite.mockRepo.AssertNotCalled(suite.T(), "AddInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Duplicate() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{InvoiceID: uuid.NewString(), CurrencyCode: "EUR"}

	suite.mockRepo.On("AddInvoice", ctx, mock.AnythingOfType("*domain.Invoice")).Return(apperrors.ErrDuplicate).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_NotFound() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	suite.mockRepo.On("FindInvoiceByID", ctx, invoiceID).Return(nil, apperrors.ErrNotFound).Once()

	invoice, err := suite.service.GetInvoiceByID(ctx, invoiceID)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestAddInvoiceLine_Success() {
	ctx := context.Background()
	invoice := domain.NewInvoice(uuid.NewString(), domain.EUR)
	req := dto.AddInvoiceLineRequest{
		Description: "Banana",
		UnitPrice:   decimal.RequireFromString("1.29"),
		Quantity:    decimal.NewFromInt(4),
	}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return len(inv.Lines()) == 1 && inv.Lines()[0].Description() == "Banana"
	})).Return(nil).Once()

	updated, err := suite.service.AddInvoiceLine(ctx, invoice.InvoiceID(), req)

	suite.Require().NoError(err)
	expected := domain.NewMoney(decimal.RequireFromString("5.16"), domain.EUR)
	suite.True(updated.Subtotal().Equal(expected))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestAddInvoiceLine_InvalidQuantityNotSaved() {
	ctx := context.Background()
	invoice := domain.NewInvoice(uuid.NewString(), domain.EUR)
	req := dto.AddInvoiceLineRequest{
		Description: "Banana",
		UnitPrice:   decimal.RequireFromString("1.29"),
		Quantity:    decimal.Zero,
	}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()

	updated, err := suite.service.AddInvoiceLine(ctx, invoice.InvoiceID(), req)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidQuantity)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestSetInvoiceDiscount_Success() {
	ctx := context.Background()
	invoice := suite.draftInvoiceWithLine()
	req := dto.SetAmountRequest{Amount: decimal.RequireFromString("0.39")}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, invoice).Return(nil).Once()

	updated, err := suite.service.SetInvoiceDiscount(ctx, invoice.InvoiceID(), req)

	suite.Require().NoError(err)
	total, err := updated.Total()
	suite.Require().NoError(err)
	suite.True(total.Equal(domain.NewMoney(decimal.RequireFromString("4.77"), domain.EUR)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSetInvoiceTax_NotDraft() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	req := dto.SetAmountRequest{Amount: decimal.RequireFromString("1.00")}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()

	updated, err := suite.service.SetInvoiceTax(ctx, invoice.InvoiceID(), req)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvoiceOperation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_Success() {
	ctx := context.Background()
	invoice := suite.draftInvoiceWithLine()

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Status() == domain.StatusIssued
	})).Return(nil).Once()

	updated, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID())

	suite.Require().NoError(err)
	suite.Equal(domain.StatusIssued, updated.Status())
	suite.Require().NotNil(updated.IssuedAt())
	suite.Equal(testInstant, *updated.IssuedAt())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_NoLines() {
	ctx := context.Background()
	invoice := domain.NewInvoice(uuid.NewString(), domain.EUR)

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()

	updated, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvoiceOperation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_Success() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	req := dto.IdempotentOperationRequest{IdempotencyKey: "void-1"}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Status() == domain.StatusVoid && inv.VoidIdempotencyKey() == "void-1"
	})).Return(nil).Once()

	updated, err := suite.service.VoidInvoice(ctx, invoice.InvoiceID(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusVoid, updated.Status())
	suite.NotNil(updated.IssuedAt(), "issuedAt is retained after voiding")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_ReplaySameKey() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	suite.Require().NoError(invoice.Void(fixedClock{now: testInstant}, "void-1"))
	voidedAt := *invoice.VoidedAt()

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, invoice).Return(nil).Once()

	updated, err := suite.service.VoidInvoice(ctx, invoice.InvoiceID(), dto.IdempotentOperationRequest{IdempotencyKey: "void-1"})

	suite.Require().NoError(err)
	suite.Equal(voidedAt, *updated.VoidedAt())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_Success() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	req := dto.IdempotentOperationRequest{IdempotencyKey: "pay-1"}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, mock.MatchedBy(func(inv *domain.Invoice) bool {
		return inv.Status() == domain.StatusPaid && inv.PaidIdempotencyKey() == "pay-1"
	})).Return(nil).Once()

	updated, err := suite.service.MarkInvoicePaid(ctx, invoice.InvoiceID(), req)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, updated.Status())
	suite.Require().NotNil(updated.PaidAt())
	suite.Equal(testInstant, *updated.PaidAt())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_DifferentKeyConflict() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	suite.Require().NoError(invoice.MarkPaid(fixedClock{now: testInstant}, "pay-1"))

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()

	updated, err := suite.service.MarkInvoicePaid(ctx, invoice.InvoiceID(), dto.IdempotentOperationRequest{IdempotencyKey: "pay-2"})

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvoiceOperation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoicePaid_SaveError() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	expectedErr := assert.AnError

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID()).Return(invoice, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, invoice).Return(expectedErr).Once()

	updated, err := suite.service.MarkInvoicePaid(ctx, invoice.InvoiceID(), dto.IdempotentOperationRequest{IdempotencyKey: "pay-1"})

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
