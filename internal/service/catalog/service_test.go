package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/consult-booking/internal/domain"
	"github.com/m04kA/consult-booking/internal/service/catalog/models"
	"github.com/m04kA/consult-booking/internal/testutil/memstore"
	"github.com/m04kA/consult-booking/pkg/logger"
	"github.com/m04kA/consult-booking/pkg/ptr"
)

var (
	admin = domain.Identity{UserID: 1, Role: domain.RoleAdmin}
	owner = domain.Identity{UserID: 500, Role: domain.RoleConsultant}
)

type fixture struct {
	store      *memstore.Store
	svc        *Service
	consultant *domain.Consultant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	consultant := store.AddConsultant(domain.Consultant{UserID: owner.UserID, Timezone: "America/Toronto", IsActive: true})
	svc := NewService(store, store.Consultants(), memstore.NewTxManager(store), logger.NewNop())
	return &fixture{store: store, svc: svc, consultant: consultant}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) template(t *testing.T, name string, min, max string) *models.TemplateResponse {
	t.Helper()
	resp, err := f.svc.UpsertTemplate(context.Background(), admin, &models.UpsertTemplateRequest{
		Name: name, MinPrice: dec(min), MaxPrice: dec(max), IsActive: true,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) option(t *testing.T, templateID int64, minutes int, min, max string) *models.DurationOptionResponse {
	t.Helper()
	resp, err := f.svc.UpsertDurationOption(context.Background(), admin, &models.UpsertDurationOptionRequest{
		TemplateID: templateID, DurationMinutes: minutes, MinPrice: dec(min), MaxPrice: dec(max), IsActive: true,
	})
	require.NoError(t, err)
	return resp
}

func TestUpsertTemplate_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  models.UpsertTemplateRequest
		code domain.ErrorCode
	}{
		{name: "min equals max", req: models.UpsertTemplateRequest{Name: "PR", MinPrice: dec("100"), MaxPrice: dec("100")}, code: domain.CodePriceOutOfBand},
		{name: "negative min", req: models.UpsertTemplateRequest{Name: "PR", MinPrice: dec("-1"), MaxPrice: dec("100")}, code: domain.CodePriceOutOfBand},
		{name: "no name", req: models.UpsertTemplateRequest{MinPrice: dec("1"), MaxPrice: dec("100")}, code: domain.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.UpsertTemplate(context.Background(), admin, &req)
			assert.Equal(t, tt.code, domain.CodeOf(err))
		})
	}

	_, err := f.svc.UpsertTemplate(context.Background(), owner, &models.UpsertTemplateRequest{
		Name: "PR", MinPrice: dec("1"), MaxPrice: dec("100"),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpsertTemplate_CannotNarrowBelowOptions(t *testing.T) {
	f := newFixture(t)
	tmpl := f.template(t, "Express Entry", "50", "300")
	f.option(t, tmpl.ID, 60, "75", "250")

	_, err := f.svc.UpsertTemplate(context.Background(), admin, &models.UpsertTemplateRequest{
		ID: tmpl.ID, Name: tmpl.Name, MinPrice: dec("50"), MaxPrice: dec("200"), IsActive: true,
	})

	assert.ErrorIs(t, err, domain.ErrPriceOutOfBand)
}

func TestUpsertDurationOption_Validation(t *testing.T) {
	f := newFixture(t)
	tmpl := f.template(t, "Study Permit", "50", "300")

	tests := []struct {
		name    string
		minutes int
		min     string
		max     string
		code    domain.ErrorCode
	}{
		{name: "band wider than template", minutes: 60, min: "40", max: "200", code: domain.CodePriceOutOfBand},
		{name: "empty band", minutes: 60, min: "100", max: "100", code: domain.CodePriceOutOfBand},
		{name: "duration off step", minutes: 50, min: "60", max: "200", code: domain.CodeInvalidDuration},
		{name: "duration too long", minutes: 255, min: "60", max: "200", code: domain.CodeInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpsertDurationOption(context.Background(), admin, &models.UpsertDurationOptionRequest{
				TemplateID: tmpl.ID, DurationMinutes: tt.minutes, MinPrice: dec(tt.min), MaxPrice: dec(tt.max),
			})
			assert.Equal(t, tt.code, domain.CodeOf(err))
		})
	}
}

func TestCreateConsultantService_DefaultPrices(t *testing.T) {
	f := newFixture(t)
	tmpl := f.template(t, "Visitor Visa", "50", "300")
	f.option(t, tmpl.ID, 30, "60", "120")
	f.option(t, tmpl.ID, 60, "100", "250")

	resp, err := f.svc.CreateConsultantService(context.Background(), owner, &models.CreateServiceRequest{
		ConsultantID: f.consultant.ID, TemplateID: tmpl.ID,
	})
	require.NoError(t, err)

	require.Len(t, resp.Prices, 2)
	assert.Equal(t, 30, resp.Prices[0].DurationMinutes)
	assert.True(t, dec("60").Equal(resp.Prices[0].Price))
	assert.False(t, resp.Prices[0].IsActive)
	assert.True(t, dec("100").Equal(resp.Prices[1].Price))

	// Неактивные цены не видны публично
	public, err := f.svc.ListServices(context.Background(), nil, f.consultant.ID, false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Empty(t, public[0].Prices)

	_, err = f.svc.CreateConsultantService(context.Background(), owner, &models.CreateServiceRequest{
		ConsultantID: f.consultant.ID, TemplateID: tmpl.ID,
	})
	assert.ErrorIs(t, err, ErrServiceAlreadyExists)
}

func TestUpsertPrice(t *testing.T) {
	f := newFixture(t)
	tmpl := f.template(t, "Work Permit", "50", "300")
	opt := f.option(t, tmpl.ID, 60, "75", "175")
	service, err := f.svc.CreateConsultantService(context.Background(), owner, &models.CreateServiceRequest{
		ConsultantID: f.consultant.ID, TemplateID: tmpl.ID,
	})
	require.NoError(t, err)

	req := func(price string, active *bool) *models.UpsertPriceRequest {
		return &models.UpsertPriceRequest{
			ConsultantID:        f.consultant.ID,
			ConsultantServiceID: service.ID,
			DurationOptionID:    opt.ID,
			Price:               dec(price),
			IsActive:            active,
		}
	}

	t.Run("out of band leaves price untouched", func(t *testing.T) {
		_, err := f.svc.UpsertPrice(context.Background(), owner, req("200", ptr.Ptr(true)))
		assert.ErrorIs(t, err, domain.ErrPriceOutOfBand)

		stored, err := f.store.GetPrice(context.Background(), service.ID, opt.ID)
		require.NoError(t, err)
		assert.True(t, dec("75").Equal(stored.Price))
		assert.False(t, stored.IsActive)
	})

	t.Run("band edges are inclusive", func(t *testing.T) {
		_, err := f.svc.UpsertPrice(context.Background(), owner, req("75", ptr.Ptr(true)))
		require.NoError(t, err)
		resp, err := f.svc.UpsertPrice(context.Background(), owner, req("175", nil))
		require.NoError(t, err)
		assert.True(t, resp.IsActive, "activity is kept when not given")
		assert.True(t, dec("175").Equal(resp.Price))
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := f.svc.UpsertPrice(context.Background(), owner, req("150", ptr.Ptr(true)))
		require.NoError(t, err)
		second, err := f.svc.UpsertPrice(context.Background(), owner, req("150", ptr.Ptr(true)))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	})

	t.Run("another consultant", func(t *testing.T) {
		_, err := f.svc.UpsertPrice(context.Background(), domain.Identity{UserID: 77, Role: domain.RoleConsultant}, req("150", nil))
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("option of another template", func(t *testing.T) {
		other := f.template(t, "Citizenship", "50", "300")
		otherOpt := f.option(t, other.ID, 60, "75", "175")
		r := req("100", nil)
		r.DurationOptionID = otherOpt.ID
		_, err := f.svc.UpsertPrice(context.Background(), admin, r)
		assert.ErrorIs(t, err, domain.ErrTemplateMismatch)
	})
}

func TestListServices_InactiveRequiresAccess(t *testing.T) {
	f := newFixture(t)
	tmpl := f.template(t, "Spousal Sponsorship", "50", "300")
	service, err := f.svc.CreateConsultantService(context.Background(), owner, &models.CreateServiceRequest{
		ConsultantID: f.consultant.ID, TemplateID: tmpl.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateConsultantService(context.Background(), owner, &models.UpdateServiceRequest{
		ConsultantID: f.consultant.ID, ServiceID: service.ID, IsActive: ptr.Ptr(false),
	})
	require.NoError(t, err)

	public, err := f.svc.ListServices(context.Background(), nil, f.consultant.ID, false)
	require.NoError(t, err)
	assert.Empty(t, public)

	_, err = f.svc.ListServices(context.Background(), nil, f.consultant.ID, true)
	assert.ErrorIs(t, err, ErrAccessDenied)

	own, err := f.svc.ListServices(context.Background(), &owner, f.consultant.ID, true)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.False(t, own[0].IsActive)
}

func TestListTemplatesAndDurations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := f.svc.UpsertTemplate(ctx, admin, &models.UpsertTemplateRequest{
		Name: "Appeals", MinPrice: dec("100"), MaxPrice: dec("400"), OrderIndex: 2, IsActive: true,
	})
	require.NoError(t, err)
	first, err := f.svc.UpsertTemplate(ctx, admin, &models.UpsertTemplateRequest{
		Name: "Initial Assessment", MinPrice: dec("0"), MaxPrice: dec("150"), OrderIndex: 1, IsActive: true,
	})
	require.NoError(t, err)
	_, err = f.svc.UpsertTemplate(ctx, admin, &models.UpsertTemplateRequest{
		Name: "Retired", MinPrice: dec("10"), MaxPrice: dec("20"), OrderIndex: 0,
	})
	require.NoError(t, err)

	active, err := f.svc.ListTemplates(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)

	all, err := f.svc.ListTemplates(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	f.option(t, second.ID, 60, "150", "300")
	f.option(t, second.ID, 30, "100", "200")
	durations, err := f.svc.ListDurations(ctx, second.ID, true)
	require.NoError(t, err)
	require.Len(t, durations, 2)
	assert.Equal(t, 30, durations[0].DurationMinutes)
	assert.Equal(t, 60, durations[1].DurationMinutes)

	_, err = f.svc.ListDurations(ctx, 9999, true)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
