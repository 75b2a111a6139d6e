package challan

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamunda-enterprise/challan/internal/platform/httpx"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

type serviceFixture struct {
	repo     *mockRepository
	renderer *mockRenderer
	metrics  *mockMetrics
	svc      *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		repo:     newMockRepository(),
		renderer: &mockRenderer{dir: t.TempDir()},
		metrics:  newMockMetrics(),
	}
	f.svc = NewService(f.repo, f.renderer, nil, f.metrics)
	clock := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	f.svc.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return f
}

func widgetItems() []RawItem {
	return []RawItem{{
		Description: "Widget",
		Quantity:    Number{Value: 2, Set: true},
		Rate:        Number{Value: 50, Set: true},
	}}
}

func validRequest() ChallanRequest {
	return ChallanRequest{Date: "2025-01-15", Buyer: "Test Co", Items: widgetItems()}
}

func TestCreateDraftUsesTemporaryNumber(t *testing.T) {
	f := newServiceFixture(t)

	c, err := f.svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, c.Status)
	assert.Regexp(t, `^DRAFT-\d{13}$`, c.InvoiceNumber)
	assert.Equal(t, "PCS", c.Items[0].Per)
	assert.Empty(t, f.metrics.finalized)
}

func TestCreateCompletedAllocatesNumber(t *testing.T) {
	f := newServiceFixture(t)
	req := validRequest()
	req.Status = StatusCompleted

	first, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "000001", first.InvoiceNumber)
	assert.Equal(t, "000002", second.InvoiceNumber)
	assert.Equal(t, 2, f.metrics.finalized["create"])
}

func TestCreateValidation(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Create(context.Background(), ChallanRequest{Date: "2025-01-15", Buyer: "Test Co"})
	require.ErrorIs(t, err, ErrMissingFields)

	req := validRequest()
	req.Status = "archived"
	_, err = f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidStatus)

	req = validRequest()
	req.Items = []RawItem{{Description: "Widget", Rate: Number{Value: 1, Set: true}}}
	_, err = f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateDraftToCompletedAllocatesOnce(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	completed := StatusCompleted
	updated, err := f.svc.Update(ctx, draft.ID.String(), UpdateRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, "000001", updated.InvoiceNumber)
	assert.Equal(t, StatusCompleted, updated.Status)

	buyer := "Renamed Co"
	again, err := f.svc.Update(ctx, draft.ID.String(), UpdateRequest{Buyer: &buyer, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, "000001", again.InvoiceNumber)
	assert.Equal(t, "Renamed Co", again.Buyer)
	assert.Equal(t, 1, f.metrics.finalized["update"])
}

func TestUpdateKeepsFieldsWhenEmpty(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	empty := ""
	note := "Vehicle GJ06"
	updated, err := f.svc.Update(ctx, c.ID.String(), UpdateRequest{Date: &empty, Buyer: &empty, Note2: &note})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", updated.Date)
	assert.Equal(t, "Test Co", updated.Buyer)
	assert.Equal(t, "Vehicle GJ06", updated.Note2)
}

func TestUpdateRejectsRevertToDraft(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	req := validRequest()
	req.Status = StatusCompleted
	c, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	draft := StatusDraft
	_, err = f.svc.Update(ctx, c.ID.String(), UpdateRequest{Status: &draft})
	require.ErrorIs(t, err, ErrCannotRevert)

	stored, err := f.svc.Get(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestGetMalformedIDIsNotFound(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Get(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Get(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDraftCreatesThenUpdates(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	c, created, err := f.svc.SaveDraft(ctx, ChallanRequest{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "15/1/2025", c.Date)
	assert.Equal(t, "", c.Buyer)
	assert.Empty(t, c.Items)
	assert.Equal(t, StatusDraft, c.Status)

	req := validRequest()
	req.ID = c.ID.String()
	updated, created, err := f.svc.SaveDraft(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, "Test Co", updated.Buyer)
	assert.Len(t, updated.Items, 1)
}

func TestSaveDraftRejectsCompletedAndUnknown(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	req := validRequest()
	req.Status = StatusCompleted
	c, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, _, err = f.svc.SaveDraft(ctx, ChallanRequest{ID: c.ID.String()})
	require.ErrorIs(t, err, ErrCannotRevert)

	_, _, err = f.svc.SaveDraft(ctx, ChallanRequest{ID: uuid.NewString()})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAndRenderNewChallan(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	c, path, err := f.svc.SaveAndRender(ctx, validRequest())
	require.NoError(t, err)
	assert.Regexp(t, sixDigits, c.InvoiceNumber)
	assert.Equal(t, StatusCompleted, c.Status)
	assert.Equal(t, "100.00", c.Total().StringFixed(2))
	assert.FileExists(t, path)

	require.Len(t, f.renderer.rendered, 1)
	assert.Equal(t, c.InvoiceNumber, f.renderer.rendered[0].InvoiceNumber)
	assert.Equal(t, 1, f.metrics.finalized["save_download"])
}

func TestSaveAndRenderCompletesDraftOnce(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.ID = draft.ID.String()
	first, _, err := f.svc.SaveAndRender(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "000001", first.InvoiceNumber)

	second, _, err := f.svc.SaveAndRender(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "000001", second.InvoiceNumber)
	assert.Equal(t, 1, f.metrics.finalized["save_download"])
}

func TestRenderPDFRequiresCompleted(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)
	_, _, err = f.svc.RenderPDF(ctx, draft.ID.String())
	require.ErrorIs(t, err, ErrNotCompleted)

	req := validRequest()
	req.Status = StatusCompleted
	done, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	c, path, err := f.svc.RenderPDF(ctx, done.ID.String())
	require.NoError(t, err)
	assert.Equal(t, done.ID, c.ID)
	assert.FileExists(t, path)

	byNumber, _, err := f.svc.RenderPDFByNumber(ctx, done.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, done.ID, byNumber.ID)
}

func TestRenderFailureIsWrapped(t *testing.T) {
	f := newServiceFixture(t)
	f.renderer.err = errors.New("disk full")

	_, _, err := f.svc.SaveAndRender(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 500, httpx.StatusOf(err))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, validRequest())
		require.NoError(t, err)
	}
	req := validRequest()
	req.Status = StatusCompleted
	newest, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	page, p, err := f.svc.List(ctx, "", 1, 3)
	require.NoError(t, err)
	assert.Len(t, page, 3)
	assert.Equal(t, newest.ID, page[0].ID)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.Pages)

	completed, p, err := f.svc.List(ctx, "completed", 0, 0)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}

func TestDelete(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, c.ID.String()))
	require.ErrorIs(t, f.svc.Delete(ctx, c.ID.String()), ErrNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, "bogus"), ErrNotFound)
}

func TestAllocatorFallbackDuringCompletion(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.lastNumberErr = errors.New("timeout")
	req := validRequest()
	req.Status = StatusCompleted

	c, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, sixDigits, c.InvoiceNumber)
	assert.Equal(t, 1, f.metrics.fallbacks)
}
