package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-console/internal/form"
	"github.com/noah-isme/sma-adp-console/internal/list"
	"github.com/noah-isme/sma-adp-console/internal/schema"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

type mockAPI struct {
	page      list.Page
	listErr   error
	listCalls int
	getEntity schema.Entity
	created   []schema.Entity
	createErr error
	updated   map[string]schema.Entity
	updateErr error
	deleted   []string
	deleteErr error
	onCreate  func()
	onDelete  func()
}

func (m *mockAPI) List(ctx context.Context, base string, page, size int) (list.Page, error) {
	m.listCalls++
	if m.listErr != nil {
		return list.Page{}, m.listErr
	}
	return m.page, nil
}

func (m *mockAPI) Get(ctx context.Context, base, id string) (schema.Entity, error) {
	if m.getEntity == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "not found")
	}
	return m.getEntity, nil
}

func (m *mockAPI) Create(ctx context.Context, base string, entity schema.Entity) (schema.Entity, error) {
	if m.onCreate != nil {
		m.onCreate()
	}
	if m.createErr != nil {
		return nil, m.createErr
	}
	stored := entity.Clone()
	stored["id"] = "generated"
	m.created = append(m.created, stored)
	return stored, nil
}

func (m *mockAPI) Update(ctx context.Context, base, id string, entity schema.Entity) (schema.Entity, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updated == nil {
		m.updated = make(map[string]schema.Entity)
	}
	m.updated[id] = entity
	return entity, nil
}

func (m *mockAPI) Delete(ctx context.Context, base, id string) error {
	if m.onDelete != nil {
		m.onDelete()
	}
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func studentPage() list.Page {
	return list.Page{
		Items: []schema.Entity{
			{"id": "1", "nis": "2024001", "full_name": "Ahmad Fauzi", "gender": "M"},
			{"id": "2", "nis": "2024002", "full_name": "Siti Rahma", "gender": "F"},
		},
		PageIndex:     0,
		PageSize:      20,
		TotalElements: 2,
		TotalPages:    1,
	}
}

func newStudentController(mock *mockAPI) *EntityList {
	return New(schema.Student(), mock, nil, nil)
}

func TestLoadPopulatesStore(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, StateLoaded, c.State())
	assert.Len(t, c.VisibleItems(), 2)
	assert.Empty(t, c.LoadError())
}

func TestLoadFailureDegradesToEmptyPageWithMessage(t *testing.T) {
	mock := &mockAPI{listErr: appErrors.Clone(appErrors.ErrNetwork, "connection refused")}
	c := newStudentController(mock)

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateLoaded, c.State())
	assert.Empty(t, c.VisibleItems())
	assert.Contains(t, c.LoadError(), "failed to load students")
	assert.Contains(t, c.LoadError(), "connection refused")
	assert.Equal(t, 1, mock.listCalls, "no automatic retry")
}

func TestEmptyPageRendersNoDataAndIssuesNoFurtherRequests(t *testing.T) {
	mock := &mockAPI{page: list.Page{Items: []schema.Entity{}, PageSize: 20}}
	c := newStudentController(mock)

	require.NoError(t, c.Load(context.Background()))
	assert.Empty(t, c.Rows())
	assert.Equal(t, 1, mock.listCalls)
}

func TestSearchFiltersClientSideWithoutNetwork(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	c.Search("Ahmad")
	visible := c.VisibleItems()
	require.Len(t, visible, 1)
	assert.Equal(t, "Ahmad Fauzi", visible[0].String("full_name"))
	assert.Equal(t, 1, mock.listCalls, "filtering must not re-query the server")

	c.ResetFilters()
	assert.Len(t, c.VisibleItems(), 2)
}

func TestSaveWithMissingRequiredFieldIssuesNoRequest(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	c.OpenCreate()
	c.SetField("full_name", "Ahmad Fauzi")
	// nis left empty

	err := c.Save(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	assert.Contains(t, c.ValidationErrors(), "nis")
	assert.Empty(t, mock.created)
	assert.Equal(t, form.ModeCreate, c.EditState().Mode, "form stays open")
}

func TestSaveCreateClosesFormAndReloads(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	c.OpenCreate()
	c.SetField("nis", "2024009")
	c.SetField("full_name", "Rina Putri")
	c.SetField("gender", "F")
	c.SetField("birth_date", "2008-01-30")

	require.NoError(t, c.Save(context.Background()))
	require.Len(t, mock.created, 1)
	assert.Equal(t, "2024009", mock.created[0].String("nis"))
	assert.Equal(t, 2, mock.listCalls, "page reloads after create")
	assert.Equal(t, form.EditState{Mode: form.ModeCreate}, c.EditState())
	assert.Empty(t, c.FieldValue("nis"), "form cleared after save")
}

func TestSaveUpdateTargetsEditedEntity(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.OpenEdit(context.Background(), "2"))
	require.Equal(t, form.EditState{Mode: form.ModeEdit, TargetID: "2"}, c.EditState())

	c.SetField("full_name", "Siti Rahma Dewi")
	c.SetField("birth_date", "2008-07-02")
	require.NoError(t, c.Save(context.Background()))

	require.Contains(t, mock.updated, "2")
	assert.Equal(t, "Siti Rahma Dewi", mock.updated["2"].String("full_name"))
}

func TestSaveServerFailureKeepsDraftIntact(t *testing.T) {
	mock := &mockAPI{page: studentPage(), updateErr: appErrors.New("NOT_FOUND", 404, "student not found")}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.OpenEdit(context.Background(), "1"))
	c.SetField("full_name", "Ahmad Edited")
	c.SetField("birth_date", "2008-03-14")

	err := c.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, "student not found", c.ActionError())
	assert.Equal(t, form.ModeEdit, c.EditState().Mode, "modal stays open")
	assert.Equal(t, "Ahmad Edited", c.FieldValue("full_name"), "draft unchanged")
	assert.Equal(t, 1, mock.listCalls, "no reload on failed save")
}

func TestOpenCreateAfterEditResetsEditState(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.OpenEdit(context.Background(), "1"))
	require.Equal(t, "1", c.EditState().TargetID)
	require.NotEmpty(t, c.FieldValue("nis"))

	c.OpenCreate()
	assert.Equal(t, form.EditState{Mode: form.ModeCreate}, c.EditState())
	assert.Empty(t, c.FieldValue("nis"))
	assert.Empty(t, c.FieldValue("full_name"))
}

func TestDeleteWithoutConfirmationIssuesNoRequest(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.Delete(context.Background(), "1", func() bool { return false }))
	assert.Empty(t, mock.deleted)

	require.NoError(t, c.Delete(context.Background(), "1", nil))
	assert.Empty(t, mock.deleted)
}

func TestDeleteConfirmedReloads(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.Delete(context.Background(), "1", func() bool { return true }))
	assert.Equal(t, []string{"1"}, mock.deleted)
	assert.Equal(t, 2, mock.listCalls)
}

func TestDeleteFailureKeepsEntityListed(t *testing.T) {
	mock := &mockAPI{page: studentPage(), deleteErr: appErrors.New("SERVER_ERROR", 500, "boom")}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	err := c.Delete(context.Background(), "1", func() bool { return true })
	require.Error(t, err)
	assert.Equal(t, "boom", c.ActionError())
	assert.Len(t, c.VisibleItems(), 2, "no optimistic removal")
	assert.Equal(t, 1, mock.listCalls)
}

func TestSaveIgnoresReentrantSubmit(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	c.OpenCreate()
	c.SetField("nis", "2024009")
	c.SetField("full_name", "Rina Putri")
	c.SetField("gender", "F")
	c.SetField("birth_date", "2008-01-30")

	// second save fired while the first request is in flight must be ignored
	mock.onCreate = func() {
		inner := c.Save(context.Background())
		assert.NoError(t, inner)
	}
	require.NoError(t, c.Save(context.Background()))
	assert.Len(t, mock.created, 1)
}

func TestAuthExpiryIsNotShownInline(t *testing.T) {
	mock := &mockAPI{listErr: appErrors.Clone(appErrors.ErrAuthExpired, "")}
	c := newStudentController(mock)

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsAuthExpired(err))
	assert.Empty(t, c.LoadError(), "session expiry escalates, it is not an inline row error")
}

func TestOperationsAfterCloseAreNoOps(t *testing.T) {
	mock := &mockAPI{page: studentPage()}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	c.Close()
	assert.NoError(t, c.Load(context.Background()))
	assert.NoError(t, c.Save(context.Background()))
	assert.NoError(t, c.Delete(context.Background(), "1", func() bool { return true }))
	assert.Equal(t, 1, mock.listCalls)
	assert.Empty(t, mock.deleted)
}

func TestTaskTransformRunsBeforeSubmit(t *testing.T) {
	mock := &mockAPI{page: list.Page{}}
	fixed := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	c := New(schema.Task(), mock, nil, nil, WithClock(func() time.Time { return fixed }))

	c.OpenCreate()
	c.SetField("title", "Rekap nilai")
	c.SetField("progress", "100")
	c.SetField("start_date", "2026-08-01")

	require.NoError(t, c.Save(context.Background()))
	require.Len(t, mock.created, 1)
	assert.Equal(t, "2026-08-28", mock.created[0].String("completed_date"))
	assert.Equal(t, "DONE", mock.created[0].String("status"))
}

func TestPaginationBounds(t *testing.T) {
	page := studentPage()
	page.TotalPages = 1
	mock := &mockAPI{page: page}
	c := newStudentController(mock)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.NextPage(context.Background()))
	assert.Equal(t, 1, mock.listCalls, "no request past the last page")

	require.NoError(t, c.PrevPage(context.Background()))
	assert.Equal(t, 1, mock.listCalls, "no request before the first page")
}
